package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/neonride/internal/registry"
	"github.com/vovakirdan/neonride/internal/storage"
)

const (
	boardRowLimit = 100
	boardChrome   = 8 // Rows taken by title, tab strip, table border and help
)

// Board IDs that are not game IDs.
const (
	episodesBoardID = "__episodes"
	statsBoardID    = "__policy_stats"
)

var (
	boardFrame    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("99")).Padding(0, 1)
	boardEmpty    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(2, 4)
	boardTabOn    = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("201")).Bold(true).Padding(0, 1)
	boardTabOff   = lipgloss.NewStyle().Foreground(lipgloss.Color("61")).Padding(0, 1)
	boardHelpText = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// board is one scoreboard tab: its heading, columns and row source.
type board struct {
	id      string
	tab     string
	heading string
	columns []table.Column
	empty   string
	rows    func(*storage.Store) ([]table.Row, error)
}

// boards lists one high-score tab per registered ride, then the agent tabs.
func boards() []board {
	var out []board
	for _, g := range registry.List() {
		out = append(out, scoreBoard(g))
	}
	return append(out, statsBoard(), episodesBoard())
}

func scoreBoard(g registry.GameInfo) board {
	return board{
		id:      g.ID,
		tab:     g.Title,
		heading: "HIGH SCORES - " + g.Title,
		columns: []table.Column{{Title: "Rank", Width: 6}, {Title: "Score", Width: 10}, {Title: "Date", Width: 16}},
		empty:   "No scores recorded yet.\nRide to set a high score!",
		rows: func(s *storage.Store) ([]table.Row, error) {
			scores, err := s.TopScores(g.ID, boardRowLimit)
			rows := make([]table.Row, len(scores))
			for i, e := range scores {
				rows[i] = table.Row{"#" + strconv.Itoa(i+1), strconv.Itoa(e.Score), e.CreatedAt.Format("Jan 02 15:04")}
			}
			return rows, err
		},
	}
}

func statsBoard() board {
	return board{
		id:      statsBoardID,
		tab:     "Policies",
		heading: "POLICY STATS",
		columns: []table.Column{
			{Title: "Policy", Width: 10}, {Title: "Profile", Width: 13}, {Title: "Runs", Width: 6},
			{Title: "Mean reward", Width: 12}, {Title: "Best score", Width: 10},
		},
		empty: "No episodes recorded yet.\nRun an agent with --save to fill this in.",
		rows: func(s *storage.Store) ([]table.Row, error) {
			stats, err := s.GetPolicyStats()
			rows := make([]table.Row, len(stats))
			for i, p := range stats {
				rows[i] = table.Row{p.Policy, string(p.Profile), strconv.Itoa(p.Episodes),
					fmt.Sprintf("%.2f", p.MeanReward), strconv.Itoa(p.MaxScore)}
			}
			return rows, err
		},
	}
}

func episodesBoard() board {
	return board{
		id:      episodesBoardID,
		tab:     "Episodes",
		heading: "AGENT EPISODES",
		columns: []table.Column{
			{Title: "Policy", Width: 10}, {Title: "Profile", Width: 13}, {Title: "Score", Width: 7},
			{Title: "Reward", Width: 9}, {Title: "Ticks", Width: 7}, {Title: "End", Width: 10},
		},
		empty: "No episodes recorded yet.\nRun an agent with --save to fill this in.",
		rows: func(s *storage.Store) ([]table.Row, error) {
			eps, err := s.RecentEpisodes("", boardRowLimit)
			rows := make([]table.Row, len(eps))
			for i, e := range eps {
				rows[i] = table.Row{e.Policy, string(e.Profile), strconv.Itoa(e.Score),
					fmt.Sprintf("%.2f", e.TotalReward), strconv.Itoa(e.Ticks), string(e.EndReason)}
			}
			return rows, err
		},
	}
}

// scoreboardKeys are the scoreboard bindings; they double as the help bar.
type scoreboardKeys struct {
	Scroll key.Binding
	Next   key.Binding
	Prev   key.Binding
	Back   key.Binding
	Quit   key.Binding
}

func (k scoreboardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Scroll, k.Next, k.Prev, k.Back, k.Quit}
}

func (k scoreboardKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func newScoreboardKeys() scoreboardKeys {
	return scoreboardKeys{
		Scroll: key.NewBinding(key.WithKeys("up", "down", "k", "j"), key.WithHelp("↑/↓", "scroll")),
		Next:   key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab/→", "next board")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab/←", "prev board")),
		Back:   key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel browses high scores and recorded agent runs.
type ScoreboardModel struct {
	boards    []board
	cursor    int
	store     *storage.Store
	rows      []table.Row
	table     table.Model
	help      help.Model
	keys      scoreboardKeys
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel opens the scoreboard on the first ride's high scores.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		boards: boards(),
		store:  store,
		help:   help.New(),
		keys:   newScoreboardKeys(),
		width:  width,
		height: height,
	}
	m.load()
	return m
}

func (m *ScoreboardModel) current() board {
	return m.boards[m.cursor]
}

// load refills the table from the selected board. A missing store or a
// failed query leaves the board empty.
func (m *ScoreboardModel) load() {
	m.rows = nil
	if m.store != nil {
		if rows, err := m.current().rows(m.store); err == nil {
			m.rows = rows
		}
	}
	m.rebuildTable()
}

// rebuildTable sizes the selected board's columns to the window. The last
// column takes whatever width is left.
func (m *ScoreboardModel) rebuildTable() {
	cols := append([]table.Column(nil), m.current().columns...)
	used := 0
	for _, c := range cols[:len(cols)-1] {
		used += c.Width + 2
	}
	if spare := m.width - 8 - used; spare > cols[len(cols)-1].Width {
		cols[len(cols)-1].Width = min(spare, 24)
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("99")).BorderBottom(true).Bold(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("231")).Background(lipgloss.Color("201")).Bold(false)

	m.table = table.New(
		table.WithColumns(cols),
		table.WithRows(m.rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-boardChrome, 3)),
		table.WithStyles(styles),
	)
}

// move selects the board delta tabs away, wrapping at both ends.
func (m *ScoreboardModel) move(delta int) {
	n := len(m.boards)
	m.cursor = ((m.cursor+delta)%n + n) % n
	m.load()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles board switching, scrolling and resizes.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.move(1)
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.move(-1)
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.rebuildTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the heading, the tab strip and the selected board.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	body := m.table.View()
	if len(m.rows) == 0 {
		body = boardEmpty.Render(m.current().empty)
	}

	var b strings.Builder
	b.WriteString(menuTitleStyle.Render(centerText(m.current().heading, m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.tabStrip(), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(boardFrame.Render(body), m.width))
	b.WriteString("\n")
	b.WriteString(boardHelpText.Render(m.help.View(m.keys)))
	return b.String()
}

// tabStrip lists every board, collapsing to the selected one when the
// strip does not fit the window.
func (m ScoreboardModel) tabStrip() string {
	tabs := make([]string, len(m.boards))
	for i, bd := range m.boards {
		style := boardTabOff
		if i == m.cursor {
			style = boardTabOn
		}
		tabs[i] = style.Render(bd.tab)
	}
	strip := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if lipgloss.Width(strip) > m.width-4 {
		return boardTabOn.Render("‹ " + m.current().tab + " ›")
	}
	return strip
}

// IsGoingBack reports whether the user asked to return to the menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting reports whether the user asked to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard full screen and reports whether the
// user went back to the menu rather than quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	final, err := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(ScoreboardModel)
	return ok && m.IsGoingBack(), nil
}
