package env

import (
	"math"

	"github.com/vovakirdan/neonride/internal/config"
)

// scriptedRand replays fixed values; exhausted queues return 0.
type scriptedRand struct {
	ints   []int
	floats []float64
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0] % n
	r.ints = r.ints[1:]
	return v
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func trainingCfg() *config.NeonRideConfig {
	cfg := config.DefaultTrainingConfig()
	return &cfg
}

func presentationCfg() *config.NeonRideConfig {
	cfg := config.DefaultPresentationConfig()
	return &cfg
}

// newTestEnv returns a reset env with the player moved to lane and the given obstacles placed.
func newTestEnv(cfg config.NeonRideConfig, lane Lane, obstacles ...Obstacle) *Env {
	e := NewSeeded(cfg, 1)
	e.player = lane
	for _, o := range obstacles {
		e.registry.Add(o)
	}
	e.last = e.encoder.Encode(e.registry, e.player)
	return e
}
