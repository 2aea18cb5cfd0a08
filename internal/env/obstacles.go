package env

import "sort"

// Obstacle is a single block approaching the player.
type Obstacle struct {
	Lane   Lane    // Lane the obstacle occupies
	Depth  float64 // Distance from the viewer, decreasing every tick
	Scored bool    // Set once the obstacle has been passed outside the player's lane
}

// Registry holds the live obstacles. It is owned by one Env and never aliased:
// every accessor that exposes obstacles returns copies.
type Registry struct {
	obstacles []Obstacle
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{obstacles: make([]Obstacle, 0, 8)}
}

// Reset removes every obstacle.
func (r *Registry) Reset() {
	r.obstacles = r.obstacles[:0]
}

// Add inserts an obstacle.
func (r *Registry) Add(o Obstacle) {
	r.obstacles = append(r.obstacles, o)
}

// Len returns the number of live obstacles.
func (r *Registry) Len() int {
	return len(r.obstacles)
}

// Advance moves every obstacle speed units closer.
func (r *Registry) Advance(speed float64) {
	for i := range r.obstacles {
		r.obstacles[i].Depth -= speed
	}
}

// Purge removes every obstacle at or below the near horizon and returns how many were removed.
func (r *Registry) Purge(nearHorizon float64) int {
	kept := r.obstacles[:0]
	for _, o := range r.obstacles {
		if o.Depth > nearHorizon {
			kept = append(kept, o)
		}
	}
	removed := len(r.obstacles) - len(kept)
	r.obstacles = kept
	return removed
}

// OccupiedLanes returns the lanes holding an obstacle with depth in the open interval (lo, hi).
func (r *Registry) OccupiedLanes(lo, hi float64) LaneSet {
	var s LaneSet
	for _, o := range r.obstacles {
		if o.Depth > lo && o.Depth < hi {
			s.Add(o.Lane)
		}
	}
	return s
}

// OccupiedBeyond returns the lanes holding an obstacle deeper than depth.
func (r *Registry) OccupiedBeyond(depth float64) LaneSet {
	var s LaneSet
	for _, o := range r.obstacles {
		if o.Depth > depth {
			s.Add(o.Lane)
		}
	}
	return s
}

// LaneOccupied reports whether lane holds an obstacle with depth in (lo, hi).
func (r *Registry) LaneOccupied(lane Lane, lo, hi float64) bool {
	for _, o := range r.obstacles {
		if o.Lane == lane && o.Depth > lo && o.Depth < hi {
			return true
		}
	}
	return false
}

// AnyWithin reports whether any obstacle has depth in (lo, hi).
func (r *Registry) AnyWithin(lo, hi float64) bool {
	for _, o := range r.obstacles {
		if o.Depth > lo && o.Depth < hi {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the obstacles ordered far to near, the order they are drawn in.
func (r *Registry) Snapshot() []Obstacle {
	out := make([]Obstacle, len(r.obstacles))
	copy(out, r.obstacles)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Depth > out[j].Depth
	})
	return out
}

// Nearest returns copies of up to n obstacles ordered near to far.
func (r *Registry) Nearest(n int) []Obstacle {
	out := make([]Obstacle, len(r.obstacles))
	copy(out, r.obstacles)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Depth < out[j].Depth
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// each calls fn with a pointer to every live obstacle so the evaluator can flip Scored in place.
func (r *Registry) each(fn func(o *Obstacle)) {
	for i := range r.obstacles {
		fn(&r.obstacles[i])
	}
}
