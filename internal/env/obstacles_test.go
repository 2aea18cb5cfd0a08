package env

import "testing"

func TestRegistryAdvanceAndPurge(t *testing.T) {
	r := NewRegistry()
	r.Add(Obstacle{Lane: LaneLeft, Depth: 5})
	r.Add(Obstacle{Lane: LaneCenter, Depth: 1.05})
	r.Add(Obstacle{Lane: LaneRight, Depth: 1.1})

	r.Advance(0.1)

	removed := r.Purge(1)
	if removed != 2 {
		t.Errorf("Purge removed %d obstacles, want 2", removed)
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
	if got := r.Snapshot()[0].Depth; !approxEqual(got, 4.9) {
		t.Errorf("remaining depth = %f, want 4.9", got)
	}
}

func TestRegistryPurgeBoundaryIsInclusive(t *testing.T) {
	r := NewRegistry()
	r.Add(Obstacle{Lane: LaneLeft, Depth: 1})
	r.Add(Obstacle{Lane: LaneLeft, Depth: 1.0001})

	r.Purge(1)

	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
	if r.Snapshot()[0].Depth <= 1 {
		t.Error("obstacle at the near horizon should have been purged")
	}
}

func TestRegistryOccupiedLanesOpenInterval(t *testing.T) {
	r := NewRegistry()
	r.Add(Obstacle{Lane: LaneLeft, Depth: 2})    // on the boundary, excluded
	r.Add(Obstacle{Lane: LaneCenter, Depth: 3})  // inside
	r.Add(Obstacle{Lane: LaneRight, Depth: 6})   // on the boundary, excluded
	r.Add(Obstacle{Lane: LaneRight, Depth: 5.9}) // inside

	s := r.OccupiedLanes(2, 6)
	if s.Has(LaneLeft) {
		t.Error("depth 2 should not be inside (2, 6)")
	}
	if !s.Has(LaneCenter) || !s.Has(LaneRight) {
		t.Errorf("expected center and right occupied, got %v", s)
	}
	if s.Len() != 2 || s.Full() {
		t.Errorf("Len() = %d, Full() = %v", s.Len(), s.Full())
	}
}

func TestRegistryQueries(t *testing.T) {
	r := NewRegistry()
	r.Add(Obstacle{Lane: LaneCenter, Depth: 7})
	r.Add(Obstacle{Lane: LaneRight, Depth: 14})

	beyond := r.OccupiedBeyond(6)
	if beyond.Has(LaneLeft) || !beyond.Has(LaneCenter) || !beyond.Has(LaneRight) {
		t.Errorf("OccupiedBeyond(6) = %v", beyond)
	}
	if !r.LaneOccupied(LaneRight, 13, 16) {
		t.Error("right lane should be occupied in (13, 16)")
	}
	if r.LaneOccupied(LaneCenter, 13, 16) {
		t.Error("center lane should not be occupied in (13, 16)")
	}
	if !r.AnyWithin(6, 9) {
		t.Error("expected an obstacle in (6, 9)")
	}
	if r.AnyWithin(8, 13) {
		t.Error("expected no obstacle in (8, 13)")
	}
}

func TestRegistryOrderingAndCopies(t *testing.T) {
	r := NewRegistry()
	r.Add(Obstacle{Lane: LaneLeft, Depth: 8})
	r.Add(Obstacle{Lane: LaneCenter, Depth: 3})
	r.Add(Obstacle{Lane: LaneRight, Depth: 12})

	snap := r.Snapshot()
	if snap[0].Depth != 12 || snap[2].Depth != 3 {
		t.Errorf("Snapshot should be far to near, got %v", snap)
	}

	near := r.Nearest(2)
	if len(near) != 2 || near[0].Depth != 3 || near[1].Depth != 8 {
		t.Errorf("Nearest(2) = %v", near)
	}

	// Mutating copies must not touch the registry
	near[0].Depth = 100
	snap[0].Scored = true
	for _, o := range r.Snapshot() {
		if o.Depth == 100 || o.Scored {
			t.Fatal("registry was aliased by a returned copy")
		}
	}
}

func TestRegistryEmpty(t *testing.T) {
	r := NewRegistry()
	r.Advance(0.1)
	if r.Purge(1) != 0 {
		t.Error("purging an empty registry should remove nothing")
	}
	if r.OccupiedLanes(0, 100).Len() != 0 {
		t.Error("empty registry should occupy no lanes")
	}
	if len(r.Nearest(5)) != 0 || len(r.Snapshot()) != 0 {
		t.Error("empty registry should return empty copies")
	}
}

func TestLaneMove(t *testing.T) {
	cases := []struct {
		from Lane
		a    Action
		want Lane
	}{
		{LaneCenter, ActionLeft, LaneLeft},
		{LaneCenter, ActionRight, LaneRight},
		{LaneLeft, ActionLeft, LaneLeft},
		{LaneRight, ActionRight, LaneRight},
		{LaneLeft, ActionStay, LaneLeft},
		{LaneCenter, Action(9), LaneCenter},
	}
	for _, c := range cases {
		if got := c.from.Move(c.a); got != c.want {
			t.Errorf("Lane(%d).Move(%v) = %d, want %d", c.from, c.a, got, c.want)
		}
	}
}
