package physics

import (
	"slices"
	"testing"
)

func collect(g *SpatialGrid, p Vec2) []int {
	var found []int
	g.QueryAround(p, func(i int) bool {
		found = append(found, i)
		return false
	})
	slices.Sort(found)
	return found
}

func TestGridFindsNeighbors(t *testing.T) {
	g := NewSpatialGrid(800, 800, 70)
	g.Insert(Vec2{X: 100, Y: 100}, 0)
	g.Insert(Vec2{X: 160, Y: 150}, 1)
	g.Insert(Vec2{X: 600, Y: 600}, 2)

	got := collect(g, Vec2{X: 110, Y: 110})
	if !slices.Equal(got, []int{0, 1}) {
		t.Errorf("Expected [0 1], got %v", got)
	}
}

func TestGridClampsOffscreenItems(t *testing.T) {
	g := NewSpatialGrid(800, 800, 70)
	g.Insert(Vec2{X: -120, Y: 400}, 0)
	g.Insert(Vec2{X: 860, Y: 400}, 1)

	if got := collect(g, Vec2{X: 5, Y: 400}); !slices.Equal(got, []int{0}) {
		t.Errorf("Expected off-screen left item near the left edge, got %v", got)
	}
	if got := collect(g, Vec2{X: 795, Y: 400}); !slices.Equal(got, []int{1}) {
		t.Errorf("Expected off-screen right item near the right edge, got %v", got)
	}
}

func TestGridClearAndEarlyStop(t *testing.T) {
	g := NewSpatialGrid(100, 100, 50)
	for i := 0; i < 5; i++ {
		g.Insert(Vec2{X: 10, Y: 10}, i)
	}

	calls := 0
	g.QueryAround(Vec2{X: 10, Y: 10}, func(int) bool {
		calls++
		return true
	})
	if calls != 1 {
		t.Errorf("Expected iteration to stop after first item, got %d calls", calls)
	}

	g.Clear()
	if got := collect(g, Vec2{X: 10, Y: 10}); len(got) != 0 {
		t.Errorf("Expected empty grid after Clear, got %v", got)
	}
}
