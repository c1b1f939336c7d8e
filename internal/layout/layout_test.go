package layout

import (
	"fmt"
	"math"
	"testing"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultConfig())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return engine
}

func makeUnits(n int) []ContentUnit {
	units := make([]ContentUnit, 0, n)
	for i := 0; i < n; i++ {
		units = append(units, ContentUnit{
			Title:    fmt.Sprintf("Unit %d", i+1),
			Category: fmt.Sprintf("cat-%d", i%3),
			Body:     "body text",
		})
	}
	return units
}

func TestLayoutEmptyInput(t *testing.T) {
	t.Parallel()

	engine := testEngine(t)
	for _, strategy := range []Strategy{StrategyGrid, StrategyHierarchy, StrategyWorkflow, StrategyCluster} {
		got := engine.Layout(nil, strategy, Point{})
		if len(got) != 0 {
			t.Fatalf("Layout(nil, %s) = %d placements, want 0", strategy, len(got))
		}
	}
}

func TestLayoutPositionsAreDistinct(t *testing.T) {
	t.Parallel()

	engine := testEngine(t)
	for _, strategy := range []Strategy{StrategyGrid, StrategyHierarchy, StrategyWorkflow, StrategyCluster} {
		for _, n := range []int{2, 5, 13} {
			placed := engine.Layout(makeUnits(n), strategy, Point{X: 400, Y: 300})
			if len(placed) != n {
				t.Fatalf("%s: got %d placements, want %d", strategy, len(placed), n)
			}
			seen := map[Point]int{}
			for i, p := range placed {
				if prev, dup := seen[p.Position]; dup {
					t.Fatalf("%s n=%d: units %d and %d share position %+v", strategy, n, prev, i, p.Position)
				}
				seen[p.Position] = i
			}
		}
	}
}

func TestLayoutDegenerateSingleCategory(t *testing.T) {
	t.Parallel()

	engine := testEngine(t)
	units := []ContentUnit{{Title: "a"}, {Title: "b"}, {Title: "c"}}
	placed := engine.Layout(units, StrategyCluster, Point{})
	seen := map[Point]bool{}
	for _, p := range placed {
		if seen[p.Position] {
			t.Fatalf("duplicate position %+v under single-bucket input", p.Position)
		}
		seen[p.Position] = true
	}
}

func TestLayoutMainUnitsDoNotOverlap(t *testing.T) {
	t.Parallel()

	engine := testEngine(t)
	for _, strategy := range []Strategy{StrategyGrid, StrategyHierarchy, StrategyWorkflow, StrategyCluster} {
		units := makeUnits(12)
		for i := range units {
			units[i].Sections = []string{"one", "two"}
		}
		placed := engine.Layout(units, strategy, Point{X: 100, Y: 100})
		for i := 0; i < len(placed); i++ {
			for j := i + 1; j < len(placed); j++ {
				if engine.Overlaps(placed[i], placed[j]) {
					t.Fatalf("%s: units %d and %d overlap (%+v vs %+v)",
						strategy, i, j, placed[i].Position, placed[j].Position)
				}
			}
		}
	}
}

func TestLayoutIsDeterministic(t *testing.T) {
	t.Parallel()

	engine := testEngine(t)
	units := makeUnits(7)
	first := engine.Layout(units, StrategyCluster, Point{X: 50, Y: 75})
	second := engine.Layout(units, StrategyCluster, Point{X: 50, Y: 75})
	for i := range first {
		if first[i].Position != second[i].Position {
			t.Fatalf("unit %d moved between identical runs: %+v vs %+v", i, first[i].Position, second[i].Position)
		}
	}
}

func TestLayoutChildPositionsMatchSections(t *testing.T) {
	t.Parallel()

	engine := testEngine(t)
	units := []ContentUnit{
		{Title: "parent", Sections: []string{"s1", "s2", "s3", "s4"}},
		{Title: "leaf"},
	}
	for _, strategy := range []Strategy{StrategyGrid, StrategyHierarchy, StrategyWorkflow, StrategyCluster} {
		placed := engine.Layout(units, strategy, Point{})
		if got := len(placed[0].ChildPositions); got != 4 {
			t.Fatalf("%s: parent got %d child positions, want 4", strategy, got)
		}
		if got := len(placed[1].ChildPositions); got != 0 {
			t.Fatalf("%s: leaf got %d child positions, want 0", strategy, got)
		}
		seen := map[Point]bool{}
		for _, child := range placed[0].ChildPositions {
			if seen[child] {
				t.Fatalf("%s: duplicate child position %+v", strategy, child)
			}
			seen[child] = true
		}
	}
}

func TestNewEngineRejectsBadDimensions(t *testing.T) {
	t.Parallel()

	bad := []Config{
		{NoteWidth: 0, NoteHeight: 220, Spacing: 40},
		{NoteWidth: 280, NoteHeight: -1, Spacing: 40},
		{NoteWidth: 280, NoteHeight: 220, Spacing: 0},
	}
	for _, cfg := range bad {
		if _, err := NewEngine(cfg); err == nil {
			t.Fatalf("NewEngine(%+v) accepted invalid dimensions", cfg)
		}
	}
}

func TestLayoutPanicsOnNaNAnchor(t *testing.T) {
	t.Parallel()

	engine := testEngine(t)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for NaN anchor")
		}
	}()
	engine.Layout(makeUnits(1), StrategyGrid, Point{X: math.NaN()})
}

func TestGridIsRowMajorAndCentered(t *testing.T) {
	t.Parallel()

	engine := testEngine(t)
	placed := engine.Layout(makeUnits(4), StrategyGrid, Point{X: 0, Y: 0})

	// 4 units -> 2 columns; first row should straddle the anchor.
	if placed[0].Position.X >= placed[1].Position.X {
		t.Fatalf("expected left-to-right placement, got %+v then %+v", placed[0].Position, placed[1].Position)
	}
	if placed[0].Position.Y != placed[1].Position.Y {
		t.Fatalf("first row should share a Y coordinate: %+v vs %+v", placed[0].Position, placed[1].Position)
	}
	if placed[2].Position.Y <= placed[0].Position.Y {
		t.Fatalf("second row should sit below the first: %+v vs %+v", placed[2].Position, placed[0].Position)
	}
	mid := (placed[0].Position.X + placed[1].Position.X) / 2
	if math.Abs(mid) > 0.01 {
		t.Fatalf("first row should be centered on the anchor, midpoint = %g", mid)
	}
}

func TestWorkflowFlowsLeftToRight(t *testing.T) {
	t.Parallel()

	engine := testEngine(t)
	placed := engine.Layout(makeUnits(5), StrategyWorkflow, Point{})
	for i := 1; i < len(placed); i++ {
		if placed[i].Position.X <= placed[i-1].Position.X {
			t.Fatalf("workflow stage %d does not advance: %+v vs %+v", i, placed[i].Position, placed[i-1].Position)
		}
		if placed[i].Position.Y != placed[0].Position.Y {
			t.Fatalf("workflow stages should share a baseline, stage %d at %+v", i, placed[i].Position)
		}
	}
}
