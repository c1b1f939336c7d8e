package layout

import (
	"fmt"
	"testing"
)

func TestChooseStrategyProjectManagementWins(t *testing.T) {
	t.Parallel()

	sources := []SourceProfile{
		{PrimaryCategory: "Project Management"},
		{PrimaryCategory: "Project Management"},
		{PrimaryCategory: "Personal"},
		{PrimaryCategory: "Health"},
		{PrimaryCategory: "Errands"},
	}
	if got := ChooseStrategy(sources); got != StrategyWorkflow {
		t.Fatalf("ChooseStrategy() = %s, want workflow", got)
	}
}

func TestChooseStrategyTaskHeavyPicksHierarchy(t *testing.T) {
	t.Parallel()

	sources := []SourceProfile{
		{TaskHeavy: true},
		{TaskHeavy: true},
		{TaskHeavy: false},
	}
	if got := ChooseStrategy(sources); got != StrategyHierarchy {
		t.Fatalf("ChooseStrategy() = %s, want hierarchy", got)
	}
}

func TestChooseStrategyLargeMixedBatchClusters(t *testing.T) {
	t.Parallel()

	// 13 sources, no category repeated, none task-heavy.
	sources := make([]SourceProfile, 0, 13)
	for i := 0; i < 13; i++ {
		sources = append(sources, SourceProfile{PrimaryCategory: fmt.Sprintf("topic-%d", i)})
	}
	if got := ChooseStrategy(sources); got != StrategyCluster {
		t.Fatalf("ChooseStrategy() = %s, want cluster", got)
	}
}

func TestChooseStrategyDefaultsToGrid(t *testing.T) {
	t.Parallel()

	sources := []SourceProfile{
		{PrimaryCategory: "Personal"},
		{PrimaryCategory: "Work"},
	}
	if got := ChooseStrategy(sources); got != StrategyGrid {
		t.Fatalf("ChooseStrategy() = %s, want grid", got)
	}
	if got := ChooseStrategy(nil); got != StrategyGrid {
		t.Fatalf("ChooseStrategy(nil) = %s, want grid", got)
	}
}

func TestProfileUnitsComplexityClamped(t *testing.T) {
	t.Parallel()

	unit := ContentUnit{
		Category: "Work",
		Body:     string(make([]byte, 5000)),
		Sections: []string{"a", "b", "c", "d", "e", "f"},
	}
	got := ProfileUnits([]ContentUnit{unit})
	if got[0].Complexity > 10 || got[0].Complexity < 1 {
		t.Fatalf("complexity out of range: %d", got[0].Complexity)
	}
}
