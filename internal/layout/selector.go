package layout

import "strings"

// SourceProfile summarizes one import source for strategy selection.
// Complexity is a 1..10 estimate of how much structure the source carries.
type SourceProfile struct {
	PrimaryCategory string
	TaskHeavy       bool
	Complexity      int
}

// ChooseStrategy picks a placement strategy from content heuristics:
// workflow when over a third of the sources read as project management,
// hierarchy when over half are task-heavy, cluster for large mixed batches,
// grid otherwise.
func ChooseStrategy(sources []SourceProfile) Strategy {
	if len(sources) == 0 {
		return StrategyGrid
	}

	projectCount := 0
	taskHeavyCount := 0
	for _, src := range sources {
		if strings.Contains(strings.ToLower(src.PrimaryCategory), "project management") {
			projectCount++
		}
		if src.TaskHeavy {
			taskHeavyCount++
		}
	}

	switch {
	case projectCount*3 > len(sources):
		return StrategyWorkflow
	case taskHeavyCount*2 > len(sources):
		return StrategyHierarchy
	case len(sources) > 10:
		return StrategyCluster
	default:
		return StrategyGrid
	}
}

// ProfileUnits derives selection profiles from already-built content units,
// used when the import path has no richer source metadata.
func ProfileUnits(units []ContentUnit) []SourceProfile {
	profiles := make([]SourceProfile, 0, len(units))
	for _, unit := range units {
		taskHeavy := len(unit.Tasks) > 5 || len(unit.Tasks) > len(unit.Sections)
		complexity := 1 + len(unit.Sections) + len(unit.Tasks)/3 + len(unit.Body)/400
		if complexity > 10 {
			complexity = 10
		}
		profiles = append(profiles, SourceProfile{
			PrimaryCategory: unit.Category,
			TaskHeavy:       taskHeavy,
			Complexity:      complexity,
		})
	}
	return profiles
}
