package planner

import (
	"fmt"
	"strings"

	"runplan/marathon-planner/internal/domain"
)

// TrainingConfig describes the shape of a plan for one race type and skill
// level: how long it runs, how the long run progresses, and when speed work
// and the taper begin.
type TrainingConfig struct {
	TotalWeeks         int
	StartingLongRun    int // miles
	PeakLongRun        int // miles
	WeeklyRuns         int
	SpeedWorkStartWeek int
	TaperStartWeek     int
}

// trainingConfigs is keyed by race type, then skill level.
var trainingConfigs = map[string]map[string]TrainingConfig{
	domain.RaceMarathon: {
		domain.SkillBeginner: {
			TotalWeeks:         10,
			StartingLongRun:    6,
			PeakLongRun:        20,
			WeeklyRuns:         4,
			SpeedWorkStartWeek: 6,
			TaperStartWeek:     8,
		},
		domain.SkillIntermediate: {
			TotalWeeks:         18,
			StartingLongRun:    8,
			PeakLongRun:        22,
			WeeklyRuns:         5,
			SpeedWorkStartWeek: 4,
			TaperStartWeek:     15,
		},
		domain.SkillAdvanced: {
			TotalWeeks:         16,
			StartingLongRun:    10,
			PeakLongRun:        22,
			WeeklyRuns:         6,
			SpeedWorkStartWeek: 2,
			TaperStartWeek:     13,
		},
	},
	domain.RaceHalfMarathon: {
		domain.SkillBeginner: {
			TotalWeeks:         12,
			StartingLongRun:    3,
			PeakLongRun:        10,
			WeeklyRuns:         3,
			SpeedWorkStartWeek: 4,
			TaperStartWeek:     10,
		},
		domain.SkillIntermediate: {
			TotalWeeks:         10,
			StartingLongRun:    4,
			PeakLongRun:        12,
			WeeklyRuns:         4,
			SpeedWorkStartWeek: 3,
			TaperStartWeek:     8,
		},
		domain.SkillAdvanced: {
			TotalWeeks:         10,
			StartingLongRun:    5,
			PeakLongRun:        12,
			WeeklyRuns:         5,
			SpeedWorkStartWeek: 2,
			TaperStartWeek:     8,
		},
	},
}

// configFor resolves the training config for the given parameters.
// Race types arriving with underscores (form encoding) are normalized to the
// hyphenated canonical value.
func configFor(raceType, skillLevel string) (TrainingConfig, error) {
	raceType = strings.ReplaceAll(raceType, "_", "-")
	levels, ok := trainingConfigs[raceType]
	if !ok {
		return TrainingConfig{}, fmt.Errorf("unknown race type %q", raceType)
	}
	cfg, ok := levels[skillLevel]
	if !ok {
		return TrainingConfig{}, fmt.Errorf("unknown skill level %q", skillLevel)
	}
	return cfg, nil
}
