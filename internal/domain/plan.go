package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutType classifies a single day of the plan.
type WorkoutType string

const (
	WorkoutRest          WorkoutType = "Rest"
	WorkoutEasyRun       WorkoutType = "Easy Run"
	WorkoutLongRun       WorkoutType = "Long Run"
	WorkoutSpeedWork     WorkoutType = "Speed Work"
	WorkoutTempoRun      WorkoutType = "Tempo Run"
	WorkoutCrossTraining WorkoutType = "Cross Training"
	WorkoutRaceDay       WorkoutType = "Race Day"
)

// RaceType and SkillLevel values accepted in RequestParameters.
const (
	RaceMarathon     = "marathon"
	RaceHalfMarathon = "half-marathon"

	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
)

// workoutColors maps each workout type to the display color used by the
// calendar grid. Unmapped types fall back to white.
var workoutColors = map[WorkoutType]string{
	WorkoutRest:          "#e9ecef",
	WorkoutEasyRun:       "#d4edda",
	WorkoutLongRun:       "#cce5ff",
	WorkoutSpeedWork:     "#f8d7da",
	WorkoutTempoRun:      "#fff3cd",
	WorkoutCrossTraining: "#e2e3e5",
	WorkoutRaceDay:       "#d1ecf1",
}

// WorkoutColor returns the display color for a workout type.
func WorkoutColor(t WorkoutType) string {
	if c, ok := workoutColors[t]; ok {
		return c
	}
	return "#ffffff"
}

// Workout is a single scheduled session. Date is kept as the raw wire string
// (YYYY-MM-DD as produced by the generator); every consumer canonicalizes it
// through ParseCalendarDate before using it as a key or an event day.
type Workout struct {
	Date        string      `bson:"date" json:"date"`
	Day         string      `bson:"day" json:"day"` // lowercase weekday name
	Type        WorkoutType `bson:"type" json:"type"`
	Distance    *float64    `bson:"distance,omitempty" json:"distance,omitempty"` // miles
	Description string      `bson:"description" json:"description"`
	Intensity   string      `bson:"intensity" json:"intensity"`
}

// Week is one chronological week of the plan. Workouts are ordered by date
// ascending and StartDate is never after the first workout.
type Week struct {
	Number    int       `bson:"week" json:"week"`
	StartDate string    `bson:"startDate" json:"startDate"`
	Workouts  []Workout `bson:"workouts" json:"workouts"`
}

// RequestParameters are the race parameters a plan was generated from.
// They are immutable once the plan exists; editing them means regenerating.
type RequestParameters struct {
	RaceType     string   `bson:"raceType" json:"raceType"`
	SkillLevel   string   `bson:"skillLevel" json:"skillLevel"`
	RaceDate     string   `bson:"raceDate" json:"raceDate"` // YYYY-MM-DD
	LongRunDay   string   `bson:"longRunDay" json:"longRunDay"`
	TrainingDays []string `bson:"trainingDays" json:"trainingDays"`
}

// TrainingPlan is a generated plan owned by a runner. Weeks are contiguous,
// non-overlapping, and ordered week 1..N.
type TrainingPlan struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Params  RequestParameters  `bson:"params" json:"params"`
	Weeks   []Week             `bson:"weeks" json:"weeks"`
	// ExportKey is the object key of the most recently published ICS
	// export, empty if the plan was never published. Bookkeeping only,
	// not exposed over the API.
	ExportKey string    `bson:"exportKey,omitempty" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// TotalDistance sums the mileage of every running workout in the plan.
// Rest days and cross training do not count toward mileage.
func (p *TrainingPlan) TotalDistance() float64 {
	var total float64
	for _, week := range p.Weeks {
		for _, w := range week.Workouts {
			if w.Type == WorkoutRest || w.Type == WorkoutCrossTraining {
				continue
			}
			if w.Distance != nil {
				total += *w.Distance
			}
		}
	}
	return total
}
