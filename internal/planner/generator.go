package planner

import (
	"log"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"runplan/marathon-planner/internal/domain"
)

// generator holds the resolved parameters for one plan generation run.
type generator struct {
	cfg          TrainingConfig
	raceType     string // normalized, hyphenated
	longRunDay   string // lowercase weekday name
	trainingDays []string
	raceDate     domain.CalendarDate
	startDate    domain.CalendarDate
}

// GeneratePlan builds the full week-by-week training plan for the given race
// parameters. Weeks are returned in chronological order, 1..N.
func GeneratePlan(params domain.RequestParameters) ([]domain.Week, error) {
	cfg, err := configFor(params.RaceType, params.SkillLevel)
	if err != nil {
		return nil, err
	}
	raceDate, err := domain.ParseCalendarDate(params.RaceDate)
	if err != nil {
		return nil, err
	}

	days := make([]string, len(params.TrainingDays))
	for i, d := range params.TrainingDays {
		days[i] = strings.ToLower(d)
	}

	g := &generator{
		cfg:          cfg,
		raceType:     strings.ReplaceAll(params.RaceType, "_", "-"),
		longRunDay:   strings.ToLower(params.LongRunDay),
		trainingDays: days,
		raceDate:     raceDate,
	}
	g.startDate = g.calculateStartDate()
	log.Printf("Generating plan: race %s, %d weeks, starting %s", g.raceDate, cfg.TotalWeeks, g.startDate)

	weeks := make([]domain.Week, 0, cfg.TotalWeeks)
	for week := 1; week <= cfg.TotalWeeks; week++ {
		weeks = append(weeks, g.generateWeek(week))
	}
	return weeks, nil
}

// calculateStartDate walks back (totalWeeks-1)*7 days from race day.
// Sunday races get six extra days so race week starts after the previous
// week instead of overlapping it.
func (g *generator) calculateStartDate() domain.CalendarDate {
	daysBack := (g.cfg.TotalWeeks - 1) * 7
	if g.raceDate.Weekday() == time.Sunday {
		daysBack += 6
	}
	return g.raceDate.AddDays(-daysBack)
}

// weekStartDate returns the first day of the given week. Race week starts
// on the Sunday before race day rather than on the regular weekly boundary.
func (g *generator) weekStartDate(week int) domain.CalendarDate {
	if week == g.cfg.TotalWeeks {
		// Days back to the previous Sunday, counting Monday as 0.
		raceWeekday := (int(g.raceDate.Weekday()) + 6) % 7
		daysBack := (raceWeekday - 6) % 7
		if daysBack < 0 {
			daysBack += 7
		}
		if daysBack == 0 {
			daysBack = 7
		}
		return g.raceDate.AddDays(-daysBack)
	}
	return g.startDate.AddDays((week - 1) * 7)
}

func (g *generator) isTrainingDay(dayName string) bool {
	if dayName == g.longRunDay {
		// The long run day always counts as a training day.
		return true
	}
	return g.isListedTrainingDay(dayName)
}

func (g *generator) isListedTrainingDay(dayName string) bool {
	for _, d := range g.trainingDays {
		if d == dayName {
			return true
		}
	}
	return false
}

// workoutNumber is the position of the day within the user's training days,
// or -1 if the day is not listed. It decides which session type lands where.
func (g *generator) workoutNumber(dayName string) int {
	for i, d := range g.trainingDays {
		if d == dayName {
			return i
		}
	}
	return -1
}

func (g *generator) taperLongRun(week int) float64 {
	weeksIntoTaper := week - g.cfg.TaperStartWeek + 1
	reduction := math.Pow(0.7, float64(weeksIntoTaper))
	return float64(g.cfg.PeakLongRun) * reduction
}

// longRunDistance grows linearly from the starting distance to the peak,
// reaching the peak in the week before the taper begins.
func (g *generator) longRunDistance(week int) int {
	if week >= g.cfg.TaperStartWeek {
		return ceil(g.taperLongRun(week))
	}
	progression := float64(week-1) / float64(g.cfg.TaperStartWeek-1)
	distance := float64(g.cfg.StartingLongRun) +
		float64(g.cfg.PeakLongRun-g.cfg.StartingLongRun)*progression
	return ceil(math.Min(distance, float64(g.cfg.PeakLongRun)))
}

// generateWorkout produces the session for one day, or a rest day.
// Race week only schedules easy shakeout runs on the originally listed
// training days; the long run day loses its special meaning that week.
func (g *generator) generateWorkout(dayName string, week int, isTaperWeek, isRaceWeek bool) domain.Workout {
	if isRaceWeek {
		if g.isListedTrainingDay(dayName) {
			return domain.Workout{
				Type:        domain.WorkoutEasyRun,
				Distance:    miles(2),
				Description: "Easy shakeout run",
				Intensity:   "Very Easy",
			}
		}
		return restDay()
	}

	if isTaperWeek {
		if dayName == g.longRunDay {
			d := ceil(g.taperLongRun(week))
			return domain.Workout{
				Type:        domain.WorkoutLongRun,
				Distance:    miles(float64(d)),
				Description: "Taper long run - " + itoa(d) + " miles",
				Intensity:   "Easy",
			}
		}
		if g.isTrainingDay(dayName) {
			return domain.Workout{
				Type:        domain.WorkoutEasyRun,
				Distance:    miles(3),
				Description: "Easy run",
				Intensity:   "Easy",
			}
		}
		return restDay()
	}

	if dayName == g.longRunDay {
		d := g.longRunDistance(week)
		return domain.Workout{
			Type:        domain.WorkoutLongRun,
			Distance:    miles(float64(d)),
			Description: "Long run - " + itoa(d) + " miles",
			Intensity:   "Easy to Moderate",
		}
	}

	if g.isTrainingDay(dayName) {
		return g.generateRegularWorkout(dayName, week)
	}
	return restDay()
}

// generateRegularWorkout assigns speed work to the second listed training day
// and a tempo run to the third once speed work has started; everything else
// is an easy run that grows slowly over the plan.
func (g *generator) generateRegularWorkout(dayName string, week int) domain.Workout {
	hasSpeedWork := week >= g.cfg.SpeedWorkStartWeek
	number := g.workoutNumber(dayName)

	if hasSpeedWork && number == 1 {
		return domain.Workout{
			Type:        domain.WorkoutSpeedWork,
			Distance:    miles(4),
			Description: "Intervals: 6x800m with 400m recovery",
			Intensity:   "Hard",
		}
	}
	if hasSpeedWork && number == 2 {
		return domain.Workout{
			Type:        domain.WorkoutTempoRun,
			Distance:    miles(5),
			Description: "Tempo run: 2 miles at tempo pace",
			Intensity:   "Moderate to Hard",
		}
	}

	easyDistance := 3 + week/4
	return domain.Workout{
		Type:        domain.WorkoutEasyRun,
		Distance:    miles(float64(easyDistance)),
		Description: "Easy run",
		Intensity:   "Easy",
	}
}

func (g *generator) generateWeek(week int) domain.Week {
	isTaperWeek := week >= g.cfg.TaperStartWeek
	isRaceWeek := week == g.cfg.TotalWeeks
	weekStart := g.weekStartDate(week)

	out := domain.Week{
		Number:    week,
		StartDate: weekStart.String(),
		Workouts:  []domain.Workout{},
	}

	if isRaceWeek {
		// Race week covers every day through race day, rest days included.
		// Sunday races span 8 days because the week starts on the previous
		// Sunday.
		maxDays := 7
		if g.raceDate.Weekday() == time.Sunday {
			maxDays = 8
		}

		for dayIndex := 0; dayIndex < maxDays; dayIndex++ {
			date := weekStart.AddDays(dayIndex)
			dayName := strings.ToLower(date.Weekday().String())

			if date == g.raceDate {
				raceDistance := 26.2
				if g.raceType != domain.RaceMarathon {
					raceDistance = 13.1
				}
				out.Workouts = append(out.Workouts, domain.Workout{
					Date:        date.String(),
					Day:         dayName,
					Type:        domain.WorkoutRaceDay,
					Distance:    miles(raceDistance),
					Description: "Race Day!",
					Intensity:   "Race",
				})
				continue
			}

			w := g.generateWorkout(dayName, week, isTaperWeek, isRaceWeek)
			w.Date = date.String()
			w.Day = dayName
			out.Workouts = append(out.Workouts, w)
		}

		sort.Slice(out.Workouts, func(i, j int) bool {
			return out.Workouts[i].Date < out.Workouts[j].Date
		})
		return out
	}

	// Regular weeks only schedule the listed training days (plus the long
	// run day); the rest of the week simply has no entry.
	for dayIndex := 0; dayIndex < 7; dayIndex++ {
		date := weekStart.AddDays(dayIndex)
		dayName := strings.ToLower(date.Weekday().String())
		if !g.isTrainingDay(dayName) {
			continue
		}
		w := g.generateWorkout(dayName, week, isTaperWeek, isRaceWeek)
		w.Date = date.String()
		w.Day = dayName
		out.Workouts = append(out.Workouts, w)
	}
	return out
}

func restDay() domain.Workout {
	return domain.Workout{
		Type:        domain.WorkoutRest,
		Description: "Rest",
		Intensity:   "Rest",
	}
}

func ceil(x float64) int {
	return int(math.Ceil(x))
}

func miles(d float64) *float64 {
	return &d
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
