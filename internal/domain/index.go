package domain

// BuildWorkoutIndex maps every workout of the plan to its canonical calendar
// date. The index is what the month grid and the exporters share, so a
// workout can never render in one cell and sync to another.
//
// If two workouts canonicalize to the same date the later one in plan order
// wins. That is a data-quality problem upstream in the generator, not an
// engine error, so the index silently keeps last-write-wins semantics.
func BuildWorkoutIndex(weeks []Week) (map[CalendarDate]Workout, error) {
	index := make(map[CalendarDate]Workout)
	for _, week := range weeks {
		for _, workout := range week.Workouts {
			date, err := ParseCalendarDate(workout.Date)
			if err != nil {
				return nil, err
			}
			index[date] = workout
		}
	}
	return index, nil
}
