package seed

import "time"

// Lift names the persona baseline a weight rule is derived from.
type Lift int

const (
	LiftBench Lift = iota
	LiftSquat
	LiftDeadlift
	LiftOverhead
	LiftBodyweight // always 0 on the bar
)

// WeightRule maps exercise titles (by lowercase substring match, first rule
// wins) to a fraction of a persona baseline. The factors are empirical
// gym-plausibility constants, carried as data so they can be tuned without
// touching the generator.
type WeightRule struct {
	Keywords []string
	Lift     Lift
	Factor   float64
}

// DayTemplate is one named workout in a split, with its exercise pool.
type DayTemplate struct {
	Name      string
	Exercises []string
}

// Plan is a weekly training split: which weekdays get a session and which
// template each training day cycles through. Bench anchor ranges set how
// strong personas on this plan tend to be.
type Plan struct {
	TrainingDays []time.Weekday
	Days         []DayTemplate
	BenchMin     int
	BenchMax     int
}

// Persona is one synthetic user to seed history for.
type Persona struct {
	UserID   string
	UserName string
	Plan     string
}

// DefaultPersonas returns the three demo users.
func DefaultPersonas() []Persona {
	return []Persona{
		{UserID: "ppl_alice", UserName: "alice", Plan: "ppl"},
		{UserID: "bro_bob", UserName: "bob", Plan: "bro"},
		{UserID: "women_jane", UserName: "jane", Plan: "women"},
	}
}

// DefaultPlans returns the built-in splits.
func DefaultPlans() map[string]Plan {
	return map[string]Plan{
		"ppl": {
			TrainingDays: []time.Weekday{time.Monday, time.Wednesday, time.Friday},
			BenchMin:     135, BenchMax: 205,
			Days: []DayTemplate{
				{Name: "Push Day", Exercises: []string{"Bench Press", "Overhead Press", "Incline DB Press", "Lateral Raise", "Triceps Pushdown", "Cable Fly"}},
				{Name: "Pull Day", Exercises: []string{"Deadlift", "Barbell Row", "Lat Pulldown", "Seated Cable Row", "Face Pull", "DB Curl"}},
				{Name: "Leg Day", Exercises: []string{"Back Squat", "Front Squat", "Leg Press", "Romanian Deadlift", "Leg Curl", "Calf Raise"}},
			},
		},
		"bro": {
			TrainingDays: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
			BenchMin:     185, BenchMax: 245,
			Days: []DayTemplate{
				{Name: "Chest & Triceps", Exercises: []string{"Bench Press", "Incline DB Press", "Cable Fly", "Skullcrusher", "Triceps Dip"}},
				{Name: "Back & Biceps", Exercises: []string{"Deadlift", "Barbell Row", "Lat Pulldown", "Seated Row", "EZ Bar Curl"}},
				{Name: "Shoulders", Exercises: []string{"Overhead Press", "Lateral Raise", "Rear Delt Fly", "Upright Row"}},
				{Name: "Legs", Exercises: []string{"Back Squat", "Leg Press", "Lunge", "Leg Curl", "Calf Raise"}},
				{Name: "Arms", Exercises: []string{"Close Grip Bench", "Cable Curl", "Triceps Pushdown", "Hammer Curl"}},
			},
		},
		"women": {
			TrainingDays: []time.Weekday{time.Tuesday, time.Thursday, time.Saturday},
			BenchMin:     55, BenchMax: 115,
			Days: []DayTemplate{
				{Name: "Glutes & Hamstrings", Exercises: []string{"Hip Thrust", "Romanian Deadlift", "Bulgarian Split Squat", "Cable Kickback", "Leg Curl"}},
				{Name: "Upper Body", Exercises: []string{"Incline DB Press", "Lat Pulldown", "Seated Row", "Lateral Raise", "Face Pull", "Triceps Pushdown"}},
				{Name: "Quads & Calves", Exercises: []string{"Back Squat", "Leg Press", "Leg Extension", "Walking Lunge", "Calf Raise"}},
			},
		},
	}
}

// DefaultWeightRules returns the ordered title-to-weight mapping. Specific
// rules must come before the generic ones they would otherwise shadow
// ("leg curl" before "curl", "bulgarian" before "squat").
func DefaultWeightRules() []WeightRule {
	return []WeightRule{
		{Keywords: []string{"pull-up", "pull up", "pullup", "push-up", "push up", "pushup", "dip"}, Lift: LiftBodyweight},

		{Keywords: []string{"close grip bench", "bench press"}, Lift: LiftBench, Factor: 1.0},
		{Keywords: []string{"overhead press", "shoulder press"}, Lift: LiftOverhead, Factor: 1.0},
		{Keywords: []string{"romanian deadlift", "rdl"}, Lift: LiftDeadlift, Factor: 0.80},
		{Keywords: []string{"deadlift"}, Lift: LiftDeadlift, Factor: 1.0},
		{Keywords: []string{"front squat"}, Lift: LiftSquat, Factor: 0.85},
		{Keywords: []string{"bulgarian"}, Lift: LiftSquat, Factor: 0.25},
		{Keywords: []string{"hip thrust"}, Lift: LiftSquat, Factor: 1.20},
		{Keywords: []string{"squat"}, Lift: LiftSquat, Factor: 1.0},
		{Keywords: []string{"barbell row"}, Lift: LiftBench, Factor: 0.80},
		{Keywords: []string{"seated row", "cable row"}, Lift: LiftBench, Factor: 0.65},
		{Keywords: []string{"lat pulldown"}, Lift: LiftBench, Factor: 0.65},
		{Keywords: []string{"upright row"}, Lift: LiftBench, Factor: 0.25},

		{Keywords: []string{"incline"}, Lift: LiftBench, Factor: 0.35},
		{Keywords: []string{"lateral raise"}, Lift: LiftBench, Factor: 0.10},
		{Keywords: []string{"rear delt"}, Lift: LiftBench, Factor: 0.12},
		{Keywords: []string{"skullcrusher"}, Lift: LiftBench, Factor: 0.25},
		{Keywords: []string{"pushdown"}, Lift: LiftBench, Factor: 0.25},
		{Keywords: []string{"hammer curl"}, Lift: LiftBench, Factor: 0.22},
		{Keywords: []string{"leg curl"}, Lift: LiftSquat, Factor: 0.35},
		{Keywords: []string{"curl"}, Lift: LiftBench, Factor: 0.18},
		{Keywords: []string{"fly", "flye"}, Lift: LiftBench, Factor: 0.30},

		{Keywords: []string{"leg press"}, Lift: LiftSquat, Factor: 1.80},
		{Keywords: []string{"leg extension"}, Lift: LiftSquat, Factor: 0.40},
		{Keywords: []string{"calf raise"}, Lift: LiftSquat, Factor: 0.60},
		{Keywords: []string{"lunge"}, Lift: LiftSquat, Factor: 0.20},
	}
}

// fallbackRule applies when no keyword matches: a light generic accessory.
var fallbackRule = WeightRule{Lift: LiftBench, Factor: 0.25}
