// Package seed synthesizes plausible workout history for demo personas.
// Each persona gets a fixed strength profile, a weekly split schedule over
// a backwards-looking window, and per-exercise weights derived from that
// profile through the rule table in plans.go.
package seed

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"workout-tracker/internal/domain"
	"workout-tracker/internal/repository"
	"workout-tracker/internal/service"
)

// DefaultWindowDays is how far back generated history reaches.
const DefaultWindowDays = 45

// Profile is a persona's working-set baseline for the main lifts.
// It is generated once per persona and held constant across that persona's
// sessions so progressions stay plausible.
type Profile struct {
	Bench    float64
	Squat    float64
	Deadlift float64
	Overhead float64
}

func (p Profile) lift(l Lift) float64 {
	switch l {
	case LiftSquat:
		return p.Squat
	case LiftDeadlift:
		return p.Deadlift
	case LiftOverhead:
		return p.Overhead
	case LiftBodyweight:
		return 0
	default:
		return p.Bench
	}
}

// Options controls one generation run.
type Options struct {
	WindowDays int       // days of history; DefaultWindowDays when <= 0
	Tag        string    // batch tag for idempotent reseeding
	Public     bool      // visibility of generated sessions
	Now        time.Time // zero means time.Now()
}

// Generator produces seeded sessions from a deterministic random source.
type Generator struct {
	rng   *rand.Rand
	plans map[string]Plan
	rules []WeightRule
}

// NewGenerator creates a generator with the built-in plans and weight
// rules. The same rngSeed reproduces the same batch.
func NewGenerator(rngSeed int64) *Generator {
	return &Generator{
		rng:   rand.New(rand.NewSource(rngSeed)),
		plans: DefaultPlans(),
		rules: DefaultWeightRules(),
	}
}

// Profile rolls a strength profile for a plan: a bench anchor inside the
// plan's range, with squat/deadlift/overhead derived by the classic
// ratios, all rounded to 5.
func (g *Generator) Profile(plan Plan) Profile {
	bench := round5(float64(g.intn(plan.BenchMin, plan.BenchMax)))
	return Profile{
		Bench:    bench,
		Squat:    round5(bench*1.25 + float64(g.intn(-10, 10))),
		Deadlift: round5(bench*1.60 + float64(g.intn(-15, 15))),
		Overhead: round5(bench*0.60 + float64(g.intn(-5, 5))),
	}
}

// WeightFor maps an exercise title to a working-set weight for the given
// profile: first matching rule, rounded to 5, with a small session-to-
// session jitter. Bodyweight movements get 0.
func (g *Generator) WeightFor(title string, p Profile) float64 {
	rule := fallbackRule
	lower := strings.ToLower(title)
	for _, r := range g.rules {
		if matches(lower, r.Keywords) {
			rule = r
			break
		}
	}
	if rule.Lift == LiftBodyweight {
		return 0
	}
	w := round5(p.lift(rule.Lift)*rule.Factor) + g.jitter()
	return math.Max(0, w)
}

// Sessions generates the full history for one persona: the plan's training
// weekdays inside the window, cycling through the split's day templates,
// never dated in the future.
func (g *Generator) Sessions(persona Persona, opts Options) ([]domain.Session, error) {
	plan, ok := g.plans[persona.Plan]
	if !ok {
		return nil, fmt.Errorf("unknown plan %q", persona.Plan)
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	windowDays := opts.WindowDays
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	profile := g.Profile(plan)
	userName := service.NormalizeUserName(persona.UserName, persona.UserID)

	var sessions []domain.Session
	cycle := 0
	start := now.AddDate(0, 0, -windowDays)
	for day := start; !day.After(now); day = day.AddDate(0, 0, 1) {
		if !trainingDay(plan, day.Weekday()) {
			continue
		}
		tmpl := plan.Days[cycle%len(plan.Days)]
		cycle++

		date := time.Date(day.Year(), day.Month(), day.Day(), g.intn(6, 20), g.intn(0, 59), 0, 0, time.UTC)
		if date.After(now) {
			date = now
		}

		sessions = append(sessions, domain.Session{
			Name:      tmpl.Name,
			Date:      date,
			UserID:    persona.UserID,
			UserName:  userName,
			IsPublic:  opts.Public,
			Exercises: g.pickExercises(tmpl, profile),
			SeedTag:   opts.Tag,
		})
	}
	return sessions, nil
}

// Batch generates sessions for every persona.
func (g *Generator) Batch(personas []Persona, opts Options) ([]domain.Session, error) {
	var all []domain.Session
	for _, p := range personas {
		sessions, err := g.Sessions(p, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, sessions...)
	}
	return all, nil
}

// pickExercises samples 3-5 movements from the template and fills in sets,
// reps and weight. Heavy compounds get 6-8 reps, accessories 10-12.
func (g *Generator) pickExercises(tmpl DayTemplate, profile Profile) []domain.Exercise {
	titles := make([]string, len(tmpl.Exercises))
	copy(titles, tmpl.Exercises)
	g.rng.Shuffle(len(titles), func(i, j int) {
		titles[i], titles[j] = titles[j], titles[i]
	})

	n := g.intn(3, 5)
	if n > len(titles) {
		n = len(titles)
	}

	exercises := make([]domain.Exercise, 0, n)
	for _, title := range titles[:n] {
		reps := g.intn(10, 12)
		if isHeavy(title) {
			reps = g.intn(6, 8)
		}
		exercises = append(exercises, domain.Exercise{
			Title:  title,
			Sets:   g.intn(3, 5),
			Reps:   reps,
			Weight: g.WeightFor(title, profile),
		})
	}
	return exercises
}

// intn returns a uniform integer in [min, max].
func (g *Generator) intn(min, max int) int {
	return min + g.rng.Intn(max-min+1)
}

// jitter returns -5, 0 or +5 so weights stay on 5-unit plates.
func (g *Generator) jitter() float64 {
	return float64(g.rng.Intn(3)-1) * 5
}

func round5(n float64) float64 {
	return math.Round(n/5) * 5
}

func matches(lowerTitle string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lowerTitle, kw) {
			return true
		}
	}
	return false
}

func isHeavy(title string) bool {
	return matches(strings.ToLower(title), []string{"deadlift", "squat", "bench", "press", "row"})
}

func trainingDay(plan Plan, wd time.Weekday) bool {
	for _, d := range plan.TrainingDays {
		if d == wd {
			return true
		}
	}
	return false
}

// Runner applies a generated batch to the session store.
type Runner struct {
	repo repository.SessionRepository
	gen  *Generator
}

// NewRunner wires a generator to a repository.
func NewRunner(repo repository.SessionRepository, gen *Generator) *Runner {
	return &Runner{repo: repo, gen: gen}
}

// Run reseeds: when opts.Tag is set, the previous batch with that tag is
// deleted first so repeat runs do not accumulate duplicates. Returns the
// number of inserted and removed sessions.
func (r *Runner) Run(ctx context.Context, personas []Persona, opts Options) (inserted int, removed int64, err error) {
	if opts.Tag != "" {
		removed, err = r.repo.DeleteBySeedTag(ctx, opts.Tag)
		if err != nil {
			return 0, 0, err
		}
	}
	batch, err := r.gen.Batch(personas, opts)
	if err != nil {
		return 0, removed, err
	}
	inserted, err = r.repo.InsertMany(ctx, batch)
	return inserted, removed, err
}
