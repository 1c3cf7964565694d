package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"workout-tracker/internal/domain"
	"workout-tracker/internal/repository/memory"
	"workout-tracker/internal/service"
)

func newService(t *testing.T) service.SessionService {
	t.Helper()
	return service.NewSessionService(memory.NewMemorySessionRepository())
}

func mustCreate(t *testing.T, svc service.SessionService, owner, name string, date time.Time, public bool) *domain.Session {
	t.Helper()
	s, err := svc.Create(context.Background(), owner, service.CreateSessionInput{
		Name:     name,
		Date:     &date,
		IsPublic: &public,
	})
	require.NoError(t, err)
	return s
}

func TestCreate_Defaults(t *testing.T) {
	svc := newService(t)

	before := time.Now().UTC()
	s, err := svc.Create(context.Background(), "u1", service.CreateSessionInput{Name: "Push Day"})
	require.NoError(t, err)

	assert.Equal(t, "Push Day", s.Name)
	assert.Equal(t, "u1", s.UserID)
	assert.True(t, s.IsPublic, "visibility should default to public")
	assert.NotNil(t, s.Exercises)
	assert.Empty(t, s.Exercises)
	assert.False(t, s.Date.Before(before), "date should default to creation time")
	assert.False(t, s.Date.After(time.Now().UTC().Add(time.Second)))
}

func TestCreate_RoundTrip(t *testing.T) {
	svc := newService(t)
	date := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

	created := mustCreate(t, svc, "u1", "Leg Day", date, false)

	listed, err := svc.List(context.Background(), "u1", nil, 0)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
	assert.Equal(t, "Leg Day", listed[0].Name)
	assert.True(t, listed[0].Date.Equal(date))
	assert.Empty(t, listed[0].Exercises)
}

func TestCreate_Validation(t *testing.T) {
	svc := newService(t)

	_, err := svc.Create(context.Background(), "u1", service.CreateSessionInput{Name: ""})
	assert.ErrorIs(t, err, service.ErrValidationFailed)

	_, err = svc.Create(context.Background(), "u1", service.CreateSessionInput{Name: strings.Repeat("x", 101)})
	assert.ErrorIs(t, err, service.ErrValidationFailed)

	_, err = svc.Create(context.Background(), "", service.CreateSessionInput{Name: "Push Day"})
	assert.ErrorIs(t, err, service.ErrValidationFailed)
}

func TestCreate_UserNameNormalization(t *testing.T) {
	svc := newService(t)

	s, err := svc.Create(context.Background(), "user-123456", service.CreateSessionInput{
		Name:     "Push Day",
		UserName: "  Alice ",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", s.UserName)

	s, err = svc.Create(context.Background(), "user-123456", service.CreateSessionInput{Name: "Pull Day"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", s.UserName, "empty display name falls back to truncated owner id")
}

func TestList_Visibility(t *testing.T) {
	svc := newService(t)
	now := time.Now().UTC()

	pub := mustCreate(t, svc, "u1", "Public Push", now, true)
	priv := mustCreate(t, svc, "u1", "Private Pull", now.Add(-time.Hour), false)
	mustCreate(t, svc, "u2", "Other Private", now.Add(-2*time.Hour), false)

	// Anonymous feed: only public sessions.
	anon, err := svc.List(context.Background(), "", nil, 0)
	require.NoError(t, err)
	require.Len(t, anon, 1)
	assert.Equal(t, pub.ID, anon[0].ID)

	// Owner sees the public feed plus their own private sessions.
	mine, err := svc.List(context.Background(), "u1", nil, 0)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, pub.ID, mine[0].ID)
	assert.Equal(t, priv.ID, mine[1].ID)

	// Another authenticated viewer still sees only public + their own.
	other, err := svc.List(context.Background(), "u3", nil, 0)
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, pub.ID, other[0].ID)
}

func TestList_CursorPagination(t *testing.T) {
	svc := newService(t)
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 25; i++ {
		mustCreate(t, svc, "u1", "Session", base.Add(time.Duration(i)*time.Hour), true)
	}

	seen := map[primitive.ObjectID]bool{}
	var cursor *time.Time
	var last time.Time
	pages := 0
	for {
		page, err := svc.List(context.Background(), "", cursor, 10)
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}
		require.LessOrEqual(t, len(page), 10)
		for _, s := range page {
			assert.False(t, seen[s.ID], "stitched pages must not repeat ids")
			seen[s.ID] = true
			if !last.IsZero() {
				assert.True(t, s.Date.Before(last) || s.Date.Equal(last), "global descending date order")
			}
			last = s.Date
			if cursor != nil {
				assert.True(t, s.Date.Before(*cursor), "cursor bound is strict")
			}
		}
		oldest := page[len(page)-1].Date
		cursor = &oldest
		pages++
		require.Less(t, pages, 10, "pagination must terminate")
	}
	assert.Len(t, seen, 25)
}

func TestList_LimitClamping(t *testing.T) {
	svc := newService(t)
	base := time.Now().UTC().Add(-100 * time.Hour)
	for i := 0; i < 60; i++ {
		mustCreate(t, svc, "u1", "Session", base.Add(time.Duration(i)*time.Minute), true)
	}

	page, err := svc.List(context.Background(), "", nil, 0)
	require.NoError(t, err)
	assert.Len(t, page, 10, "default limit is 10")

	page, err = svc.List(context.Background(), "", nil, 500)
	require.NoError(t, err)
	assert.Len(t, page, 50, "limit is hard-capped at 50")
}

func TestDelete_OwnershipAndIdempotency(t *testing.T) {
	svc := newService(t)
	s := mustCreate(t, svc, "u1", "Push Day", time.Now().UTC(), true)

	err := svc.Delete(context.Background(), "u2", s.ID)
	assert.ErrorIs(t, err, service.ErrNotOwner)

	// Still retrievable after the forbidden attempt.
	listed, err := svc.List(context.Background(), "", nil, 0)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.NoError(t, svc.Delete(context.Background(), "u1", s.ID))

	// Second delete reports not-found, not success.
	err = svc.Delete(context.Background(), "u1", s.ID)
	assert.ErrorIs(t, err, service.ErrSessionNotFound)

	err = svc.Delete(context.Background(), "u1", primitive.NewObjectID())
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
}

func TestAddExercise_ValidationBounds(t *testing.T) {
	svc := newService(t)
	s := mustCreate(t, svc, "u1", "Push Day", time.Now().UTC(), true)

	cases := []struct {
		name string
		ex   domain.Exercise
	}{
		{"empty title", domain.Exercise{Title: "", Sets: 3, Reps: 10, Weight: 100}},
		{"title too long", domain.Exercise{Title: strings.Repeat("x", 101), Sets: 3, Reps: 10, Weight: 100}},
		{"zero sets", domain.Exercise{Title: "Bench Press", Sets: 0, Reps: 10, Weight: 100}},
		{"too many sets", domain.Exercise{Title: "Bench Press", Sets: 51, Reps: 10, Weight: 100}},
		{"zero reps", domain.Exercise{Title: "Bench Press", Sets: 3, Reps: 0, Weight: 100}},
		{"too many reps", domain.Exercise{Title: "Bench Press", Sets: 3, Reps: 1001, Weight: 100}},
		{"negative weight", domain.Exercise{Title: "Bench Press", Sets: 3, Reps: 10, Weight: -1}},
		{"too heavy", domain.Exercise{Title: "Bench Press", Sets: 3, Reps: 10, Weight: 2001}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddExercise(context.Background(), "u1", s.ID, tc.ex)
			assert.ErrorIs(t, err, service.ErrValidationFailed)
		})
	}

	// Session untouched by rejected appends.
	got, err := svc.List(context.Background(), "u1", nil, 0)
	require.NoError(t, err)
	assert.Empty(t, got[0].Exercises)
}

func TestAddExercise_Ownership(t *testing.T) {
	svc := newService(t)
	s := mustCreate(t, svc, "u1", "Push Day", time.Now().UTC(), true)

	ex := domain.Exercise{Title: "Bench Press", Sets: 3, Reps: 8, Weight: 185}
	_, err := svc.AddExercise(context.Background(), "u2", s.ID, ex)
	assert.ErrorIs(t, err, service.ErrNotOwner)

	updated, err := svc.AddExercise(context.Background(), "u1", s.ID, ex)
	require.NoError(t, err)
	require.Len(t, updated.Exercises, 1)
	assert.Equal(t, "Bench Press", updated.Exercises[0].Title)
}

func TestRemoveExercise_AppendThenRemoveRoundTrip(t *testing.T) {
	svc := newService(t)
	s := mustCreate(t, svc, "u1", "Push Day", time.Now().UTC(), true)

	first := domain.Exercise{Title: "Bench Press", Sets: 3, Reps: 8, Weight: 185}
	_, err := svc.AddExercise(context.Background(), "u1", s.ID, first)
	require.NoError(t, err)
	updated, err := svc.AddExercise(context.Background(), "u1", s.ID, domain.Exercise{Title: "Cable Fly", Sets: 3, Reps: 12, Weight: 40})
	require.NoError(t, err)
	require.Len(t, updated.Exercises, 2)

	// Removing the appended index restores the prior list.
	updated, err = svc.RemoveExercise(context.Background(), "u1", s.ID, 1)
	require.NoError(t, err)
	require.Len(t, updated.Exercises, 1)
	assert.Equal(t, first, updated.Exercises[0])
}

func TestRemoveExercise_ShiftsIndices(t *testing.T) {
	svc := newService(t)
	s := mustCreate(t, svc, "u1", "Pull Day", time.Now().UTC(), true)

	titles := []string{"Deadlift", "Barbell Row", "Lat Pulldown"}
	for _, title := range titles {
		_, err := svc.AddExercise(context.Background(), "u1", s.ID, domain.Exercise{Title: title, Sets: 3, Reps: 8, Weight: 100})
		require.NoError(t, err)
	}

	updated, err := svc.RemoveExercise(context.Background(), "u1", s.ID, 0)
	require.NoError(t, err)
	require.Len(t, updated.Exercises, 2)
	assert.Equal(t, "Barbell Row", updated.Exercises[0].Title)
	assert.Equal(t, "Lat Pulldown", updated.Exercises[1].Title)
}

func TestRemoveExercise_IndexOutOfRange(t *testing.T) {
	svc := newService(t)
	s := mustCreate(t, svc, "u1", "Push Day", time.Now().UTC(), true)
	_, err := svc.AddExercise(context.Background(), "u1", s.ID, domain.Exercise{Title: "Bench Press", Sets: 3, Reps: 8, Weight: 185})
	require.NoError(t, err)

	_, err = svc.RemoveExercise(context.Background(), "u1", s.ID, -1)
	assert.ErrorIs(t, err, service.ErrInvalidIndex)
	_, err = svc.RemoveExercise(context.Background(), "u1", s.ID, 1)
	assert.ErrorIs(t, err, service.ErrInvalidIndex)
}

func TestUpdateExercise_PartialPatchAndClamping(t *testing.T) {
	svc := newService(t)
	s := mustCreate(t, svc, "u1", "Push Day", time.Now().UTC(), true)
	_, err := svc.AddExercise(context.Background(), "u1", s.ID, domain.Exercise{Title: "Bench Press", Sets: 3, Reps: 8, Weight: 185})
	require.NoError(t, err)

	sets := 0
	weight := 190.0
	updated, err := svc.UpdateExercise(context.Background(), "u1", s.ID, 0, service.ExercisePatch{
		Sets:   &sets,
		Weight: &weight,
	})
	require.NoError(t, err)
	require.Len(t, updated.Exercises, 1)

	ex := updated.Exercises[0]
	assert.Equal(t, "Bench Press", ex.Title, "absent fields keep their values")
	assert.Equal(t, 1, ex.Sets, "sets clamp to a minimum of 1")
	assert.Equal(t, 8, ex.Reps)
	assert.Equal(t, 190.0, ex.Weight)
}

func TestUpdateExercise_Errors(t *testing.T) {
	svc := newService(t)
	s := mustCreate(t, svc, "u1", "Push Day", time.Now().UTC(), true)
	_, err := svc.AddExercise(context.Background(), "u1", s.ID, domain.Exercise{Title: "Bench Press", Sets: 3, Reps: 8, Weight: 185})
	require.NoError(t, err)

	_, err = svc.UpdateExercise(context.Background(), "u2", s.ID, 0, service.ExercisePatch{})
	assert.ErrorIs(t, err, service.ErrNotOwner)

	_, err = svc.UpdateExercise(context.Background(), "u1", s.ID, 5, service.ExercisePatch{})
	assert.ErrorIs(t, err, service.ErrInvalidIndex)

	empty := " "
	_, err = svc.UpdateExercise(context.Background(), "u1", s.ID, 0, service.ExercisePatch{Title: &empty})
	assert.ErrorIs(t, err, service.ErrValidationFailed)

	negative := -10.0
	_, err = svc.UpdateExercise(context.Background(), "u1", s.ID, 0, service.ExercisePatch{Weight: &negative})
	assert.ErrorIs(t, err, service.ErrValidationFailed)
}
