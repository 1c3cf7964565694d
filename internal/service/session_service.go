package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"workout-tracker/internal/domain"
	"workout-tracker/internal/repository"
)

// --- Error Definitions ---
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrNotOwner         = errors.New("not owner")
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidIndex     = errors.New("invalid exercise index")
)

// Validation bounds, matching what clients were always held to.
const (
	MaxNameLen  = 100
	MaxTitleLen = 100
	MaxSets     = 50
	MaxReps     = 1000
	MaxWeight   = 2000
)

// ExercisePatch carries a partial exercise update; nil fields are left
// unchanged.
type ExercisePatch struct {
	Title  *string
	Sets   *int
	Reps   *int
	Weight *float64
}

// CreateSessionInput are the caller-supplied fields for a new session.
// Date defaults to now, IsPublic to true.
type CreateSessionInput struct {
	Name     string
	Date     *time.Time
	UserName string
	IsPublic *bool
}

// SessionService enforces ownership, visibility and validation rules over
// the session store.
type SessionService interface {
	List(ctx context.Context, viewerID string, before *time.Time, limit int64) ([]domain.Session, error)
	Create(ctx context.Context, ownerID string, input CreateSessionInput) (*domain.Session, error)
	Delete(ctx context.Context, callerID string, id primitive.ObjectID) error
	AddExercise(ctx context.Context, callerID string, id primitive.ObjectID, exercise domain.Exercise) (*domain.Session, error)
	RemoveExercise(ctx context.Context, callerID string, id primitive.ObjectID, index int) (*domain.Session, error)
	UpdateExercise(ctx context.Context, callerID string, id primitive.ObjectID, index int, patch ExercisePatch) (*domain.Session, error)
}

type sessionService struct {
	sessionRepo repository.SessionRepository
}

// NewSessionService creates a new instance of sessionService.
func NewSessionService(sessionRepo repository.SessionRepository) SessionService {
	return &sessionService{sessionRepo: sessionRepo}
}

// List returns the feed visible to viewerID (public sessions, plus the
// viewer's own when viewerID is set), newest first. Read-only and safe to
// call anonymously.
func (s *sessionService) List(ctx context.Context, viewerID string, before *time.Time, limit int64) ([]domain.Session, error) {
	return s.sessionRepo.List(ctx, repository.ListFilter{
		ViewerID: viewerID,
		Before:   before,
		Limit:    limit,
	})
}

// Create makes a new session owned by ownerID with an empty exercise list.
func (s *sessionService) Create(ctx context.Context, ownerID string, input CreateSessionInput) (*domain.Session, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrValidationFailed)
	}
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > MaxNameLen {
		return nil, fmt.Errorf("%w: name must be 1-%d characters", ErrValidationFailed, MaxNameLen)
	}

	date := time.Now().UTC()
	if input.Date != nil {
		date = input.Date.UTC()
	}
	isPublic := true
	if input.IsPublic != nil {
		isPublic = *input.IsPublic
	}

	session := &domain.Session{
		Name:      name,
		Date:      date,
		UserID:    ownerID,
		UserName:  NormalizeUserName(input.UserName, ownerID),
		IsPublic:  isPublic,
		Exercises: []domain.Exercise{},
	}

	id, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		return nil, err
	}
	session.ID = id
	return session, nil
}

// Delete removes a session after the ownership check. Deleting an already
// deleted id reports not-found, not success.
func (s *sessionService) Delete(ctx context.Context, callerID string, id primitive.ObjectID) error {
	if _, err := s.getOwned(ctx, callerID, id); err != nil {
		return err
	}
	err := s.sessionRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrSessionNotFound
	}
	return err
}

// AddExercise validates and appends an exercise to the owner's session,
// returning the updated session.
func (s *sessionService) AddExercise(ctx context.Context, callerID string, id primitive.ObjectID, exercise domain.Exercise) (*domain.Session, error) {
	if err := validateExercise(exercise); err != nil {
		return nil, err
	}
	session, err := s.getOwned(ctx, callerID, id)
	if err != nil {
		return nil, err
	}
	session.Exercises = append(session.Exercises, exercise)
	return s.save(ctx, session)
}

// RemoveExercise splices the exercise at index out of the owner's session.
// Later entries shift down by one; indices are not stable across
// concurrent mutation of the same session.
func (s *sessionService) RemoveExercise(ctx context.Context, callerID string, id primitive.ObjectID, index int) (*domain.Session, error) {
	session, err := s.getOwned(ctx, callerID, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(session.Exercises) {
		return nil, ErrInvalidIndex
	}
	session.Exercises = append(session.Exercises[:index], session.Exercises[index+1:]...)
	return s.save(ctx, session)
}

// UpdateExercise applies the fields present in patch to the exercise at
// index; unspecified fields keep their prior values. Sets and reps are
// clamped to a minimum of 1. The whole updated session is returned so
// clients reconcile against a canonical snapshot.
func (s *sessionService) UpdateExercise(ctx context.Context, callerID string, id primitive.ObjectID, index int, patch ExercisePatch) (*domain.Session, error) {
	session, err := s.getOwned(ctx, callerID, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(session.Exercises) {
		return nil, ErrInvalidIndex
	}

	ex := &session.Exercises[index]
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" || len(title) > MaxTitleLen {
			return nil, fmt.Errorf("%w: title must be 1-%d characters", ErrValidationFailed, MaxTitleLen)
		}
		ex.Title = title
	}
	if patch.Sets != nil {
		ex.Sets = atLeastOne(*patch.Sets)
	}
	if patch.Reps != nil {
		ex.Reps = atLeastOne(*patch.Reps)
	}
	if patch.Weight != nil {
		if *patch.Weight < 0 {
			return nil, fmt.Errorf("%w: weight must not be negative", ErrValidationFailed)
		}
		ex.Weight = *patch.Weight
	}
	return s.save(ctx, session)
}

// getOwned fetches the session and verifies callerID owns it.
func (s *sessionService) getOwned(ctx context.Context, callerID string, id primitive.ObjectID) (*domain.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if !session.IsOwnedBy(callerID) {
		return nil, ErrNotOwner
	}
	return session, nil
}

// save persists the full document. The fetch-mutate-replace cycle means
// two concurrent mutations of the same session race; the last writer's
// snapshot wins. Accepted for single-owner lists with low write traffic.
func (s *sessionService) save(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	if err := s.sessionRepo.Replace(ctx, session); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

func validateExercise(ex domain.Exercise) error {
	title := strings.TrimSpace(ex.Title)
	switch {
	case title == "" || len(title) > MaxTitleLen:
		return fmt.Errorf("%w: title must be 1-%d characters", ErrValidationFailed, MaxTitleLen)
	case ex.Sets < 1 || ex.Sets > MaxSets:
		return fmt.Errorf("%w: sets must be 1-%d", ErrValidationFailed, MaxSets)
	case ex.Reps < 1 || ex.Reps > MaxReps:
		return fmt.Errorf("%w: reps must be 1-%d", ErrValidationFailed, MaxReps)
	case ex.Weight < 0 || ex.Weight > MaxWeight:
		return fmt.Errorf("%w: weight must be 0-%d", ErrValidationFailed, MaxWeight)
	}
	return nil
}

// NormalizeUserName applies the single display-name policy: trim and
// lowercase, falling back to a truncated owner id when nothing is left.
func NormalizeUserName(userName, ownerID string) string {
	name := strings.ToLower(strings.TrimSpace(userName))
	if name != "" {
		return name
	}
	if len(ownerID) > 6 {
		return ownerID[:6]
	}
	return ownerID
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
