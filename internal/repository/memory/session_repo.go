// Package memory provides an in-memory SessionRepository with the same
// query semantics as the MongoDB implementation. It backs unit tests and
// can serve as a throwaway store for local experiments.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"workout-tracker/internal/domain"
	"workout-tracker/internal/repository"
)

type memorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[primitive.ObjectID]domain.Session
}

// NewMemorySessionRepository creates an empty in-memory repository.
func NewMemorySessionRepository() repository.SessionRepository {
	return &memorySessionRepository{
		sessions: make(map[primitive.ObjectID]domain.Session),
	}
}

func (r *memorySessionRepository) Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now
	if session.Exercises == nil {
		session.Exercises = []domain.Exercise{}
	}
	r.sessions[session.ID] = cloneSession(*session)
	return session.ID, nil
}

func (r *memorySessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	s = cloneSession(s)
	return &s, nil
}

func (r *memorySessionRepository) List(ctx context.Context, filter repository.ListFilter) ([]domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []domain.Session{}
	for _, s := range r.sessions {
		visible := s.IsPublic || (filter.ViewerID != "" && s.UserID == filter.ViewerID)
		if !visible {
			continue
		}
		if filter.Before != nil && !s.Date.Before(*filter.Before) {
			continue
		}
		matched = append(matched, cloneSession(s))
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Date.After(matched[j].Date)
	})

	limit := int(repository.ClampLimit(filter.Limit))
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *memorySessionRepository) Replace(ctx context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[session.ID]; !ok {
		return repository.ErrNotFound
	}
	session.UpdatedAt = time.Now().UTC()
	r.sessions[session.ID] = cloneSession(*session)
	return nil
}

func (r *memorySessionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *memorySessionRepository) InsertMany(ctx context.Context, sessions []domain.Session) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for i := range sessions {
		s := cloneSession(sessions[i])
		if s.ID == primitive.NilObjectID {
			s.ID = primitive.NewObjectID()
		}
		s.CreatedAt = now
		s.UpdatedAt = now
		r.sessions[s.ID] = s
	}
	return len(sessions), nil
}

func (r *memorySessionRepository) ListBySeedTag(ctx context.Context, tag string) ([]domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []domain.Session{}
	for _, s := range r.sessions {
		if s.SeedTag == tag {
			matched = append(matched, cloneSession(s))
		}
	}
	return matched, nil
}

func (r *memorySessionRepository) DeleteBySeedTag(ctx context.Context, tag string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for id, s := range r.sessions {
		if s.SeedTag == tag {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// cloneSession copies a session deeply enough that callers cannot mutate
// the stored exercise slice through a returned pointer.
func cloneSession(s domain.Session) domain.Session {
	exercises := make([]domain.Exercise, len(s.Exercises))
	copy(exercises, s.Exercises)
	s.Exercises = exercises
	return s
}
