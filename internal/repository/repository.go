package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"workout-tracker/internal/domain"
)

// Error constants for the repository layer.
var (
	ErrNotFound = RepositoryError("not found")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// DefaultListLimit and MaxListLimit bound session listings. A request
// without a limit gets DefaultListLimit; no request may exceed MaxListLimit.
const (
	DefaultListLimit = 10
	MaxListLimit     = 50
)

// ListFilter narrows and pages a session listing.
type ListFilter struct {
	// ViewerID, when non-empty, widens the result from "public only" to
	// "public or owned by the viewer".
	ViewerID string
	// Before, when set, restricts to sessions dated strictly earlier.
	// Each page's oldest date is the next page's cursor.
	Before *time.Time
	// Limit caps the page size. Zero or negative means DefaultListLimit;
	// values above MaxListLimit are clamped down.
	Limit int64
}

// SessionRepository defines the interface for interacting with session data.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error)
	// List returns sessions matching filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]domain.Session, error)
	// Replace persists the whole document. Exercise mutations are
	// read-modify-write cycles through this method; concurrent writers to
	// the same session can lose updates, matching the legacy behavior.
	Replace(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Seeder batch operations.
	InsertMany(ctx context.Context, sessions []domain.Session) (int, error)
	ListBySeedTag(ctx context.Context, tag string) ([]domain.Session, error)
	DeleteBySeedTag(ctx context.Context, tag string) (int64, error)
}

// ClampLimit normalizes a requested page size per ListFilter.Limit rules.
func ClampLimit(limit int64) int64 {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
