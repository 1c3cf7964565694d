package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"workout-tracker/internal/domain"
	"workout-tracker/internal/repository"
)

const sessionCollectionName = "sessions"

// mongoSessionRepository implements repository.SessionRepository.
type mongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new Session repository.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

// Create inserts a new session.
func (r *mongoSessionRepository) Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error) {
	if session.Name == "" {
		return primitive.NilObjectID, errors.New("session requires a name")
	}
	session.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now
	if session.Exercises == nil {
		session.Exercises = []domain.Exercise{}
	}

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted session ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single session by its ID.
func (r *mongoSessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error) {
	var session domain.Session
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// List returns sessions visible under the filter, newest first.
// Anonymous viewers see only public sessions; a viewer additionally sees
// their own private ones.
func (r *mongoSessionRepository) List(ctx context.Context, filter repository.ListFilter) ([]domain.Session, error) {
	query := bson.M{"isPublic": true}
	if filter.ViewerID != "" {
		query = bson.M{"$or": bson.A{
			bson.M{"userId": filter.ViewerID},
			bson.M{"isPublic": true},
		}}
	}
	if filter.Before != nil {
		query["date"] = bson.M{"$lt": *filter.Before}
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetLimit(repository.ClampLimit(filter.Limit))

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sessions := []domain.Session{}
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Replace saves the full session document. Last writer wins; there is no
// version check (see repository.SessionRepository).
func (r *mongoSessionRepository) Replace(ctx context.Context, session *domain.Session) error {
	if session.ID == primitive.NilObjectID {
		return errors.New("session ID is required for replace")
	}
	session.UpdatedAt = time.Now().UTC()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": session.ID}, session)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a session. Ownership is checked by the service layer so
// that "missing" and "not yours" surface as distinct errors.
func (r *mongoSessionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// InsertMany bulk-inserts seeded sessions.
func (r *mongoSessionRepository) InsertMany(ctx context.Context, sessions []domain.Session) (int, error) {
	if len(sessions) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, len(sessions))
	now := time.Now().UTC()
	for i := range sessions {
		if sessions[i].ID == primitive.NilObjectID {
			sessions[i].ID = primitive.NewObjectID()
		}
		sessions[i].CreatedAt = now
		sessions[i].UpdatedAt = now
		docs[i] = sessions[i]
	}
	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	return len(result.InsertedIDs), nil
}

// ListBySeedTag returns all sessions belonging to a seed batch.
func (r *mongoSessionRepository) ListBySeedTag(ctx context.Context, tag string) ([]domain.Session, error) {
	if tag == "" {
		return nil, errors.New("seed tag is required")
	}
	cursor, err := r.collection.Find(ctx, bson.M{"seedTag": tag})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sessions := []domain.Session{}
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// DeleteBySeedTag removes a prior seed batch so a rerun does not pile up
// duplicates.
func (r *mongoSessionRepository) DeleteBySeedTag(ctx context.Context, tag string) (int64, error) {
	if tag == "" {
		return 0, errors.New("seed tag is required")
	}
	result, err := r.collection.DeleteMany(ctx, bson.M{"seedTag": tag})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureSessionIndexes creates necessary indexes. Call during startup.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Listing sort and cursor pagination.
			Keys:    bson.D{{Key: "date", Value: -1}},
			Options: options.Index(),
		},
		{
			// Owner filter in the $or visibility query.
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index(),
		},
		{
			// Public feed filter.
			Keys:    bson.D{{Key: "isPublic", Value: 1}},
			Options: options.Index(),
		},
		{
			// Seed batch delete/list.
			Keys:    bson.D{{Key: "seedTag", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Index creation failure is non-fatal; queries still work unindexed.
	}
}
