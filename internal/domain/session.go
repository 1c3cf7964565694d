package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise is one logged movement inside a session. Exercises carry no
// identity of their own; they are addressed by their position in the
// session's list, so indices shift when earlier entries are removed.
type Exercise struct {
	Title  string  `bson:"title" json:"title"`
	Sets   int     `bson:"sets" json:"sets"`
	Reps   int     `bson:"reps" json:"reps"`
	Weight float64 `bson:"weight" json:"weight"`
}

// Session is a single logged workout occasion.
// UserID is set at creation and never reassigned; legacy anonymous
// documents may have it empty.
type Session struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Date      time.Time          `bson:"date" json:"date"`
	UserID    string             `bson:"userId,omitempty" json:"userId,omitempty"`
	UserName  string             `bson:"userName,omitempty" json:"userName,omitempty"`
	IsPublic  bool               `bson:"isPublic" json:"isPublic"`
	Exercises []Exercise         `bson:"exercises" json:"exercises"`
	SeedTag   string             `bson:"seedTag,omitempty" json:"-"` // set only on generated demo data
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsOwnedBy reports whether userID is the session's owner.
func (s *Session) IsOwnedBy(userID string) bool {
	return s.UserID != "" && s.UserID == userID
}
