// Package meetingstore provides reminder-oriented queries over the two
// meeting collections. Generic CRUD on meetings goes through the documents
// store; this package only covers what the reminder scheduler needs.
package meetingstore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mandatpro/kommunalcrm/internal/app/store"
	"github.com/mandatpro/kommunalcrm/internal/domain/models"
)

// Collections holding schedulable meetings.
var Collections = []string{"meetings", "fraction_meetings"}

// Due is one meeting inside the reminder window.
type Due struct {
	Collection string
	ID         primitive.ObjectID
	Meeting    models.Meeting
}

// Store queries meeting collections.
type Store struct {
	db *mongo.Database
}

// New creates a meeting store.
func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

// DueForReminder returns meetings in both collections whose date falls
// lexically within [from, to] and that have not been reminded yet. Dates
// are stored as UTC ISO-8601 strings, so the string range comparison
// matches chronological order.
func (s *Store) DueForReminder(ctx context.Context, from, to string) ([]Due, error) {
	filter := bson.M{
		"date":          bson.M{"$gte": from, "$lte": to},
		"reminder_sent": bson.M{"$ne": true},
	}

	var due []Due
	for _, coll := range Collections {
		cur, err := s.db.Collection(coll).Find(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("find due meetings in %s: %w", coll, err)
		}
		var batch []models.Meeting
		if err := cur.All(ctx, &batch); err != nil {
			return nil, fmt.Errorf("decode due meetings in %s: %w", coll, err)
		}
		for _, m := range batch {
			due = append(due, Due{Collection: coll, ID: m.ID, Meeting: m})
		}
	}
	return due, nil
}

// MarkReminded flags a meeting as reminded with the send timestamp.
func (s *Store) MarkReminded(ctx context.Context, collection string, id primitive.ObjectID) error {
	_, err := s.db.Collection(collection).UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"reminder_sent":    true,
			"reminder_sent_at": store.NowISO(),
		},
	})
	if err != nil {
		return fmt.Errorf("mark meeting reminded: %w", err)
	}
	return nil
}
