// Package emaillog durably records every email send attempt, success or
// failure, with a truncated body preview.
package emaillog

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mandatpro/kommunalcrm/internal/app/store"
	"github.com/mandatpro/kommunalcrm/internal/domain/models"
)

// previewLen bounds the stored body preview.
const previewLen = 200

// Store manages the email_logs collection.
type Store struct {
	c *mongo.Collection
}

// New creates an email log Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("email_logs")}
}

// EnsureIndexes creates the send-time index used by Recent.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "sent_at", Value: -1}},
		Options: options.Index().SetName("idx_email_logs_sent_at"),
	})
	return err
}

// Record persists one send attempt. The body is truncated to its preview
// before it reaches the collection.
func (s *Store) Record(ctx context.Context, entry models.EmailLog, body string) error {
	entry.BodyPreview = Preview(body)
	if entry.SentAt == "" {
		entry.SentAt = store.NowISO()
	}
	_, err := s.c.InsertOne(ctx, entry)
	return err
}

// Recent returns the latest send attempts, newest first.
func (s *Store) Recent(ctx context.Context, limit int64) ([]models.EmailLog, error) {
	if limit <= 0 {
		limit = 50
	}
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "sent_at", Value: -1}}).
		SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.EmailLog
	for cur.Next(ctx) {
		var e models.EmailLog
		if err := cur.Decode(&e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, cur.Err()
}

// Preview truncates a body to the stored preview length.
func Preview(body string) string {
	if len(body) <= previewLen {
		return body
	}
	return body[:previewLen]
}
