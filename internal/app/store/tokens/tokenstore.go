// Package tokenstore persists session tokens to the auth_tokens collection
// so logins survive a process restart, with a bounded in-memory cache in
// front so the common resolve path skips the database.
package tokenstore

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mandatpro/kommunalcrm/internal/app/store"
	"github.com/mandatpro/kommunalcrm/internal/app/system/auth"
	"github.com/mandatpro/kommunalcrm/internal/domain/models"
)

// maxCached caps the in-memory token map. When full, an arbitrary entry is
// evicted; the persistent store remains the source of truth, so an evicted
// token still resolves via fallback.
const maxCached = 10000

// Store manages the token → user mapping.
type Store struct {
	c *mongo.Collection

	mu    sync.Mutex
	cache map[string]string
}

// New creates a token Store.
func New(db *mongo.Database) *Store {
	return &Store{
		c:     db.Collection("auth_tokens"),
		cache: make(map[string]string),
	}
}

// EnsureIndexes creates the token lookup index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "token", Value: 1}},
		Options: options.Index().SetName("idx_auth_tokens_token"),
	})
	return err
}

// Create generates a fresh token for the user, persists the mapping and
// returns the token.
func (s *Store) Create(ctx context.Context, userID string) (string, error) {
	token, err := auth.NewToken()
	if err != nil {
		return "", err
	}
	rec := models.AuthToken{
		Token:       token,
		UserID:      userID,
		CreatedDate: store.NowISO(),
	}
	if _, err := s.c.InsertOne(ctx, rec); err != nil {
		return "", err
	}
	s.put(token, userID)
	return token, nil
}

// Resolve returns the user id a token maps to, falling back to the
// persistent store on a cache miss and repopulating the cache on a hit.
// Unknown tokens return ErrNotFound.
func (s *Store) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", store.ErrNotFound
	}
	s.mu.Lock()
	userID, ok := s.cache[token]
	s.mu.Unlock()
	if ok {
		return userID, nil
	}

	var rec models.AuthToken
	if err := s.c.FindOne(ctx, bson.M{"token": token}).Decode(&rec); err != nil {
		if err == mongo.ErrNoDocuments {
			return "", store.ErrNotFound
		}
		return "", err
	}
	s.put(rec.Token, rec.UserID)
	return rec.UserID, nil
}

// Revoke removes the mapping from cache and store. Revoking an unknown
// token is a no-op, not an error.
func (s *Store) Revoke(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.cache, token)
	s.mu.Unlock()
	_, err := s.c.DeleteOne(ctx, bson.M{"token": token})
	return err
}

func (s *Store) put(token, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.cache) >= maxCached {
		for k := range s.cache {
			delete(s.cache, k)
			break
		}
	}
	s.cache[token] = userID
}
