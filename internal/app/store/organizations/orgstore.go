// Package orgstore manages the organizations collection for the paths that
// need typed access: registration (slug and email-domain resolution) and
// email dispatch (per-organization SMTP credentials). Generic organization
// CRUD goes through the documents store like every other entity.
package orgstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mandatpro/kommunalcrm/internal/app/store"
	"github.com/mandatpro/kommunalcrm/internal/domain/models"
)

// Store manages organization records.
type Store struct {
	c *mongo.Collection
}

// New creates an organizations Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("organizations")}
}

// EnsureIndexes creates the slug and email-domain lookup indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_organizations_name"),
		},
		{
			Keys:    bson.D{{Key: "email_domain", Value: 1}},
			Options: options.Index().SetName("idx_organizations_email_domain"),
		},
	})
	return err
}

// FindBySlug returns the organization whose slug (name) matches.
func (s *Store) FindBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	return s.findOne(ctx, bson.M{"name": slug})
}

// FindByEmailDomain returns the organization claiming the given email
// domain, or ErrNotFound if no organization does.
func (s *Store) FindByEmailDomain(ctx context.Context, domain string) (*models.Organization, error) {
	if domain == "" {
		return nil, store.ErrNotFound
	}
	return s.findOne(ctx, bson.M{"email_domain": domain})
}

// Create inserts a new organization record.
func (s *Store) Create(ctx context.Context, org *models.Organization) error {
	if org.CreatedDate == "" {
		org.CreatedDate = store.NowISO()
	}
	_, err := s.c.InsertOne(ctx, org)
	return err
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*models.Organization, error) {
	var org models.Organization
	if err := s.c.FindOne(ctx, filter).Decode(&org); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &org, nil
}
