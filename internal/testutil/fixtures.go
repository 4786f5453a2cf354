package testutil

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mandatpro/kommunalcrm/internal/app/store"
	"github.com/mandatpro/kommunalcrm/internal/app/system/auth"
	"github.com/mandatpro/kommunalcrm/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateOrganization inserts an organization with the given slug and
// display name.
func (f *Fixtures) CreateOrganization(ctx context.Context, slug, displayName string) models.Organization {
	f.t.Helper()

	org := models.Organization{
		ID:          primitive.NewObjectID(),
		Name:        slug,
		DisplayName: displayName,
		Type:        "ortsverband",
		City:        "Teststadt",
		CreatedDate: store.NowISO(),
	}
	if _, err := f.db.Collection("organizations").InsertOne(ctx, org); err != nil {
		f.t.Fatalf("create test organization: %v", err)
	}
	return org
}

// CreateUser inserts a user belonging to an organization. The stored
// password is the digest of the given plaintext.
func (f *Fixtures) CreateUser(ctx context.Context, email, password, orgSlug string) models.User {
	f.t.Helper()

	now := store.NowISO()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		Password:     auth.HashPassword(password),
		FullName:     "Test Person",
		Organization: orgSlug,
		Role:         "user",
		CreatedDate:  now,
		UpdatedDate:  now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("create test user: %v", err)
	}
	return u
}

// CreateMeeting inserts a meeting document into the given collection with
// an ISO date string.
func (f *Fixtures) CreateMeeting(ctx context.Context, collection, title, orgSlug, date string) models.Meeting {
	f.t.Helper()

	m := models.Meeting{
		ID:           primitive.NewObjectID(),
		Title:        title,
		Organization: orgSlug,
		Date:         date,
		Location:     "Geschäftsstelle",
	}
	if _, err := f.db.Collection(collection).InsertOne(ctx, m); err != nil {
		f.t.Fatalf("create test meeting: %v", err)
	}
	return m
}

// CreateContact inserts a contact document with an email address.
func (f *Fixtures) CreateContact(ctx context.Context, name, email, orgSlug string) primitive.ObjectID {
	f.t.Helper()

	res, err := f.db.Collection("contacts").InsertOne(ctx, bson.M{
		"name":         name,
		"email":        email,
		"organization": orgSlug,
		"created_date": store.NowISO(),
	})
	if err != nil {
		f.t.Fatalf("create test contact: %v", err)
	}
	return res.InsertedID.(primitive.ObjectID)
}
