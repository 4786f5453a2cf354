// Package userstore manages the users collection. Users go through the same
// document conventions as every other entity, plus two extras: the password
// digest is stripped from every external view, and a plaintext password in
// an update patch is re-hashed before persisting.
package userstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mandatpro/kommunalcrm/internal/app/store"
	"github.com/mandatpro/kommunalcrm/internal/app/store/documents"
	"github.com/mandatpro/kommunalcrm/internal/app/system/auth"
	"github.com/mandatpro/kommunalcrm/internal/domain/models"
)

// Store manages user records.
type Store struct {
	c *mongo.Collection
}

// New creates a users Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// EnsureIndexes creates the email lookup index. Deliberately non-unique:
// duplicate registration is rejected by a prior-existence check, not a
// store constraint.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("idx_users_email"),
	})
	return err
}

// FindByEmail returns the full user record, digest included, for login.
func (s *Store) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user and returns its external id.
func (s *Store) Create(ctx context.Context, u *models.User) (string, error) {
	if u.CreatedDate == "" {
		u.CreatedDate = store.NowISO()
	}
	res, err := s.c.InsertOne(ctx, u)
	if err != nil {
		return "", err
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// ViewByID returns the sanitized external view of one user.
func (s *Store) ViewByID(ctx context.Context, id string) (documents.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrNotFound
	}
	var raw bson.M
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&raw); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return sanitize(raw), nil
}

// List returns the sanitized views of users, newest first by default,
// optionally scoped to one organization.
func (s *Store) List(ctx context.Context, organization, sort string, limit int64) ([]documents.Document, error) {
	filter := bson.M{}
	if organization != "" {
		filter["organization"] = organization
	}
	if sort == "" {
		sort = "-created_date"
	}
	order := 1
	field := sort
	if len(sort) > 0 && sort[0] == '-' {
		field = sort[1:]
		order = -1
	}
	if limit <= 0 {
		limit = 100
	}
	cur, err := s.c.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: field, Value: order}}).
		SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []documents.Document{}
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		out = append(out, sanitize(raw))
	}
	return out, cur.Err()
}

// EmailsByOrganization returns the email addresses of every user in the
// organization, with no result cap. Reminder dispatch must reach all
// members, so this deliberately bypasses the List limit.
func (s *Store) EmailsByOrganization(ctx context.Context, organization string) ([]string, error) {
	cur, err := s.c.Find(ctx, bson.M{"organization": organization},
		options.Find().SetProjection(bson.M{"email": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []string
	for cur.Next(ctx) {
		var rec struct {
			Email string `bson:"email"`
		}
		if err := cur.Decode(&rec); err != nil {
			return nil, err
		}
		if rec.Email != "" {
			out = append(out, rec.Email)
		}
	}
	return out, cur.Err()
}

// Update applies a partial patch to one user. Identifier fields are
// stripped, a plaintext password is replaced by its digest, updated_date is
// refreshed. Returns the sanitized view, or ErrNotFound.
func (s *Store) Update(ctx context.Context, id string, patch bson.M) (documents.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrNotFound
	}
	set := bson.M{}
	for k, v := range patch {
		set[k] = v
	}
	documents.StripIdentity(set)
	if pw, ok := set["password"].(string); ok {
		set["password"] = auth.HashPassword(pw)
	}
	set["updated_date"] = store.NowISO()

	res, err := s.c.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, store.ErrNotFound
	}
	return s.ViewByID(ctx, id)
}

// SetOrgRole sets the free-text organization role label on one user.
func (s *Store) SetOrgRole(ctx context.Context, id, orgRole string) (documents.Document, error) {
	return s.Update(ctx, id, bson.M{"org_role": orgRole})
}

// sanitize builds the external view: ObjectID becomes id, password digest
// is removed.
func sanitize(raw bson.M) documents.Document {
	doc := documents.Serialize(raw)
	delete(doc, "password")
	return doc
}

// Sanitize returns the external view of a typed user, password stripped.
func Sanitize(u *models.User, id string) documents.Document {
	doc := documents.Document{
		"id":           id,
		"email":        u.Email,
		"organization": u.Organization,
	}
	if u.FullName != "" {
		doc["full_name"] = u.FullName
	}
	if u.City != "" {
		doc["city"] = u.City
	}
	if u.OrgType != "" {
		doc["org_type"] = u.OrgType
	}
	if u.Role != "" {
		doc["role"] = u.Role
	}
	if u.OrgRole != "" {
		doc["org_role"] = u.OrgRole
	}
	if u.CreatedDate != "" {
		doc["created_date"] = u.CreatedDate
	}
	if u.UpdatedDate != "" {
		doc["updated_date"] = u.UpdatedDate
	}
	return doc
}
