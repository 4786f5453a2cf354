// Package documents is the collection-parameterized document accessor behind
// the generic CRUD layer. Every entity collection (contacts, motions,
// meetings, …) goes through the same five operations; the only per-entity
// variation lives in the caller's entity definition.
//
// Documents are schema-less: a Document is the external view of a stored
// record, with the Mongo ObjectID replaced by an opaque hex "id" field.
package documents

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mandatpro/kommunalcrm/internal/app/store"
)

// Document is the external view of a stored record: free-form fields plus
// the opaque "id" string.
type Document = map[string]any

// Store reads and writes named collections.
type Store struct {
	db *mongo.Database
}

// New creates a document Store over the given database.
func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

// ListQuery describes a list operation: exact-equality filters, a single
// sort field ("-" prefix for descending) and a hard result cap.
type ListQuery struct {
	Filter map[string]string
	Sort   string
	Limit  int64
}

// List returns documents matching q. Sort defaults to "-created_date",
// limit to 100. Limit is a cap, not a page; there is no cursor.
func (s *Store) List(ctx context.Context, collection string, q ListQuery) ([]Document, error) {
	filter := bson.M{}
	for k, v := range q.Filter {
		filter[k] = v
	}

	sortField := q.Sort
	if sortField == "" {
		sortField = "-created_date"
	}
	order := 1
	if strings.HasPrefix(sortField, "-") {
		sortField = strings.TrimPrefix(sortField, "-")
		order = -1
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: order}}).
		SetLimit(limit)

	cur, err := s.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []Document{}
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		out = append(out, Serialize(raw))
	}
	return out, cur.Err()
}

// ListAll returns every document matching the exact-equality filter, with
// no result cap. Background jobs that must see the whole collection use
// this instead of List.
func (s *Store) ListAll(ctx context.Context, collection string, filter map[string]string) ([]Document, error) {
	f := bson.M{}
	for k, v := range filter {
		f[k] = v
	}
	cur, err := s.db.Collection(collection).Find(ctx, f)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []Document{}
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		out = append(out, Serialize(raw))
	}
	return out, cur.Err()
}

// Get returns one document by its external id.
func (s *Store) Get(ctx context.Context, collection, id string) (Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrNotFound
	}
	var raw bson.M
	if err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": oid}).Decode(&raw); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return Serialize(raw), nil
}

// Create stamps created_date/updated_date, persists the payload and returns
// the stored document with its newly assigned id. Client-supplied id fields
// are stripped, never honored.
func (s *Store) Create(ctx context.Context, collection string, payload Document) (Document, error) {
	doc := bson.M{}
	for k, v := range payload {
		doc[k] = v
	}
	StripIdentity(doc)
	now := store.NowISO()
	doc["created_date"] = now
	doc["updated_date"] = now

	res, err := s.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	out := Document{}
	for k, v := range doc {
		out[k] = v
	}
	out["id"] = res.InsertedID.(primitive.ObjectID).Hex()
	return out, nil
}

// Update applies patch as a partial merge ($set): fields absent from the
// patch are untouched. updated_date is refreshed, id fields stripped.
// Returns the updated document, or ErrNotFound if id does not exist.
func (s *Store) Update(ctx context.Context, collection, id string, patch Document) (Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrNotFound
	}
	set := bson.M{}
	for k, v := range patch {
		set[k] = v
	}
	StripIdentity(set)
	set["updated_date"] = store.NowISO()

	res, err := s.db.Collection(collection).UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, store.ErrNotFound
	}
	return s.Get(ctx, collection, id)
}

// Delete hard-removes the record. A second delete of the same id yields
// ErrNotFound.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return store.ErrNotFound
	}
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Serialize converts a raw stored record into its external view: the
// internal _id is removed and an opaque hex id attached. Idempotent for
// records already carrying only the external id; nil passes through.
func Serialize(raw bson.M) Document {
	if raw == nil {
		return nil
	}
	out := Document{}
	for k, v := range raw {
		out[k] = v
	}
	if oid, ok := out["_id"].(primitive.ObjectID); ok {
		delete(out, "_id")
		out["id"] = oid.Hex()
	}
	return out
}

// StripIdentity removes client-supplied identifier fields from a payload in
// place, so ids are always server-assigned.
func StripIdentity(doc bson.M) {
	delete(doc, "_id")
	delete(doc, "id")
}
