// Package search implements the cross-collection quick search backing the
// UI's global search box.
package search

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mandatpro/kommunalcrm/internal/app/system/httpjson"
	"github.com/mandatpro/kommunalcrm/internal/app/system/timeouts"
)

const perCollectionLimit = 10

// Result is one search hit.
type Result struct {
	Type     string `json:"type"`
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// target describes one searchable collection: which fields match the query
// and how a hit maps to a Result.
type target struct {
	collection string
	typeName   string
	fields     []string
	title      func(doc bson.M) string
	subtitle   func(doc bson.M) string
}

var targets = []target{
	{
		collection: "contacts",
		typeName:   "contact",
		fields:     []string{"first_name", "last_name", "email"},
		title: func(doc bson.M) string {
			return strings.TrimSpace(fmt.Sprintf("%s %s", str(doc, "first_name"), str(doc, "last_name")))
		},
		subtitle: func(doc bson.M) string { return str(doc, "email") },
	},
	{
		collection: "motions",
		typeName:   "motion",
		fields:     []string{"title"},
		title:      func(doc bson.M) string { return str(doc, "title") },
		subtitle:   func(doc bson.M) string { return str(doc, "status") },
	},
	{
		collection: "meetings",
		typeName:   "meeting",
		fields:     []string{"title"},
		title:      func(doc bson.M) string { return str(doc, "title") },
		subtitle:   func(doc bson.M) string { return str(doc, "date") },
	},
	{
		collection: "tasks",
		typeName:   "task",
		fields:     []string{"title"},
		title:      func(doc bson.M) string { return str(doc, "title") },
		subtitle:   func(doc bson.M) string { return str(doc, "status") },
	},
	{
		collection: "documents",
		typeName:   "document",
		fields:     []string{"title"},
		title:      func(doc bson.M) string { return str(doc, "title") },
		subtitle:   func(doc bson.M) string { return str(doc, "type") },
	},
	{
		collection: "communications",
		typeName:   "communication",
		fields:     []string{"subject"},
		title:      func(doc bson.M) string { return str(doc, "subject") },
		subtitle:   func(doc bson.M) string { return str(doc, "type") },
	},
}

// Handler serves GET /search.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

// NewHandler constructs the search handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

// Serve handles GET /search?q=&organization=. The query is matched as a
// case-insensitive quoted substring, at most 10 hits per collection. An
// empty query yields an empty result list.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		httpjson.Write(w, http.StatusOK, []Result{})
		return
	}
	org := r.URL.Query().Get("organization")
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	results := []Result{}
	for _, tgt := range targets {
		hits, err := h.searchCollection(ctx, tgt, pattern, org)
		if err != nil {
			h.Log.Error("search failed",
				zap.String("collection", tgt.collection),
				zap.Error(err))
			continue
		}
		results = append(results, hits...)
	}
	httpjson.Write(w, http.StatusOK, results)
}

func (h *Handler) searchCollection(ctx context.Context, tgt target, pattern primitive.Regex, org string) ([]Result, error) {
	or := make([]bson.M, 0, len(tgt.fields))
	for _, f := range tgt.fields {
		or = append(or, bson.M{f: pattern})
	}
	filter := bson.M{"$or": or}
	if org != "" {
		filter["organization"] = org
	}

	cur, err := h.DB.Collection(tgt.collection).Find(ctx, filter,
		options.Find().SetLimit(perCollectionLimit))
	if err != nil {
		return nil, err
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(docs))
	for _, doc := range docs {
		id := ""
		if oid, ok := doc["_id"].(primitive.ObjectID); ok {
			id = oid.Hex()
		}
		results = append(results, Result{
			Type:     tgt.typeName,
			ID:       id,
			Title:    tgt.title(doc),
			Subtitle: tgt.subtitle(doc),
		})
	}
	return results, nil
}

func str(doc bson.M, key string) string {
	s, _ := doc[key].(string)
	return s
}
