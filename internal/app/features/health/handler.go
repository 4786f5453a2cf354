// Package health serves the liveness endpoint.
package health

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/mandatpro/kommunalcrm/internal/app/store"
	"github.com/mandatpro/kommunalcrm/internal/app/system/httpjson"
	"github.com/mandatpro/kommunalcrm/internal/app/system/timeouts"
)

// Handler answers GET /health, reporting database reachability.
type Handler struct {
	Client *mongo.Client
	Log    *zap.Logger
}

// NewHandler constructs the health handler.
func NewHandler(client *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{Client: client, Log: logger}
}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Warn("health ping failed", zap.Error(err))
		httpjson.Write(w, http.StatusServiceUnavailable, map[string]string{
			"status":    "error",
			"detail":    "database unreachable",
			"timestamp": store.NowISO(),
		})
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": store.NowISO(),
	})
}
