// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	aigenfeature "github.com/mandatpro/kommunalcrm/internal/app/features/aigen"
	authapifeature "github.com/mandatpro/kommunalcrm/internal/app/features/authapi"
	emailfeature "github.com/mandatpro/kommunalcrm/internal/app/features/email"
	entitiesfeature "github.com/mandatpro/kommunalcrm/internal/app/features/entities"
	filesfeature "github.com/mandatpro/kommunalcrm/internal/app/features/files"
	healthfeature "github.com/mandatpro/kommunalcrm/internal/app/features/health"
	organizationsfeature "github.com/mandatpro/kommunalcrm/internal/app/features/organizations"
	pdffeature "github.com/mandatpro/kommunalcrm/internal/app/features/pdf"
	searchfeature "github.com/mandatpro/kommunalcrm/internal/app/features/search"
	usersfeature "github.com/mandatpro/kommunalcrm/internal/app/features/users"
	"github.com/mandatpro/kommunalcrm/internal/app/store/documents"
	emaillogstore "github.com/mandatpro/kommunalcrm/internal/app/store/emaillog"
	orgstore "github.com/mandatpro/kommunalcrm/internal/app/store/organizations"
	tokenstore "github.com/mandatpro/kommunalcrm/internal/app/store/tokens"
	userstore "github.com/mandatpro/kommunalcrm/internal/app/store/users"
	"github.com/mandatpro/kommunalcrm/internal/app/system/ai"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and the Startup hook have completed, so the dispatcher and worker
// created there are available. The whole JSON API lives under /api;
// uploaded files are served read-only under the upload URL prefix and
// Prometheus metrics under /metrics.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	docs := documents.New(db)
	users := userstore.New(db)
	orgs := orgstore.New(db)
	tokens := tokenstore.New(db)

	aiClient := ai.NewClient(ai.Config{
		APIKey:  appCfg.LLMAPIKey,
		Model:   appCfg.LLMModel,
		BaseURL: appCfg.LLMBaseURL,
	}, logger)

	r := chi.NewRouter()
	api := chi.NewRouter()

	authHandler := authapifeature.NewHandler(users, orgs, tokens, logger)
	api.Mount("/auth", authapifeature.Routes(authHandler))

	usersHandler := usersfeature.NewHandler(users, logger)
	api.Mount("/users", usersfeature.Routes(usersHandler))

	// Entity CRUD and the organization membership path share one router
	// so /organizations/{id} and /organizations/{id}/members land in the
	// same trie.
	entitiesHandler := entitiesfeature.NewHandler(docs, logger)
	entitiesfeature.Register(api, entitiesHandler)

	orgHandler := organizationsfeature.NewHandler(users, logger)
	organizationsfeature.Register(api, orgHandler)

	searchHandler := searchfeature.NewHandler(db, logger)
	api.Mount("/search", searchfeature.Routes(searchHandler))

	filesHandler := filesfeature.NewHandler(appCfg.UploadDir, appCfg.UploadURLPrefix, logger)
	api.Mount("/files", filesfeature.Routes(filesHandler))

	aiHandler := aigenfeature.NewHandler(aiClient, appCfg.UploadDir, appCfg.UploadURLPrefix, logger)
	api.Mount("/ai", aigenfeature.Routes(aiHandler))

	emailHandler := emailfeature.NewHandler(dispatcher, orgs, emaillogstore.New(db), logger)
	emailfeature.Register(api, emailHandler)

	pdfHandler := pdffeature.NewHandler(logger)
	api.Mount("/pdf", pdffeature.Routes(pdfHandler))

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	api.Mount("/health", healthfeature.Routes(healthHandler))

	// Uploaded files, served read-only. Registered on the api router so
	// the path shares the /api mount instead of conflicting with it.
	uploadPath := strings.TrimPrefix(appCfg.UploadURLPrefix, "/api")
	api.Handle(uploadPath+"/*", fileserver.Handler(appCfg.UploadURLPrefix, appCfg.UploadDir))

	r.Mount("/api", api)

	r.Handle("/metrics", promhttp.Handler())

	return r, nil
}
