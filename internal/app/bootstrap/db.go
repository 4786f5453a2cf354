// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	emaillogstore "github.com/mandatpro/kommunalcrm/internal/app/store/emaillog"
	orgstore "github.com/mandatpro/kommunalcrm/internal/app/store/organizations"
	tokenstore "github.com/mandatpro/kommunalcrm/internal/app/store/tokens"
	userstore "github.com/mandatpro/kommunalcrm/internal/app/store/users"
)

// EnsureSchema creates the indexes the stores rely on. Entity
// collections are schema-less and get no indexes beyond _id.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	steps := []struct {
		name   string
		ensure func(context.Context) error
	}{
		{"users", userstore.New(db).EnsureIndexes},
		{"organizations", orgstore.New(db).EnsureIndexes},
		{"auth_tokens", tokenstore.New(db).EnsureIndexes},
		{"email_logs", emaillogstore.New(db).EnsureIndexes},
	}
	for _, s := range steps {
		if err := s.ensure(ctx); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", s.name, err)
		}
	}

	logger.Info("database indexes ensured")
	return nil
}
