// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/mandatpro/kommunalcrm/internal/app/store/documents"
	emaillogstore "github.com/mandatpro/kommunalcrm/internal/app/store/emaillog"
	meetingstore "github.com/mandatpro/kommunalcrm/internal/app/store/meetings"
	orgstore "github.com/mandatpro/kommunalcrm/internal/app/store/organizations"
	userstore "github.com/mandatpro/kommunalcrm/internal/app/store/users"
	"github.com/mandatpro/kommunalcrm/internal/app/system/mailer"
	"github.com/mandatpro/kommunalcrm/internal/app/system/workers"
)

// Shared services created during Startup. BuildHandler hands them to the
// feature handlers and Shutdown tears them down.
var (
	dispatcher     *mailer.Dispatcher
	reminderWorker *workers.Reminder
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// It prepares the upload directory, the email dispatcher, and starts the
// meeting reminder worker.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := os.MkdirAll(appCfg.UploadDir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}

	db := deps.MongoDatabase

	dispatcher = mailer.NewDispatcher(mailer.Config{
		SendGridKey: appCfg.SendGridAPIKey,
		FromEmail:   appCfg.SendGridFromEmail,
		FromName:    appCfg.SendGridFromName,
	}, emaillogstore.New(db), logger)

	reminderWorker = workers.NewReminder(
		meetingstore.New(db),
		userstore.New(db),
		orgstore.New(db),
		documents.New(db),
		dispatcher,
		logger,
		appCfg.ReminderInterval,
		appCfg.ReminderWindow,
	)
	reminderWorker.Start()

	logger.Info("startup complete",
		zap.Duration("reminder_interval", appCfg.ReminderInterval),
		zap.Bool("sendgrid_configured", appCfg.SendGridAPIKey != ""),
		zap.Bool("llm_configured", appCfg.LLMAPIKey != ""))
	return nil
}
