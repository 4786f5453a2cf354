// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for KommunalCRM.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, llm_api_key, etc.
//   - Environment variables: KOMMUNALCRM_MONGO_URI, KOMMUNALCRM_LLM_API_KEY, etc.
//   - Command-line flags: --mongo_uri, --llm_api_key, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "kommunalcrm", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	// LLM provider
	{Name: "llm_api_key", Default: "", Desc: "API key for the chat-completions provider (AI endpoints fail without it)"},
	{Name: "llm_model", Default: "gpt-4o-mini", Desc: "Model used for completions and document scans"},
	{Name: "llm_base_url", Default: "", Desc: "Override for the provider base URL (blank means the OpenAI default)"},

	// SendGrid provider transport
	{Name: "sendgrid_api_key", Default: "", Desc: "SendGrid API key (blank falls back to per-organization SMTP)"},
	{Name: "sendgrid_from_email", Default: "noreply@kommunalcrm.de", Desc: "Verified sender address for SendGrid"},
	{Name: "sendgrid_from_name", Default: "KommunalCRM", Desc: "Sender display name for SendGrid"},

	// File uploads
	{Name: "upload_dir", Default: "./uploads", Desc: "Local directory uploaded files are stored in"},
	{Name: "upload_url_prefix", Default: "/api/uploads", Desc: "URL prefix uploaded files are served at"},

	// Meeting reminder worker
	{Name: "reminder_interval", Default: "1h", Desc: "Pause between reminder scan passes (e.g., 30m, 1h)"},
	{Name: "reminder_window", Default: "24h", Desc: "How far ahead a meeting date may lie to be reminded"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config
// files, environment variables (WAFFLE_* for core, KOMMUNALCRM_* for
// app), and command-line flags, merged with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "KOMMUNALCRM", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		LLMAPIKey:  appValues.String("llm_api_key"),
		LLMModel:   appValues.String("llm_model"),
		LLMBaseURL: appValues.String("llm_base_url"),

		SendGridAPIKey:    appValues.String("sendgrid_api_key"),
		SendGridFromEmail: appValues.String("sendgrid_from_email"),
		SendGridFromName:  appValues.String("sendgrid_from_name"),

		UploadDir:       appValues.String("upload_dir"),
		UploadURLPrefix: appValues.String("upload_url_prefix"),

		ReminderInterval: appValues.Duration("reminder_interval", time.Hour),
		ReminderWindow:   appValues.Duration("reminder_window", 24*time.Hour),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation before any
// backend is connected.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.UploadDir == "" {
		return fmt.Errorf("upload_dir must not be empty")
	}
	if appCfg.ReminderInterval <= 0 || appCfg.ReminderWindow <= 0 {
		return fmt.Errorf("reminder_interval and reminder_window must be positive")
	}
	if appCfg.SendGridAPIKey != "" && appCfg.SendGridFromEmail == "" {
		return fmt.Errorf("sendgrid_from_email is required when sendgrid_api_key is set")
	}
	return nil
}
