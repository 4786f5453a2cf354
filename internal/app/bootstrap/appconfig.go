// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, CORS, body limits); everything specific to KommunalCRM lives
// here. Values are loaded in LoadConfig from config files, environment
// variables (KOMMUNALCRM_*), or command-line flags.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// LLM provider configuration (OpenAI-compatible chat completions)
	LLMAPIKey  string // API key; AI endpoints answer 500 when empty
	LLMModel   string // Model name (default gpt-4o-mini)
	LLMBaseURL string // Override for the provider base URL (tests, proxies)

	// SendGrid provider transport. When the key is empty, sends fall
	// back to the organization's own SMTP credentials.
	SendGridAPIKey    string
	SendGridFromEmail string // Verified sender address
	SendGridFromName  string // Sender display name

	// File upload storage
	UploadDir       string // Local directory uploads are written to
	UploadURLPrefix string // Public URL prefix the files are served at

	// Meeting reminder worker
	ReminderInterval time.Duration // Pause between scan passes
	ReminderWindow   time.Duration // How far ahead a meeting date may lie
}
