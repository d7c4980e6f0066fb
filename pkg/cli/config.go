package cli

import (
	"context"
	"time"

	"github.com/m-mizutani/aiphone/pkg/adapter"
	"github.com/m-mizutani/aiphone/pkg/interfaces"
	"github.com/m-mizutani/aiphone/pkg/repository"
	"github.com/m-mizutani/aiphone/pkg/usecase/phone"
	"github.com/m-mizutani/aiphone/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// config holds configuration values
type config struct {
	// Logging
	logLevel  string
	logFormat string

	// Store
	store      string
	sqlitePath string
	project    string
	database   string
	collection string
	bucket     string
	prefix     string

	// LLM
	provider        string
	geminiProject   string
	geminiLocation  string
	geminiModel     string
	anthropicAPIKey string
	claudeModel     string
	retries         int64
	maxTokens       int64
	timeout         time.Duration

	// Prompt
	characterFile string
	userName      string
}

// globalFlags returns logging and store flags shared by every command
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("AIPHONE_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format (console, json)",
			Value:       string(logging.FormatConsole),
			Sources:     cli.EnvVars("AIPHONE_LOG_FORMAT"),
			Destination: &cfg.logFormat,
		},
		&cli.StringFlag{
			Name:        "store",
			Usage:       "Storage backend (sqlite, firestore, gcs, memory)",
			Value:       "sqlite",
			Sources:     cli.EnvVars("AIPHONE_STORE"),
			Destination: &cfg.store,
		},
		&cli.StringFlag{
			Name:        "sqlite-path",
			Usage:       "SQLite database file",
			Value:       "aiphone.db",
			Sources:     cli.EnvVars("AIPHONE_SQLITE_PATH"),
			Destination: &cfg.sqlitePath,
		},
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
		&cli.StringFlag{
			Name:        "collection",
			Usage:       "Firestore collection for stored values",
			Value:       "aiphone_kv",
			Sources:     cli.EnvVars("AIPHONE_FIRESTORE_COLLECTION"),
			Destination: &cfg.collection,
		},
		&cli.StringFlag{
			Name:        "bucket",
			Usage:       "Cloud Storage bucket",
			Sources:     cli.EnvVars("AIPHONE_BUCKET"),
			Destination: &cfg.bucket,
		},
		&cli.StringFlag{
			Name:        "bucket-prefix",
			Usage:       "Object name prefix in the Cloud Storage bucket",
			Value:       "aiphone/",
			Sources:     cli.EnvVars("AIPHONE_BUCKET_PREFIX"),
			Destination: &cfg.prefix,
		},
	}
}

// llmFlags returns flags for LLM-related configuration with destination config
func llmFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "provider",
			Usage:       "LLM provider (gemini, claude)",
			Value:       "gemini",
			Sources:     cli.EnvVars("AIPHONE_PROVIDER"),
			Destination: &cfg.provider,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Gemini model name",
			Value:       "gemini-2.5-flash",
			Sources:     cli.EnvVars("GEMINI_MODEL"),
			Destination: &cfg.geminiModel,
		},
		&cli.StringFlag{
			Name:        "anthropic-api-key",
			Usage:       "Anthropic API key",
			Sources:     cli.EnvVars("ANTHROPIC_API_KEY"),
			Destination: &cfg.anthropicAPIKey,
		},
		&cli.StringFlag{
			Name:        "claude-model",
			Usage:       "Claude model name",
			Value:       "claude-sonnet-4-5",
			Sources:     cli.EnvVars("CLAUDE_MODEL"),
			Destination: &cfg.claudeModel,
		},
		&cli.IntFlag{
			Name:        "retries",
			Usage:       "Extra attempts after a failed model call",
			Value:       phone.DefaultRetries,
			Sources:     cli.EnvVars("AIPHONE_RETRIES"),
			Destination: &cfg.retries,
		},
		&cli.IntFlag{
			Name:        "max-tokens",
			Usage:       "Output token budget of the model call",
			Value:       phone.DefaultMaxTokens,
			Sources:     cli.EnvVars("AIPHONE_MAX_TOKENS"),
			Destination: &cfg.maxTokens,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "Give up a generation after this long (0 for no limit)",
			Value:       phone.DefaultTimeout,
			Sources:     cli.EnvVars("AIPHONE_TIMEOUT"),
			Destination: &cfg.timeout,
		},
	}
}

// promptFlags returns flags for the character profiles used to build prompts
func promptFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "characters",
			Aliases:     []string{"c"},
			Usage:       "YAML file with character profiles",
			Value:       "characters.yaml",
			Sources:     cli.EnvVars("AIPHONE_CHARACTERS"),
			Destination: &cfg.characterFile,
		},
		&cli.StringFlag{
			Name:        "user-name",
			Usage:       "Display name of the real user (overrides user_name in the character file)",
			Sources:     cli.EnvVars("AIPHONE_USER_NAME"),
			Destination: &cfg.userName,
		},
	}
}

// withLogger installs the configured logger as default and into ctx
func (cfg *config) withLogger(ctx context.Context) context.Context {
	logger := logging.New(cfg.logLevel, nil, logging.WithFormat(logging.Format(cfg.logFormat)))
	logging.SetDefault(logger)
	return logging.With(ctx, logger)
}

// newKVStore opens the configured backend. The returned function releases it.
func (cfg *config) newKVStore(ctx context.Context) (interfaces.KVStore, func(), error) {
	switch cfg.store {
	case "memory":
		return repository.NewMemory(), func() {}, nil

	case "sqlite":
		if cfg.sqlitePath == "" {
			return nil, nil, goerr.New("sqlite-path is required")
		}
		db, err := repository.NewSQLite(cfg.sqlitePath)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to open sqlite store")
		}
		return db, closer(ctx, db.Close), nil

	case "firestore":
		if cfg.project == "" {
			return nil, nil, goerr.New("project is required")
		}
		if cfg.database == "" {
			return nil, nil, goerr.New("database is required")
		}
		fs, err := repository.NewFirestore(ctx, cfg.project, cfg.database, repository.WithCollection(cfg.collection))
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to create firestore store")
		}
		return fs, closer(ctx, fs.Close), nil

	case "gcs":
		cs, err := repository.NewCloudStorage(ctx, cfg.bucket, cfg.prefix)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to create cloud storage store")
		}
		return cs, closer(ctx, cs.Close), nil
	}

	return nil, nil, goerr.New("unknown store", goerr.V("store", cfg.store))
}

func closer(ctx context.Context, fn func() error) func() {
	return func() {
		if err := fn(); err != nil {
			logging.From(ctx).Warn("failed to close store", "error", err)
		}
	}
}

// newTransport creates the model transport of the configured provider
func (cfg *config) newTransport(ctx context.Context) (interfaces.Transport, error) {
	switch cfg.provider {
	case "gemini":
		if cfg.geminiProject == "" {
			return nil, goerr.New("gemini-project is required")
		}
		if cfg.geminiLocation == "" {
			return nil, goerr.New("gemini-location is required")
		}
		gemini, err := adapter.NewGemini(ctx, cfg.geminiProject, cfg.geminiLocation,
			adapter.WithGenerativeModel(cfg.geminiModel))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create gemini transport")
		}
		return gemini, nil

	case "claude":
		if cfg.anthropicAPIKey == "" {
			return nil, goerr.New("anthropic-api-key is required")
		}
		return adapter.NewClaude(cfg.anthropicAPIKey, adapter.WithClaudeModel(cfg.claudeModel)), nil
	}

	return nil, goerr.New("unknown provider", goerr.V("provider", cfg.provider))
}

// generatorOptions maps LLM flags to generator options
func (cfg *config) generatorOptions() []phone.Option {
	return []phone.Option{
		phone.WithRetries(int(cfg.retries)),
		phone.WithMaxTokens(int(cfg.maxTokens)),
		phone.WithTimeout(cfg.timeout),
	}
}
