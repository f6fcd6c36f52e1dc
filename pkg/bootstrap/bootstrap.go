package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/storage"

	shared "github.com/stravarunart/runart-server/pkg"
	"github.com/stravarunart/runart-server/pkg/imagegen"
	"github.com/stravarunart/runart-server/pkg/infrastructure/database"
	infrapubsub "github.com/stravarunart/runart-server/pkg/infrastructure/pubsub"
	"github.com/stravarunart/runart-server/pkg/infrastructure/secrets"
	infrastorage "github.com/stravarunart/runart-server/pkg/infrastructure/storage"
	"github.com/stravarunart/runart-server/pkg/oauth"
	"github.com/stravarunart/runart-server/pkg/pipeline"
	"github.com/stravarunart/runart-server/pkg/store"
	"github.com/stravarunart/runart-server/pkg/strava"
)

// Config holds standard configuration for all entrypoints
type Config struct {
	ProjectID         string
	StravaClientID    string
	StravaSecret      string
	StravaRefresh     string
	OpenAIKey         string
	ImageModel        string
	ImageSize         string
	OutputDir         string
	EnablePublish     bool
	EnableFirestore   bool
	GCSArtifactBucket string
}

// Service holds initialized dependencies
type Service struct {
	Tokens     oauth.TokenSource
	Activities *strava.Client
	Generator  *imagegen.Client
	Images     *store.ImageStore
	DB         shared.Database
	Pub        shared.Publisher
	Secrets    shared.SecretStore
	Pipeline   *pipeline.Pipeline
	Config     *Config
}

// LoadConfig reads non-secret configuration from environment variables
func LoadConfig() *Config {
	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		projectID = shared.ProjectID // Fallback
	}

	outputDir := os.Getenv("OUTPUT_DIR")
	if outputDir == "" {
		outputDir = "generated_images"
	}

	model := os.Getenv("OPENAI_IMAGE_MODEL")
	if model == "" {
		model = imagegen.DefaultModel
	}

	size := os.Getenv("OPENAI_IMAGE_SIZE")
	if size == "" {
		size = imagegen.DefaultSize
	}

	return &Config{
		ProjectID:         projectID,
		ImageModel:        model,
		ImageSize:         size,
		OutputDir:         outputDir,
		EnablePublish:     os.Getenv("ENABLE_PUBLISH") == "true",
		EnableFirestore:   os.Getenv("ENABLE_FIRESTORE") == "true",
		GCSArtifactBucket: os.Getenv("GCS_ARTIFACT_BUCKET"),
	}
}

// GetSlogHandlerOptions returns standard handler options for GCP
func GetSlogHandlerOptions(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Map standard keys to Cloud Logging keys
			if a.Key == slog.MessageKey {
				return slog.Attr{Key: "message", Value: a.Value}
			}
			if a.Key == slog.LevelKey {
				return slog.Attr{Key: "severity", Value: a.Value}
			}
			return a
		},
	}
}

// ComponentHandler wraps a slog.Handler to prepend [component] to the message
type ComponentHandler struct {
	slog.Handler
}

// Handle implements slog.Handler
func (h *ComponentHandler) Handle(ctx context.Context, r slog.Record) error {
	var component string

	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "component" {
			component = a.Value.String()
			return false // stop
		}
		return true
	})

	if component != "" {
		newMsg := fmt.Sprintf("[%s] %s", component, r.Message)
		newRecord := slog.NewRecord(r.Time, r.Level, newMsg, r.PC)

		r.Attrs(func(a slog.Attr) bool {
			if a.Key != "component" {
				newRecord.AddAttrs(a)
			}
			return true
		})
		r = newRecord
	}

	return h.Handler.Handle(ctx, r)
}

// InitLogger configures structured logging with Cloud Logging compatible keys
func InitLogger() {
	opts := GetSlogHandlerOptions(logLevel())
	handler := slog.NewJSONHandler(os.Stdout, opts)
	logger := slog.New(&ComponentHandler{Handler: handler})
	slog.SetDefault(logger)
}

// NewLogger creates a configured logger instance
func NewLogger(serviceName string) *slog.Logger {
	opts := GetSlogHandlerOptions(logLevel())
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(&ComponentHandler{Handler: handler}).With("service", serviceName)
}

func logLevel() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewService initializes all dependencies and assembles the pipeline.
// Secrets resolve from env vars first, then Secret Manager.
func NewService(ctx context.Context) (*Service, error) {
	InitLogger()
	cfg := LoadConfig()

	slog.Info("Initializing service", "project_id", cfg.ProjectID)

	secretStore := &secrets.SecretsAdapter{}
	var err error
	for name, dst := range map[string]*string{
		"STRAVA_CLIENT_ID":     &cfg.StravaClientID,
		"STRAVA_CLIENT_SECRET": &cfg.StravaSecret,
		"STRAVA_REFRESH_TOKEN": &cfg.StravaRefresh,
		"OPENAI_API_KEY":       &cfg.OpenAIKey,
	} {
		if *dst, err = secretStore.GetSecret(ctx, cfg.ProjectID, name); err != nil {
			slog.Error("Secret resolution failed", "name", name, "error", err)
			return nil, fmt.Errorf("resolve %s: %w", name, err)
		}
	}

	// Execution records
	var db shared.Database
	if cfg.EnableFirestore {
		fsClient, err := firestore.NewClient(ctx, cfg.ProjectID)
		if err != nil {
			slog.Error("Firestore init failed", "error", err)
			return nil, fmt.Errorf("firestore init: %w", err)
		}
		db = database.NewFirestoreAdapter(fsClient)
		slog.Info("Executions: FIRESTORE (ENABLE_FIRESTORE=true)")
	} else {
		db = database.NewMemoryAdapter()
		slog.Info("Executions: MEMORY")
	}

	// Pub/Sub
	var pubAdapter shared.Publisher
	if cfg.EnablePublish {
		psClient, err := pubsub.NewClient(ctx, cfg.ProjectID)
		if err != nil {
			slog.Error("PubSub init failed", "error", err)
			return nil, fmt.Errorf("pubsub init: %w", err)
		}
		pubAdapter = &infrapubsub.PubSubAdapter{Client: psClient}
		slog.Info("Pub/Sub: REAL (ENABLE_PUBLISH=true)")
	} else {
		pubAdapter = &infrapubsub.LogPublisher{}
		slog.Info("Pub/Sub: MOCK (LogPublisher)")
	}

	tokens := oauth.NewRefreshTokenSource(cfg.StravaClientID, cfg.StravaSecret, cfg.StravaRefresh)
	activities := strava.NewClient(oauth.NewClient(tokens))
	generator := imagegen.NewClient(cfg.OpenAIKey, cfg.ImageModel, cfg.ImageSize)

	images := store.NewImageStore(cfg.OutputDir)
	if cfg.GCSArtifactBucket != "" {
		gcsClient, err := storage.NewClient(ctx)
		if err != nil {
			slog.Error("Storage init failed", "error", err)
			return nil, fmt.Errorf("storage init: %w", err)
		}
		images = images.WithMirror(&infrastorage.StorageAdapter{Client: gcsClient}, cfg.GCSArtifactBucket)
		slog.Info("Image mirror: GCS", "bucket", cfg.GCSArtifactBucket)
	}

	return &Service{
		Tokens:     tokens,
		Activities: activities,
		Generator:  generator,
		Images:     images,
		DB:         db,
		Pub:        pubAdapter,
		Secrets:    secretStore,
		Config:     cfg,
		Pipeline: &pipeline.Pipeline{
			Tokens:     tokens,
			Activities: activities,
			Generator:  generator,
			Store:      images,
			DB:         db,
			Publisher:  pubAdapter,
		},
	}, nil
}
