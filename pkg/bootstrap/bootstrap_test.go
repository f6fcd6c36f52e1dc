package bootstrap

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	shared "github.com/stravarunart/runart-server/pkg"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "")
	t.Setenv("OUTPUT_DIR", "")
	t.Setenv("OPENAI_IMAGE_MODEL", "")
	t.Setenv("OPENAI_IMAGE_SIZE", "")
	t.Setenv("ENABLE_PUBLISH", "")
	t.Setenv("ENABLE_FIRESTORE", "")
	t.Setenv("GCS_ARTIFACT_BUCKET", "")

	cfg := LoadConfig()

	if cfg.ProjectID != shared.ProjectID {
		t.Errorf("ProjectID = %q", cfg.ProjectID)
	}
	if cfg.OutputDir != "generated_images" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.ImageModel != "gpt-image-1" {
		t.Errorf("ImageModel = %q", cfg.ImageModel)
	}
	if cfg.ImageSize != "1024x1024" {
		t.Errorf("ImageSize = %q", cfg.ImageSize)
	}
	if cfg.EnablePublish || cfg.EnableFirestore {
		t.Error("publish and firestore should default off")
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "my-project")
	t.Setenv("OUTPUT_DIR", "/tmp/posters")
	t.Setenv("OPENAI_IMAGE_MODEL", "dall-e-3")
	t.Setenv("OPENAI_IMAGE_SIZE", "512x512")
	t.Setenv("ENABLE_PUBLISH", "true")
	t.Setenv("GCS_ARTIFACT_BUCKET", "my-bucket")

	cfg := LoadConfig()

	if cfg.ProjectID != "my-project" {
		t.Errorf("ProjectID = %q", cfg.ProjectID)
	}
	if cfg.OutputDir != "/tmp/posters" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.ImageModel != "dall-e-3" || cfg.ImageSize != "512x512" {
		t.Errorf("image config = %q %q", cfg.ImageModel, cfg.ImageSize)
	}
	if !cfg.EnablePublish {
		t.Error("EnablePublish should be true")
	}
	if cfg.GCSArtifactBucket != "my-bucket" {
		t.Errorf("GCSArtifactBucket = %q", cfg.GCSArtifactBucket)
	}
}

func TestComponentHandler_PrefixesMessage(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, GetSlogHandlerOptions(slog.LevelInfo))
	logger := slog.New(&ComponentHandler{Handler: handler})

	logger.Info("Starting run", "component", "pipeline", "activity_id", 42)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}

	if entry["message"] != "[pipeline] Starting run" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["severity"] != "INFO" {
		t.Errorf("severity = %v", entry["severity"])
	}
	if _, ok := entry["component"]; ok {
		t.Error("component attribute should be folded into the message")
	}
	if entry["activity_id"] != float64(42) {
		t.Errorf("activity_id = %v", entry["activity_id"])
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		env  string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Setenv("LOG_LEVEL", tt.env)
		if got := logLevel(); got != tt.want {
			t.Errorf("logLevel() with %q = %v, want %v", tt.env, got, tt.want)
		}
	}
}
