// Package store persists generated images under the configured output
// directory and tracks serving keys for the interactive API.
package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	shared "github.com/stravarunart/runart-server/pkg"
	raerrors "github.com/stravarunart/runart-server/pkg/errors"
	"github.com/stravarunart/runart-server/pkg/imagegen"
)

// PersistedImage is a locally stored copy of a generated artwork.
type PersistedImage struct {
	Key       string // serving key, unique per run
	Path      string // absolute or workdir-relative file path
	SourceURL string // provider-hosted URL, when the generator returned one
	RemoteURI string // optional GCS mirror URI
}

// ImageStore writes images to disk, keyed for serving. Files accumulate
// indefinitely; there is no retention policy.
type ImageStore struct {
	outputDir    string
	mirror       shared.BlobStore
	mirrorBucket string
	httpClient   *http.Client

	mu   sync.RWMutex
	keys map[string]string // serving key -> file path
}

func NewImageStore(outputDir string) *ImageStore {
	return &ImageStore{
		outputDir:  outputDir,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		keys:       make(map[string]string),
	}
}

// WithMirror enables mirroring persisted images to a GCS bucket.
func (s *ImageStore) WithMirror(store shared.BlobStore, bucket string) *ImageStore {
	s.mirror = store
	s.mirrorBucket = bucket
	return s
}

// Persist materializes a generated image on disk as <activityID>.png and
// returns its serving key. Download or write failure is a PersistError.
func (s *ImageStore) Persist(ctx context.Context, activityID int64, img *imagegen.Image) (*PersistedImage, error) {
	data := img.Data
	if len(data) == 0 {
		if img.URL == "" {
			return nil, raerrors.ErrPersist.WithMessage("image has neither url nor data")
		}
		downloaded, err := s.download(ctx, img.URL)
		if err != nil {
			return nil, err
		}
		data = downloaded
	}

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, raerrors.ErrPersist.WithMessage("failed to create output directory").WithCause(err)
	}

	path := filepath.Join(s.outputDir, fmt.Sprintf("%d.png", activityID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, raerrors.ErrPersist.WithMessage("failed to write image file").WithCause(err)
	}

	key := fmt.Sprintf("%d_%d", activityID, time.Now().Unix())
	s.mu.Lock()
	s.keys[key] = path
	s.mu.Unlock()

	persisted := &PersistedImage{Key: key, Path: path, SourceURL: img.URL}

	// Mirror failure is logged, never fatal: the local artifact is the
	// source of truth.
	if s.mirror != nil && s.mirrorBucket != "" {
		object := fmt.Sprintf("images/%d/%s.png", activityID, key)
		if err := s.mirror.Write(ctx, s.mirrorBucket, object, data); err != nil {
			slog.Warn("Failed to mirror image to bucket", "bucket", s.mirrorBucket, "object", object, "error", err)
		} else {
			persisted.RemoteURI = fmt.Sprintf("gs://%s/%s", s.mirrorBucket, object)
		}
	}

	return persisted, nil
}

// Path resolves a serving key to its file path.
func (s *ImageStore) Path(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	path, ok := s.keys[key]
	return path, ok
}

func (s *ImageStore) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, raerrors.ErrPersist.WithCause(err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, raerrors.ErrPersist.WithMessage("image download failed").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, raerrors.ErrPersist.WithMessage(fmt.Sprintf("image download returned %s", resp.Status))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, raerrors.ErrPersist.WithMessage("failed to read image bytes").WithCause(err)
	}
	return data, nil
}
