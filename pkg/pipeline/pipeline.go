// Package pipeline sequences one generation run: refresh credentials,
// fetch the activity, build the prompt, generate the image, persist it,
// and write the link back to the activity description. Stages execute
// strictly in order with no retries and no resume across invocations.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/cloudevents/sdk-go/v2/event"
	"github.com/google/uuid"

	shared "github.com/stravarunart/runart-server/pkg"
	raerrors "github.com/stravarunart/runart-server/pkg/errors"
	"github.com/stravarunart/runart-server/pkg/execution"
	"github.com/stravarunart/runart-server/pkg/imagegen"
	"github.com/stravarunart/runart-server/pkg/oauth"
	"github.com/stravarunart/runart-server/pkg/prompt"
	"github.com/stravarunart/runart-server/pkg/store"
	"github.com/stravarunart/runart-server/pkg/strava"
)

// Stage names a pipeline step for failure reporting.
type Stage string

const (
	StageRefresh  Stage = "REFRESH"
	StageFetch    Stage = "FETCH"
	StagePrompt   Stage = "PROMPT"
	StageGenerate Stage = "GENERATE"
	StagePersist  Stage = "PERSIST"
	StageUpdate   Stage = "UPDATE"
)

// ActivitySource is the slice of the Strava client the pipeline needs.
type ActivitySource interface {
	ListActivities(ctx context.Context, limit int) ([]strava.Activity, error)
	GetActivity(ctx context.Context, activityID int64) (*strava.Activity, error)
	AppendDescription(ctx context.Context, activity *strava.Activity, text string) error
}

// Generator renders one image for a prompt.
type Generator interface {
	Generate(ctx context.Context, promptText string) (*imagegen.Image, error)
}

// Persister stores a generated image locally.
type Persister interface {
	Persist(ctx context.Context, activityID int64, img *imagegen.Image) (*store.PersistedImage, error)
}

// Result captures the outcome of one run. UpdateErr is set on partial
// success: the image exists locally but the description write-back failed.
type Result struct {
	ExecutionID string
	Activity    *strava.Activity
	Prompt      string
	Image       *store.PersistedImage
	Link        string
	UpdateErr   error
}

// PartialSuccess reports whether the run produced an artifact without
// completing the description update.
func (r *Result) PartialSuccess() bool {
	return r.UpdateErr != nil
}

// Pipeline wires the stages together. LinkFor maps a persisted image to
// the URL appended to the activity description; when nil, the provider's
// hosted URL is preferred, then the GCS mirror URI, then the local path.
type Pipeline struct {
	Tokens     oauth.TokenSource
	Activities ActivitySource
	Generator  Generator
	Store      Persister
	DB         execution.Database
	Publisher  shared.Publisher
	Logger     *slog.Logger
	LinkFor    func(*store.PersistedImage) string
}

// Run executes the full pipeline for the most recent activity.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	execID, err := execution.LogStart(ctx, p.DB, "runart-pipeline", execution.Options{TriggerType: "cli"})
	if err != nil {
		p.logger().Warn("Failed to log execution start", "error", err)
	}
	logger := p.logger().With("execution_id", execID)

	// REFRESH: a valid access token is the hard precondition for
	// everything after it.
	logger.Info("Refreshing access token")
	if _, err := p.Tokens.Token(ctx); err != nil {
		return nil, p.fail(ctx, logger, execID, StageRefresh, err)
	}

	// FETCH: most recent activity, then its detailed record.
	logger.Info("Fetching most recent activity")
	activities, err := p.Activities.ListActivities(ctx, 1)
	if err != nil {
		return nil, p.fail(ctx, logger, execID, StageFetch, err)
	}
	if len(activities) == 0 {
		return nil, p.fail(ctx, logger, execID, StageFetch, raerrors.ErrNoActivities)
	}
	activity, err := p.Activities.GetActivity(ctx, activities[0].ID)
	if err != nil {
		return nil, p.fail(ctx, logger, execID, StageFetch, err)
	}

	return p.generateFor(ctx, logger, execID, activity)
}

// RunForActivity executes the pipeline from the PROMPT stage for an
// already-fetched activity; the interactive layer authenticates before
// calling this.
func (p *Pipeline) RunForActivity(ctx context.Context, activity *strava.Activity) (*Result, error) {
	execID, err := execution.LogStart(ctx, p.DB, "runart-pipeline", execution.Options{
		TriggerType: "api",
		Inputs:      map[string]int64{"activity_id": activity.ID},
	})
	if err != nil {
		p.logger().Warn("Failed to log execution start", "error", err)
	}
	logger := p.logger().With("execution_id", execID, "activity_id", activity.ID)

	return p.generateFor(ctx, logger, execID, activity)
}

func (p *Pipeline) generateFor(ctx context.Context, logger *slog.Logger, execID string, activity *strava.Activity) (*Result, error) {
	result := &Result{ExecutionID: execID, Activity: activity}

	// PROMPT is pure and cannot fail; malformed fields become defaults.
	result.Prompt = prompt.Build(activity)
	logger.Info("Built prompt", "activity", activity.Name, "prompt_length", len(result.Prompt))

	logger.Info("Generating image")
	img, err := p.Generator.Generate(ctx, result.Prompt)
	if err != nil {
		return nil, p.fail(ctx, logger, execID, StageGenerate, err)
	}

	logger.Info("Persisting image")
	persisted, err := p.Store.Persist(ctx, activity.ID, img)
	if err != nil {
		return nil, p.fail(ctx, logger, execID, StagePersist, err)
	}
	result.Image = persisted
	result.Link = p.linkFor(persisted)

	logger.Info("Updating activity description", "link", result.Link)
	if err := p.Activities.AppendDescription(ctx, activity, "Run artwork: "+result.Link); err != nil {
		// Partial success: the artifact exists locally even though the
		// remote update failed. Logged distinctly from total failure.
		logger.Warn("Description update failed, image persisted locally",
			"stage", StageUpdate, "path", persisted.Path, "error", err)
		result.UpdateErr = err
		if logErr := execution.LogPartial(ctx, p.DB, execID, p.outputs(result), err); logErr != nil {
			logger.Warn("Failed to log partial execution", "error", logErr)
		}
		p.publish(ctx, logger, result)
		return result, nil
	}

	logger.Info("Pipeline complete", "image", persisted.Path)
	if logErr := execution.LogSuccess(ctx, p.DB, execID, p.outputs(result)); logErr != nil {
		logger.Warn("Failed to log execution success", "error", logErr)
	}
	p.publish(ctx, logger, result)
	return result, nil
}

func (p *Pipeline) fail(ctx context.Context, logger *slog.Logger, execID string, stage Stage, err error) error {
	wrapped := fmt.Errorf("stage %s: %w", stage, err)
	logger.Error("Pipeline failed", "stage", stage, "error", err)
	if logErr := execution.LogFailure(ctx, p.DB, execID, wrapped); logErr != nil {
		logger.Warn("Failed to log execution failure", "error", logErr)
	}
	return wrapped
}

// publish emits a completion event when a publisher is configured.
// Publishing problems never fail the run.
func (p *Pipeline) publish(ctx context.Context, logger *slog.Logger, result *Result) {
	if p.Publisher == nil {
		return
	}

	e := event.New()
	e.SetID(uuid.NewString())
	e.SetType(shared.EventTypeArtworkGenerated)
	e.SetSource(shared.EventSource)
	if err := e.SetData(cloudevents.ApplicationJSON, p.outputs(result)); err != nil {
		logger.Warn("Failed to encode completion event", "error", err)
		return
	}

	if _, err := p.Publisher.PublishCloudEvent(ctx, shared.TopicArtworkGenerated, e); err != nil {
		logger.Warn("Failed to publish completion event", "error", err)
	}
}

func (p *Pipeline) outputs(result *Result) map[string]interface{} {
	out := map[string]interface{}{
		"activity_id": result.Activity.ID,
		"image_key":   result.Image.Key,
		"image_path":  result.Image.Path,
		"link":        result.Link,
		"partial":     result.PartialSuccess(),
	}
	if result.Image.SourceURL != "" {
		out["source_url"] = result.Image.SourceURL
	}
	if result.Image.RemoteURI != "" {
		out["remote_uri"] = result.Image.RemoteURI
	}
	return out
}

func (p *Pipeline) linkFor(img *store.PersistedImage) string {
	if p.LinkFor != nil {
		return p.LinkFor(img)
	}
	if img.SourceURL != "" {
		return img.SourceURL
	}
	if img.RemoteURI != "" {
		return img.RemoteURI
	}
	return img.Path
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
