package mocks

import (
	"context"
	"fmt"

	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/stravarunart/runart-server/pkg/execution"
	"github.com/stravarunart/runart-server/pkg/imagegen"
	"github.com/stravarunart/runart-server/pkg/oauth"
	"github.com/stravarunart/runart-server/pkg/store"
	"github.com/stravarunart/runart-server/pkg/strava"
)

// --- Mock Database ---
type MockDatabase struct {
	SetExecutionFunc    func(ctx context.Context, record *execution.Record) error
	UpdateExecutionFunc func(ctx context.Context, id string, data map[string]interface{}) error
}

func (m *MockDatabase) SetExecution(ctx context.Context, record *execution.Record) error {
	if m.SetExecutionFunc != nil {
		return m.SetExecutionFunc(ctx, record)
	}
	return nil
}
func (m *MockDatabase) UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error {
	if m.UpdateExecutionFunc != nil {
		return m.UpdateExecutionFunc(ctx, id, data)
	}
	return nil
}

// --- Mock Publisher ---
type MockPublisher struct {
	PublishCloudEventFunc func(ctx context.Context, topic string, e event.Event) (string, error)
	Published             []event.Event
}

func (m *MockPublisher) PublishCloudEvent(ctx context.Context, topic string, e event.Event) (string, error) {
	m.Published = append(m.Published, e)
	if m.PublishCloudEventFunc != nil {
		return m.PublishCloudEventFunc(ctx, topic, e)
	}
	return "mock-msg-id", nil
}

// --- Mock BlobStore ---
type MockBlobStore struct {
	WriteFunc func(ctx context.Context, bucket, object string, data []byte) error
	ReadFunc  func(ctx context.Context, bucket, object string) ([]byte, error)
}

func (m *MockBlobStore) Write(ctx context.Context, bucket, object string, data []byte) error {
	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, bucket, object, data)
	}
	return nil
}
func (m *MockBlobStore) Read(ctx context.Context, bucket, object string) ([]byte, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(ctx, bucket, object)
	}
	return nil, fmt.Errorf("object not found")
}

// --- Mock SecretStore ---
type MockSecretStore struct {
	GetSecretFunc func(ctx context.Context, projectID, name string) (string, error)
}

func (m *MockSecretStore) GetSecret(ctx context.Context, projectID, name string) (string, error) {
	if m.GetSecretFunc != nil {
		return m.GetSecretFunc(ctx, projectID, name)
	}
	return "mock-secret", nil
}

// --- Mock TokenSource ---
type MockTokenSource struct {
	TokenFunc        func(ctx context.Context) (*oauth.Token, error)
	ForceRefreshFunc func(ctx context.Context) (*oauth.Token, error)
}

func (m *MockTokenSource) Token(ctx context.Context) (*oauth.Token, error) {
	if m.TokenFunc != nil {
		return m.TokenFunc(ctx)
	}
	return &oauth.Token{AccessToken: "mock-access-token"}, nil
}
func (m *MockTokenSource) ForceRefresh(ctx context.Context) (*oauth.Token, error) {
	if m.ForceRefreshFunc != nil {
		return m.ForceRefreshFunc(ctx)
	}
	return &oauth.Token{AccessToken: "mock-access-token"}, nil
}

// --- Mock ActivitySource ---
type MockActivitySource struct {
	ListActivitiesFunc    func(ctx context.Context, limit int) ([]strava.Activity, error)
	GetActivityFunc       func(ctx context.Context, activityID int64) (*strava.Activity, error)
	AppendDescriptionFunc func(ctx context.Context, activity *strava.Activity, text string) error
}

func (m *MockActivitySource) ListActivities(ctx context.Context, limit int) ([]strava.Activity, error) {
	if m.ListActivitiesFunc != nil {
		return m.ListActivitiesFunc(ctx, limit)
	}
	return nil, nil
}
func (m *MockActivitySource) GetActivity(ctx context.Context, activityID int64) (*strava.Activity, error) {
	if m.GetActivityFunc != nil {
		return m.GetActivityFunc(ctx, activityID)
	}
	return nil, fmt.Errorf("activity not found")
}
func (m *MockActivitySource) AppendDescription(ctx context.Context, activity *strava.Activity, text string) error {
	if m.AppendDescriptionFunc != nil {
		return m.AppendDescriptionFunc(ctx, activity, text)
	}
	return nil
}

// --- Mock Generator ---
type MockGenerator struct {
	GenerateFunc func(ctx context.Context, promptText string) (*imagegen.Image, error)
	Prompts      []string
}

func (m *MockGenerator) Generate(ctx context.Context, promptText string) (*imagegen.Image, error) {
	m.Prompts = append(m.Prompts, promptText)
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, promptText)
	}
	return &imagegen.Image{Data: []byte("png-bytes")}, nil
}

// --- Mock Persister ---
type MockPersister struct {
	PersistFunc func(ctx context.Context, activityID int64, img *imagegen.Image) (*store.PersistedImage, error)
}

func (m *MockPersister) Persist(ctx context.Context, activityID int64, img *imagegen.Image) (*store.PersistedImage, error) {
	if m.PersistFunc != nil {
		return m.PersistFunc(ctx, activityID, img)
	}
	return &store.PersistedImage{
		Key:  fmt.Sprintf("%d_0", activityID),
		Path: fmt.Sprintf("generated_images/%d.png", activityID),
	}, nil
}
