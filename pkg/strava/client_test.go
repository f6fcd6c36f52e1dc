package strava

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	raerrors "github.com/stravarunart/runart-server/pkg/errors"
)

func TestListActivities(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/athlete/activities" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("per_page"); got != "5" {
			t.Errorf("per_page = %s, want 5", got)
		}
		json.NewEncoder(w).Encode([]Activity{
			{ID: 101, Name: "Morning Run"},
			{ID: 100, Name: "Evening Run"},
		})
	}))
	defer server.Close()

	client := NewClient(server.Client()).WithBaseURL(server.URL)
	activities, err := client.ListActivities(context.Background(), 5)
	if err != nil {
		t.Fatalf("ListActivities() error = %v", err)
	}
	if len(activities) != 2 || activities[0].ID != 101 {
		t.Errorf("ListActivities() = %+v", activities)
	}
}

func TestListActivities_Empty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	client := NewClient(server.Client()).WithBaseURL(server.URL)
	_, err := client.ListActivities(context.Background(), 1)
	if !errors.Is(err, raerrors.ErrNoActivities) {
		t.Errorf("ListActivities() error = %v, want ErrNoActivities", err)
	}
}

func TestListActivities_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.Client()).WithBaseURL(server.URL)
	_, err := client.ListActivities(context.Background(), 1)
	if !errors.Is(err, raerrors.ErrFetch) {
		t.Errorf("ListActivities() error = %v, want ErrFetch", err)
	}
}

func TestGetActivity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/activities/42" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(Activity{
			ID:           42,
			Name:         "Tempo Tuesday",
			SplitsMetric: []Split{{Distance: 1000, AverageSpeed: 3.5}},
		})
	}))
	defer server.Close()

	client := NewClient(server.Client()).WithBaseURL(server.URL)
	activity, err := client.GetActivity(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetActivity() error = %v", err)
	}
	if activity.ID != 42 || len(activity.SplitsMetric) != 1 {
		t.Errorf("GetActivity() = %+v", activity)
	}
}

func TestAppendDescription_PreservesExisting(t *testing.T) {
	var gotBody ActivityUpdate
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PUT" {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	client := NewClient(server.Client()).WithBaseURL(server.URL)
	activity := &Activity{ID: 7, Description: "Great run today"}
	if err := client.AppendDescription(context.Background(), activity, "Run artwork: http://example.com/x.png"); err != nil {
		t.Fatalf("AppendDescription() error = %v", err)
	}

	want := "Great run today\n\nRun artwork: http://example.com/x.png"
	if gotBody.Description != want {
		t.Errorf("description = %q, want %q", gotBody.Description, want)
	}
}

func TestAppendDescription_EmptyOriginal(t *testing.T) {
	var gotBody ActivityUpdate
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	client := NewClient(server.Client()).WithBaseURL(server.URL)
	if err := client.AppendDescription(context.Background(), &Activity{ID: 7}, "link"); err != nil {
		t.Fatalf("AppendDescription() error = %v", err)
	}
	if gotBody.Description != "link" {
		t.Errorf("description = %q, want %q", gotBody.Description, "link")
	}
}

func TestUpdateActivity_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.Client()).WithBaseURL(server.URL)
	err := client.UpdateActivity(context.Background(), 99, ActivityUpdate{Description: "x"})
	if !errors.Is(err, raerrors.ErrUpdate) {
		t.Errorf("UpdateActivity() error = %v, want ErrUpdate", err)
	}
}
