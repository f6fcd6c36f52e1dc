// Package strava is a thin client for the Strava v3 API, covering the
// three calls the pipeline needs: list recent activities, fetch one in
// detail, and update a description.
package strava

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	raerrors "github.com/stravarunart/runart-server/pkg/errors"
)

// DefaultBaseURL is the Strava API root.
const DefaultBaseURL = "https://www.strava.com/api/v3"

// Client calls the Strava API. The supplied http.Client is expected to
// carry authentication (see pkg/oauth.Transport).
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    DefaultBaseURL,
	}
}

// WithBaseURL overrides the API root, used by tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// ListActivities returns the athlete's most recent activities, newest
// first. An empty result is an error: the pipeline has nothing to work
// with and must stop before generation.
func (c *Client) ListActivities(ctx context.Context, limit int) ([]Activity, error) {
	url := fmt.Sprintf("%s/athlete/activities?per_page=%d", c.baseURL, limit)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, raerrors.ErrFetch.WithCause(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, raerrors.ErrFetch.WithMessage("failed to get activities").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, raerrors.ErrFetch.
			WithMessage(fmt.Sprintf("activities list returned %s", resp.Status)).
			WithMetadata("body", string(body))
	}

	var activities []Activity
	if err := json.NewDecoder(resp.Body).Decode(&activities); err != nil {
		return nil, raerrors.ErrFetch.WithMessage("failed to decode activities").WithCause(err)
	}

	if len(activities) == 0 {
		return nil, raerrors.ErrNoActivities
	}

	return activities, nil
}

// GetActivity fetches the detailed record for one activity, including
// metric splits.
func (c *Client) GetActivity(ctx context.Context, activityID int64) (*Activity, error) {
	url := fmt.Sprintf("%s/activities/%d", c.baseURL, activityID)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, raerrors.ErrFetch.WithCause(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, raerrors.ErrFetch.WithMessage("failed to get activity").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, raerrors.ErrFetch.
			WithMessage(fmt.Sprintf("activity %d returned %s", activityID, resp.Status)).
			WithMetadata("body", string(body))
	}

	var activity Activity
	if err := json.NewDecoder(resp.Body).Decode(&activity); err != nil {
		return nil, raerrors.ErrFetch.WithMessage("failed to decode activity").WithCause(err)
	}

	return &activity, nil
}

// UpdateActivity PUTs the writable fields of an activity.
func (c *Client) UpdateActivity(ctx context.Context, activityID int64, update ActivityUpdate) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return raerrors.ErrUpdate.WithCause(err)
	}

	url := fmt.Sprintf("%s/activities/%d", c.baseURL, activityID)
	req, err := http.NewRequestWithContext(ctx, "PUT", url, bytes.NewReader(payload))
	if err != nil {
		return raerrors.ErrUpdate.WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return raerrors.ErrUpdate.WithMessage("failed to update activity").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return raerrors.ErrUpdate.
			WithMessage(fmt.Sprintf("activity update returned %s", resp.Status)).
			WithMetadata("body", string(body))
	}

	return nil
}

// AppendDescription appends text to an activity's existing description,
// preserving the original content as a prefix. Strava has no API for
// attaching photos to existing activities, so a description link is the
// permanent design here, not a stopgap.
func (c *Client) AppendDescription(ctx context.Context, activity *Activity, text string) error {
	desc := activity.Description
	if desc != "" {
		desc += "\n\n"
	}
	desc += text

	return c.UpdateActivity(ctx, activity.ID, ActivityUpdate{Description: desc})
}
