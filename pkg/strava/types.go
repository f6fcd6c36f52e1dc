package strava

import "time"

// Activity is the subset of the Strava activity record the pipeline uses.
// Distances are meters, durations are seconds, matching the API.
type Activity struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	SportType          string    `json:"sport_type"`
	Type               string    `json:"type"`
	StartDateLocal     time.Time `json:"start_date_local"`
	Distance           float64   `json:"distance"`
	MovingTime         int       `json:"moving_time"`
	ElapsedTime        int       `json:"elapsed_time"`
	TotalElevationGain float64   `json:"total_elevation_gain"`
	AverageHeartrate   float64   `json:"average_heartrate"`
	Description        string    `json:"description"`
	StartLatLng        []float64 `json:"start_latlng"`
	EndLatLng          []float64 `json:"end_latlng"`
	SplitsMetric       []Split   `json:"splits_metric"`
}

// Split is one metric (1 km) split of a detailed activity.
type Split struct {
	Distance      float64 `json:"distance"`
	MovingTime    int     `json:"moving_time"`
	AverageSpeed  float64 `json:"average_speed"`
	ElevationDiff float64 `json:"elevation_difference"`
}

// ActivityUpdate is the writable subset sent to the activity-update endpoint.
type ActivityUpdate struct {
	Name        string `json:"name,omitempty"`
	SportType   string `json:"sport_type,omitempty"`
	Description string `json:"description,omitempty"`
}
