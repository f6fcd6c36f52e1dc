package prompt

import (
	"fmt"

	"github.com/stravarunart/runart-server/pkg/strava"
)

type coordRange struct {
	minLat, maxLat float64
	minLng, maxLng float64
	name           string
}

// Coordinate-range lookup for common running locations. Avoids a geocoding
// API dependency for a scenery hint in the prompt.
var locationRanges = []coordRange{
	{43.6, 43.8, -79.5, -79.2, "Toronto, Canada"},
	{45.4, 45.7, -73.7, -73.4, "Montreal, Canada"},
	{40.5, 40.92, -74.25, -73.68, "New York City, USA"},
	{37.7, 37.9, -122.5, -122.3, "San Francisco, USA"},
	{33.7, 34.2, -118.5, -118.1, "Los Angeles, USA"},
	{42.3, 42.4, -71.1, -70.9, "Boston, USA"},
	{41.8, 42.0, -87.8, -87.5, "Chicago, USA"},
	{51.4, 51.6, -0.2, 0.1, "London, UK"},
	{48.8, 48.9, 2.2, 2.4, "Paris, France"},
	{52.4, 52.6, 13.3, 13.5, "Berlin, Germany"},
}

// LocationName maps coordinates to a place name, falling back to the raw
// coordinates when no known range matches. Returns "" for zero input.
func LocationName(lat, lng float64) string {
	if lat == 0 && lng == 0 {
		return ""
	}
	for _, r := range locationRanges {
		if lat >= r.minLat && lat <= r.maxLat && lng >= r.minLng && lng <= r.maxLng {
			return r.name
		}
	}
	return fmt.Sprintf("coordinates %.2f, %.2f", lat, lng)
}

// activityLocation averages the start and end coordinates of an activity,
// using the start point alone when the end is missing.
func activityLocation(activity *strava.Activity) (lat, lng float64) {
	start, end := activity.StartLatLng, activity.EndLatLng
	if len(start) < 2 {
		return 0, 0
	}
	if len(end) < 2 {
		return start[0], start[1]
	}
	return (start[0] + end[0]) / 2, (start[1] + end[1]) / 2
}
