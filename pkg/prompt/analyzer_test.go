package prompt

import (
	"testing"

	"github.com/stravarunart/runart-server/pkg/strava"
)

// splits builds metric splits from paces given in seconds per km.
func splits(paces ...float64) []strava.Split {
	out := make([]strava.Split, len(paces))
	for i, p := range paces {
		out[i] = strava.Split{Distance: 1000, AverageSpeed: 1000 / p}
	}
	return out
}

func TestAnalyzeRunType(t *testing.T) {
	tests := []struct {
		name     string
		activity strava.Activity
		want     string
	}{
		{
			name:     "HIIT keyword in name",
			activity: strava.Activity{Name: "Lunchtime HIIT session"},
			want:     "High Intensity Interval Training",
		},
		{
			name:     "interval keyword in name",
			activity: strava.Activity{Name: "6x800 repeats"},
			want:     "Interval Run",
		},
		{
			name:     "too few splits falls back",
			activity: strava.Activity{Name: "Morning Run", SplitsMetric: splits(300, 310)},
			want:     "run",
		},
		{
			name: "alternating fast and slow splits",
			activity: strava.Activity{
				Name:         "Morning Run",
				Distance:     8000,
				SplitsMetric: splits(250, 360, 250, 360, 250, 360),
			},
			want: "Interval Run",
		},
		{
			name: "long slow run",
			activity: strava.Activity{
				Name:         "Sunday Run",
				Distance:     18000, // 11.18 miles
				SplitsMetric: splits(310, 312, 308, 311, 309, 310),
			},
			want: "Long Run",
		},
		{
			name: "easy run over five miles",
			activity: strava.Activity{
				Name:         "Morning Run",
				Distance:     10000, // 6.21 miles
				SplitsMetric: splits(310, 312, 308, 311),
			},
			want: "Easy Run",
		},
		{
			name: "tempo run with consistent fast splits",
			activity: strava.Activity{
				Name:         "Workout",
				Distance:     8000, // 4.97 miles
				SplitsMetric: splits(260, 262, 258, 261),
			},
			want: "Tempo Run",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AnalyzeRunType(&tt.activity); got != tt.want {
				t.Errorf("AnalyzeRunType() = %q, want %q", got, tt.want)
			}
		})
	}
}
