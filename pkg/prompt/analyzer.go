package prompt

import (
	"math"
	"strings"

	"github.com/stravarunart/runart-server/pkg/strava"
)

// AnalyzeRunType classifies a run from its name and metric splits so the
// poster mood matches the workout.
//
// Heuristics:
//   - Interval Run: clear alternating pattern of fast/slow splits
//   - Easy Run: > 5 miles at or slower than 7:30 min/mile
//   - Tempo Run: 3-10 miles faster than 7:30 with consistent splits
//   - Long Run: > 10 miles at or slower than 7:30 min/mile
func AnalyzeRunType(activity *strava.Activity) string {
	const fallback = "run"

	nameLower := strings.ToLower(activity.Name)
	for _, keyword := range []string{"hiit", "high intensity", "sprint", "tabata"} {
		if strings.Contains(nameLower, keyword) {
			return "High Intensity Interval Training"
		}
	}
	for _, keyword := range []string{"interval", "repeat", "400", "800", "1000", "1200", "1600"} {
		if strings.Contains(nameLower, keyword) {
			return "Interval Run"
		}
	}

	if len(activity.SplitsMetric) < 3 {
		return fallback
	}

	// Pace per split in seconds per km.
	var paces []float64
	for _, split := range activity.SplitsMetric {
		if split.AverageSpeed > 0 {
			paces = append(paces, 1000/split.AverageSpeed)
		}
	}
	if len(paces) < 3 {
		return fallback
	}

	var sum float64
	for _, p := range paces {
		sum += p
	}
	avgPace := sum / float64(len(paces))

	minPace, maxPace := paces[0], paces[0]
	var variance float64
	for _, p := range paces {
		minPace = math.Min(minPace, p)
		maxPace = math.Max(maxPace, p)
		variance += (p - avgPace) * (p - avgPace)
	}
	paceVariation := maxPace - minPace
	paceStdDev := math.Sqrt(variance / float64(len(paces)))

	// Three monotonically ordered consecutive splits break the
	// alternating fast/slow signature.
	alternating := true
	for i := 2; i < len(paces); i++ {
		ascending := paces[i] > paces[i-1] && paces[i-1] > paces[i-2]
		descending := paces[i] < paces[i-1] && paces[i-1] < paces[i-2]
		if ascending || descending {
			alternating = false
			break
		}
	}

	distanceMiles := Miles(activity.Distance)
	// 7:30 min/mile = 450 seconds per mile.
	avgPaceSecsPerMile := avgPace * 1.60934

	switch {
	case alternating && paceVariation > avgPace*0.2:
		return "Interval Run"
	case distanceMiles > 10 && avgPaceSecsPerMile >= 450:
		return "Long Run"
	case distanceMiles > 5 && avgPaceSecsPerMile >= 450:
		return "Easy Run"
	case distanceMiles >= 3 && distanceMiles <= 10 && avgPaceSecsPerMile < 450 && paceStdDev < avgPace*0.1:
		return "Tempo Run"
	case distanceMiles <= 5 && avgPaceSecsPerMile < 450:
		return "Tempo Run"
	}

	return fallback
}
