package prompt

import (
	"fmt"
	"math"
)

const (
	metersPerMile = 1609.34
	feetPerMeter  = 3.28084
)

// Miles converts meters to miles, rounded to two decimals.
func Miles(meters float64) float64 {
	return math.Round(meters/metersPerMile*100) / 100
}

// Feet converts meters to whole feet.
func Feet(meters float64) int {
	return int(math.Round(meters * feetPerMeter))
}

// FormatDuration renders seconds as "H:MM:SS" or "M:SS".
func FormatDuration(totalSeconds int) string {
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// FormatPace renders the average pace in minutes per mile as "M:SS".
// Returns "N/A" when either input is zero.
func FormatPace(distanceMeters float64, totalSeconds int) string {
	miles := Miles(distanceMeters)
	if miles <= 0 || totalSeconds <= 0 {
		return "N/A"
	}
	secondsPerMile := float64(totalSeconds) / miles
	paceMinutes := int(secondsPerMile) / 60
	paceSeconds := int(secondsPerMile) % 60
	return fmt.Sprintf("%d:%02d", paceMinutes, paceSeconds)
}
