// Package prompt turns a Strava activity into a text prompt for the image
// generation service. Building is pure: no I/O, and malformed fields fall
// back to safe defaults instead of failing.
package prompt

import (
	"fmt"
	"strings"

	"github.com/stravarunart/runart-server/pkg/strava"
)

// Build constructs the poster prompt for an activity. The output always
// contains the activity title; for runs it also carries distance, duration,
// pace, and elevation in US customary units.
func Build(activity *strava.Activity) string {
	name := activity.Name
	if name == "" {
		name = "Activity"
	}

	activityType := activity.SportType
	if activityType == "" {
		activityType = activity.Type
	}
	if activityType == "" {
		activityType = "Run"
	}
	isRun := strings.EqualFold(activityType, "run")

	duration := formatLongDuration(activity.MovingTime)

	locationName := ""
	if lat, lng := activityLocation(activity); lat != 0 || lng != 0 {
		locationName = LocationName(lat, lng)
	}

	var description string
	if isRun {
		description = strings.ToLower(AnalyzeRunType(activity))
	} else {
		description = strings.ToLower(activityType)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Create a stylized %s poster celebrating a recent %s. ", description, description)
	fmt.Fprintf(&sb, "Activity title: '%s'. ", name)

	distanceMiles := Miles(activity.Distance)
	pace := paceString(activity)

	if isRun {
		fmt.Fprintf(&sb, "The run was %.2f miles with duration %s and avg pace %s. ", distanceMiles, duration, pace)
		fmt.Fprintf(&sb, "The run included %d feet of elevation gain. ", Feet(activity.TotalElevationGain))
	} else {
		fmt.Fprintf(&sb, "The activity duration was %s. ", duration)
	}

	if activity.AverageHeartrate > 0 {
		fmt.Fprintf(&sb, "Average heart rate during the %s was %d BPM. ", description, int(activity.AverageHeartrate))
	}

	if locationName != "" {
		fmt.Fprintf(&sb, "The %s took place in %s. Show visual elements or scenery that represents this location. ", description, locationName)
	}

	sb.WriteString("This is for personal, non-commercial use only. ")
	sb.WriteString("Overall style should evoke accomplishment and athleticism, with dynamic motion and inspirational feel. ")

	var stats []string
	if isRun && distanceMiles > 0 && pace != "unknown pace" {
		stats = append(stats, fmt.Sprintf("the distance (%.2f miles) and pace (%s)", distanceMiles, pace))
	}
	if activity.AverageHeartrate > 0 {
		stats = append(stats, fmt.Sprintf("heart rate (%d BPM)", int(activity.AverageHeartrate)))
	}
	if len(stats) > 0 {
		fmt.Fprintf(&sb, "Add visual elements showing %s statistics artistically integrated into the design. ", strings.Join(stats, " and "))
		sb.WriteString("Do not duplicate any numbers in the image - each statistic should appear only once. ")
	}

	sb.WriteString("This is purely fictional artwork for personal use.")

	return sb.String()
}

// paceString renders average pace as "M:SS min/mile", or "unknown pace"
// when distance or time is missing.
func paceString(activity *strava.Activity) string {
	formatted := FormatPace(activity.Distance, activity.MovingTime)
	if formatted == "N/A" {
		return "unknown pace"
	}
	return formatted + " min/mile"
}

// formatLongDuration renders seconds with a unit suffix for the prompt
// sentence: "1:02:03 hours" or "42:15 minutes".
func formatLongDuration(totalSeconds int) string {
	formatted := FormatDuration(totalSeconds)
	if totalSeconds >= 3600 {
		return formatted + " hours"
	}
	return formatted + " minutes"
}
