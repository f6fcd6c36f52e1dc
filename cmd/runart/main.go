// Command runart generates a poster-style artwork for a Strava activity
// and writes the link back into the activity description. By default it
// processes the most recent activity; with -select it lists recent
// activities and prompts for a choice.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/stravarunart/runart-server/pkg/bootstrap"
	"github.com/stravarunart/runart-server/pkg/pipeline"
	"github.com/stravarunart/runart-server/pkg/prompt"
)

func main() {
	selectMode := flag.Bool("select", false, "list recent activities and choose one interactively")
	flag.Parse()

	ctx := context.Background()
	svc, err := bootstrap.NewService(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init failed: %v\n", err)
		os.Exit(1)
	}

	var result *pipeline.Result
	if *selectMode {
		result, err = runSelect(ctx, svc)
	} else {
		result, err = svc.Pipeline.Run(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "runart: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Artwork saved to %s\n", result.Image.Path)
	if result.PartialSuccess() {
		// The image exists, so the run still counts. Exit zero.
		fmt.Fprintf(os.Stderr, "warning: description update failed: %v\n", result.UpdateErr)
		return
	}
	fmt.Printf("Description updated for %q\n", result.Activity.Name)
}

func runSelect(ctx context.Context, svc *bootstrap.Service) (*pipeline.Result, error) {
	if _, err := svc.Tokens.Token(ctx); err != nil {
		return nil, fmt.Errorf("stage %s: %w", pipeline.StageRefresh, err)
	}

	activities, err := svc.Activities.ListActivities(ctx, 5)
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w", pipeline.StageFetch, err)
	}

	for i, a := range activities {
		fmt.Printf("%d) %s  %s  %.2f mi  %s\n",
			i+1, a.StartDateLocal.Format("2006-01-02"), a.Name,
			prompt.Miles(a.Distance), prompt.FormatDuration(a.MovingTime))
	}

	choice, err := readChoice(len(activities))
	if err != nil {
		return nil, err
	}

	detailed, err := svc.Activities.GetActivity(ctx, activities[choice-1].ID)
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w", pipeline.StageFetch, err)
	}

	return svc.Pipeline.RunForActivity(ctx, detailed)
}

func readChoice(max int) (int, error) {
	fmt.Printf("Select an activity [1-%d]: ", max)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return 0, fmt.Errorf("read selection: %w", err)
	}

	choice, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || choice < 1 || choice > max {
		return 0, fmt.Errorf("invalid selection %q", strings.TrimSpace(line))
	}
	return choice, nil
}
