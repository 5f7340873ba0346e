package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
)

func (cli *commandLine) stats(classID string) error {
	stats, err := cli.seqSvc.ClassStatistics(context.Background(), classID)
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	pct := color.New(color.FgRed)
	switch {
	case stats.CompletionPercentage >= 100:
		pct = color.New(color.FgGreen)
	case stats.CompletionPercentage > 0:
		pct = color.New(color.FgYellow)
	}
	if !cli.colored() {
		bold.DisableColor()
		pct.DisableColor()
	}

	_, _ = bold.Fprintf(cli.out, "Class %s\n", classID)
	fmt.Fprintf(cli.out, "  sequences:  %d\n", stats.TotalSequences)
	fmt.Fprintf(cli.out, "  sessions:   %d (%d assigned, %d unassigned)\n", stats.TotalSessions, stats.AssignedSessions, stats.UnassignedSessions)
	fmt.Fprint(cli.out, "  completion: ")
	_, _ = pct.Fprintf(cli.out, "%d%%\n", stats.CompletionPercentage)
	return nil
}
