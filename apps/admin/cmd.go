package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/trezcool/classplan/core/sequence"
	"github.com/trezcool/classplan/core/session"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db         *sqlx.DB
	out        io.Writer
	sessSvc    *session.Service
	seqSvc     *sequence.Service
	validate   *validator.Validate
	translator ut.Translator
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS...] - run a goose command (up, down, status, version, redo, reset, up-to V, down-to V...)")
	fmt.Fprintln(cli.out, "  addsession -class CLASS -subject SUBJECT -date RFC3339 [-duration MINUTES] - schedule a session")
	fmt.Fprintln(cli.out, "  autoassign -class CLASS - fill the class's sequences with its unassigned sessions")
	fmt.Fprintln(cli.out, "  stats -class CLASS - print the class's assignment statistics")
}

// colored reports whether the output is a terminal.
func (cli *commandLine) colored() bool {
	f, ok := cli.out.(*os.File)
	return ok && isTerminalFunc(int(f.Fd()))
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addSessionCmd := flag.NewFlagSet("addsession", flag.ExitOnError)
	addSessionClass := addSessionCmd.String("class", "", "The class of the session.")
	addSessionSubject := addSessionCmd.String("subject", "", "The subject taught.")
	addSessionDate := addSessionCmd.String("date", "", "The date & time of the session, RFC3339 (eg. 2030-03-01T08:00:00Z).")
	addSessionDuration := addSessionCmd.Int("duration", session.DefaultDuration, "The duration of the session, in minutes.")

	autoAssignCmd := flag.NewFlagSet("autoassign", flag.ExitOnError)
	autoAssignClass := autoAssignCmd.String("class", "", "The class whose sessions are auto-assigned.")

	statsCmd := flag.NewFlagSet("stats", flag.ExitOnError)
	statsClass := statsCmd.String("class", "", "The class to summarise.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "addsession":
		if err := addSessionCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addSessionClass == "" || *addSessionSubject == "" || *addSessionDate == "" {
			addSessionCmd.Usage()
			return errHelp
		}
		date, err := time.Parse(time.RFC3339, *addSessionDate)
		if err != nil {
			return fmt.Errorf("invalid date %q: must be RFC3339 (eg. 2030-03-01T08:00:00Z)", *addSessionDate)
		}
		return cli.addSession(session.NewSession{
			ClassID:     *addSessionClass,
			Subject:     *addSessionSubject,
			ScheduledAt: date,
			Duration:    *addSessionDuration,
		})
	case "autoassign":
		if err := autoAssignCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *autoAssignClass == "" {
			autoAssignCmd.Usage()
			return errHelp
		}
		return cli.autoAssign(*autoAssignClass)
	case "stats":
		if err := statsCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *statsClass == "" {
			statsCmd.Usage()
			return errHelp
		}
		return cli.stats(*statsClass)
	default:
		cli.printUsage()
		return errHelp
	}
}
