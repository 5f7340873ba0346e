package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classplan/core"
	"github.com/trezcool/classplan/core/session"
)

// addSession validates & schedules a new session.Session
func (cli *commandLine) addSession(ns session.NewSession) error {
	if err := ns.Validate(cli.validate); err != nil {
		if vErrs, ok := err.(validator.ValidationErrors); ok {
			fldErrs := core.TranslateValidationErrors(vErrs, cli.translator)
			msgs := make([]string, 0, len(fldErrs))
			for fld, msg := range fldErrs {
				msgs = append(msgs, fld+": "+msg)
			}
			sort.Strings(msgs)
			return fmt.Errorf("invalid session: %s", strings.Join(msgs, "; "))
		}
		return err
	}

	sess, err := cli.sessSvc.Create(context.Background(), ns)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "session %s scheduled on %s (%d min)\n", sess.ID, sess.ScheduledAt.Format("Mon 02 Jan 2006 15:04"), sess.Duration)
	return nil
}
