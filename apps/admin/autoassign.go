package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) autoAssign(classID string) error {
	ctx := context.Background()
	allocs, err := cli.seqSvc.AutoAssign(ctx, classID)
	if err != nil {
		return err
	}
	if len(allocs) == 0 {
		fmt.Fprintln(cli.out, "nothing to assign")
		return nil
	}

	seqs, err := cli.seqSvc.QueryByClass(ctx, classID)
	if err != nil {
		return err
	}
	names := make(map[string]string, len(seqs))
	for _, seq := range seqs {
		names[seq.ID] = seq.Name
	}
	for _, alloc := range allocs {
		fmt.Fprintf(cli.out, "%s: +%d sessions\n", names[alloc.SequenceID], len(alloc.SessionIDs))
	}
	return nil
}
