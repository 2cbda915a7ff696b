package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/stagebase/stagebase/engine/graph"
)

func applyCommand() *cli.Command {
	return &cli.Command{
		Name:   "apply",
		Usage:  "Create the uuid and identity uniqueness constraints",
		Action: runApply,
	}
}

func runApply(ctx context.Context, cmd *cli.Command) error {
	store, closeFn, err := connect(ctx, cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	applied, err := graph.Apply(ctx, store)
	if err != nil {
		return err
	}
	for _, c := range applied {
		fmt.Fprintf(os.Stdout, "constraint %s\n", c.Name)
	}
	return nil
}
