package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/urfave/cli/v3"

	"github.com/stagebase/stagebase/engine/catalogue"
	"github.com/stagebase/stagebase/pkg/natsutil"
)

func eventsCommand() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "Print catalogue change events until interrupted",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "nats-url",
				Usage:   "NATS server URL",
				Value:   nats.DefaultURL,
				Sources: cli.EnvVars("NATS_URL"),
			},
			&cli.StringFlag{
				Name:  "subject",
				Usage: "subject filter, e.g. stagebase.person.*",
				Value: catalogue.AllSubjects,
			},
		},
		Action: runEvents,
	}
}

func formatEvent(e catalogue.Event) string {
	name := e.Name
	if e.Differentiator != "" {
		name += " (" + e.Differentiator + ")"
	}
	return fmt.Sprintf("%-6s %-14s %s %s", e.Op, e.Model, e.UUID, name)
}

func runEvents(ctx context.Context, cmd *cli.Command) error {
	nc, err := nats.Connect(cmd.String("nats-url"), nats.Name("stagebase-schema"))
	if err != nil {
		return fmt.Errorf("nats connect: %w", err)
	}
	defer nc.Drain()

	sub, err := natsutil.Subscribe(nc, cmd.String("subject"), func(_ context.Context, e catalogue.Event) {
		fmt.Fprintln(os.Stdout, formatEvent(e))
	})
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	defer sub.Unsubscribe()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	return nil
}
