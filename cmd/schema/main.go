// Package main provides the stagebase schema tool: it applies the graph's
// uniqueness constraints, loads YAML fixtures through the catalogue and
// tails its change events.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/urfave/cli/v3"

	"github.com/stagebase/stagebase/pkg/repo"
)

var version = "dev"

func main() {
	app := &cli.Command{
		Name:    "stagebase-schema",
		Version: version,
		Usage:   "Manage the stagebase graph schema and fixtures",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "neo4j-url",
				Usage:   "Neo4j connection URI",
				Value:   "neo4j://localhost:7687",
				Sources: cli.EnvVars("NEO4J_URL"),
			},
			&cli.StringFlag{
				Name:    "neo4j-user",
				Aliases: []string{"u"},
				Usage:   "Neo4j username",
				Value:   "neo4j",
				Sources: cli.EnvVars("NEO4J_USER"),
			},
			&cli.StringFlag{
				Name:    "neo4j-pass",
				Aliases: []string{"p"},
				Usage:   "Neo4j password",
				Sources: cli.EnvVars("NEO4J_PASS"),
			},
			&cli.StringFlag{
				Name:    "neo4j-database",
				Usage:   "Neo4j database (server default when empty)",
				Sources: cli.EnvVars("NEO4J_DATABASE"),
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "debug logging",
			},
		},
		Commands: []*cli.Command{
			applyCommand(),
			seedCommand(),
			eventsCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func logger(cmd *cli.Command) *slog.Logger {
	level := slog.LevelInfo
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// connect opens a verified store from the global flags. The returned func
// closes the driver.
func connect(ctx context.Context, cmd *cli.Command) (*repo.Neo4jStore, func(), error) {
	url := cmd.String("neo4j-url")
	driver, err := neo4j.NewDriverWithContext(url, neo4j.BasicAuth(cmd.String("neo4j-user"), cmd.String("neo4j-pass"), ""))
	if err != nil {
		return nil, nil, fmt.Errorf("neo4j driver: %w", err)
	}
	closeFn := func() { driver.Close(context.Background()) }
	if err := driver.VerifyConnectivity(ctx); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("neo4j verify %s: %w", url, err)
	}
	return repo.NewNeo4jStore(driver, repo.WithDatabase(cmd.String("neo4j-database"))), closeFn, nil
}
