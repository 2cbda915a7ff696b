package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/stagebase/stagebase/engine/catalogue"
	"github.com/stagebase/stagebase/engine/domain"
	"github.com/stagebase/stagebase/engine/identity"
)

var ErrNoFixtures = errors.New("no fixture files given")

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:      "seed",
		Usage:     "Create catalogue entries from YAML fixtures",
		ArgsUsage: "<files...>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "keep-going",
				Usage: "continue after a rejected record",
			},
		},
		Action: runSeed,
	}
}

// fixture is one record of a fixture file. Besides kind and uuid it carries
// the create body of its kind, decoded later from node.
type fixture struct {
	Kind string `yaml:"kind"`
	// UUID pins the created node's uuid, so later records can reference it
	// (sub-productions and nominated productions are linked by uuid).
	UUID string `yaml:"uuid"`

	source string
	node   yaml.Node
}

func (f fixture) String() string {
	if f.node.Line > 0 {
		return fmt.Sprintf("%s:%d", f.source, f.node.Line)
	}
	return f.source
}

// loadFixtures reads every YAML document of r. A document is a sequence of
// records, each a mapping with a kind key.
func loadFixtures(source string, r io.Reader) ([]fixture, error) {
	dec := yaml.NewDecoder(r)
	var out []fixture
	for {
		var doc []yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		for _, n := range doc {
			f := fixture{source: source, node: n}
			if err := n.Decode(&f); err != nil {
				return nil, fmt.Errorf("%s: %w", f, err)
			}
			if _, ok := domain.ModelForSlug(f.Kind); !ok {
				return nil, fmt.Errorf("%s: unknown kind %q", f, f.Kind)
			}
			out = append(out, f)
		}
	}
}

// pinnedIDs hands out a pinned uuid once, then falls back to random ones.
// The catalogue draws the created node's uuid before any other.
type pinnedIDs struct {
	next string
}

func (p *pinnedIDs) pin(uuid string) { p.next = uuid }

func (p *pinnedIDs) id() string {
	if p.next != "" {
		id := p.next
		p.next = ""
		return id
	}
	return identity.NewUUID()
}

// seeder creates fixtures through the catalogue one by one.
type seeder struct {
	cat       *catalogue.Catalogue
	ids       *pinnedIDs
	log       *slog.Logger
	keepGoing bool
}

type seedReport struct {
	Created  int
	Rejected int
}

func (s *seeder) seed(ctx context.Context, fixtures []fixture) (seedReport, error) {
	var rep seedReport
	for _, f := range fixtures {
		m, _ := domain.ModelForSlug(f.Kind)
		k, ok := s.cat.Kind(m)
		if !ok {
			return rep, fmt.Errorf("%s: kind %q is not registered", f, f.Kind)
		}
		in := k.NewInput()
		if err := f.node.Decode(in); err != nil {
			return rep, fmt.Errorf("%s: %w", f, err)
		}

		s.ids.pin(f.UUID)
		out, err := k.Create(ctx, in)
		s.ids.pin("")
		if err != nil {
			return rep, fmt.Errorf("%s: %w", f, err)
		}

		if errs := rejected(out); errs != nil {
			rep.Rejected++
			s.log.Warn("fixture rejected", "at", f.String(), "kind", f.Kind, "name", in.Ident().Name, "fields", strings.Join(errs.Fields(), ","))
			if !s.keepGoing {
				return rep, fmt.Errorf("%s: %s %q rejected", f, f.Kind, in.Ident().Name)
			}
			continue
		}
		rep.Created++
		s.log.Debug("fixture created", "at", f.String(), "kind", f.Kind, "name", in.Ident().Name)
	}
	return rep, nil
}

func rejected(out any) domain.Errors {
	if r, ok := out.(interface{ Rejected() domain.Errors }); ok {
		return r.Rejected()
	}
	return nil
}

func runSeed(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return ErrNoFixtures
	}

	var fixtures []fixture
	for _, p := range paths {
		fh, err := os.Open(p)
		if err != nil {
			return err
		}
		fs, err := loadFixtures(p, fh)
		fh.Close()
		if err != nil {
			return err
		}
		fixtures = append(fixtures, fs...)
	}

	store, closeFn, err := connect(ctx, cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	log := logger(cmd)
	ids := &pinnedIDs{}
	s := &seeder{
		cat:       catalogue.New(store, catalogue.WithLogger(log), catalogue.WithIDs(ids.id)),
		ids:       ids,
		log:       log,
		keepGoing: cmd.Bool("keep-going"),
	}
	rep, err := s.seed(ctx, fixtures)
	fmt.Fprintf(os.Stdout, "created %d, rejected %d\n", rep.Created, rep.Rejected)
	return err
}
