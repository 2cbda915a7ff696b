// Package graph manages the catalogue's graph schema and reports graph
// statistics.
package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/stagebase/stagebase/engine/domain"
	"github.com/stagebase/stagebase/pkg/repo"
)

// Constraint is one schema constraint on an identity label.
type Constraint struct {
	Name  string
	Label string
	// Properties are unique together.
	Properties []string
}

// Cypher renders the idempotent create statement.
func (c Constraint) Cypher() string {
	props := make([]string, len(c.Properties))
	for i, p := range c.Properties {
		props[i] = "n." + p
	}
	target := props[0]
	if len(props) > 1 {
		target = "(" + strings.Join(props, ", ") + ")"
	}
	return fmt.Sprintf("CREATE CONSTRAINT %s IF NOT EXISTS FOR (n:%s) REQUIRE %s IS UNIQUE", c.Name, c.Label, target)
}

// Constraints lists the uuid and (name, differentiator) uniqueness
// constraints of every identity label.
func Constraints() []Constraint {
	var out []Constraint
	for _, m := range domain.IdentityModels {
		name := strings.ToLower(string(m))
		out = append(out,
			Constraint{Name: name + "_uuid", Label: m.Label(), Properties: []string{"uuid"}},
			Constraint{Name: name + "_identity", Label: m.Label(), Properties: []string{"name", "differentiator"}},
		)
	}
	return out
}

// Apply creates every missing constraint. Each statement runs in its own
// transaction since schema and data changes cannot share one.
func Apply(ctx context.Context, store repo.Store) ([]Constraint, error) {
	cs := Constraints()
	for _, c := range cs {
		err := store.Write(ctx, func(ctx context.Context, r repo.Runner) error {
			_, err := r.Run(ctx, c.Cypher(), nil)
			return err
		})
		if err != nil {
			return nil, domain.NewStoreError("apply constraint "+c.Name, err)
		}
	}
	return cs, nil
}
