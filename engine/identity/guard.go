package identity

import (
	"context"
	"fmt"

	"github.com/stagebase/stagebase/engine/cypher"
	"github.com/stagebase/stagebase/engine/domain"
	"github.com/stagebase/stagebase/pkg/repo"
)

// DefaultDepth bounds ancestor searches when no depth is configured.
const DefaultDepth = 10

// Hierarchy is a containment or version relation between nodes of one model.
// Edges run parent -> child for containment and subsequent -> original for
// versions; in both cases a new link from self to a prospective node would
// close a cycle when that node already reaches self along the relation.
type Hierarchy struct {
	Model domain.Model
	Rel   string

	// Exclusive relations allow a child at most one parent.
	Exclusive bool
}

var (
	SubMaterials    = Hierarchy{Model: domain.ModelMaterial, Rel: "SUB_MATERIAL", Exclusive: true}
	SubVenues       = Hierarchy{Model: domain.ModelVenue, Rel: "SUB_VENUE", Exclusive: true}
	SubProductions  = Hierarchy{Model: domain.ModelProduction, Rel: "SUB_PRODUCTION", Exclusive: true}
	OriginalVersion = Hierarchy{Model: domain.ModelMaterial, Rel: "ORIGINAL_VERSION"}
)

// Query builds the guard query: one row per candidate, matched on alias c by
// match, with the columns index, found, isAncestor and hasParent.
func (h Hierarchy) Query(self string, depth int, candidates []map[string]any, match string) *cypher.Query {
	if depth <= 0 {
		depth = DefaultDepth
	}
	label := h.Model.Label()
	q := cypher.New()
	list := q.Param("candidates", candidates)
	own := q.Param("self", self)
	return q.Unwind(list, "c").
		OptionalMatch(match).
		Return(
			"c.index AS index",
			"x IS NOT NULL AS found",
			fmt.Sprintf("x IS NOT NULL AND EXISTS { MATCH (x)-[:%s*1..%d]->(:%s { uuid: %s }) } AS isAncestor", h.Rel, depth, label, own),
			fmt.Sprintf("x IS NOT NULL AND EXISTS { MATCH (p:%s)-[:%s]->(x) WHERE p.uuid <> %s } AS hasParent", label, h.Rel, own),
		)
}

// Guard checks prospective children named by identity. A child that is an
// ancestor of self is reported with MsgAncestor; in exclusive relations a
// child that already has another parent is reported with MsgHasParent.
// Errors are keyed field.i.name.
func (h Hierarchy) Guard(ctx context.Context, r repo.Runner, self, field string, depth int, children []domain.Identity) (domain.Errors, error) {
	rows, err := h.byIdentity(ctx, r, self, depth, children)
	if err != nil {
		return nil, err
	}
	var errs domain.Errors
	for _, row := range rows {
		h.report(&errs, row, domain.Path(field, index(row), "name"), false)
	}
	return errs, nil
}

// GuardOne checks a single prospective link target, keyed field.name.
func (h Hierarchy) GuardOne(ctx context.Context, r repo.Runner, self, field string, depth int, target domain.Identity) (domain.Errors, error) {
	rows, err := h.byIdentity(ctx, r, self, depth, []domain.Identity{target})
	if err != nil {
		return nil, err
	}
	var errs domain.Errors
	for _, row := range rows {
		h.report(&errs, row, domain.Path(field, "name"), false)
	}
	return errs, nil
}

// GuardUUIDs checks prospective children referenced by uuid, additionally
// reporting MsgUnknownUUID for uuids that match no node. Malformed uuids are
// left to intrinsic validation.
func (h Hierarchy) GuardUUIDs(ctx context.Context, r repo.Runner, self, field string, depth int, children []domain.UUIDRef) (domain.Errors, error) {
	var candidates []map[string]any
	for i, c := range children {
		if !domain.ValidUUID(c.UUID) {
			continue
		}
		candidates = append(candidates, map[string]any{"index": i, "uuid": c.UUID})
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	match := fmt.Sprintf("(x:%s { uuid: c.uuid })", h.Model.Label())
	rows, err := h.run(ctx, r, self, depth, candidates, match)
	if err != nil {
		return nil, err
	}
	var errs domain.Errors
	for _, row := range rows {
		h.report(&errs, row, domain.Path(field, index(row), "uuid"), true)
	}
	return errs, nil
}

func (h Hierarchy) byIdentity(ctx context.Context, r repo.Runner, self string, depth int, children []domain.Identity) ([]repo.Row, error) {
	var candidates []map[string]any
	for i, c := range children {
		if c.Name == "" {
			continue
		}
		candidates = append(candidates, map[string]any{
			"index":          i,
			"name":           c.Name,
			"differentiator": c.Differentiator,
		})
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	match := fmt.Sprintf("(x:%s { name: c.name, differentiator: c.differentiator })", h.Model.Label())
	return h.run(ctx, r, self, depth, candidates, match)
}

func (h Hierarchy) run(ctx context.Context, r repo.Runner, self string, depth int, candidates []map[string]any, match string) ([]repo.Row, error) {
	text, params := h.Query(self, depth, candidates, match).Render()
	rows, err := r.Run(ctx, text, params)
	if err != nil {
		return nil, domain.NewStoreError("guard "+h.Rel, err)
	}
	return rows, nil
}

func (h Hierarchy) report(errs *domain.Errors, row repo.Row, key string, mustExist bool) {
	switch {
	case mustExist && !asBool(row["found"]):
		errs.Add(key, domain.MsgUnknownUUID)
	case asBool(row["isAncestor"]):
		errs.Add(key, domain.MsgAncestor)
	case h.Exclusive && asBool(row["hasParent"]):
		errs.Add(key, domain.MsgHasParent)
	}
}

func index(row repo.Row) int {
	switch v := row["index"].(type) {
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}
