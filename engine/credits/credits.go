// Package credits compiles ordered credit groups, cast lists and nominations
// into flat write fragments, one per (group, entity, member) combination,
// each tagged with its position at every level.
package credits

import (
	"github.com/stagebase/stagebase/engine/domain"
)

// IDFunc returns a fresh uuid for a node that may need creating.
type IDFunc func() string

// Fragment is one node to merge (or match) and one edge to create to it.
type Fragment struct {
	// Model is the label of the target node.
	Model domain.Model

	domain.Identity

	// UUID is the pending uuid used when the node is created, or the uuid of
	// an existing node when ByUUID is set.
	UUID   string
	ByUUID bool

	// Company is set on member fragments: the company the member was
	// credited through within the same group.
	Company *domain.Identity

	// Props are copied onto the created edge.
	Props map[string]any

	// Scope holds match keys that locate the edge's source node, such as a
	// category position. They are not written to the edge.
	Scope map[string]any

	GroupPosition  int
	EntityPosition int
	MemberPosition int
}

// IsMember reports whether the fragment credits a company member.
func (f Fragment) IsMember() bool { return f.Company != nil }

// Param renders the fragment as a query parameter map.
func (f Fragment) Param() map[string]any {
	p := map[string]any{
		"name":           f.Name,
		"differentiator": f.Differentiator,
		"uuid":           f.UUID,
		"props":          f.Props,
	}
	if f.Company != nil {
		p["companyName"] = f.Company.Name
		p["companyDifferentiator"] = f.Company.Differentiator
	}
	for k, v := range f.Scope {
		p[k] = v
	}
	return p
}

// Set is an ordered fragment list.
type Set []Fragment

// Entities returns the non-member fragments whose target has the given model,
// in order.
func (s Set) Entities(m domain.Model) []map[string]any {
	var out []map[string]any
	for _, f := range s {
		if !f.IsMember() && f.Model == m {
			out = append(out, f.Param())
		}
	}
	return out
}

// Members returns the member fragments, in order.
func (s Set) Members() []map[string]any {
	var out []map[string]any
	for _, f := range s {
		if f.IsMember() {
			out = append(out, f.Param())
		}
	}
	return out
}

// Models lists the distinct non-member target models in first-seen order.
func (s Set) Models() []domain.Model {
	var out []domain.Model
	seen := make(map[domain.Model]bool)
	for _, f := range s {
		if f.IsMember() || seen[f.Model] {
			continue
		}
		seen[f.Model] = true
		out = append(out, f.Model)
	}
	return out
}

// Compile flattens credit groups of one kind. Groups without a name get the
// kind's default. Entities credited twice stay two fragments.
func Compile(kind domain.CreditKind, groups []domain.CreditInput, id IDFunc) Set {
	var out Set
	for gi, g := range groups {
		name := g.Name
		if name == "" {
			name = kind.DefaultName()
		}
		groupProps := map[string]any{
			"kind":          string(kind),
			"creditName":    name,
			"creditType":    nullable(g.CreditType),
			"groupPosition": gi,
		}
		out = append(out, entities(g.Entities, groupProps, nil, gi, id)...)
	}
	return out
}

// entities compiles one ordered entity list sharing base edge props.
func entities(list []domain.CreditEntityInput, base, scope map[string]any, group int, id IDFunc) Set {
	var out Set
	for ei, e := range list {
		props := with(base, "entityPosition", ei)
		out = append(out, Fragment{
			Model:          e.EntityModel(),
			Identity:       e.Identity,
			UUID:           id(),
			Props:          props,
			Scope:          scope,
			GroupPosition:  group,
			EntityPosition: ei,
		})
		if e.EntityModel() != domain.ModelCompany {
			continue
		}
		company := e.Identity
		for mi, m := range e.Members {
			out = append(out, Fragment{
				Model:          domain.ModelPerson,
				Identity:       m,
				UUID:           id(),
				Company:        &company,
				Props:          with(props, "memberPosition", mi),
				Scope:          scope,
				GroupPosition:  group,
				EntityPosition: ei,
				MemberPosition: mi,
			})
		}
	}
	return out
}

func with(base map[string]any, k string, v any) map[string]any {
	out := make(map[string]any, len(base)+1)
	for key, val := range base {
		out[key] = val
	}
	out[k] = v
	return out
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
