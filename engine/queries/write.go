package queries

import (
	"fmt"
	"strings"

	"github.com/stagebase/stagebase/engine/credits"
	"github.com/stagebase/stagebase/engine/cypher"
	"github.com/stagebase/stagebase/engine/domain"
)

// edges describes how one fragment set is written from n.
type edges struct {
	// param prefixes the parameter names of the set.
	param string
	rel   string

	// source is a MATCH pattern binding src from n and the fragment f; when
	// empty the edges start at n.
	source string

	// inbound writes the edge from the target to the source.
	inbound bool

	// company names the edge property recording a member's company uuid.
	company string
}

func list(frags []map[string]any) []any {
	out := make([]any, len(frags))
	for i, f := range frags {
		out[i] = f
	}
	return out
}

func (e edges) from() string {
	if e.source != "" {
		return "src"
	}
	return "n"
}

func (e edges) edge(target string) string {
	if e.inbound {
		return fmt.Sprintf("(%s)<-[r:%s]-(%s)", e.from(), e.rel, target)
	}
	return fmt.Sprintf("(%s)-[r:%s]->(%s)", e.from(), e.rel, target)
}

// write appends one unit subquery per target model, then one for company
// members. Targets are merged by identity, or matched by uuid for fragments
// flagged ByUUID. Members are written after their companies exist.
func (e edges) write(q *cypher.Query, set credits.Set) {
	for _, m := range set.Models() {
		var frags []map[string]any
		byUUID := false
		for _, f := range set {
			if f.IsMember() || f.Model != m {
				continue
			}
			frags = append(frags, f.Param())
			byUUID = f.ByUUID
		}
		sub := cypher.New()
		param := sub.Param(e.param+m.Label(), list(frags))
		sub.With("n").Unwind(param, "f")
		if e.source != "" {
			sub.Match(e.source)
		}
		if byUUID {
			sub.Match(fmt.Sprintf("(e:%s { uuid: f.uuid })", m.Label()))
		} else {
			sub.Merge(fmt.Sprintf("(e:%s { name: f.name, differentiator: f.differentiator })", m.Label())).
				OnCreateSet("e.uuid = f.uuid")
		}
		sub.Create(e.edge("e")).Set("r += f.props")
		q.Call(sub)
	}
	members := set.Members()
	if len(members) == 0 {
		return
	}
	sub := cypher.New()
	param := sub.Param(e.param+"Members", list(members))
	sub.With("n").Unwind(param, "f")
	scope := []string{"n", "f", "e"}
	if e.source != "" {
		sub.Match(e.source)
		scope = append(scope, "src")
	}
	sub.Merge("(e:Person { name: f.name, differentiator: f.differentiator })").
		OnCreateSet("e.uuid = f.uuid").
		With(scope...).
		Match("(co:Company { name: f.companyName, differentiator: f.companyDifferentiator })").
		Create(e.edge("e")).
		Set("r += f.props", "r."+e.company+" = co.uuid")
	q.Call(sub)
}

// links builds a fragment set for plain identity links, each edge carrying
// its position when positioned is set.
func links(m domain.Model, ids []domain.Identity, positioned bool, id credits.IDFunc) credits.Set {
	var out credits.Set
	for i, ident := range ids {
		props := map[string]any{}
		if positioned {
			props["position"] = i
		}
		out = append(out, credits.Fragment{Model: m, Identity: ident, UUID: id(), Props: props, EntityPosition: i})
	}
	return out
}

// uuidLinks builds a positioned fragment set for links to existing nodes.
func uuidLinks(m domain.Model, refs []domain.UUIDRef) credits.Set {
	var out credits.Set
	for i, r := range refs {
		out = append(out, credits.Fragment{
			Model:          m,
			UUID:           r.UUID,
			ByUUID:         true,
			Props:          map[string]any{"position": i},
			EntityPosition: i,
		})
	}
	return out
}

// characterLinks builds the DEPICTS fragments of a material's character groups.
func characterLinks(groups []domain.CharacterGroupInput, id credits.IDFunc) credits.Set {
	var out credits.Set
	for gi, g := range groups {
		for ci, c := range g.Characters {
			props := map[string]any{
				"groupPosition": gi,
				"groupName":     nullable(g.Name),
				"position":      ci,
				"displayName":   nullable(c.DisplayName()),
				"qualifier":     nullable(c.Qualifier),
			}
			out = append(out, credits.Fragment{
				Model:          domain.ModelCharacter,
				Identity:       c.NodeIdentity(),
				UUID:           id(),
				Props:          props,
				GroupPosition:  gi,
				EntityPosition: ci,
			})
		}
	}
	return out
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// node opens a write: CREATE on create, MATCH plus removal of the owned
// outgoing edges on update, then the scalar properties.
func node(m domain.Model, uuid string, create bool, props map[string]any, owned ...string) *cypher.Query {
	q := cypher.New()
	id := q.Param("uuid", uuid)
	if create {
		q.Create(fmt.Sprintf("(n:%s { uuid: %s })", m.Label(), id))
	} else {
		q.Match(fmt.Sprintf("(n:%s { uuid: %s })", m.Label(), id))
		if len(owned) > 0 {
			q.Call(cypher.New().
				With("n").
				OptionalMatch(fmt.Sprintf("(n)-[r:%s]->()", strings.Join(owned, "|"))).
				Delete("r"))
		}
	}
	return q.Set("n += " + q.Param("props", props))
}

func identityProps(id domain.Identity) map[string]any {
	return map[string]any{"name": id.Name, "differentiator": id.Differentiator}
}

func returnUUID(q *cypher.Query) *cypher.Query {
	return q.Return("n.uuid AS uuid")
}
