package shape

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/stagebase/stagebase/engine/domain"
	"github.com/stagebase/stagebase/pkg/repo"
)

// ErrMissingParent reports a chain whose parent row was not returned.
var ErrMissingParent = errors.New("hierarchy parent missing from result")

// DefaultMaxDepth bounds chain traversal when no depth is configured.
const DefaultMaxDepth = 10

// Node is one arena entry. Parent is the uuid of the node's parent in the
// arena's relation, or "" at a root.
type Node struct {
	UUID     string
	Name     string
	Format   string
	Year     int
	Parent   string
	Position int
}

// Arena holds the nodes of one hierarchy relation by uuid, with the
// relation kept as parent uuids plus a position-ordered reverse index.
// Chains are folded by repeated lookup; no node holds a pointer to another.
type Arena struct {
	model    domain.Model
	maxDepth int
	nodes    map[string]Node
	children map[string][]string
}

// NewArena indexes arena rows:
//
//	uuid, name, format, year, parentUuid, position
//
// Rows for the same uuid are merged; the first non-empty parent wins.
func NewArena(m domain.Model, rows []repo.Row, maxDepth int) *Arena {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	a := &Arena{
		model:    m,
		maxDepth: maxDepth,
		nodes:    make(map[string]Node, len(rows)),
		children: make(map[string][]string),
	}
	for _, r := range rows {
		id := Str(r, "uuid")
		if id == "" {
			continue
		}
		n, seen := a.nodes[id]
		if !seen {
			n = Node{
				UUID:     id,
				Name:     Str(r, "name"),
				Format:   Str(r, "format"),
				Year:     Int(r, "year"),
				Position: Int(r, "position"),
			}
		}
		if n.Parent == "" {
			if p := Str(r, "parentUuid"); p != "" {
				n.Parent = p
				n.Position = Int(r, "position")
				a.children[p] = append(a.children[p], id)
			}
		}
		a.nodes[id] = n
	}
	for p, kids := range a.children {
		slices.SortStableFunc(kids, func(x, y string) int {
			nx, ny := a.nodes[x], a.nodes[y]
			if c := cmp.Compare(nx.Position, ny.Position); c != 0 {
				return c
			}
			return cmp.Compare(nx.Name, ny.Name)
		})
		a.children[p] = kids
	}
	return a
}

func (a *Arena) ref(n Node) domain.Link {
	id := n.UUID
	return domain.Link{Model: a.model, UUID: &id, Name: n.Name}
}

// Up folds the parent chain of id into nested links rendered under key, the
// nearest parent outermost. The topmost link carries no key. It returns nil
// when id has no parent or is not in the arena.
func (a *Arena) Up(id, key string) (*domain.Link, error) {
	start, ok := a.nodes[id]
	if !ok {
		return nil, nil
	}
	var chain []Node
	seen := map[string]bool{id: true}
	for p := start.Parent; p != ""; {
		if len(chain) >= a.maxDepth || seen[p] {
			return nil, fmt.Errorf("%w: %s %s via %s", domain.ErrChainDepth, a.model, id, key)
		}
		seen[p] = true
		n, ok := a.nodes[p]
		if !ok {
			return nil, fmt.Errorf("%w: %s %s", ErrMissingParent, a.model, p)
		}
		chain = append(chain, n)
		p = n.Parent
	}
	var link *domain.Link
	for i := len(chain) - 1; i >= 0; i-- {
		l := a.ref(chain[i])
		l.Up, l.UpKey = link, key
		link = &l
	}
	return link, nil
}

// Self returns id itself as a link carrying its parent chain under key.
func (a *Arena) Self(id, key string) (*domain.Link, error) {
	n, ok := a.nodes[id]
	if !ok {
		return nil, nil
	}
	up, err := a.Up(id, key)
	if err != nil {
		return nil, err
	}
	l := a.ref(n)
	l.Up, l.UpKey = up, key
	return &l, nil
}

// Down renders the children of id, in position order, levels deep. Each child
// carries its own children under key while levels remain. Children carry
// their format and year when set.
func (a *Arena) Down(id, key string, levels int) ([]domain.Link, error) {
	return a.down(id, key, levels, 0, map[string]bool{id: true})
}

func (a *Arena) down(id, key string, levels, depth int, seen map[string]bool) ([]domain.Link, error) {
	kids := a.children[id]
	out := make([]domain.Link, 0, len(kids))
	if levels <= 0 || len(kids) == 0 {
		return out, nil
	}
	if depth >= a.maxDepth {
		return nil, fmt.Errorf("%w: %s %s via %s", domain.ErrChainDepth, a.model, id, key)
	}
	for _, kid := range kids {
		if seen[kid] {
			return nil, fmt.Errorf("%w: %s %s via %s", domain.ErrChainDepth, a.model, kid, key)
		}
		seen[kid] = true
		n := a.nodes[kid]
		l := a.ref(n)
		l.Format, l.Year = n.Format, n.Year
		if levels > 1 {
			sub, err := a.down(kid, key, levels-1, depth+1, seen)
			if err != nil {
				return nil, err
			}
			l.Down, l.DownKey = sub, key
		}
		out = append(out, l)
	}
	return out, nil
}

// Children lists the direct children of id as bare links sorted by name,
// for derived relations without positions such as subsequent versions.
func (a *Arena) Children(id string) []domain.Link {
	kids := slices.Clone(a.children[id])
	slices.SortStableFunc(kids, func(x, y string) int { return cmp.Compare(a.nodes[x].Name, a.nodes[y].Name) })
	out := make([]domain.Link, 0, len(kids))
	for _, kid := range kids {
		n := a.nodes[kid]
		l := a.ref(n)
		l.Format, l.Year = n.Format, n.Year
		out = append(out, l)
	}
	return out
}
