// Package queries assembles the parameterised Cypher of every catalogue
// operation. Writes are composed from credit fragment sets and hierarchy
// links; reads return the full nested tree of one entity in one row.
package queries

import (
	"fmt"

	"github.com/stagebase/stagebase/engine/credits"
	"github.com/stagebase/stagebase/engine/cypher"
	"github.com/stagebase/stagebase/engine/domain"
	"github.com/stagebase/stagebase/pkg/repo"
)

// DefaultDepth bounds hierarchy chain reads when none is configured.
const DefaultDepth = 10

// Templates builds queries. Depth bounds every hierarchy chain read; NewID
// supplies pending uuids for nodes a write may create.
type Templates struct {
	Depth int
	NewID credits.IDFunc
}

// New returns templates reading chains depth levels deep.
func New(depth int, id credits.IDFunc) *Templates {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Templates{Depth: depth, NewID: id}
}

// hops is the number of ancestor levels read: one past the depth bound, so
// an over-long chain is detected rather than silently cut.
func (t *Templates) hops() int { return t.Depth + 1 }

func matchNode(m domain.Model, uuid string) *cypher.Query {
	q := cypher.New()
	return q.Match(fmt.Sprintf("(n:%s { uuid: %s })", m.Label(), q.Param("uuid", uuid)))
}

// Show builds the show query of model m.
func (t *Templates) Show(m domain.Model, uuid string) (*cypher.Query, error) {
	switch m {
	case domain.ModelMaterial:
		return t.MaterialShow(uuid), nil
	case domain.ModelProduction:
		return t.ProductionShow(uuid), nil
	case domain.ModelVenue:
		return t.VenueShow(uuid), nil
	case domain.ModelPerson:
		return t.PersonShow(uuid), nil
	case domain.ModelCompany:
		return t.CompanyShow(uuid), nil
	case domain.ModelCharacter:
		return t.CharacterShow(uuid), nil
	case domain.ModelAward:
		return t.AwardShow(uuid), nil
	case domain.ModelAwardCeremony:
		return t.AwardCeremonyShow(uuid), nil
	}
	return nil, fmt.Errorf("queries: no show query for %q", m)
}

// Edit builds the edit prefill query of model m.
func (t *Templates) Edit(m domain.Model, uuid string) (*cypher.Query, error) {
	switch m {
	case domain.ModelMaterial:
		return t.MaterialEdit(uuid), nil
	case domain.ModelProduction:
		return t.ProductionEdit(uuid), nil
	case domain.ModelVenue:
		return t.VenueEdit(uuid), nil
	case domain.ModelPerson, domain.ModelCompany, domain.ModelCharacter, domain.ModelAward:
		return BasicEdit(m, uuid), nil
	case domain.ModelAwardCeremony:
		return t.AwardCeremonyEdit(uuid), nil
	}
	return nil, fmt.Errorf("queries: no edit query for %q", m)
}

// List builds the list query of model m.
func (t *Templates) List(m domain.Model, opts repo.ListOpts) (*cypher.Query, error) {
	opts = opts.Normalized()
	var q *cypher.Query
	switch m {
	case domain.ModelMaterial:
		q = t.MaterialList()
	case domain.ModelProduction:
		q = t.ProductionList()
	case domain.ModelVenue:
		q = VenueList()
	case domain.ModelPerson, domain.ModelCompany, domain.ModelCharacter, domain.ModelAward:
		q = BasicList(m)
	case domain.ModelAwardCeremony:
		return AwardCeremonyList().Skip(opts.Offset).Limit(opts.Limit), nil
	default:
		return nil, fmt.Errorf("queries: no list query for %q", m)
	}
	return q.OrderBy("n.name", "n.differentiator").Skip(opts.Offset).Limit(opts.Limit), nil
}
