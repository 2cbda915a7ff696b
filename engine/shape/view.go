package shape

import (
	"github.com/stagebase/stagebase/engine/domain"
	"github.com/stagebase/stagebase/pkg/fn"
)

// NullifyRef returns ref with its uuid cleared when it is the viewpoint.
func NullifyRef(ref domain.Ref, viewpoint string) domain.Ref {
	if ref.UUID != nil && *ref.UUID == viewpoint {
		ref.UUID = nil
	}
	return ref
}

// NullifyEntities returns a copy of entities in which the viewpoint, whether
// credited directly or as a company member, has a nil uuid. Other entities,
// including same-named ones with a different uuid, are untouched.
func NullifyEntities(entities []domain.CreditEntity, viewpoint string) []domain.CreditEntity {
	return fn.Map(entities, func(e domain.CreditEntity) domain.CreditEntity {
		if e.UUID != nil && *e.UUID == viewpoint {
			e.UUID = nil
		}
		if e.Members != nil {
			e.Members = fn.Map(e.Members, func(m domain.Ref) domain.Ref { return NullifyRef(m, viewpoint) })
		}
		return e
	})
}

// NullifyCredits returns a copy of credits rendered from the viewpoint.
func NullifyCredits(credits []domain.Credit, viewpoint string) []domain.Credit {
	return fn.Map(credits, func(c domain.Credit) domain.Credit {
		c.Entities = NullifyEntities(c.Entities, viewpoint)
		return c
	})
}

// classified is the party breakdown shared by credits and nominations.
type classified struct {
	employer   *domain.EmployerCompany
	members    []domain.Ref
	coEntities []domain.CreditEntity
}

// classify splits entities as seen from viewpoint:
//   - the viewpoint itself is removed; if it is a company, its credited
//     members become members;
//   - the first company crediting the viewpoint as a member becomes the
//     employer company, with the other members as co-members;
//   - everything else is a co-entity, nullified from the viewpoint.
func classify(entities []domain.CreditEntity, viewpoint string) classified {
	out := classified{coEntities: []domain.CreditEntity{}}
	for _, e := range entities {
		switch {
		case domain.Deref(e.UUID) == viewpoint:
			out.members = append(out.members, e.Members...)
		case out.employer == nil && e.Model == domain.ModelCompany && hasMember(e, viewpoint):
			out.employer = &domain.EmployerCompany{
				Model: e.Model,
				UUID:  e.UUID,
				Name:  e.Name,
				CoMembers: fn.Filter(e.Members, func(m domain.Ref) bool {
					return domain.Deref(m.UUID) != viewpoint
				}),
			}
			if out.employer.CoMembers == nil {
				out.employer.CoMembers = []domain.Ref{}
			}
		default:
			out.coEntities = append(out.coEntities, NullifyEntities([]domain.CreditEntity{e}, viewpoint)...)
		}
	}
	return out
}

func hasMember(e domain.CreditEntity, viewpoint string) bool {
	for _, m := range e.Members {
		if domain.Deref(m.UUID) == viewpoint {
			return true
		}
	}
	return false
}

// Classify renders one credit group from the perspective of a credited party.
func Classify(c domain.Credit, viewpoint string) domain.ViewedCredit {
	cl := classify(c.Entities, viewpoint)
	return domain.ViewedCredit{
		Model:           c.Model,
		Name:            c.Name,
		CreditType:      c.CreditType,
		EmployerCompany: cl.employer,
		Members:         cl.members,
		CoEntities:      cl.coEntities,
	}
}

// ClassifyCredits renders every group from the perspective of a credited party.
func ClassifyCredits(credits []domain.Credit, viewpoint string) []domain.ViewedCredit {
	return fn.Map(credits, func(c domain.Credit) domain.ViewedCredit { return Classify(c, viewpoint) })
}

// ClassifyNomination renders a nomination from the perspective of one nominee.
// Nominated productions and materials equal to the viewpoint are nullified.
func ClassifyNomination(n domain.Nomination, viewpoint string) domain.ViewedNomination {
	cl := classify(n.Entities, viewpoint)
	return domain.ViewedNomination{
		Model:           n.Model,
		IsWinner:        n.IsWinner,
		Type:            n.Type,
		EmployerCompany: cl.employer,
		Members:         cl.members,
		CoEntities:      cl.coEntities,
		Productions: fn.Map(n.Productions, func(p domain.ProductionListed) domain.ProductionListed {
			if domain.Deref(p.UUID) == viewpoint {
				p.UUID = nil
			}
			return p
		}),
		Materials: fn.Map(n.Materials, func(m domain.MaterialListed) domain.MaterialListed {
			if domain.Deref(m.UUID) == viewpoint {
				m.UUID = nil
			}
			return m
		}),
	}
}
