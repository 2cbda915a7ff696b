package shape

import (
	"cmp"
	"slices"

	"github.com/stagebase/stagebase/engine/domain"
	"github.com/stagebase/stagebase/pkg/fn"
	"github.com/stagebase/stagebase/pkg/repo"
)

// Options tune shaping.
type Options struct {
	// MaxDepth bounds every hierarchy chain.
	MaxDepth int
}

// Production reads an embedded production row:
//
//	uuid, name, startDate, endDate, venueUuid, venueArena, productionArena
//
// The venue carries its sur-venue chain; surProduction its own chain.
func Production(r repo.Row, opts Options) (domain.ProductionListed, error) {
	p := domain.ProductionListed{
		Model:     domain.ModelProduction,
		UUID:      StrPtr(r, "uuid"),
		Name:      Str(r, "name"),
		StartDate: Str(r, "startDate"),
		EndDate:   Str(r, "endDate"),
	}
	if venue := Str(r, "venueUuid"); venue != "" {
		arena := NewArena(domain.ModelVenue, Rows(r, "venueArena"), opts.MaxDepth)
		v, err := arena.Self(venue, "surVenue")
		if err != nil {
			return p, err
		}
		if v == nil {
			id := venue
			v = &domain.Link{Model: domain.ModelVenue, UUID: &id, Name: Str(r, "venueName")}
		}
		p.Venue = v
	}
	if id := Str(r, "uuid"); id != "" {
		arena := NewArena(domain.ModelProduction, Rows(r, "productionArena"), opts.MaxDepth)
		sur, err := arena.Up(id, "surProduction")
		if err != nil {
			return p, err
		}
		p.SurProduction = sur
	}
	return p, nil
}

// Productions reads embedded production rows, most recent first.
func Productions(rows []repo.Row, opts Options) ([]domain.ProductionListed, error) {
	out := make([]domain.ProductionListed, 0, len(rows))
	for _, r := range rows {
		p, err := Production(r, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	SortProductions(out, func(p domain.ProductionListed) domain.ProductionListed { return p })
	return out, nil
}

// SortProductions orders by start date descending, then name.
func SortProductions[T any](items []T, get func(T) domain.ProductionListed) {
	slices.SortStableFunc(items, func(a, b T) int {
		pa, pb := get(a), get(b)
		if c := cmp.Compare(pb.StartDate, pa.StartDate); c != 0 {
			return c
		}
		return cmp.Compare(pa.Name, pb.Name)
	})
}

// Material reads an embedded material row:
//
//	uuid, name, format, year, materialArena, writingCredits
func Material(r repo.Row, opts Options) (domain.MaterialListed, error) {
	m := domain.MaterialListed{
		Model:          domain.ModelMaterial,
		UUID:           StrPtr(r, "uuid"),
		Name:           Str(r, "name"),
		Format:         Str(r, "format"),
		Year:           Int(r, "year"),
		WritingCredits: Credits(domain.CreditWriting, Rows(r, "writingCredits")),
	}
	if id := Str(r, "uuid"); id != "" {
		arena := NewArena(domain.ModelMaterial, Rows(r, "materialArena"), opts.MaxDepth)
		sur, err := arena.Up(id, "surMaterial")
		if err != nil {
			return m, err
		}
		m.SurMaterial = sur
	}
	return m, nil
}

// Materials reads embedded material rows ordered by year descending, then name.
func Materials(rows []repo.Row, opts Options) ([]domain.MaterialListed, error) {
	out := make([]domain.MaterialListed, 0, len(rows))
	for _, r := range rows {
		m, err := Material(r, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	SortMaterials(out, func(m domain.MaterialListed) domain.MaterialListed { return m })
	return out, nil
}

// SortMaterials orders by year descending, then name.
func SortMaterials[T any](items []T, get func(T) domain.MaterialListed) {
	slices.SortStableFunc(items, func(a, b T) int {
		ma, mb := get(a), get(b)
		if c := cmp.Compare(mb.Year, ma.Year); c != 0 {
			return c
		}
		return cmp.Compare(ma.Name, mb.Name)
	})
}

// Nomination rebuilds one nomination from its nominee rows:
//
//	nominationPosition, isWinner, customType,
//	entityPosition, model, uuid, name, differentiator, format, year,
//	startDate, endDate, venueUuid, venueName,
//	memberPosition, memberUuid, memberName, memberDifferentiator
//
// Company member rows carry model COMPANY and follow the entity rows. People
// and companies, productions, and materials are each ordered by their own
// entity positions.
func Nomination(rows []repo.Row) domain.Nomination {
	first := rows[0]
	n := domain.Nomination{
		Model:    domain.ModelNomination,
		IsWinner: Bool(first, "isWinner"),
		Type:     NominationType(first),
	}
	byModel := func(ms ...domain.Model) []repo.Row {
		return fn.Filter(rows, func(r repo.Row) bool { return slices.Contains(ms, Model(r, "model")) })
	}
	n.Entities = Entities(byModel(domain.ModelPerson, domain.ModelCompany))
	n.Productions = fn.Map(Nest(byModel(domain.ModelProduction), "entityPosition"), func(g fn.Run[int, repo.Row]) domain.ProductionListed {
		r := g.Items[0]
		p := domain.ProductionListed{
			Model:     domain.ModelProduction,
			UUID:      StrPtr(r, "uuid"),
			Name:      Str(r, "name"),
			StartDate: Str(r, "startDate"),
			EndDate:   Str(r, "endDate"),
		}
		if v := StrPtr(r, "venueUuid"); v != nil {
			p.Venue = &domain.Link{Model: domain.ModelVenue, UUID: v, Name: Str(r, "venueName")}
		}
		return p
	})
	n.Materials = fn.Map(Nest(byModel(domain.ModelMaterial), "entityPosition"), func(g fn.Run[int, repo.Row]) domain.MaterialListed {
		r := g.Items[0]
		return domain.MaterialListed{
			Model:          domain.ModelMaterial,
			UUID:           StrPtr(r, "uuid"),
			Name:           Str(r, "name"),
			Format:         Str(r, "format"),
			Year:           Int(r, "year"),
			WritingCredits: []domain.Credit{},
		}
	})
	return n
}

// NominationType reads the display type of a nominee row.
func NominationType(r repo.Row) string {
	return domain.NominationType(Bool(r, "isWinner"), Str(r, "customType"))
}

// Categories rebuilds ceremony categories from category rows:
//
//	categoryPosition, categoryName, nominees
//
// where nominees holds the nominee rows of every nomination in the category.
func Categories(rows []repo.Row) []domain.Category {
	cats := Nest(rows, "categoryPosition")
	out := make([]domain.Category, 0, len(cats))
	for _, c := range cats {
		first := c.Items[0]
		cat := domain.Category{
			Model:       domain.ModelCategory,
			Name:        Str(first, "categoryName"),
			Nominations: []domain.Nomination{},
		}
		for _, n := range Nest(Rows(first, "nominees"), "nominationPosition") {
			cat.Nominations = append(cat.Nominations, Nomination(n.Items))
		}
		out = append(out, cat)
	}
	return out
}

// CategoryInputs rebuilds the edit form of ceremony categories.
func CategoryInputs(rows []repo.Row) []domain.CategoryInput {
	cats := Nest(rows, "categoryPosition")
	out := make([]domain.CategoryInput, 0, len(cats))
	for _, c := range cats {
		first := c.Items[0]
		in := domain.CategoryInput{Name: Str(first, "categoryName")}
		for _, n := range Nest(Rows(first, "nominees"), "nominationPosition") {
			nf := n.Items[0]
			ni := domain.NominationInput{
				IsWinner:   Bool(nf, "isWinner"),
				CustomType: Str(nf, "customType"),
			}
			byModel := func(ms ...domain.Model) []repo.Row {
				return fn.Filter(n.Items, func(r repo.Row) bool { return slices.Contains(ms, Model(r, "model")) })
			}
			ni.Entities = EntityInputs(byModel(domain.ModelPerson, domain.ModelCompany))
			for _, p := range Nest(byModel(domain.ModelProduction), "entityPosition") {
				ni.Productions = append(ni.Productions, domain.UUIDRef{UUID: Str(p.Items[0], "uuid")})
			}
			for _, m := range Nest(byModel(domain.ModelMaterial), "entityPosition") {
				ni.Materials = append(ni.Materials, identity(m.Items[0], "name", "differentiator"))
			}
			in.Nominations = append(in.Nominations, ni)
		}
		out = append(out, in)
	}
	return out
}

// Awards rebuilds the nominations of one nominee, grouped by award (by name),
// ceremony (newest name first), category and nomination position. Rows:
//
//	awardUuid, awardName, ceremonyUuid, ceremonyName,
//	categoryPosition, categoryName, nominationPosition, nominees
func Awards(rows []repo.Row, viewpoint string) []domain.AwardNominations {
	awards := fn.SortedGroups(rows, func(r repo.Row) string {
		return Str(r, "awardName") + "\x00" + Str(r, "awardUuid")
	})
	out := make([]domain.AwardNominations, 0, len(awards))
	for _, a := range awards {
		first := a.Items[0]
		an := domain.AwardNominations{
			Model: domain.ModelAward,
			UUID:  StrPtr(first, "awardUuid"),
			Name:  Str(first, "awardName"),
		}
		ceremonies := fn.SortedGroups(a.Items, func(r repo.Row) string {
			return Str(r, "ceremonyName") + "\x00" + Str(r, "ceremonyUuid")
		})
		slices.Reverse(ceremonies)
		for _, c := range ceremonies {
			cf := c.Items[0]
			cn := domain.CeremonyNominations{
				Model: domain.ModelAwardCeremony,
				UUID:  StrPtr(cf, "ceremonyUuid"),
				Name:  Str(cf, "ceremonyName"),
			}
			for _, cat := range Nest(c.Items, "categoryPosition") {
				catn := domain.CategoryNominations{
					Model:       domain.ModelCategory,
					Name:        Str(cat.Items[0], "categoryName"),
					Nominations: []domain.ViewedNomination{},
				}
				for _, nom := range Nest(cat.Items, "nominationPosition") {
					nominees := Rows(nom.Items[0], "nominees")
					if len(nominees) == 0 {
						continue
					}
					catn.Nominations = append(catn.Nominations, ClassifyNomination(Nomination(nominees), viewpoint))
				}
				cn.Categories = append(cn.Categories, catn)
			}
			an.Ceremonies = append(an.Ceremonies, cn)
		}
		out = append(out, an)
	}
	return out
}
