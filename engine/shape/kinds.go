package shape

import (
	"cmp"
	"slices"

	"github.com/stagebase/stagebase/engine/domain"
	"github.com/stagebase/stagebase/pkg/fn"
	"github.com/stagebase/stagebase/pkg/repo"
)

// MaterialView shapes a material show row.
func MaterialView(r repo.Row, opts Options) (domain.MaterialView, error) {
	id := Str(r, "uuid")
	v := domain.MaterialView{
		Header:          Header(r, domain.ModelMaterial),
		Format:          Str(r, "format"),
		Year:            Int(r, "year"),
		WritingCredits:  NullifyCredits(Credits(domain.CreditWriting, Rows(r, "writingCredits")), id),
		CharacterGroups: CharacterGroups(Rows(r, "characterGroups")),
	}
	var err error
	hierarchy := NewArena(domain.ModelMaterial, Rows(r, "materialArena"), opts.MaxDepth)
	if v.SurMaterial, err = hierarchy.Up(id, "surMaterial"); err != nil {
		return v, err
	}
	if v.SubMaterials, err = hierarchy.Down(id, "subMaterials", 2); err != nil {
		return v, err
	}
	versions := NewArena(domain.ModelMaterial, Rows(r, "versionArena"), opts.MaxDepth)
	if v.OriginalVersionMaterial, err = versions.Up(id, "originalVersionMaterial"); err != nil {
		return v, err
	}
	v.SubsequentVersionMaterials = versions.Children(id)
	if v.Productions, err = Productions(Rows(r, "productions"), opts); err != nil {
		return v, err
	}
	if v.SourcingMaterials, err = Materials(Rows(r, "sourcingMaterials"), opts); err != nil {
		return v, err
	}
	for i := range v.SourcingMaterials {
		v.SourcingMaterials[i].WritingCredits = NullifyCredits(v.SourcingMaterials[i].WritingCredits, id)
	}
	v.Awards = Awards(Rows(r, "awards"), id)
	return v, nil
}

// MaterialEdit shapes a material edit row.
func MaterialEdit(r repo.Row) domain.MaterialInput {
	in := domain.MaterialInput{
		Identity:        identity(r, "name", "differentiator"),
		Format:          Str(r, "format"),
		Year:            Int(r, "year"),
		WritingCredits:  CreditInputs(Rows(r, "writingCredits")),
		SubMaterials:    Identities(Rows(r, "subMaterials")),
		CharacterGroups: CharacterGroupInputs(Rows(r, "characterGroups")),
	}
	in.UUID = Str(r, "uuid")
	if orig := Rows(r, "originalVersion"); len(orig) > 0 {
		in.OriginalVersionMaterial = identity(orig[0], "name", "differentiator")
	}
	return in
}

// ProductionView shapes a production show row.
func ProductionView(r repo.Row, opts Options) (domain.ProductionView, error) {
	id := Str(r, "uuid")
	v := domain.ProductionView{
		Header:          Header(r, domain.ModelProduction),
		StartDate:       Str(r, "startDate"),
		PressDate:       Str(r, "pressDate"),
		EndDate:         Str(r, "endDate"),
		ProducerCredits: Credits(domain.CreditProducer, Rows(r, "producerCredits")),
		Cast:            Cast(Rows(r, "cast")),
		CreativeCredits: Credits(domain.CreditCreative, Rows(r, "creativeCredits")),
		CrewCredits:     Credits(domain.CreditCrew, Rows(r, "crewCredits")),
	}
	var err error
	if mats := Rows(r, "material"); len(mats) > 0 {
		m, err := Material(mats[0], opts)
		if err != nil {
			return v, err
		}
		v.Material = &m
	}
	if venue := Str(r, "venueUuid"); venue != "" {
		arena := NewArena(domain.ModelVenue, Rows(r, "venueArena"), opts.MaxDepth)
		if v.Venue, err = arena.Self(venue, "surVenue"); err != nil {
			return v, err
		}
	}
	hierarchy := NewArena(domain.ModelProduction, Rows(r, "productionArena"), opts.MaxDepth)
	if v.SurProduction, err = hierarchy.Up(id, "surProduction"); err != nil {
		return v, err
	}
	if v.SubProductions, err = hierarchy.Down(id, "subProductions", 2); err != nil {
		return v, err
	}
	v.Awards = Awards(Rows(r, "awards"), id)
	return v, nil
}

// ProductionEdit shapes a production edit row.
func ProductionEdit(r repo.Row) domain.ProductionInput {
	in := domain.ProductionInput{
		Identity:        identity(r, "name", "differentiator"),
		StartDate:       Str(r, "startDate"),
		PressDate:       Str(r, "pressDate"),
		EndDate:         Str(r, "endDate"),
		ProducerCredits: CreditInputs(Rows(r, "producerCredits")),
		Cast:            CastInputs(Rows(r, "cast")),
		CreativeCredits: CreditInputs(Rows(r, "creativeCredits")),
		CrewCredits:     CreditInputs(Rows(r, "crewCredits")),
	}
	in.UUID = Str(r, "uuid")
	if m := Rows(r, "material"); len(m) > 0 {
		in.Material = identity(m[0], "name", "differentiator")
	}
	if v := Rows(r, "venue"); len(v) > 0 {
		in.Venue = identity(v[0], "name", "differentiator")
	}
	for _, s := range Nest(Rows(r, "subProductions"), "position") {
		in.SubProductions = append(in.SubProductions, domain.UUIDRef{UUID: Str(s.Items[0], "uuid")})
	}
	return in
}

// VenueView shapes a venue show row.
func VenueView(r repo.Row, opts Options) (domain.VenueView, error) {
	id := Str(r, "uuid")
	v := domain.VenueView{Header: Header(r, domain.ModelVenue)}
	var err error
	hierarchy := NewArena(domain.ModelVenue, Rows(r, "venueArena"), opts.MaxDepth)
	if v.SurVenue, err = hierarchy.Up(id, "surVenue"); err != nil {
		return v, err
	}
	if v.SubVenues, err = hierarchy.Down(id, "subVenues", 1); err != nil {
		return v, err
	}
	if v.Productions, err = Productions(Rows(r, "productions"), opts); err != nil {
		return v, err
	}
	return v, nil
}

// VenueEdit shapes a venue edit row.
func VenueEdit(r repo.Row) domain.VenueInput {
	in := domain.VenueInput{
		Identity:  identity(r, "name", "differentiator"),
		SubVenues: Identities(Rows(r, "subVenues")),
	}
	in.UUID = Str(r, "uuid")
	return in
}

// creditedProductions reads production rows carrying the credits of one kind,
// each classified from the viewpoint.
func creditedProductions(rows []repo.Row, kind domain.CreditKind, viewpoint string, opts Options) ([]domain.CreditedProduction, error) {
	out := make([]domain.CreditedProduction, 0, len(rows))
	for _, r := range rows {
		p, err := Production(r, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.CreditedProduction{
			ProductionListed: p,
			Credits:          ClassifyCredits(Credits(kind, Rows(r, "credits")), viewpoint),
		})
	}
	SortProductions(out, func(c domain.CreditedProduction) domain.ProductionListed { return c.ProductionListed })
	return out, nil
}

func writtenMaterials(rows []repo.Row, viewpoint string, opts Options) ([]domain.MaterialListed, error) {
	out, err := Materials(rows, opts)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].WritingCredits = NullifyCredits(out[i].WritingCredits, viewpoint)
	}
	return out, nil
}

// PersonView shapes a person show row.
func PersonView(r repo.Row, opts Options) (domain.PersonView, error) {
	id := Str(r, "uuid")
	v := domain.PersonView{Header: Header(r, domain.ModelPerson)}
	var err error
	if v.Materials, err = writtenMaterials(Rows(r, "materials"), id, opts); err != nil {
		return v, err
	}
	if v.ProducerProductions, err = creditedProductions(Rows(r, "producerProductions"), domain.CreditProducer, id, opts); err != nil {
		return v, err
	}
	if v.CreativeProductions, err = creditedProductions(Rows(r, "creativeProductions"), domain.CreditCreative, id, opts); err != nil {
		return v, err
	}
	if v.CrewProductions, err = creditedProductions(Rows(r, "crewProductions"), domain.CreditCrew, id, opts); err != nil {
		return v, err
	}
	cast := Rows(r, "castMemberProductions")
	v.CastMemberProductions = make([]domain.PerformedProduction, 0, len(cast))
	for _, row := range cast {
		p, err := Production(row, opts)
		if err != nil {
			return v, err
		}
		v.CastMemberProductions = append(v.CastMemberProductions, domain.PerformedProduction{
			ProductionListed: p,
			Roles:            PerformedRoles(Rows(row, "roles")),
		})
	}
	SortProductions(v.CastMemberProductions, func(p domain.PerformedProduction) domain.ProductionListed { return p.ProductionListed })
	v.Awards = Awards(Rows(r, "awards"), id)
	return v, nil
}

// CompanyView shapes a company show row.
func CompanyView(r repo.Row, opts Options) (domain.CompanyView, error) {
	id := Str(r, "uuid")
	v := domain.CompanyView{Header: Header(r, domain.ModelCompany)}
	var err error
	if v.Materials, err = writtenMaterials(Rows(r, "materials"), id, opts); err != nil {
		return v, err
	}
	if v.ProducerProductions, err = creditedProductions(Rows(r, "producerProductions"), domain.CreditProducer, id, opts); err != nil {
		return v, err
	}
	if v.CreativeProductions, err = creditedProductions(Rows(r, "creativeProductions"), domain.CreditCreative, id, opts); err != nil {
		return v, err
	}
	if v.CrewProductions, err = creditedProductions(Rows(r, "crewProductions"), domain.CreditCrew, id, opts); err != nil {
		return v, err
	}
	v.Awards = Awards(Rows(r, "awards"), id)
	return v, nil
}

// CharacterView shapes a character show row.
func CharacterView(r repo.Row, opts Options) (domain.CharacterView, error) {
	v := domain.CharacterView{Header: Header(r, domain.ModelCharacter)}
	mats := Rows(r, "materials")
	v.Materials = make([]domain.DepictingMaterial, 0, len(mats))
	for _, row := range mats {
		m, err := Material(row, opts)
		if err != nil {
			return v, err
		}
		deps := Rows(row, "depictions")
		slices.SortStableFunc(deps, func(a, b repo.Row) int {
			if c := cmp.Compare(Int(a, "groupPosition"), Int(b, "groupPosition")); c != 0 {
				return c
			}
			return cmp.Compare(Int(a, "position"), Int(b, "position"))
		})
		v.Materials = append(v.Materials, domain.DepictingMaterial{
			MaterialListed: m,
			Depictions: fn.Map(deps, func(d repo.Row) domain.Depiction {
				return domain.Depiction{
					DisplayName: Str(d, "displayName"),
					Qualifier:   Str(d, "qualifier"),
					Group:       Str(d, "groupName"),
				}
			}),
		})
	}
	SortMaterials(v.Materials, func(d domain.DepictingMaterial) domain.MaterialListed { return d.MaterialListed })

	names := fn.Filter(fn.Unique(Strings(r, "variantNames")), func(s string) bool { return s != "" && s != v.Name })
	slices.Sort(names)
	v.VariantNames = append([]string{}, names...)

	prods := Rows(r, "productions")
	v.Productions = make([]domain.PortrayingProduction, 0, len(prods))
	for _, row := range prods {
		p, err := Production(row, opts)
		if err != nil {
			return v, err
		}
		perf := Rows(row, "performers")
		slices.SortStableFunc(perf, func(a, b repo.Row) int {
			if c := cmp.Compare(Int(a, "castMemberPosition"), Int(b, "castMemberPosition")); c != 0 {
				return c
			}
			return cmp.Compare(Int(a, "rolePosition"), Int(b, "rolePosition"))
		})
		v.Productions = append(v.Productions, domain.PortrayingProduction{
			ProductionListed: p,
			Performers: fn.Map(perf, func(pr repo.Row) domain.Performer {
				return domain.Performer{
					Model:       domain.ModelPerson,
					UUID:        StrPtr(pr, "uuid"),
					Name:        Str(pr, "name"),
					RoleName:    Str(pr, "roleName"),
					Qualifier:   Str(pr, "qualifier"),
					IsAlternate: Bool(pr, "isAlternate"),
				}
			}),
		})
	}
	SortProductions(v.Productions, func(p domain.PortrayingProduction) domain.ProductionListed { return p.ProductionListed })
	return v, nil
}

// BasicEdit shapes the edit row of an identity-only kind.
func BasicEdit(r repo.Row) domain.BasicInput {
	in := domain.BasicInput{Identity: identity(r, "name", "differentiator")}
	in.UUID = Str(r, "uuid")
	return in
}

// AwardView shapes an award show row; ceremonies are newest name first.
func AwardView(r repo.Row) domain.AwardView {
	v := domain.AwardView{Header: Header(r, domain.ModelAward)}
	cers := Rows(r, "ceremonies")
	slices.SortStableFunc(cers, func(a, b repo.Row) int { return cmp.Compare(Str(b, "name"), Str(a, "name")) })
	v.Ceremonies = fn.Map(cers, func(c repo.Row) domain.CeremonyListed {
		return domain.CeremonyListed{
			Model:      domain.ModelAwardCeremony,
			UUID:       StrPtr(c, "uuid"),
			Name:       Str(c, "name"),
			Categories: Categories(Rows(c, "categories")),
		}
	})
	return v
}

// AwardCeremonyView shapes a ceremony show row.
func AwardCeremonyView(r repo.Row) domain.AwardCeremonyView {
	v := domain.AwardCeremonyView{
		Header:     Header(r, domain.ModelAwardCeremony),
		Categories: Categories(Rows(r, "categories")),
	}
	if a := Rows(r, "award"); len(a) > 0 {
		v.Award = &domain.Ref{Model: domain.ModelAward, UUID: StrPtr(a[0], "uuid"), Name: Str(a[0], "name")}
	}
	return v
}

// AwardCeremonyEdit shapes a ceremony edit row.
func AwardCeremonyEdit(r repo.Row) domain.AwardCeremonyInput {
	in := domain.AwardCeremonyInput{
		Identity:   identity(r, "name", "differentiator"),
		Categories: CategoryInputs(Rows(r, "categories")),
	}
	in.UUID = Str(r, "uuid")
	if a := Rows(r, "award"); len(a) > 0 {
		in.Award = identity(a[0], "name", "differentiator")
	}
	return in
}

// Summary shapes a list row of an identity-only kind.
func Summary(r repo.Row, m domain.Model) domain.Summary {
	return domain.Summary{
		Model:          m,
		UUID:           Str(r, "uuid"),
		Name:           Str(r, "name"),
		Differentiator: Str(r, "differentiator"),
	}
}

// VenueListed shapes a venue list row: a root venue with its sub-venues.
func VenueListed(r repo.Row) domain.VenueListed {
	return domain.VenueListed{
		Model: domain.ModelVenue,
		UUID:  StrPtr(r, "uuid"),
		Name:  Str(r, "name"),
		SubVenues: fn.Map(Nest(Rows(r, "subVenues"), "position"), func(g fn.Run[int, repo.Row]) domain.Link {
			return domain.Link{Model: domain.ModelVenue, UUID: StrPtr(g.Items[0], "uuid"), Name: Str(g.Items[0], "name")}
		}),
	}
}

// CeremonyListed shapes a ceremony list row.
func CeremonyListed(r repo.Row) domain.CeremonyListed {
	c := domain.CeremonyListed{
		Model: domain.ModelAwardCeremony,
		UUID:  StrPtr(r, "uuid"),
		Name:  Str(r, "name"),
	}
	if a := Rows(r, "award"); len(a) > 0 {
		c.Award = &domain.Ref{Model: domain.ModelAward, UUID: StrPtr(a[0], "uuid"), Name: Str(a[0], "name")}
	}
	return c
}
