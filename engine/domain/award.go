package domain

import "strings"

// AwardCeremonyInput is the create/update body and edit prefill for a ceremony.
type AwardCeremonyInput struct {
	Outcome    `yaml:"-"`
	UUID       string          `json:"uuid,omitempty" yaml:"-"`
	Identity   `yaml:",inline"`
	Award      Identity        `json:"award" yaml:"award"`
	Categories []CategoryInput `json:"categories" yaml:"categories"`
}

// CategoryInput is an ordered category of nominations.
type CategoryInput struct {
	Name        string            `json:"name" yaml:"name"`
	Nominations []NominationInput `json:"nominations" yaml:"nominations"`
}

// NominationInput names the nominated people, companies, productions and
// materials. Entities follow the credit entity rules, companies with members.
type NominationInput struct {
	IsWinner    bool                `json:"isWinner" yaml:"isWinner"`
	CustomType  string              `json:"customType,omitempty" yaml:"customType"`
	Entities    []CreditEntityInput `json:"entities" yaml:"entities"`
	Productions []UUIDRef           `json:"productions" yaml:"productions"`
	Materials   []Identity          `json:"materials" yaml:"materials"`
}

// Empty reports whether the nomination names nothing at all.
func (n NominationInput) Empty() bool {
	return !n.IsWinner && n.CustomType == "" && len(n.Entities) == 0 && len(n.Productions) == 0 && len(n.Materials) == 0
}

// Normalize trims strings and drops blank list items.
func (a *AwardCeremonyInput) Normalize() {
	a.Reset()
	a.Identity = a.Identity.Trim()
	a.Award = a.Award.Trim()
	var cats []CategoryInput
	for _, c := range a.Categories {
		nc := CategoryInput{Name: strings.TrimSpace(c.Name)}
		for _, n := range c.Nominations {
			nn := NominationInput{
				IsWinner:   n.IsWinner,
				CustomType: strings.TrimSpace(n.CustomType),
				Materials:  normalizeIdentities(n.Materials),
			}
			if credits := NormalizeCredits([]CreditInput{{Entities: n.Entities}}); len(credits) > 0 {
				nn.Entities = credits[0].Entities
			}
			for _, p := range n.Productions {
				if u := strings.TrimSpace(p.UUID); u != "" {
					nn.Productions = append(nn.Productions, UUIDRef{UUID: u})
				}
			}
			if nn.Empty() {
				continue
			}
			nc.Nominations = append(nc.Nominations, nn)
		}
		if nc.Name == "" && len(nc.Nominations) == 0 {
			continue
		}
		cats = append(cats, nc)
	}
	a.Categories = cats
}

// Validate applies the intrinsic rules that need no store access.
func (a *AwardCeremonyInput) Validate() Errors {
	var errs Errors
	validateName(&errs, "", a.Identity, true)
	validateName(&errs, "award", a.Award, false)
	seenCat := make(map[string]bool)
	for ci, c := range a.Categories {
		cp := Path("categories", ci)
		if c.Name == "" {
			errs.Add(Path(cp, "name"), MsgTooShort)
		} else if seenCat[c.Name] {
			errs.Add(Path(cp, "name"), MsgDuplicateInGroup)
		}
		seenCat[c.Name] = true
		if len(c.Name) > MaxNameLength {
			errs.Add(Path(cp, "name"), MsgTooLong)
		}
		for ni, n := range c.Nominations {
			np := Path(cp, "nominations", ni)
			if len(n.Entities) == 0 && len(n.Productions) == 0 && len(n.Materials) == 0 {
				errs.Add(np, MsgNoNominees)
			}
			validateEntities(&errs, Path(np, "entities"), CreditProducer, n.Entities, Identity{})
			seen := make(map[string]bool)
			for pi, p := range n.Productions {
				f := Path(np, "productions", pi, "uuid")
				switch {
				case !isUUID(p.UUID):
					errs.Add(f, MsgInvalidUUID)
				case seen[p.UUID]:
					errs.Add(f, MsgDuplicateInGroup)
				}
				seen[p.UUID] = true
			}
			validateChildren(&errs, Path(np, "materials"), n.Materials, Identity{})
		}
	}
	return errs
}

// AwardCeremonyView is the show payload of a ceremony.
type AwardCeremonyView struct {
	Header
	Outcome
	Award      *Ref       `json:"award"`
	Categories []Category `json:"categories"`
}

// Category is a rendered ceremony category.
type Category struct {
	Model       Model        `json:"model"`
	Name        string       `json:"name"`
	Nominations []Nomination `json:"nominations"`
}

// Nomination is a rendered nomination with its nominees in authored order.
type Nomination struct {
	Model       Model              `json:"model"`
	IsWinner    bool               `json:"isWinner"`
	Type        string             `json:"type"`
	Entities    []CreditEntity     `json:"entities"`
	Productions []ProductionListed `json:"productions"`
	Materials   []MaterialListed   `json:"materials"`
}

// NominationType renders the display type of a nomination.
func NominationType(isWinner bool, custom string) string {
	switch {
	case custom != "":
		return custom
	case isWinner:
		return "Winner"
	}
	return "Nomination"
}

// AwardView is the show payload of an award: its ceremonies, newest name first.
type AwardView struct {
	Header
	Outcome
	Ceremonies []CeremonyListed `json:"ceremonies"`
}

// CeremonyListed is a ceremony with its categories.
type CeremonyListed struct {
	Model      Model      `json:"model"`
	UUID       *string    `json:"uuid"`
	Name       string     `json:"name"`
	Award      *Ref       `json:"award,omitempty"`
	Categories []Category `json:"categories,omitempty"`
}

// AwardNominations groups the nominations of one nominee under the awards,
// ceremonies and categories they were made in.
type AwardNominations struct {
	Model      Model                 `json:"model"`
	UUID       *string               `json:"uuid"`
	Name       string                `json:"name"`
	Ceremonies []CeremonyNominations `json:"ceremonies"`
}

// CeremonyNominations is one ceremony level of an AwardNominations tree.
type CeremonyNominations struct {
	Model      Model                 `json:"model"`
	UUID       *string               `json:"uuid"`
	Name       string                `json:"name"`
	Categories []CategoryNominations `json:"categories"`
}

// CategoryNominations is one category level of an AwardNominations tree.
type CategoryNominations struct {
	Model       Model              `json:"model"`
	Name        string             `json:"name"`
	Nominations []ViewedNomination `json:"nominations"`
}

// ViewedNomination is a nomination seen from one nominee: the nominee is
// removed from the entities and the remaining parties are classified.
type ViewedNomination struct {
	Model           Model              `json:"model"`
	IsWinner        bool               `json:"isWinner"`
	Type            string             `json:"type"`
	EmployerCompany *EmployerCompany   `json:"employerCompany,omitempty"`
	Members         []Ref              `json:"members,omitempty"`
	CoEntities      []CreditEntity     `json:"coEntities"`
	Productions     []ProductionListed `json:"productions"`
	Materials       []MaterialListed   `json:"materials"`
}

func (a *AwardCeremonyInput) ID() string        { return a.UUID }
func (a *AwardCeremonyInput) SetID(uuid string) { a.UUID = uuid }
