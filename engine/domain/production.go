package domain

import "strings"

// ProductionInput is the create/update body and edit prefill for a production.
type ProductionInput struct {
	Outcome         `yaml:"-"`
	UUID            string            `json:"uuid,omitempty" yaml:"-"`
	Identity        `yaml:",inline"`
	StartDate       string            `json:"startDate" yaml:"startDate"`
	PressDate       string            `json:"pressDate" yaml:"pressDate"`
	EndDate         string            `json:"endDate" yaml:"endDate"`
	Material        Identity          `json:"material" yaml:"material"`
	Venue           Identity          `json:"venue" yaml:"venue"`
	SubProductions  []UUIDRef         `json:"subProductions" yaml:"subProductions"`
	ProducerCredits []CreditInput     `json:"producerCredits" yaml:"producerCredits"`
	Cast            []CastMemberInput `json:"cast" yaml:"cast"`
	CreativeCredits []CreditInput     `json:"creativeCredits" yaml:"creativeCredits"`
	CrewCredits     []CreditInput     `json:"crewCredits" yaml:"crewCredits"`
}

// CastMemberInput is a performer and the roles they play.
type CastMemberInput struct {
	Identity `yaml:",inline"`
	Roles    []RoleInput `json:"roles" yaml:"roles"`
}

// RoleInput is a role performed. CharacterName names the depicted character
// when it differs from the role's own name.
type RoleInput struct {
	Name                    string `json:"name" yaml:"name"`
	CharacterName           string `json:"characterName,omitempty" yaml:"characterName"`
	CharacterDifferentiator string `json:"characterDifferentiator,omitempty" yaml:"characterDifferentiator"`
	Qualifier               string `json:"qualifier,omitempty" yaml:"qualifier"`
	IsAlternate             bool   `json:"isAlternate,omitempty" yaml:"isAlternate"`
}

// Normalize trims strings and drops blank list items.
func (p *ProductionInput) Normalize() {
	p.Reset()
	p.Identity = p.Identity.Trim()
	p.StartDate = strings.TrimSpace(p.StartDate)
	p.PressDate = strings.TrimSpace(p.PressDate)
	p.EndDate = strings.TrimSpace(p.EndDate)
	p.Material = p.Material.Trim()
	p.Venue = p.Venue.Trim()
	var subs []UUIDRef
	for _, s := range p.SubProductions {
		if u := strings.TrimSpace(s.UUID); u != "" {
			subs = append(subs, UUIDRef{UUID: u})
		}
	}
	p.SubProductions = subs
	p.ProducerCredits = NormalizeCredits(p.ProducerCredits)
	p.CreativeCredits = NormalizeCredits(p.CreativeCredits)
	p.CrewCredits = NormalizeCredits(p.CrewCredits)
	var cast []CastMemberInput
	for _, c := range p.Cast {
		nc := CastMemberInput{Identity: c.Identity.Trim()}
		for _, r := range c.Roles {
			nr := RoleInput{
				Name:                    strings.TrimSpace(r.Name),
				CharacterName:           strings.TrimSpace(r.CharacterName),
				CharacterDifferentiator: strings.TrimSpace(r.CharacterDifferentiator),
				Qualifier:               strings.TrimSpace(r.Qualifier),
				IsAlternate:             r.IsAlternate,
			}
			if nr.Name == "" && nr.CharacterName == "" && nr.CharacterDifferentiator == "" && nr.Qualifier == "" {
				continue
			}
			nc.Roles = append(nc.Roles, nr)
		}
		if nc.IsZero() && len(nc.Roles) == 0 {
			continue
		}
		cast = append(cast, nc)
	}
	p.Cast = cast
}

// Validate applies the intrinsic rules that need no store access.
func (p *ProductionInput) Validate() Errors {
	var errs Errors
	validateName(&errs, "", p.Identity, true)
	validateName(&errs, "material", p.Material, false)
	validateName(&errs, "venue", p.Venue, false)
	seen := make(map[string]bool)
	for i, s := range p.SubProductions {
		f := Path("subProductions", i, "uuid")
		switch {
		case !isUUID(s.UUID):
			errs.Add(f, MsgInvalidUUID)
		case p.UUID != "" && s.UUID == p.UUID:
			errs.Add(f, MsgSelfReference)
		case seen[s.UUID]:
			errs.Add(f, MsgDuplicateInGroup)
		}
		seen[s.UUID] = true
	}
	validateCredits(&errs, "producerCredits", CreditProducer, p.ProducerCredits, Identity{})
	validateCredits(&errs, "creativeCredits", CreditCreative, p.CreativeCredits, Identity{})
	validateCredits(&errs, "crewCredits", CreditCrew, p.CrewCredits, Identity{})
	for ci, c := range p.Cast {
		cp := Path("cast", ci)
		validateName(&errs, cp, c.Identity, true)
		for ri, r := range c.Roles {
			rp := Path(cp, "roles", ri)
			if r.Name == "" && (r.CharacterName != "" || r.CharacterDifferentiator != "" || r.Qualifier != "") {
				errs.Add(Path(rp, "name"), MsgNameRequired)
			}
			for field, v := range map[string]string{"name": r.Name, "characterName": r.CharacterName, "qualifier": r.Qualifier} {
				if len(v) > MaxNameLength {
					errs.Add(Path(rp, field), MsgTooLong)
				}
			}
		}
	}
	return errs
}

// ProductionView is the show payload of a production.
type ProductionView struct {
	Header
	Outcome
	StartDate       string             `json:"startDate,omitempty"`
	PressDate       string             `json:"pressDate,omitempty"`
	EndDate         string             `json:"endDate,omitempty"`
	Material        *MaterialListed    `json:"material"`
	Venue           *Link              `json:"venue"`
	SurProduction   *Link              `json:"surProduction"`
	SubProductions  []Link             `json:"subProductions"`
	ProducerCredits []Credit           `json:"producerCredits"`
	Cast            []CastMember       `json:"cast"`
	CreativeCredits []Credit           `json:"creativeCredits"`
	CrewCredits     []Credit           `json:"crewCredits"`
	Awards          []AwardNominations `json:"awards"`
}

// CastMember is a performer with their roles in one production.
type CastMember struct {
	Model Model   `json:"model"`
	UUID  *string `json:"uuid"`
	Name  string  `json:"name"`
	Roles []Role  `json:"roles"`
}

// Role is a performed role; CharacterUUID is set when the role resolved to a
// character depicted by the production's material.
type Role struct {
	Model                   Model   `json:"model"`
	Name                    string  `json:"name"`
	CharacterUUID           *string `json:"characterUuid"`
	CharacterName           string  `json:"characterName,omitempty"`
	CharacterDifferentiator string  `json:"characterDifferentiator,omitempty"`
	Qualifier               string  `json:"qualifier,omitempty"`
	IsAlternate             bool    `json:"isAlternate"`
}

// ProductionListed is a production as it appears in lists and in other
// entities' payloads.
type ProductionListed struct {
	Model         Model   `json:"model"`
	UUID          *string `json:"uuid"`
	Name          string  `json:"name"`
	StartDate     string  `json:"startDate,omitempty"`
	EndDate       string  `json:"endDate,omitempty"`
	Venue         *Link   `json:"venue"`
	SurProduction *Link   `json:"surProduction,omitempty"`
}

// CreditedProduction is a production seen from one of its credited parties.
type CreditedProduction struct {
	ProductionListed
	Credits []ViewedCredit `json:"credits"`
}

// PerformedProduction is a production seen from one of its cast members.
type PerformedProduction struct {
	ProductionListed
	Roles []Role `json:"roles"`
}

func (p *ProductionInput) ID() string        { return p.UUID }
func (p *ProductionInput) SetID(uuid string) { p.UUID = uuid }
