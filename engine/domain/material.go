package domain

import "strings"

// MaterialInput is the create/update body and edit prefill for a material.
type MaterialInput struct {
	Outcome                 `yaml:"-"`
	UUID                    string                `json:"uuid,omitempty" yaml:"-"`
	Identity                `yaml:",inline"`
	Format                  string                `json:"format" yaml:"format"`
	Year                    int                   `json:"year,omitempty" yaml:"year"`
	OriginalVersionMaterial Identity              `json:"originalVersionMaterial" yaml:"originalVersionMaterial"`
	WritingCredits          []CreditInput         `json:"writingCredits" yaml:"writingCredits"`
	SubMaterials            []Identity            `json:"subMaterials" yaml:"subMaterials"`
	CharacterGroups         []CharacterGroupInput `json:"characterGroups" yaml:"characterGroups"`
}

// CharacterGroupInput is an optionally named, ordered list of depicted characters.
type CharacterGroupInput struct {
	Name       string           `json:"name" yaml:"name"`
	Characters []CharacterInput `json:"characters" yaml:"characters"`
}

// CharacterInput is a depicted character. When UnderlyingName is set the
// character node is identified by it and Name is the variant display name.
type CharacterInput struct {
	Identity       `yaml:",inline"`
	UnderlyingName string `json:"underlyingName,omitempty" yaml:"underlyingName"`
	Qualifier      string `json:"qualifier,omitempty" yaml:"qualifier"`
}

// NodeIdentity is the identity of the character node itself.
func (c CharacterInput) NodeIdentity() Identity {
	if c.UnderlyingName != "" {
		return Identity{Name: c.UnderlyingName, Differentiator: c.Differentiator}
	}
	return c.Identity
}

// DisplayName is the variant name, or "" when it equals the node name.
func (c CharacterInput) DisplayName() string {
	if c.UnderlyingName != "" && c.UnderlyingName != c.Name {
		return c.Name
	}
	return ""
}

// Normalize trims strings and drops blank list items.
func (m *MaterialInput) Normalize() {
	m.Reset()
	m.Identity = m.Identity.Trim()
	m.Format = strings.TrimSpace(m.Format)
	m.OriginalVersionMaterial = m.OriginalVersionMaterial.Trim()
	m.WritingCredits = NormalizeCredits(m.WritingCredits)
	m.SubMaterials = normalizeIdentities(m.SubMaterials)
	var groups []CharacterGroupInput
	for _, g := range m.CharacterGroups {
		ng := CharacterGroupInput{Name: strings.TrimSpace(g.Name)}
		for _, c := range g.Characters {
			nc := CharacterInput{
				Identity:       c.Identity.Trim(),
				UnderlyingName: strings.TrimSpace(c.UnderlyingName),
				Qualifier:      strings.TrimSpace(c.Qualifier),
			}
			if nc.IsZero() && nc.UnderlyingName == "" {
				continue
			}
			ng.Characters = append(ng.Characters, nc)
		}
		if ng.Name == "" && len(ng.Characters) == 0 {
			continue
		}
		groups = append(groups, ng)
	}
	m.CharacterGroups = groups
}

// Validate applies the intrinsic rules that need no store access.
func (m *MaterialInput) Validate() Errors {
	var errs Errors
	validateName(&errs, "", m.Identity, true)
	if m.Year < 0 {
		errs.Add("year", MsgNegativeYear)
	}
	validateName(&errs, "originalVersionMaterial", m.OriginalVersionMaterial, false)
	if !m.OriginalVersionMaterial.IsZero() && m.OriginalVersionMaterial == m.Identity {
		errs.Add("originalVersionMaterial.name", MsgSelfReference)
	}
	validateCredits(&errs, "writingCredits", CreditWriting, m.WritingCredits, m.Identity)
	validateChildren(&errs, "subMaterials", m.SubMaterials, m.Identity)
	for gi, g := range m.CharacterGroups {
		for ci, c := range g.Characters {
			p := Path("characterGroups", gi, "characters", ci)
			validateName(&errs, p, c.Identity, c.UnderlyingName == "")
			if len(c.UnderlyingName) > MaxNameLength {
				errs.Add(Path(p, "underlyingName"), MsgTooLong)
			}
		}
	}
	return errs
}

// MaterialView is the show payload of a material.
type MaterialView struct {
	Header
	Outcome
	Format                     string             `json:"format,omitempty"`
	Year                       int                `json:"year,omitempty"`
	OriginalVersionMaterial    *Link              `json:"originalVersionMaterial"`
	SubsequentVersionMaterials []Link             `json:"subsequentVersionMaterials"`
	SurMaterial                *Link              `json:"surMaterial"`
	SubMaterials               []Link             `json:"subMaterials"`
	WritingCredits             []Credit           `json:"writingCredits"`
	CharacterGroups            []CharacterGroup   `json:"characterGroups"`
	Productions                []ProductionListed `json:"productions"`
	SourcingMaterials          []MaterialListed   `json:"sourcingMaterials"`
	Awards                     []AwardNominations `json:"awards"`
}

// CharacterGroup is a rendered character group.
type CharacterGroup struct {
	Model      Model               `json:"model"`
	Name       string              `json:"name,omitempty"`
	Position   int                 `json:"position"`
	Characters []DepictedCharacter `json:"characters"`
}

// DepictedCharacter is a character as depicted by one material.
type DepictedCharacter struct {
	Model          Model   `json:"model"`
	UUID           *string `json:"uuid"`
	Name           string  `json:"name"`
	UnderlyingName string  `json:"underlyingName,omitempty"`
	Qualifier      string  `json:"qualifier,omitempty"`
}

// MaterialListed is a material as it appears in lists and in other entities'
// payloads.
type MaterialListed struct {
	Model          Model    `json:"model"`
	UUID           *string  `json:"uuid"`
	Name           string   `json:"name"`
	Format         string   `json:"format,omitempty"`
	Year           int      `json:"year,omitempty"`
	SurMaterial    *Link    `json:"surMaterial,omitempty"`
	WritingCredits []Credit `json:"writingCredits"`
}

func (m *MaterialInput) ID() string        { return m.UUID }
func (m *MaterialInput) SetID(uuid string) { m.UUID = uuid }
