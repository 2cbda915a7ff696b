// Package domain defines the catalogue's entity kinds, their request and
// response shapes, and the validation rules applied before any write.
package domain

import "strings"

// Model discriminates entity kinds and nested response elements.
type Model string

const (
	ModelMaterial      Model = "MATERIAL"
	ModelProduction    Model = "PRODUCTION"
	ModelVenue         Model = "VENUE"
	ModelPerson        Model = "PERSON"
	ModelCompany       Model = "COMPANY"
	ModelCharacter     Model = "CHARACTER"
	ModelAward         Model = "AWARD"
	ModelAwardCeremony Model = "AWARD_CEREMONY"

	ModelCategory       Model = "AWARD_CEREMONY_CATEGORY"
	ModelNomination     Model = "NOMINATION"
	ModelCharacterGroup Model = "CHARACTER_GROUP"
	ModelRole           Model = "ROLE"
	ModelWritingCredit  Model = "WRITING_CREDIT"
	ModelProducerCredit Model = "PRODUCER_CREDIT"
	ModelCreativeCredit Model = "CREATIVE_CREDIT"
	ModelCrewCredit     Model = "CREW_CREDIT"
)

// labels maps node-backed models to their graph labels.
var labels = map[Model]string{
	ModelMaterial:      "Material",
	ModelProduction:    "Production",
	ModelVenue:         "Venue",
	ModelPerson:        "Person",
	ModelCompany:       "Company",
	ModelCharacter:     "Character",
	ModelAward:         "Award",
	ModelAwardCeremony: "AwardCeremony",
}

// Label returns the graph label for a node-backed model, or "" otherwise.
func (m Model) Label() string { return labels[m] }


// slugs maps node-backed models to their plural resource names.
var slugs = map[Model]string{
	ModelMaterial:      "materials",
	ModelProduction:    "productions",
	ModelVenue:         "venues",
	ModelPerson:        "people",
	ModelCompany:       "companies",
	ModelCharacter:     "characters",
	ModelAward:         "awards",
	ModelAwardCeremony: "award-ceremonies",
}

// ModelForSlug returns the model served under a plural resource name.
func ModelForSlug(slug string) (Model, bool) {
	for m, s := range slugs {
		if s == slug {
			return m, true
		}
	}
	return "", false
}

// IdentityModels lists every model whose nodes carry the (name, differentiator)
// uniqueness invariant.
var IdentityModels = []Model{
	ModelMaterial, ModelProduction, ModelVenue, ModelPerson,
	ModelCompany, ModelCharacter, ModelAward, ModelAwardCeremony,
}

// Identity is the (name, differentiator) pair that identifies a node within its label.
type Identity struct {
	Name           string `json:"name" yaml:"name"`
	Differentiator string `json:"differentiator" yaml:"differentiator"`
}

// IsZero reports whether both name and differentiator are empty.
func (i Identity) IsZero() bool { return i.Name == "" && i.Differentiator == "" }

// Trim returns the identity with surrounding whitespace removed.
func (i Identity) Trim() Identity {
	return Identity{Name: strings.TrimSpace(i.Name), Differentiator: strings.TrimSpace(i.Differentiator)}
}

// UUIDRef references an existing node by uuid only.
type UUIDRef struct {
	UUID string `json:"uuid" yaml:"uuid"`
}

// Ref is the minimal rendered reference to another node. A nil UUID marks a
// self-reference.
type Ref struct {
	Model Model   `json:"model"`
	UUID  *string `json:"uuid"`
	Name  string  `json:"name"`
}

// StrPtr returns a pointer to s, or nil when s is empty.
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string, or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Header carries the properties every shown entity shares.
type Header struct {
	Model          Model  `json:"model"`
	UUID           string `json:"uuid"`
	Name           string `json:"name"`
	Differentiator string `json:"differentiator"`
}

// Summary is a list-item rendering of a node with only identity fields.
type Summary struct {
	Model          Model  `json:"model"`
	UUID           string `json:"uuid"`
	Name           string `json:"name"`
	Differentiator string `json:"differentiator,omitempty"`
}

// Ident returns the identity itself; inputs expose it through embedding.
func (i Identity) Ident() Identity { return i }

// Deleted is the delete response: the identity of the removed node, or the
// associations that blocked its removal under errors.associations.
type Deleted struct {
	Header
	Outcome
}
