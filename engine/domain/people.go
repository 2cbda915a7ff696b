package domain

// BasicInput is the create/update body for kinds that carry only an identity:
// people, companies, characters and awards.
type BasicInput struct {
	Outcome  `yaml:"-"`
	UUID     string `json:"uuid,omitempty" yaml:"-"`
	Identity `yaml:",inline"`
}

// Normalize trims the identity.
func (b *BasicInput) Normalize() {
	b.Reset()
	b.Identity = b.Identity.Trim()
}

// Validate applies the intrinsic rules that need no store access.
func (b *BasicInput) Validate() Errors {
	var errs Errors
	validateName(&errs, "", b.Identity, true)
	return errs
}

// PersonView is the show payload of a person.
type PersonView struct {
	Header
	Outcome
	Materials             []MaterialListed      `json:"materials"`
	ProducerProductions   []CreditedProduction  `json:"producerProductions"`
	CastMemberProductions []PerformedProduction `json:"castMemberProductions"`
	CreativeProductions   []CreditedProduction  `json:"creativeProductions"`
	CrewProductions       []CreditedProduction  `json:"crewProductions"`
	Awards                []AwardNominations    `json:"awards"`
}

// CompanyView is the show payload of a company.
type CompanyView struct {
	Header
	Outcome
	Materials           []MaterialListed     `json:"materials"`
	ProducerProductions []CreditedProduction `json:"producerProductions"`
	CreativeProductions []CreditedProduction `json:"creativeProductions"`
	CrewProductions     []CreditedProduction `json:"crewProductions"`
	Awards              []AwardNominations   `json:"awards"`
}

// CharacterView is the show payload of a character.
type CharacterView struct {
	Header
	Outcome
	Materials    []DepictingMaterial    `json:"materials"`
	VariantNames []string               `json:"variantNames"`
	Productions  []PortrayingProduction `json:"productions"`
}

// Depiction is one appearance of a character within a material's groups.
type Depiction struct {
	DisplayName string `json:"displayName,omitempty"`
	Qualifier   string `json:"qualifier,omitempty"`
	Group       string `json:"group,omitempty"`
}

// DepictingMaterial is a material seen from a character it depicts.
type DepictingMaterial struct {
	MaterialListed
	Depictions []Depiction `json:"depictions"`
}

// Performer is a cast member seen from the character they portray.
type Performer struct {
	Model       Model   `json:"model"`
	UUID        *string `json:"uuid"`
	Name        string  `json:"name"`
	RoleName    string  `json:"roleName"`
	Qualifier   string  `json:"qualifier,omitempty"`
	IsAlternate bool    `json:"isAlternate"`
}

// PortrayingProduction is a production seen from a character portrayed in it.
type PortrayingProduction struct {
	ProductionListed
	Performers []Performer `json:"performers"`
}

func (b *BasicInput) ID() string        { return b.UUID }
func (b *BasicInput) SetID(uuid string) { b.UUID = uuid }
