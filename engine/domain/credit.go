package domain

import "strings"

// CreditKind names a family of credit groups stored on CREDIT edges.
type CreditKind string

const (
	CreditWriting  CreditKind = "WRITING"
	CreditProducer CreditKind = "PRODUCER"
	CreditCreative CreditKind = "CREATIVE"
	CreditCrew     CreditKind = "CREW"
)

// DefaultName is the group name used when the request omits one.
func (k CreditKind) DefaultName() string {
	switch k {
	case CreditWriting:
		return "by"
	case CreditProducer:
		return "produced by"
	case CreditCreative:
		return "creative team"
	case CreditCrew:
		return "crew"
	}
	return ""
}

// Model is the response discriminant for groups of this kind.
func (k CreditKind) Model() Model {
	switch k {
	case CreditWriting:
		return ModelWritingCredit
	case CreditProducer:
		return ModelProducerCredit
	case CreditCreative:
		return ModelCreativeCredit
	case CreditCrew:
		return ModelCrewCredit
	}
	return ""
}

// Permits reports whether an entity model may be credited in this kind.
func (k CreditKind) Permits(m Model) bool {
	switch m {
	case ModelPerson, ModelCompany:
		return true
	case ModelMaterial:
		return k == CreditWriting
	}
	return false
}

// CreditInput is one authored credit group.
type CreditInput struct {
	Name       string              `json:"name" yaml:"name"`
	CreditType string              `json:"creditType,omitempty" yaml:"creditType"`
	Entities   []CreditEntityInput `json:"entities" yaml:"entities"`
}

// CreditEntityInput is one credited party. Model defaults to PERSON.
type CreditEntityInput struct {
	Model    Model `json:"model,omitempty" yaml:"model"`
	Identity `yaml:",inline"`
	Members  []Identity `json:"members,omitempty" yaml:"members"`
}

// EntityModel returns the declared model, defaulting to PERSON.
func (c CreditEntityInput) EntityModel() Model {
	if c.Model == "" {
		return ModelPerson
	}
	return c.Model
}

func (c CreditInput) normalize() CreditInput {
	out := CreditInput{
		Name:       strings.TrimSpace(c.Name),
		CreditType: strings.TrimSpace(c.CreditType),
		Entities:   make([]CreditEntityInput, 0, len(c.Entities)),
	}
	for _, e := range c.Entities {
		ne := CreditEntityInput{Model: Model(strings.ToUpper(strings.TrimSpace(string(e.Model)))), Identity: e.Identity.Trim()}
		for _, m := range e.Members {
			if m = m.Trim(); !m.IsZero() {
				ne.Members = append(ne.Members, m)
			}
		}
		if ne.IsZero() && len(ne.Members) == 0 {
			continue
		}
		out.Entities = append(out.Entities, ne)
	}
	return out
}

// NormalizeCredits trims every string and drops blank entities and groups.
func NormalizeCredits(in []CreditInput) []CreditInput {
	var out []CreditInput
	for _, c := range in {
		nc := c.normalize()
		if nc.Name == "" && nc.CreditType == "" && len(nc.Entities) == 0 {
			continue
		}
		out = append(out, nc)
	}
	return out
}

// Credit is a rendered credit group.
type Credit struct {
	Model      Model          `json:"model"`
	Name       string         `json:"name"`
	CreditType string         `json:"creditType,omitempty"`
	Entities   []CreditEntity `json:"entities"`
}

// CreditEntity is a rendered credited party. Companies carry their members
// credited for this group only.
type CreditEntity struct {
	Model   Model   `json:"model"`
	UUID    *string `json:"uuid"`
	Name    string  `json:"name"`
	Format  string  `json:"format,omitempty"`
	Year    int     `json:"year,omitempty"`
	Members []Ref   `json:"members,omitempty"`
}

// Ref returns the entity as a bare reference.
func (c CreditEntity) Ref() Ref { return Ref{Model: c.Model, UUID: c.UUID, Name: c.Name} }

// EmployerCompany is the company through which the viewpoint person was credited.
type EmployerCompany struct {
	Model     Model   `json:"model"`
	UUID      *string `json:"uuid"`
	Name      string  `json:"name"`
	CoMembers []Ref   `json:"coMembers"`
}

// ViewedCredit is a credit group seen from one credited party: the party
// itself is removed and the remaining parties are classified.
type ViewedCredit struct {
	Model           Model            `json:"model"`
	Name            string           `json:"name"`
	CreditType      string           `json:"creditType,omitempty"`
	EmployerCompany *EmployerCompany `json:"employerCompany,omitempty"`
	Members         []Ref            `json:"members,omitempty"`
	CoEntities      []CreditEntity   `json:"coEntities"`
}
