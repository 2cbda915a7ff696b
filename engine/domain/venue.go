package domain

// VenueInput is the create/update body and edit prefill for a venue.
type VenueInput struct {
	Outcome   `yaml:"-"`
	UUID      string     `json:"uuid,omitempty" yaml:"-"`
	Identity  `yaml:",inline"`
	SubVenues []Identity `json:"subVenues" yaml:"subVenues"`
}

// Normalize trims strings and drops blank sub-venues.
func (v *VenueInput) Normalize() {
	v.Reset()
	v.Identity = v.Identity.Trim()
	v.SubVenues = normalizeIdentities(v.SubVenues)
}

// Validate applies the intrinsic rules that need no store access.
func (v *VenueInput) Validate() Errors {
	var errs Errors
	validateName(&errs, "", v.Identity, true)
	validateChildren(&errs, "subVenues", v.SubVenues, v.Identity)
	return errs
}

// VenueView is the show payload of a venue.
type VenueView struct {
	Header
	Outcome
	SurVenue    *Link              `json:"surVenue"`
	SubVenues   []Link             `json:"subVenues"`
	Productions []ProductionListed `json:"productions"`
}

// VenueListed is a root venue with its immediate sub-venues.
type VenueListed struct {
	Model     Model   `json:"model"`
	UUID      *string `json:"uuid"`
	Name      string  `json:"name"`
	SubVenues []Link  `json:"subVenues"`
}

func (v *VenueInput) ID() string        { return v.UUID }
func (v *VenueInput) SetID(uuid string) { v.UUID = uuid }
