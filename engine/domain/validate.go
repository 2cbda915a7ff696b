package domain

import (
	"unicode/utf8"

	"github.com/google/uuid"
)

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// ValidUUID reports whether s parses as a uuid.
func ValidUUID(s string) bool { return isUUID(s) }

// validateName checks an identity under prefix. A required identity must have
// a name; an optional one only needs a name when a differentiator is given.
func validateName(errs *Errors, prefix string, ident Identity, required bool) {
	nameField := Path(prefix, "name")
	switch {
	case required && ident.Name == "":
		errs.Add(nameField, MsgTooShort)
	case ident.Name == "" && ident.Differentiator != "":
		errs.Add(nameField, MsgNameRequired)
	}
	if utf8.RuneCountInString(ident.Name) > MaxNameLength {
		errs.Add(nameField, MsgTooLong)
	}
	if utf8.RuneCountInString(ident.Differentiator) > MaxNameLength {
		errs.Add(Path(prefix, "differentiator"), MsgTooLong)
	}
}

// validateCredits checks every group of one credit kind. self is the identity
// of the owning entity when a self-credit would be meaningless (a material
// crediting itself); pass the zero Identity to skip that check.
func validateCredits(errs *Errors, field string, kind CreditKind, credits []CreditInput, self Identity) {
	for gi, g := range credits {
		gp := Path(field, gi)
		if utf8.RuneCountInString(g.Name) > MaxNameLength {
			errs.Add(Path(gp, "name"), MsgTooLong)
		}
		if utf8.RuneCountInString(g.CreditType) > MaxNameLength {
			errs.Add(Path(gp, "creditType"), MsgTooLong)
		}
		validateEntities(errs, Path(gp, "entities"), kind, g.Entities, self)
	}
}

// validateEntities checks the credited parties of one group or nomination.
func validateEntities(errs *Errors, field string, kind CreditKind, entities []CreditEntityInput, self Identity) {
	for ei, e := range entities {
		ep := Path(field, ei)
		m := e.EntityModel()
		if m.Label() == "" || !kind.Permits(m) {
			errs.Add(Path(ep, "model"), MsgUnknownModel)
		}
		validateName(errs, ep, e.Identity, true)
		if m == ModelMaterial && !self.IsZero() && e.Identity == self {
			errs.Add(Path(ep, "name"), MsgSelfReference)
		}
		if len(e.Members) > 0 && m != ModelCompany {
			errs.Add(Path(ep, "members"), MsgMembersNotAllowed)
		}
		members := make(map[Identity]bool)
		for mi, mem := range e.Members {
			mp := Path(ep, "members", mi)
			validateName(errs, mp, mem, true)
			if members[mem] {
				errs.Add(Path(mp, "name"), MsgDuplicateInGroup)
			}
			members[mem] = true
		}
	}
}

// validateChildren checks a containment list for self-reference and duplicates.
func validateChildren(errs *Errors, field string, children []Identity, self Identity) {
	seen := make(map[Identity]bool)
	for i, c := range children {
		p := Path(field, i)
		validateName(errs, p, c, false)
		if c == self {
			errs.Add(Path(p, "name"), MsgSelfReference)
		}
		if seen[c] {
			errs.Add(Path(p, "name"), MsgDuplicateInGroup)
		}
		seen[c] = true
	}
}

func normalizeIdentities(in []Identity) []Identity {
	var out []Identity
	for _, i := range in {
		if i = i.Trim(); !i.IsZero() {
			out = append(out, i)
		}
	}
	return out
}
