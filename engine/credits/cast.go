package credits

import "github.com/stagebase/stagebase/engine/domain"

// Cast flattens a cast list into one fragment per (cast member, role). A cast
// member without roles yields a single fragment with no role position.
//
// A role keeps the character name and differentiator it was authored with;
// the portrayed character is matched against the material when read.
func Cast(cast []domain.CastMemberInput, id IDFunc) Set {
	var out Set
	for ci, c := range cast {
		if len(c.Roles) == 0 {
			out = append(out, Fragment{
				Model:    domain.ModelPerson,
				Identity: c.Identity,
				UUID:     id(),
				Props: map[string]any{
					"castMemberPosition": ci,
				},
				GroupPosition: ci,
			})
			continue
		}
		for ri, r := range c.Roles {
			out = append(out, Fragment{
				Model:    domain.ModelPerson,
				Identity: c.Identity,
				UUID:     id(),
				Props: map[string]any{
					"castMemberPosition":      ci,
					"rolePosition":            ri,
					"roleName":                r.Name,
					"characterName":           nullable(r.CharacterName),
					"characterDifferentiator": nullable(r.CharacterDifferentiator),
					"qualifier":               nullable(r.Qualifier),
					"isAlternate":             r.IsAlternate,
				},
				GroupPosition:  ci,
				EntityPosition: ri,
			})
		}
	}
	return out
}
