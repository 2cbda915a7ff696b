package shape

import (
	"github.com/stagebase/stagebase/engine/domain"
	"github.com/stagebase/stagebase/pkg/fn"
	"github.com/stagebase/stagebase/pkg/repo"
)

// Nest groups rows by an integer position column in ascending order. Rows
// where the column is null belong to no item at this level and are dropped;
// repeated rows for the same position collapse into one run.
func Nest(rows []repo.Row, key string) []fn.Run[int, repo.Row] {
	present := fn.Filter(rows, func(r repo.Row) bool {
		_, ok := IntOK(r, key)
		return ok
	})
	return fn.SortedGroups(present, func(r repo.Row) int { return Int(r, key) })
}

// Credits rebuilds credit groups from credit rows:
//
//	groupPosition, groupName, creditType,
//	entityPosition, model, uuid, name, differentiator, format, year,
//	memberPosition, memberUuid, memberName, memberDifferentiator
//
// There is one row per entity edge, followed by one row per company member
// edge carrying only the positions and the member columns.
func Credits(kind domain.CreditKind, rows []repo.Row) []domain.Credit {
	groups := Nest(rows, "groupPosition")
	out := make([]domain.Credit, 0, len(groups))
	for _, g := range groups {
		first := g.Items[0]
		c := domain.Credit{
			Model:      kind.Model(),
			Name:       Str(first, "groupName"),
			CreditType: Str(first, "creditType"),
		}
		c.Entities = Entities(g.Items)
		out = append(out, c)
	}
	return out
}

// Entities rebuilds one ordered entity list, with company members, from rows
// keyed by entityPosition and memberPosition.
func Entities(rows []repo.Row) []domain.CreditEntity {
	nested := Nest(rows, "entityPosition")
	out := make([]domain.CreditEntity, 0, len(nested))
	for _, e := range nested {
		out = append(out, creditEntity(e.Items))
	}
	return out
}

func creditEntity(rows []repo.Row) domain.CreditEntity {
	first := rows[0]
	e := domain.CreditEntity{
		Model:  Model(first, "model"),
		UUID:   StrPtr(first, "uuid"),
		Name:   Str(first, "name"),
		Format: Str(first, "format"),
		Year:   Int(first, "year"),
	}
	for _, m := range Nest(rows, "memberPosition") {
		e.Members = append(e.Members, domain.Ref{
			Model: domain.ModelPerson,
			UUID:  StrPtr(m.Items[0], "memberUuid"),
			Name:  Str(m.Items[0], "memberName"),
		})
	}
	return e
}

// CreditInputs rebuilds the edit form of credit groups from credit rows.
func CreditInputs(rows []repo.Row) []domain.CreditInput {
	groups := Nest(rows, "groupPosition")
	out := make([]domain.CreditInput, 0, len(groups))
	for _, g := range groups {
		first := g.Items[0]
		out = append(out, domain.CreditInput{
			Name:       Str(first, "groupName"),
			CreditType: Str(first, "creditType"),
			Entities:   EntityInputs(g.Items),
		})
	}
	return out
}

// EntityInputs rebuilds the edit form of one entity list.
func EntityInputs(rows []repo.Row) []domain.CreditEntityInput {
	nested := Nest(rows, "entityPosition")
	out := make([]domain.CreditEntityInput, 0, len(nested))
	for _, e := range nested {
		first := e.Items[0]
		in := domain.CreditEntityInput{
			Model:    Model(first, "model"),
			Identity: identity(first, "name", "differentiator"),
		}
		for _, m := range Nest(e.Items, "memberPosition") {
			in.Members = append(in.Members, identity(m.Items[0], "memberName", "memberDifferentiator"))
		}
		out = append(out, in)
	}
	return out
}

func identity(r repo.Row, nameKey, diffKey string) domain.Identity {
	return domain.Identity{Name: Str(r, nameKey), Differentiator: Str(r, diffKey)}
}

// Identities reads a positioned list of {name, differentiator} rows.
func Identities(rows []repo.Row) []domain.Identity {
	return fn.Map(Nest(rows, "position"), func(g fn.Run[int, repo.Row]) domain.Identity {
		return identity(g.Items[0], "name", "differentiator")
	})
}

// Cast rebuilds cast members and their roles from cast rows:
//
//	castMemberPosition, uuid, name, differentiator, rolePosition, roleName,
//	characterUuid, characterName, characterDifferentiator, qualifier, isAlternate
func Cast(rows []repo.Row) []domain.CastMember {
	members := Nest(rows, "castMemberPosition")
	out := make([]domain.CastMember, 0, len(members))
	for _, m := range members {
		first := m.Items[0]
		out = append(out, domain.CastMember{
			Model: domain.ModelPerson,
			UUID:  StrPtr(first, "uuid"),
			Name:  Str(first, "name"),
			Roles: Roles(m.Items),
		})
	}
	return out
}

// Roles rebuilds the ordered roles within rows of one cast member.
func Roles(rows []repo.Row) []domain.Role {
	nested := Nest(rows, "rolePosition")
	out := make([]domain.Role, 0, len(nested))
	for _, r := range nested {
		out = append(out, role(r.Items[0]))
	}
	return out
}

// PerformedRoles rebuilds the roles one person plays in a production. The
// person may hold several cast positions, so roles are ordered by cast
// position first.
func PerformedRoles(rows []repo.Row) []domain.Role {
	out := []domain.Role{}
	for _, m := range Nest(rows, "castMemberPosition") {
		out = append(out, Roles(m.Items)...)
	}
	return out
}

func role(r repo.Row) domain.Role {
	return domain.Role{
		Model:                   domain.ModelRole,
		Name:                    Str(r, "roleName"),
		CharacterUUID:           StrPtr(r, "characterUuid"),
		CharacterName:           Str(r, "characterName"),
		CharacterDifferentiator: Str(r, "characterDifferentiator"),
		Qualifier:               Str(r, "qualifier"),
		IsAlternate:             Bool(r, "isAlternate"),
	}
}

// CastInputs rebuilds the edit form of a cast list.
func CastInputs(rows []repo.Row) []domain.CastMemberInput {
	members := Nest(rows, "castMemberPosition")
	out := make([]domain.CastMemberInput, 0, len(members))
	for _, m := range members {
		in := domain.CastMemberInput{Identity: identity(m.Items[0], "name", "differentiator")}
		for _, r := range Nest(m.Items, "rolePosition") {
			first := r.Items[0]
			in.Roles = append(in.Roles, domain.RoleInput{
				Name:                    Str(first, "roleName"),
				CharacterName:           Str(first, "characterName"),
				CharacterDifferentiator: Str(first, "characterDifferentiator"),
				Qualifier:               Str(first, "qualifier"),
				IsAlternate:             Bool(first, "isAlternate"),
			})
		}
		out = append(out, in)
	}
	return out
}

// CharacterGroups rebuilds depicted character groups from rows:
//
//	groupPosition, groupName, position, uuid, name, differentiator,
//	displayName, qualifier
//
// A character with a display name is shown under that name with the node's
// own name as its underlying name.
func CharacterGroups(rows []repo.Row) []domain.CharacterGroup {
	groups := Nest(rows, "groupPosition")
	out := make([]domain.CharacterGroup, 0, len(groups))
	for _, g := range groups {
		cg := domain.CharacterGroup{
			Model:      domain.ModelCharacterGroup,
			Name:       Str(g.Items[0], "groupName"),
			Position:   g.Key,
			Characters: []domain.DepictedCharacter{},
		}
		for _, c := range Nest(g.Items, "position") {
			first := c.Items[0]
			dc := domain.DepictedCharacter{
				Model:     domain.ModelCharacter,
				UUID:      StrPtr(first, "uuid"),
				Name:      Str(first, "name"),
				Qualifier: Str(first, "qualifier"),
			}
			if display := Str(first, "displayName"); display != "" {
				dc.UnderlyingName = dc.Name
				dc.Name = display
			}
			cg.Characters = append(cg.Characters, dc)
		}
		out = append(out, cg)
	}
	return out
}

// CharacterGroupInputs rebuilds the edit form of character groups.
func CharacterGroupInputs(rows []repo.Row) []domain.CharacterGroupInput {
	groups := Nest(rows, "groupPosition")
	out := make([]domain.CharacterGroupInput, 0, len(groups))
	for _, g := range groups {
		in := domain.CharacterGroupInput{Name: Str(g.Items[0], "groupName")}
		for _, c := range Nest(g.Items, "position") {
			first := c.Items[0]
			ci := domain.CharacterInput{
				Identity:  identity(first, "name", "differentiator"),
				Qualifier: Str(first, "qualifier"),
			}
			if display := Str(first, "displayName"); display != "" {
				ci.UnderlyingName = ci.Name
				ci.Name = display
			}
			in.Characters = append(in.Characters, ci)
		}
		out = append(out, in)
	}
	return out
}
