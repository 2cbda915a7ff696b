package credits

import "github.com/stagebase/stagebase/engine/domain"

// Nominations is a compiled ceremony: its categories in order and the
// nominee fragments of every nomination within them.
type Nominations struct {
	Categories []map[string]any
	Nominees   Set
}

// CompileNominations flattens ceremony categories. Fragments are scoped by
// categoryPosition; nominationPosition, isWinner and customType are copied to
// every nominee edge of the nomination. Entities, productions and materials
// are positioned independently within their own lists.
func CompileNominations(categories []domain.CategoryInput, id IDFunc) Nominations {
	var out Nominations
	for ci, c := range categories {
		out.Categories = append(out.Categories, map[string]any{
			"position": ci,
			"name":     c.Name,
		})
		scope := map[string]any{"categoryPosition": ci}
		for ni, n := range c.Nominations {
			base := map[string]any{
				"nominationPosition": ni,
				"isWinner":           n.IsWinner,
				"customType":         nullable(n.CustomType),
			}
			out.Nominees = append(out.Nominees, entities(n.Entities, base, scope, ci, id)...)
			for pi, p := range n.Productions {
				out.Nominees = append(out.Nominees, Fragment{
					Model:          domain.ModelProduction,
					UUID:           p.UUID,
					ByUUID:         true,
					Props:          with(base, "entityPosition", pi),
					Scope:          scope,
					GroupPosition:  ci,
					EntityPosition: pi,
				})
			}
			for mi, m := range n.Materials {
				out.Nominees = append(out.Nominees, Fragment{
					Model:          domain.ModelMaterial,
					Identity:       m,
					UUID:           id(),
					Props:          with(base, "entityPosition", mi),
					Scope:          scope,
					GroupPosition:  ci,
					EntityPosition: mi,
				})
			}
		}
	}
	return out
}
