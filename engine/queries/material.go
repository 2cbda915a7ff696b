package queries

import (
	"github.com/stagebase/stagebase/engine/credits"
	"github.com/stagebase/stagebase/engine/cypher"
	"github.com/stagebase/stagebase/engine/domain"
)

var materialOwned = []string{"CREDIT", "ORIGINAL_VERSION", "SUB_MATERIAL", "DEPICTS"}

// MaterialWrite builds the create (or full-replacement update) of a material.
func (t *Templates) MaterialWrite(in *domain.MaterialInput, create bool) *cypher.Query {
	props := identityProps(in.Identity)
	props["format"] = nullable(in.Format)
	props["year"] = nil
	if in.Year != 0 {
		props["year"] = in.Year
	}
	q := node(domain.ModelMaterial, in.UUID, create, props, materialOwned...)
	if !in.OriginalVersionMaterial.IsZero() {
		edges{param: "originalVersion", rel: "ORIGINAL_VERSION"}.
			write(q, links(domain.ModelMaterial, []domain.Identity{in.OriginalVersionMaterial}, false, t.NewID))
	}
	edges{param: "writingCredits", rel: "CREDIT", company: "creditedCompanyUuid"}.
		write(q, credits.Compile(domain.CreditWriting, in.WritingCredits, t.NewID))
	edges{param: "subMaterials", rel: "SUB_MATERIAL"}.
		write(q, links(domain.ModelMaterial, in.SubMaterials, true, t.NewID))
	edges{param: "characters", rel: "DEPICTS"}.
		write(q, characterLinks(in.CharacterGroups, t.NewID))
	return returnUUID(q)
}

// materialRow renders an embedded material: its sur-material chain and
// writing credits.
func (t *Templates) materialRow(m string, extra ...string) string {
	return cypher.Map(pairs([]string{
		"uuid", m + ".uuid",
		"name", m + ".name",
		"format", m + ".format",
		"year", m + ".year",
		"materialArena", materialChain.up("("+m+")", m+"Up", t.hops()),
		"writingCredits", creditRows(m, domain.CreditWriting),
	}, extra...)...)
}

// MaterialShow returns one row:
//
//	uuid, name, differentiator, format, year, writingCredits, characterGroups,
//	materialArena, versionArena, productions, sourcingMaterials, awards
func (t *Templates) MaterialShow(uuid string) *cypher.Query {
	q := matchNode(domain.ModelMaterial, uuid)
	q.Call(distinctCall(
		"(n)<-[:CREDIT { kind: 'WRITING' }]-(m:Material)",
		"m", t.materialRow("m"), "sourcingMaterials",
	))
	q.Call(awardsCall())
	return q.Return(columns(pairs(header("n"),
		"format", "n.format",
		"year", "n.year",
		"writingCredits", creditRows("n", domain.CreditWriting),
		"characterGroups", characterRows("n"),
		"materialArena", materialChain.up("(n)", "nUp", t.hops())+" + "+materialChain.down("(n)", "nDown", 2),
		"versionArena", versionChain.up("(n)", "nOrig", t.hops())+" + "+versionChain.down("(n)", "nNext", 1),
		"productions", "[(n)<-[:PRODUCTION_OF]-(p:Production) | "+t.productionRow("p")+"]",
		"sourcingMaterials", "sourcingMaterials",
		"awards", "awards",
	)...)...)
}

// MaterialEdit returns the authored form of a material.
func (t *Templates) MaterialEdit(uuid string) *cypher.Query {
	q := matchNode(domain.ModelMaterial, uuid)
	return q.Return(columns(pairs(header("n"),
		"format", "n.format",
		"year", "n.year",
		"writingCredits", creditRows("n", domain.CreditWriting),
		"characterGroups", characterRows("n"),
		"originalVersion", identityRows("(n)-[:ORIGINAL_VERSION]->(o:Material)", "o", false),
		"subMaterials", identityRows("(n)-[sR:SUB_MATERIAL]->(s:Material)", "s", true),
	)...)...)
}

// MaterialList returns one row per material:
//
//	uuid, name, differentiator, format, year, materialArena, writingCredits
func (t *Templates) MaterialList() *cypher.Query {
	return cypher.New().
		Match("(n:Material)").
		Return(columns(pairs(header("n"),
			"format", "n.format",
			"year", "n.year",
			"materialArena", materialChain.up("(n)", "nUp", t.hops()),
			"writingCredits", creditRows("n", domain.CreditWriting),
		)...)...)
}
