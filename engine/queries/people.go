package queries

import (
	"fmt"

	"github.com/stagebase/stagebase/engine/cypher"
	"github.com/stagebase/stagebase/engine/domain"
)

// BasicWrite builds the create or update of an identity-only kind. Such nodes
// own no outgoing edges; their links are written from the other side.
func BasicWrite(m domain.Model, in *domain.BasicInput, create bool) *cypher.Query {
	return returnUUID(node(m, in.UUID, create, identityProps(in.Identity)))
}

// BasicEdit returns the identity of one node.
func BasicEdit(m domain.Model, uuid string) *cypher.Query {
	return matchNode(m, uuid).Return(columns(header("n")...)...)
}

// BasicList returns the identity of every node of model m.
func BasicList(m domain.Model) *cypher.Query {
	return cypher.New().
		Match(fmt.Sprintf("(n:%s)", m.Label())).
		Return(columns(header("n")...)...)
}

// creditedWork collects the productions crediting n under kind, each with the
// full credit list of that kind so co-credits can be classified.
func (t *Templates) creditedWork(kind domain.CreditKind, alias string) *cypher.Query {
	return distinctCall(
		fmt.Sprintf("(n)<-[:CREDIT { kind: '%s' }]-(p:Production)", kind),
		"p", t.productionRow("p", "credits", creditRows("p", kind)), alias,
	)
}

// contributorCalls are the subqueries shared by person and company views.
func (t *Templates) contributorCalls(q *cypher.Query) {
	q.Call(distinctCall(
		"(n)<-[:CREDIT { kind: 'WRITING' }]-(m:Material)",
		"m", t.materialRow("m"), "materials",
	))
	q.Call(t.creditedWork(domain.CreditProducer, "producerProductions"))
	q.Call(t.creditedWork(domain.CreditCreative, "creativeProductions"))
	q.Call(t.creditedWork(domain.CreditCrew, "crewProductions"))
	q.Call(awardsCall())
}

// PersonShow returns one row:
//
//	uuid, name, differentiator, materials, producerProductions,
//	castMemberProductions, creativeProductions, crewProductions, awards
func (t *Templates) PersonShow(uuid string) *cypher.Query {
	q := matchNode(domain.ModelPerson, uuid)
	t.contributorCalls(q)
	roles := "[(p)-[pPr:PORTRAYED]->(n) | " + cypher.Map(
		"castMemberPosition", "pPr.castMemberPosition",
		"rolePosition", "pPr.rolePosition",
		"roleName", "pPr.roleName",
		"characterUuid", portrayedCharacter("p", "pPr"),
		"characterName", "pPr.characterName",
		"characterDifferentiator", "pPr.characterDifferentiator",
		"qualifier", "pPr.qualifier",
		"isAlternate", "pPr.isAlternate",
	) + "]"
	q.Call(distinctCall("(n)<-[:PORTRAYED]-(p:Production)", "p",
		t.productionRow("p", "roles", roles), "castMemberProductions"))
	return q.Return(columns(pairs(header("n"),
		"materials", "materials",
		"producerProductions", "producerProductions",
		"castMemberProductions", "castMemberProductions",
		"creativeProductions", "creativeProductions",
		"crewProductions", "crewProductions",
		"awards", "awards",
	)...)...)
}

// CompanyShow returns one row:
//
//	uuid, name, differentiator, materials, producerProductions,
//	creativeProductions, crewProductions, awards
func (t *Templates) CompanyShow(uuid string) *cypher.Query {
	q := matchNode(domain.ModelCompany, uuid)
	t.contributorCalls(q)
	return q.Return(columns(pairs(header("n"),
		"materials", "materials",
		"producerProductions", "producerProductions",
		"creativeProductions", "creativeProductions",
		"crewProductions", "crewProductions",
		"awards", "awards",
	)...)...)
}

// CharacterShow returns one row:
//
//	uuid, name, differentiator, materials, variantNames, productions
//
// Productions are those whose cast portrays the character through a role
// resolved to it when read, so edits to the material or the character apply
// to existing casts.
func (t *Templates) CharacterShow(uuid string) *cypher.Query {
	q := matchNode(domain.ModelCharacter, uuid)
	depictions := "[(m)-[mD:DEPICTS]->(n) | " + cypher.Map(
		"groupPosition", "mD.groupPosition",
		"groupName", "mD.groupName",
		"position", "mD.position",
		"displayName", "mD.displayName",
		"qualifier", "mD.qualifier",
	) + "]"
	q.Call(distinctCall("(n)<-[:DEPICTS]-(m:Material)", "m",
		t.materialRow("m", "depictions", depictions), "materials"))
	performers := "[(p)-[pPr:PORTRAYED]->(pCm:Person) WHERE " + portrayedCharacter("p", "pPr") + " = n.uuid | " + cypher.Map(
		"castMemberPosition", "pPr.castMemberPosition",
		"rolePosition", "pPr.rolePosition",
		"uuid", "pCm.uuid",
		"name", "pCm.name",
		"roleName", "pPr.roleName",
		"qualifier", "pPr.qualifier",
		"isAlternate", "pPr.isAlternate",
	) + "]"
	q.Call(distinctCall(
		"(n)<-[:DEPICTS]-(:Material)<-[:PRODUCTION_OF]-(p:Production)-[pr:PORTRAYED]->(:Person) WHERE "+portrayedCharacter("p", "pr")+" = n.uuid",
		"p", t.productionRow("p", "performers", performers), "productions",
	))
	variants := "[(n)<-[vD:DEPICTS]-(:Material) | vD.displayName] + " +
		"[(n)<-[:DEPICTS]-(:Material)<-[:PRODUCTION_OF]-(vP:Production)-[vPr:PORTRAYED]->(:Person) " +
		"WHERE " + portrayedCharacter("vP", "vPr") + " = n.uuid | vPr.roleName]"
	return q.Return(columns(pairs(header("n"),
		"materials", "materials",
		"variantNames", variants,
		"productions", "productions",
	)...)...)
}

// AwardShow returns one row:
//
//	uuid, name, differentiator, ceremonies
//
// with each ceremony carrying its categories.
func (t *Templates) AwardShow(uuid string) *cypher.Query {
	return matchNode(domain.ModelAward, uuid).Return(columns(pairs(header("n"),
		"ceremonies", "[(n)-[:HAS_CEREMONY]->(c:AwardCeremony) | "+cypher.Map(
			"uuid", "c.uuid",
			"name", "c.name",
			"categories", categoryRows("c"),
		)+"]",
	)...)...)
}
