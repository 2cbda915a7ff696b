package queries

import (
	"github.com/stagebase/stagebase/engine/credits"
	"github.com/stagebase/stagebase/engine/cypher"
	"github.com/stagebase/stagebase/engine/domain"
)

// AwardCeremonyWrite builds the create (or full-replacement update) of an
// award ceremony. Categories are owned by the ceremony and rebuilt on every
// write; nominees attach to the category at their categoryPosition.
func (t *Templates) AwardCeremonyWrite(in *domain.AwardCeremonyInput, create bool) *cypher.Query {
	q := node(domain.ModelAwardCeremony, in.UUID, create, identityProps(in.Identity))
	if !create {
		q.Call(cypher.New().
			With("n").
			OptionalMatch("(n)<-[r:HAS_CEREMONY]-(:Award)").
			Delete("r"))
		q.Call(cypher.New().
			With("n").
			OptionalMatch("(n)-[:PRESENTS_CATEGORY]->(cat:AwardCeremonyCategory)").
			DetachDelete("cat"))
	}
	if !in.Award.IsZero() {
		edges{param: "award", rel: "HAS_CEREMONY", inbound: true}.
			write(q, links(domain.ModelAward, []domain.Identity{in.Award}, false, t.NewID))
	}
	noms := credits.CompileNominations(in.Categories, t.NewID)
	if len(noms.Categories) > 0 {
		sub := cypher.New()
		param := sub.Param("categories", list(noms.Categories))
		q.Call(sub.With("n").
			Unwind(param, "c").
			Create("(n)-[:PRESENTS_CATEGORY { position: c.position }]->(:AwardCeremonyCategory { name: c.name })"))
	}
	edges{
		param:   "nominees",
		rel:     "HAS_NOMINEE",
		source:  "(n)-[:PRESENTS_CATEGORY { position: f.categoryPosition }]->(src:AwardCeremonyCategory)",
		company: "nominatedCompanyUuid",
	}.write(q, noms.Nominees)
	return returnUUID(q)
}

func ceremonyAward(c string, withDifferentiator bool) string {
	kv := []string{"uuid", "a.uuid", "name", "a.name"}
	if withDifferentiator {
		kv = pairs(kv, "differentiator", "a.differentiator")
	}
	return "[(" + c + ")<-[:HAS_CEREMONY]-(a:Award) | " + cypher.Map(kv...) + "]"
}

// AwardCeremonyShow returns one row:
//
//	uuid, name, differentiator, award, categories
func (t *Templates) AwardCeremonyShow(uuid string) *cypher.Query {
	return matchNode(domain.ModelAwardCeremony, uuid).Return(columns(pairs(header("n"),
		"award", ceremonyAward("n", false),
		"categories", categoryRows("n"),
	)...)...)
}

// AwardCeremonyEdit returns the authored form of a ceremony.
func (t *Templates) AwardCeremonyEdit(uuid string) *cypher.Query {
	return matchNode(domain.ModelAwardCeremony, uuid).Return(columns(pairs(header("n"),
		"award", ceremonyAward("n", true),
		"categories", categoryRows("n"),
	)...)...)
}

// AwardCeremonyList returns every ceremony with its award, newest name first.
func AwardCeremonyList() *cypher.Query {
	return cypher.New().
		Match("(n:AwardCeremony)").
		Return(columns(pairs(header("n"), "award", ceremonyAward("n", false))...)...).
		OrderBy("n.name DESC")
}
