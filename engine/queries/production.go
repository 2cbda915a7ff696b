package queries

import (
	"fmt"

	"github.com/stagebase/stagebase/engine/credits"
	"github.com/stagebase/stagebase/engine/cypher"
	"github.com/stagebase/stagebase/engine/domain"
)

var productionOwned = []string{"CREDIT", "PRODUCTION_OF", "PLAYS_AT", "SUB_PRODUCTION", "PORTRAYED"}

// ProductionWrite builds the create (or full-replacement update) of a
// production.
func (t *Templates) ProductionWrite(in *domain.ProductionInput, create bool) *cypher.Query {
	props := identityProps(in.Identity)
	props["startDate"] = nullable(in.StartDate)
	props["pressDate"] = nullable(in.PressDate)
	props["endDate"] = nullable(in.EndDate)
	q := node(domain.ModelProduction, in.UUID, create, props, productionOwned...)
	if !in.Material.IsZero() {
		edges{param: "material", rel: "PRODUCTION_OF"}.
			write(q, links(domain.ModelMaterial, []domain.Identity{in.Material}, false, t.NewID))
	}
	if !in.Venue.IsZero() {
		edges{param: "venue", rel: "PLAYS_AT"}.
			write(q, links(domain.ModelVenue, []domain.Identity{in.Venue}, false, t.NewID))
	}
	edges{param: "subProductions", rel: "SUB_PRODUCTION"}.
		write(q, uuidLinks(domain.ModelProduction, in.SubProductions))
	edges{param: "producerCredits", rel: "CREDIT", company: "creditedCompanyUuid"}.
		write(q, credits.Compile(domain.CreditProducer, in.ProducerCredits, t.NewID))
	edges{param: "creativeCredits", rel: "CREDIT", company: "creditedCompanyUuid"}.
		write(q, credits.Compile(domain.CreditCreative, in.CreativeCredits, t.NewID))
	edges{param: "crewCredits", rel: "CREDIT", company: "creditedCompanyUuid"}.
		write(q, credits.Compile(domain.CreditCrew, in.CrewCredits, t.NewID))
	writeCast(q, credits.Cast(in.Cast, t.NewID))
	return returnUUID(q)
}

// writeCast creates one PORTRAYED edge per cast member role. The portrayed
// character is not stored; reads resolve it through portrayedCharacter.
func writeCast(q *cypher.Query, cast credits.Set) {
	frags := cast.Entities(domain.ModelPerson)
	if len(frags) == 0 {
		return
	}
	sub := cypher.New()
	param := sub.Param("cast", list(frags))
	sub.With("n").
		Unwind(param, "f").
		Merge("(e:Person { name: f.name, differentiator: f.differentiator })").
		OnCreateSet("e.uuid = f.uuid").
		Create("(n)-[r:PORTRAYED]->(e)").
		Set("r += f.props")
	q.Call(sub)
}

// productionRow renders an embedded production: its venue with the venue's
// sur-venue chain and its own sur-production chain.
func (t *Templates) productionRow(p string, extra ...string) string {
	return cypher.Map(t.productionPairs(p, extra...)...)
}

func (t *Templates) productionPairs(p string, extra ...string) []string {
	v := p + "V"
	return pairs([]string{
		"uuid", p + ".uuid",
		"name", p + ".name",
		"startDate", p + ".startDate",
		"endDate", p + ".endDate",
		"venueUuid", fmt.Sprintf("head([(%s)-[:PLAYS_AT]->(%s:Venue) | %s.uuid])", p, v, v),
		"venueName", fmt.Sprintf("head([(%s)-[:PLAYS_AT]->(%s:Venue) | %s.name])", p, v, v),
		"venueArena", venueChain.up("("+p+")-[:PLAYS_AT]->(:Venue)", p+"Va", t.hops()),
		"productionArena", productionChain.up("("+p+")", p+"Pa", t.hops()),
	}, extra...)
}

// ProductionShow returns one row:
//
//	uuid, name, differentiator, startDate, pressDate, endDate, material,
//	venueUuid, venueArena, productionArena, producerCredits, cast,
//	creativeCredits, crewCredits, awards
func (t *Templates) ProductionShow(uuid string) *cypher.Query {
	q := matchNode(domain.ModelProduction, uuid)
	q.Call(awardsCall())
	return q.Return(columns(pairs(header("n"),
		"startDate", "n.startDate",
		"pressDate", "n.pressDate",
		"endDate", "n.endDate",
		"material", "[(n)-[:PRODUCTION_OF]->(m:Material) | "+t.materialRow("m")+"]",
		"venueUuid", "head([(n)-[:PLAYS_AT]->(nV:Venue) | nV.uuid])",
		"venueArena", venueChain.up("(n)-[:PLAYS_AT]->(:Venue)", "nVa", t.hops()),
		"productionArena", productionChain.up("(n)", "nUp", t.hops())+" + "+productionChain.down("(n)", "nDown", 2),
		"producerCredits", creditRows("n", domain.CreditProducer),
		"cast", castRows("n"),
		"creativeCredits", creditRows("n", domain.CreditCreative),
		"crewCredits", creditRows("n", domain.CreditCrew),
		"awards", "awards",
	)...)...)
}

// ProductionEdit returns the authored form of a production.
func (t *Templates) ProductionEdit(uuid string) *cypher.Query {
	q := matchNode(domain.ModelProduction, uuid)
	return q.Return(columns(pairs(header("n"),
		"startDate", "n.startDate",
		"pressDate", "n.pressDate",
		"endDate", "n.endDate",
		"material", identityRows("(n)-[:PRODUCTION_OF]->(m:Material)", "m", false),
		"venue", identityRows("(n)-[:PLAYS_AT]->(v:Venue)", "v", false),
		"subProductions", "[(n)-[sR:SUB_PRODUCTION]->(s:Production) | { uuid: s.uuid, position: sR.position }]",
		"producerCredits", creditRows("n", domain.CreditProducer),
		"cast", castRows("n"),
		"creativeCredits", creditRows("n", domain.CreditCreative),
		"crewCredits", creditRows("n", domain.CreditCrew),
	)...)...)
}

// ProductionList returns one row per production in the embedded production
// row layout.
func (t *Templates) ProductionList() *cypher.Query {
	return cypher.New().
		Match("(n:Production)").
		Return(columns(pairs(t.productionPairs("n"), "differentiator", "n.differentiator")...)...)
}
