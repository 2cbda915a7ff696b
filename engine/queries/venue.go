package queries

import (
	"github.com/stagebase/stagebase/engine/cypher"
	"github.com/stagebase/stagebase/engine/domain"
)

// VenueWrite builds the create (or full-replacement update) of a venue.
func (t *Templates) VenueWrite(in *domain.VenueInput, create bool) *cypher.Query {
	q := node(domain.ModelVenue, in.UUID, create, identityProps(in.Identity), "SUB_VENUE")
	edges{param: "subVenues", rel: "SUB_VENUE"}.
		write(q, links(domain.ModelVenue, in.SubVenues, true, t.NewID))
	return returnUUID(q)
}

// VenueShow returns one row:
//
//	uuid, name, differentiator, venueArena, productions
//
// Productions include those playing at the venue's sub-venues.
func (t *Templates) VenueShow(uuid string) *cypher.Query {
	q := matchNode(domain.ModelVenue, uuid)
	q.Call(distinctCall(
		"(n)-[:SUB_VENUE*0..1]->(:Venue)<-[:PLAYS_AT]-(p:Production)",
		"p", t.productionRow("p"), "productions",
	))
	return q.Return(columns(pairs(header("n"),
		"venueArena", venueChain.up("(n)", "nUp", t.hops())+" + "+venueChain.down("(n)", "nDown", 1),
		"productions", "productions",
	)...)...)
}

// VenueEdit returns the authored form of a venue.
func (t *Templates) VenueEdit(uuid string) *cypher.Query {
	return matchNode(domain.ModelVenue, uuid).Return(columns(pairs(header("n"),
		"subVenues", identityRows("(n)-[sR:SUB_VENUE]->(s:Venue)", "s", true),
	)...)...)
}

// VenueList returns root venues only, each with its sub-venues.
func VenueList() *cypher.Query {
	return cypher.New().
		Match("(n:Venue)").
		Where("NOT EXISTS { MATCH (:Venue)-[:SUB_VENUE]->(n) }").
		Return(columns(pairs(header("n"),
			"subVenues", "[(n)-[sR:SUB_VENUE]->(s:Venue) | { uuid: s.uuid, name: s.name, position: sR.position }]",
		)...)...)
}
