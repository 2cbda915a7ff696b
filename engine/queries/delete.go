package queries

import (
	"fmt"
	"strings"

	"github.com/stagebase/stagebase/engine/cypher"
	"github.com/stagebase/stagebase/engine/domain"
)

// blocker is an outgoing relation that prevents a delete, reported under
// the association name.
type blocker struct {
	pattern     string
	association string
}

var blockers = map[domain.Model][]blocker{
	domain.ModelMaterial: {{pattern: "(n)-[:SUB_MATERIAL]->(:Material)", association: "SubMaterial"}},
	domain.ModelVenue:    {{pattern: "(n)-[:SUB_VENUE]->(:Venue)", association: "SubVenue"}},
	domain.ModelAward:    {{pattern: "(n)-[:HAS_CEREMONY]->(:AwardCeremony)", association: "AwardCeremony"}},
}

// Associations returns the identity of the node and the names of the
// associations blocking its delete:
//
//	name, differentiator, associations
func Associations(m domain.Model, uuid string) *cypher.Query {
	items := make([]string, 0, len(blockers[m]))
	for _, b := range blockers[m] {
		items = append(items, fmt.Sprintf("CASE WHEN EXISTS { MATCH %s } THEN '%s' END", b.pattern, b.association))
	}
	assoc := "[]"
	if len(items) > 0 {
		assoc = "[a IN [" + strings.Join(items, ", ") + "] WHERE a IS NOT NULL]"
	}
	return matchNode(m, uuid).Return(
		"n.name AS name",
		"n.differentiator AS differentiator",
		assoc+" AS associations",
	)
}

// Delete removes the node and its edges, returning its identity. Company
// member credits are scoped to the company and go with it; a ceremony takes
// its categories and their nominations. Portrayals of a deleted character keep
// their role and simply resolve to no character.
func Delete(m domain.Model, uuid string) *cypher.Query {
	q := matchNode(m, uuid)
	switch m {
	case domain.ModelCompany:
		q.Call(cypher.New().
			With("n").
			OptionalMatch("(n)<-[:CREDIT]-()-[r:CREDIT]->(:Person)").
			Where("r.creditedCompanyUuid = n.uuid").
			Delete("r"))
		q.Call(cypher.New().
			With("n").
			OptionalMatch("(n)<-[:HAS_NOMINEE]-(:AwardCeremonyCategory)-[r:HAS_NOMINEE]->(:Person)").
			Where("r.nominatedCompanyUuid = n.uuid").
			Delete("r"))
	case domain.ModelAwardCeremony:
		q.Call(cypher.New().
			With("n").
			OptionalMatch("(n)-[:PRESENTS_CATEGORY]->(cat:AwardCeremonyCategory)").
			DetachDelete("cat"))
	}
	return q.With("n", "n.name AS name", "n.differentiator AS differentiator").
		DetachDelete("n").
		Return("name", "differentiator")
}
