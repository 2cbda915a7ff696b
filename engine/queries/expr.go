package queries

import (
	"fmt"
	"slices"

	"github.com/stagebase/stagebase/engine/cypher"
	"github.com/stagebase/stagebase/engine/domain"
)

// Read expressions are pattern comprehensions over a bound variable, so a
// show query returns its whole tree as one row. Variables introduced inside
// an expression are named after the variable it starts from, which keeps
// nested expressions from capturing each other's bindings.

func modelOf(v string) string {
	return fmt.Sprintf("CASE WHEN %[1]s:Company THEN 'COMPANY' WHEN %[1]s:Material THEN 'MATERIAL' "+
		"WHEN %[1]s:Production THEN 'PRODUCTION' ELSE 'PERSON' END", v)
}

func pairs(base []string, more ...string) []string {
	return append(slices.Clone(base), more...)
}

// columns turns key/expression pairs into RETURN items.
func columns(kv ...string) []string {
	out := make([]string, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, kv[i+1]+" AS "+kv[i])
	}
	return out
}

func header(v string) []string {
	return []string{"uuid", v + ".uuid", "name", v + ".name", "differentiator", v + ".differentiator"}
}

// chain is a hierarchy relation read into an arena.
type chain struct {
	label string
	rel   string
	// version edges run child -> parent (subsequent -> original) and carry
	// no position.
	version bool
}

var (
	materialChain   = chain{label: "Material", rel: "SUB_MATERIAL"}
	venueChain      = chain{label: "Venue", rel: "SUB_VENUE"}
	productionChain = chain{label: "Production", rel: "SUB_PRODUCTION"}
	versionChain    = chain{label: "Material", rel: "ORIGINAL_VERSION", version: true}
)

// item renders one arena row for x:
//
//	uuid, name, format, year, parentUuid, position
func (c chain) item(x string) string {
	p, r := x+"P", x+"R"
	parent := fmt.Sprintf("head([(%s)<-[:%s]-(%s:%s) | %s.uuid])", x, c.rel, p, c.label, p)
	position := fmt.Sprintf("head([(%s)<-[%s:%s]-(:%s) | %s.position])", x, r, c.rel, c.label, r)
	if c.version {
		parent = fmt.Sprintf("head([(%s)-[:%s]->(%s:%s) | %s.uuid])", x, c.rel, p, c.label, p)
		position = "null"
	}
	return cypher.Map(
		"uuid", x+".uuid",
		"name", x+".name",
		"format", x+".format",
		"year", x+".year",
		"parentUuid", parent,
		"position", position,
	)
}

// up lists start and its ancestors up to hops levels. start is a pattern
// ending in the node whose chain is read, such as "(p)-[:PLAYS_AT]->(:Venue)".
func (c chain) up(start, x string, hops int) string {
	step := fmt.Sprintf("<-[:%s*0..%d]-", c.rel, hops)
	if c.version {
		step = fmt.Sprintf("-[:%s*0..%d]->", c.rel, hops)
	}
	return fmt.Sprintf("[%s%s(%s:%s) | %s]", start, step, x, c.label, c.item(x))
}

// down lists the descendants of start down to levels.
func (c chain) down(start, x string, levels int) string {
	step := fmt.Sprintf("-[:%s*1..%d]->", c.rel, levels)
	if c.version {
		step = fmt.Sprintf("<-[:%s*1..%d]-", c.rel, levels)
	}
	return fmt.Sprintf("[%s%s(%s:%s) | %s]", start, step, x, c.label, c.item(x))
}

// creditRows lists the credit rows of one kind on src: one row per entity
// edge, then one per company member edge.
func creditRows(src string, kind domain.CreditKind) string {
	c, e, m := src+"C", src+"E", src+"M"
	entity := fmt.Sprintf("[(%s)-[%s:CREDIT { kind: '%s' }]->(%s) WHERE %s.memberPosition IS NULL | %s]",
		src, c, kind, e, c, cypher.Map(
			"groupPosition", c+".groupPosition",
			"groupName", c+".creditName",
			"creditType", c+".creditType",
			"entityPosition", c+".entityPosition",
			"model", modelOf(e),
			"uuid", e+".uuid",
			"name", e+".name",
			"differentiator", e+".differentiator",
			"format", e+".format",
			"year", e+".year",
		))
	member := fmt.Sprintf("[(%s)-[%s:CREDIT { kind: '%s' }]->(%s:Person) WHERE %s.memberPosition IS NOT NULL | %s]",
		src, c, kind, m, c, cypher.Map(
			"groupPosition", c+".groupPosition",
			"entityPosition", c+".entityPosition",
			"memberPosition", c+".memberPosition",
			"memberUuid", m+".uuid",
			"memberName", m+".name",
			"memberDifferentiator", m+".differentiator",
		))
	return entity + " + " + member
}

// portrayedCharacter resolves the character a PORTRAYED edge r of production
// p portrays: the one p's material depicts under the role's character name,
// or the role name, as name or display name, with a matching differentiator.
// It yields null when the material depicts no such character.
func portrayedCharacter(p, r string) string {
	d, ch := r+"D", r+"Ch"
	match := "coalesce(" + r + ".characterName, " + r + ".roleName)"
	return fmt.Sprintf("head([(%s)-[:PRODUCTION_OF]->(:Material)-[%s:DEPICTS]->(%s:Character) "+
		"WHERE %s.differentiator = coalesce(%s.characterDifferentiator, '') AND (%s.name = %s OR %s.displayName = %s) | %s.uuid])",
		p, d, ch, ch, r, ch, match, d, match, ch)
}

// castRows lists the cast rows of production src.
func castRows(src string) string {
	r, p := src+"Pr", src+"Cm"
	return fmt.Sprintf("[(%s)-[%s:PORTRAYED]->(%s:Person) | %s]", src, r, p, cypher.Map(
		"castMemberPosition", r+".castMemberPosition",
		"uuid", p+".uuid",
		"name", p+".name",
		"differentiator", p+".differentiator",
		"rolePosition", r+".rolePosition",
		"roleName", r+".roleName",
		"characterUuid", portrayedCharacter(src, r),
		"characterName", r+".characterName",
		"characterDifferentiator", r+".characterDifferentiator",
		"qualifier", r+".qualifier",
		"isAlternate", r+".isAlternate",
	))
}

// characterRows lists the depicted character rows of material src.
func characterRows(src string) string {
	d, ch := src+"D", src+"Ch"
	return fmt.Sprintf("[(%s)-[%s:DEPICTS]->(%s:Character) | %s]", src, d, ch, cypher.Map(
		"groupPosition", d+".groupPosition",
		"groupName", d+".groupName",
		"position", d+".position",
		"uuid", ch+".uuid",
		"name", ch+".name",
		"differentiator", ch+".differentiator",
		"displayName", d+".displayName",
		"qualifier", d+".qualifier",
	))
}

// nomineeRows lists the nominee rows of category src: one row per nominee
// edge, then one per company member edge tagged COMPANY.
func nomineeRows(src string) string {
	h, e, m, v := src+"H", src+"E", src+"M", src+"V"
	base := []string{
		"nominationPosition", h + ".nominationPosition",
		"isWinner", h + ".isWinner",
		"customType", h + ".customType",
		"entityPosition", h + ".entityPosition",
	}
	entity := fmt.Sprintf("[(%s)-[%s:HAS_NOMINEE]->(%s) WHERE %s.memberPosition IS NULL | %s]",
		src, h, e, h, cypher.Map(pairs(base,
			"model", modelOf(e),
			"uuid", e+".uuid",
			"name", e+".name",
			"differentiator", e+".differentiator",
			"format", e+".format",
			"year", e+".year",
			"startDate", e+".startDate",
			"endDate", e+".endDate",
			"venueUuid", fmt.Sprintf("head([(%s)-[:PLAYS_AT]->(%s:Venue) | %s.uuid])", e, v, v),
			"venueName", fmt.Sprintf("head([(%s)-[:PLAYS_AT]->(%s:Venue) | %s.name])", e, v, v),
		)...))
	member := fmt.Sprintf("[(%s)-[%s:HAS_NOMINEE]->(%s:Person) WHERE %s.memberPosition IS NOT NULL | %s]",
		src, h, m, h, cypher.Map(pairs(base,
			"model", "'COMPANY'",
			"memberPosition", h+".memberPosition",
			"memberUuid", m+".uuid",
			"memberName", m+".name",
			"memberDifferentiator", m+".differentiator",
		)...))
	return entity + " + " + member
}

// categoryRows lists the categories of ceremony src with their nominees.
func categoryRows(src string) string {
	pc, cat := src+"Pc", src+"Cat"
	return fmt.Sprintf("[(%s)-[%s:PRESENTS_CATEGORY]->(%s:AwardCeremonyCategory) | %s]", src, pc, cat, cypher.Map(
		"categoryPosition", pc+".position",
		"categoryName", cat+".name",
		"nominees", nomineeRows(cat),
	))
}

// identityRows lists {name, differentiator} of the nodes x bound by pattern.
// withPosition adds the position of the edge bound as xR.
func identityRows(pattern, x string, withPosition bool) string {
	kv := []string{"name", x + ".name", "differentiator", x + ".differentiator"}
	if withPosition {
		kv = pairs(kv, "position", x+"R.position")
	}
	return fmt.Sprintf("[%s | %s]", pattern, cypher.Map(kv...))
}

// awardsCall returns the nominations of n grouped per nomination, with every
// nominee of the nomination so co-nominees can be classified:
//
//	awardUuid, awardName, ceremonyUuid, ceremonyName,
//	categoryPosition, categoryName, nominationPosition, nominees
func awardsCall() *cypher.Query {
	return cypher.New().
		With("n").
		OptionalMatch("(n)<-[h:HAS_NOMINEE]-(cat:AwardCeremonyCategory)<-[pc:PRESENTS_CATEGORY]-(cer:AwardCeremony)").
		OptionalMatch("(cer)<-[:HAS_CEREMONY]-(aw:Award)").
		With("DISTINCT cat", "pc", "cer", "aw", "h.nominationPosition AS nominationPosition").
		Where("cat IS NOT NULL").
		Return("collect(" + cypher.Map(
			"awardUuid", "aw.uuid",
			"awardName", "aw.name",
			"ceremonyUuid", "cer.uuid",
			"ceremonyName", "cer.name",
			"categoryPosition", "pc.position",
			"categoryName", "cat.name",
			"nominationPosition", "nominationPosition",
			"nominees", "[row IN ("+nomineeRows("cat")+") WHERE row.nominationPosition = nominationPosition]",
		) + ") AS awards")
}

// distinctCall collects one row per distinct node x reached from n by
// pattern, rendered by row, under alias. The pattern may end in a WHERE; row
// may refer to n.
func distinctCall(pattern, x, row, alias string) *cypher.Query {
	return cypher.New().
		With("n").
		OptionalMatch(pattern).
		With("DISTINCT n", x).
		Where(x + " IS NOT NULL").
		Return("collect(" + row + ") AS " + alias)
}
