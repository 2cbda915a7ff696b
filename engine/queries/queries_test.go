package queries

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagebase/stagebase/engine/domain"
	"github.com/stagebase/stagebase/pkg/repo"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func templates() *Templates { return New(0, seqIDs()) }

func TestMaterialWrite_Create(t *testing.T) {
	in := &domain.MaterialInput{
		UUID:     "m-1",
		Identity: domain.Identity{Name: "The Seagull"},
		Format:   "play",
		Year:     1895,
		WritingCredits: []domain.CreditInput{{Entities: []domain.CreditEntityInput{
			{Identity: domain.Identity{Name: "Anton Chekhov"}},
			{Model: domain.ModelCompany, Identity: domain.Identity{Name: "Told by an Idiot"}, Members: []domain.Identity{
				{Name: "Paul Hunter"},
			}},
		}}},
	}
	text, params := templates().MaterialWrite(in, true).Render()

	assert.True(t, strings.HasPrefix(text, "CREATE (n:Material { uuid: $uuid })\nSET n += $props"))
	assert.True(t, strings.HasSuffix(text, "RETURN n.uuid AS uuid"))
	assert.NotContains(t, text, "DELETE", "a create removes nothing")
	assert.Contains(t, text, "UNWIND $writingCreditsPerson AS f")
	assert.Contains(t, text, "UNWIND $writingCreditsCompany AS f")
	assert.Contains(t, text, "MERGE (e:Person { name: f.name, differentiator: f.differentiator })")
	assert.Contains(t, text, "SET r += f.props, r.creditedCompanyUuid = co.uuid")

	assert.Equal(t, "m-1", params["uuid"])
	props := params["props"].(map[string]any)
	assert.Equal(t, "The Seagull", props["name"])
	assert.Equal(t, "", props["differentiator"])
	assert.Equal(t, "play", props["format"])
	assert.Equal(t, 1895, props["year"])
	require.Len(t, params["writingCreditsMembers"], 1)
	member := params["writingCreditsMembers"].([]any)[0].(map[string]any)
	assert.Equal(t, "Paul Hunter", member["name"])
	assert.Equal(t, "Told by an Idiot", member["companyName"])
}

func TestMaterialWrite_UpdateReplacesOwnedEdges(t *testing.T) {
	in := &domain.MaterialInput{UUID: "m-1", Identity: domain.Identity{Name: "The Seagull"}}
	text, params := templates().MaterialWrite(in, false).Render()

	assert.True(t, strings.HasPrefix(text, "MATCH (n:Material { uuid: $uuid })"))
	assert.Contains(t, text, "OPTIONAL MATCH (n)-[r:CREDIT|ORIGINAL_VERSION|SUB_MATERIAL|DEPICTS]->()")
	assert.Nil(t, params["props"].(map[string]any)["year"], "unset year is cleared")
	assert.Nil(t, params["props"].(map[string]any)["format"])
	assert.NotContains(t, params, "writingCreditsPerson", "no credits, no unwind")
}

func TestMaterialWrite_SubMaterialsPositioned(t *testing.T) {
	in := &domain.MaterialInput{
		Identity:     domain.Identity{Name: "The Coast of Utopia"},
		SubMaterials: []domain.Identity{{Name: "Voyage"}, {Name: "Shipwreck"}},
	}
	_, params := templates().MaterialWrite(in, true).Render()

	subs := params["subMaterialsMaterial"].([]any)
	require.Len(t, subs, 2)
	second := subs[1].(map[string]any)
	assert.Equal(t, "Shipwreck", second["name"])
	assert.Equal(t, map[string]any{"position": 1}, second["props"])
}

func TestProductionWrite(t *testing.T) {
	in := &domain.ProductionInput{
		UUID:           "p-1",
		Identity:       domain.Identity{Name: "Hamlet"},
		Material:       domain.Identity{Name: "Hamlet"},
		Venue:          domain.Identity{Name: "Olivier Theatre"},
		SubProductions: []domain.UUIDRef{{UUID: "p-2"}},
		Cast: []domain.CastMemberInput{{
			Identity: domain.Identity{Name: "Rory Kinnear"},
			Roles:    []domain.RoleInput{{Name: "Hamlet"}},
		}},
	}
	text, params := templates().ProductionWrite(in, true).Render()

	assert.Contains(t, text, "CREATE (n)-[r:PRODUCTION_OF]->(e)")
	assert.Contains(t, text, "CREATE (n)-[r:PORTRAYED]->(e)")
	assert.Contains(t, text, "MATCH (e:Production { uuid: f.uuid })", "sub-productions are linked by uuid")
	assert.NotContains(t, text, "characterUuid", "the portrayed character is resolved when read")
	assert.Contains(t, text, "CREATE (n)-[r:PLAYS_AT]->(e)")

	roles := params["cast"].([]any)
	require.Len(t, roles, 1)
	role := roles[0].(map[string]any)
	assert.Equal(t, "Hamlet", role["props"].(map[string]any)["roleName"])
	assert.Equal(t, "Rory Kinnear", role["name"])
}

func TestAwardCeremonyWrite_Update(t *testing.T) {
	in := &domain.AwardCeremonyInput{
		UUID:     "c-1",
		Identity: domain.Identity{Name: "2020"},
		Award:    domain.Identity{Name: "Laurence Olivier Awards"},
		Categories: []domain.CategoryInput{{
			Name: "Best New Play",
			Nominations: []domain.NominationInput{{
				IsWinner:    true,
				Productions: []domain.UUIDRef{{UUID: "p-1"}},
				Entities: []domain.CreditEntityInput{
					{Model: domain.ModelCompany, Identity: domain.Identity{Name: "Fiery Angel"}, Members: []domain.Identity{
						{Name: "Edward Snape"},
					}},
				},
			}},
		}},
	}
	text, params := templates().AwardCeremonyWrite(in, false).Render()

	assert.Contains(t, text, "DETACH DELETE cat")
	assert.Contains(t, text, "CREATE (n)<-[r:HAS_CEREMONY]-(e)")
	assert.Contains(t, text, "MATCH (n)-[:PRESENTS_CATEGORY { position: f.categoryPosition }]->(src:AwardCeremonyCategory)")
	assert.Contains(t, text, "CREATE (src)-[r:HAS_NOMINEE]->(e)")
	assert.Contains(t, text, "r.nominatedCompanyUuid = co.uuid")
	assert.Equal(t, []any{map[string]any{"position": 0, "name": "Best New Play"}}, params["categories"])

	prods := params["nomineesProduction"].([]any)
	require.Len(t, prods, 1)
	assert.Equal(t, "p-1", prods[0].(map[string]any)["uuid"])
	assert.Equal(t, 0, prods[0].(map[string]any)["categoryPosition"])
}

func TestAwardCeremonyWrite_AwardIsInbound(t *testing.T) {
	in := &domain.AwardCeremonyInput{Identity: domain.Identity{Name: "2020"}, Award: domain.Identity{Name: "Olivier"}}
	text := templates().AwardCeremonyWrite(in, true).String()
	assert.Contains(t, text, "CREATE (n)<-[r:HAS_CEREMONY]-(e)")
	assert.NotContains(t, text, "PRESENTS_CATEGORY")
}

func TestShow_ChainDepth(t *testing.T) {
	tpl := New(3, seqIDs())
	text := tpl.MaterialShow("m-1").String()
	assert.Contains(t, text, "<-[:SUB_MATERIAL*0..4]-", "ancestors read one past the depth bound")
	assert.Contains(t, text, "-[:SUB_MATERIAL*1..2]->")
	assert.Contains(t, text, "<-[:ORIGINAL_VERSION*1..1]-")
	assert.Contains(t, text, "AS sourcingMaterials")
	assert.Contains(t, text, "AS awards")

	text = tpl.VenueShow("v-1").String()
	assert.Contains(t, text, "-[:SUB_VENUE*1..1]->")
	assert.Contains(t, text, "(n)-[:SUB_VENUE*0..1]->(:Venue)<-[:PLAYS_AT]-(p:Production)")
}

func TestShow_Dispatch(t *testing.T) {
	tpl := templates()
	for _, m := range domain.IdentityModels {
		q, err := tpl.Show(m, "x")
		require.NoError(t, err, m)
		text, params := q.Render()
		assert.Equal(t, "x", params["uuid"], m)
		assert.True(t, strings.HasPrefix(text, "MATCH (n:"+m.Label()+" { uuid: $uuid })"), m)
	}
	_, err := tpl.Show(domain.ModelRole, "x")
	assert.Error(t, err)
}

func TestPersonShow_DistinctProductions(t *testing.T) {
	text := templates().PersonShow("p-1").String()
	assert.Contains(t, text, "OPTIONAL MATCH (n)<-[:CREDIT { kind: 'PRODUCER' }]-(p:Production)")
	assert.Contains(t, text, "WITH DISTINCT n, p")
	assert.Contains(t, text, "AS castMemberProductions")
	assert.Contains(t, text, "[(p)-[pPr:PORTRAYED]->(n) |")
	assert.Contains(t, text, "castMemberPosition: pPr.castMemberPosition")
}

func TestPortrayedCharacter(t *testing.T) {
	assert.Equal(t,
		"head([(p)-[:PRODUCTION_OF]->(:Material)-[prD:DEPICTS]->(prCh:Character) "+
			"WHERE prCh.differentiator = coalesce(pr.characterDifferentiator, '') "+
			"AND (prCh.name = coalesce(pr.characterName, pr.roleName) OR prD.displayName = coalesce(pr.characterName, pr.roleName)) "+
			"| prCh.uuid])",
		portrayedCharacter("p", "pr"))
}

func TestCharacterShow_ResolvesWhenRead(t *testing.T) {
	text := templates().CharacterShow("ch-1").String()
	assert.NotContains(t, text, ".characterUuid")
	assert.Contains(t, text, portrayedCharacter("p", "pr")+" = n.uuid")
	assert.Contains(t, text, portrayedCharacter("p", "pPr")+" = n.uuid")
	assert.Contains(t, text, portrayedCharacter("vP", "vPr")+" = n.uuid")

	text = templates().ProductionShow("p-1").String()
	assert.Contains(t, text, "characterUuid: "+portrayedCharacter("n", "nPr"))
}

func TestList_Pagination(t *testing.T) {
	tpl := templates()
	q, err := tpl.List(domain.ModelPerson, repo.ListOpts{})
	require.NoError(t, err)
	assert.Equal(t,
		"MATCH (n:Person)\nRETURN n.uuid AS uuid, n.name AS name, n.differentiator AS differentiator\n"+
			"ORDER BY n.name, n.differentiator\nSKIP 0\nLIMIT 100",
		q.String())

	q, err = tpl.List(domain.ModelAwardCeremony, repo.ListOpts{Offset: 20, Limit: 10})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(q.String(), "ORDER BY n.name DESC\nSKIP 20\nLIMIT 10"))

	q, err = tpl.List(domain.ModelVenue, repo.ListOpts{})
	require.NoError(t, err)
	assert.Contains(t, q.String(), "WHERE NOT EXISTS { MATCH (:Venue)-[:SUB_VENUE]->(n) }")
}

func TestAssociations(t *testing.T) {
	text := Associations(domain.ModelMaterial, "m-1").String()
	assert.Contains(t, text, "CASE WHEN EXISTS { MATCH (n)-[:SUB_MATERIAL]->(:Material) } THEN 'SubMaterial' END")

	text = Associations(domain.ModelPerson, "p-1").String()
	assert.Contains(t, text, "[] AS associations")
}

func TestDelete(t *testing.T) {
	text := Delete(domain.ModelCompany, "c-1").String()
	assert.Contains(t, text, "WHERE r.creditedCompanyUuid = n.uuid")
	assert.Contains(t, text, "WHERE r.nominatedCompanyUuid = n.uuid")
	assert.True(t, strings.HasSuffix(text, "DETACH DELETE n\nRETURN name, differentiator"))

	text = Delete(domain.ModelCharacter, "ch-1").String()
	assert.NotContains(t, text, "CALL")

	text = Delete(domain.ModelProduction, "p-1").String()
	assert.Equal(t,
		"MATCH (n:Production { uuid: $uuid })\n"+
			"WITH n, n.name AS name, n.differentiator AS differentiator\n"+
			"DETACH DELETE n\nRETURN name, differentiator",
		text)
}
