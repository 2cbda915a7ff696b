//go:build integration

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// at walks a decoded JSON document by object keys and array indexes.
func at(t *testing.T, v any, path ...any) any {
	t.Helper()
	for _, p := range path {
		switch k := p.(type) {
		case string:
			m, ok := v.(map[string]any)
			require.True(t, ok, "expected an object at %q, got %T", k, v)
			v = m[k]
		case int:
			l, ok := v.([]any)
			require.True(t, ok, "expected an array at %d, got %T", k, v)
			require.Greater(t, len(l), k, "index %d out of range", k)
			v = l[k]
		default:
			t.Fatalf("bad path segment %v", p)
		}
	}
	return v
}

func names(t *testing.T, v any) []string {
	t.Helper()
	l, ok := v.([]any)
	require.True(t, ok, "expected an array, got %T", v)
	out := make([]string, len(l))
	for i, e := range l {
		out[i], _ = e.(map[string]any)["name"].(string)
	}
	return out
}

func callList(t *testing.T, h http.Handler, path string) []map[string]any {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out []map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	return out
}

func create(t *testing.T, h http.Handler, kind, body string) string {
	t.Helper()
	out := call(t, h, "POST", "/api/"+kind, body)
	require.NotEqual(t, true, out["hasErrors"], "create %s rejected: %v", kind, out["errors"])
	id, ok := out["uuid"].(string)
	require.True(t, ok, "create %s returned no uuid: %v", kind, out)
	return id
}

func TestAPI_WritingCreditsKeepAuthoredOrder(t *testing.T) {
	h := integrationServer(t)

	body := `{
		"name": "The Coast of Utopia",
		"format": "trilogy of plays",
		"writingCredits": [
			{"entities": [
				{"name": "Tom Stoppard"},
				{"model": "COMPANY", "name": "Told by an Idiot", "members": [{"name": "Paul Hunter"}, {"name": "Hayley Carmichael"}]},
				{"name": "Alexander Herzen"}
			]},
			{"name": "version by", "entities": [{"name": "Zoe Wanamaker"}, {"name": "Anne Bancroft"}]}
		]
	}`
	id := create(t, h, "materials", body)

	shown := call(t, h, "GET", "/api/materials/"+id, "")
	credits := at(t, shown, "writingCredits")
	assert.Equal(t, []string{"by", "version by"}, names(t, credits))
	assert.Equal(t, []string{"Tom Stoppard", "Told by an Idiot", "Alexander Herzen"}, names(t, at(t, credits, 0, "entities")))
	assert.Equal(t, []string{"Paul Hunter", "Hayley Carmichael"}, names(t, at(t, credits, 0, "entities", 1, "members")))
	assert.Equal(t, "COMPANY", at(t, credits, 0, "entities", 1, "model"))
	assert.Equal(t, []string{"Zoe Wanamaker", "Anne Bancroft"}, names(t, at(t, credits, 1, "entities")))

	edit := call(t, h, "GET", "/api/materials/"+id+"/edit", "")
	assert.Equal(t, []string{"Paul Hunter", "Hayley Carmichael"}, names(t, at(t, edit, "writingCredits", 0, "entities", 1, "members")))
}

func TestAPI_SubMaterialChain(t *testing.T) {
	h := integrationServer(t)

	leaf := create(t, h, "materials", `{"name": "Voyage"}`)
	mid := create(t, h, "materials", `{"name": "The Coast of Utopia", "subMaterials": [{"name": "Voyage"}]}`)
	root := create(t, h, "materials", `{"name": "Stoppard Collected", "subMaterials": [{"name": "The Coast of Utopia"}]}`)

	fromLeaf := call(t, h, "GET", "/api/materials/"+leaf, "")
	sur := at(t, fromLeaf, "surMaterial")
	assert.Equal(t, mid, at(t, sur, "uuid"))
	assert.Equal(t, root, at(t, sur, "surMaterial", "uuid"))
	assert.Equal(t, "Stoppard Collected", at(t, sur, "surMaterial", "name"))
	_, deeper := at(t, sur, "surMaterial").(map[string]any)["surMaterial"]
	assert.False(t, deeper, "chain continues past the root")

	fromRoot := call(t, h, "GET", "/api/materials/"+root, "")
	assert.Nil(t, fromRoot["surMaterial"])
	assert.Equal(t, []string{"The Coast of Utopia"}, names(t, at(t, fromRoot, "subMaterials")))
	assert.Equal(t, []string{"Voyage"}, names(t, at(t, fromRoot, "subMaterials", 0, "subMaterials")))
}

func TestAPI_VersionsAcrossDifferentiators(t *testing.T) {
	h := integrationServer(t)

	original := create(t, h, "materials", `{"name": "Plugh", "differentiator": "1", "format": "novel"}`)
	subsequent := create(t, h, "materials", `{"name": "Plugh", "differentiator": "2", "format": "play", "originalVersionMaterial": {"name": "Plugh", "differentiator": "1"}}`)
	require.NotEqual(t, original, subsequent)

	fromOriginal := call(t, h, "GET", "/api/materials/"+original, "")
	versions := at(t, fromOriginal, "subsequentVersionMaterials")
	assert.Equal(t, []string{"Plugh"}, names(t, versions))
	assert.Equal(t, subsequent, at(t, versions, 0, "uuid"))
	assert.Nil(t, fromOriginal["originalVersionMaterial"])

	fromSubsequent := call(t, h, "GET", "/api/materials/"+subsequent, "")
	assert.Equal(t, original, at(t, fromSubsequent, "originalVersionMaterial", "uuid"))
	assert.Empty(t, at(t, fromSubsequent, "subsequentVersionMaterials"))
}

func TestAPI_FullReplaceUpdate(t *testing.T) {
	h := integrationServer(t)

	withCredits := `{"name": "The Seagull", "writingCredits": [{"entities": [{"name": "Anton Chekhov"}, {"name": "Michael Frayn"}]}]}`
	id := create(t, h, "materials", withCredits)

	chekhov, ok := at(t, call(t, h, "GET", "/api/materials/"+id, ""), "writingCredits", 0, "entities", 0, "uuid").(string)
	require.True(t, ok)
	require.NotEmpty(t, at(t, call(t, h, "GET", "/api/people/"+chekhov, ""), "materials"))

	first := call(t, h, "PUT", "/api/materials/"+id, withCredits)
	second := call(t, h, "PUT", "/api/materials/"+id, withCredits)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated update changed the result (-first +second):\n%s", diff)
	}
	assert.Len(t, at(t, second, "writingCredits", 0, "entities"), 2, "re-saving must not duplicate credit edges")

	cleared := call(t, h, "PUT", "/api/materials/"+id, `{"name": "The Seagull", "writingCredits": []}`)
	assert.Empty(t, at(t, cleared, "writingCredits"))

	shown := call(t, h, "GET", "/api/materials/"+id, "")
	assert.Empty(t, at(t, shown, "writingCredits"))
	assert.Empty(t, at(t, call(t, h, "GET", "/api/people/"+chekhov, ""), "materials"), "no credit edge may survive the replace")
}

func TestAPI_SelfNullification(t *testing.T) {
	h := integrationServer(t)

	material := create(t, h, "materials", `{"name": "Arcadia", "writingCredits": [{"entities": [{"name": "Tom Stoppard"}, {"name": "Ferdinand Foo"}]}]}`)

	fromMaterial := call(t, h, "GET", "/api/materials/"+material, "")
	entities := at(t, fromMaterial, "writingCredits", 0, "entities")
	stoppard, ok := at(t, entities, 0, "uuid").(string)
	require.True(t, ok, "the writer keeps its uuid when viewed from the material")
	require.NotNil(t, at(t, entities, 1, "uuid"))

	fromPerson := call(t, h, "GET", "/api/people/"+stoppard, "")
	seen := at(t, fromPerson, "materials", 0, "writingCredits", 0, "entities")
	assert.Nil(t, at(t, seen, 0, "uuid"), "the viewpoint person is nullified")
	assert.Equal(t, "Tom Stoppard", at(t, seen, 0, "name"))
	assert.Equal(t, at(t, entities, 1, "uuid"), at(t, seen, 1, "uuid"), "co-writers keep their uuid")
}

func TestAPI_DifferentiatorIndependence(t *testing.T) {
	h := integrationServer(t)

	plain := create(t, h, "people", `{"name": "Ian Smith"}`)
	numbered := create(t, h, "people", `{"name": "Ian Smith", "differentiator": "1"}`)
	require.NotEqual(t, plain, numbered)

	assert.Equal(t, "", call(t, h, "GET", "/api/people/"+plain, "")["differentiator"])
	assert.Equal(t, "1", call(t, h, "GET", "/api/people/"+numbered, "")["differentiator"])

	dup := call(t, h, "POST", "/api/people", `{"name": "Ian Smith", "differentiator": "1"}`)
	assert.Equal(t, true, dup["hasErrors"])
	assert.NotNil(t, at(t, dup, "errors", "name"))
	assert.NotNil(t, at(t, dup, "errors", "differentiator"))

	listed := callList(t, h, "/api/people")
	assert.Len(t, listed, 2, "a rejected create leaves the count unchanged")
}

func TestAPI_CharacterResolvedAfterMaterialEdit(t *testing.T) {
	h := integrationServer(t)

	material := create(t, h, "materials", `{"name": "Hamlet", "format": "play"}`)
	production := create(t, h, "productions", `{
		"name": "Hamlet",
		"material": {"name": "Hamlet"},
		"cast": [
			{"name": "Rory Kinnear", "roles": [{"name": "Hamlet"}]},
			{"name": "Clare Higgins", "roles": [{"name": "Gertrude"}]},
			{"name": "Rory Kinnear", "roles": [{"name": "Young Hamlet", "characterName": "Hamlet"}]}
		]
	}`)

	before := call(t, h, "GET", "/api/productions/"+production, "")
	assert.Nil(t, at(t, before, "cast", 0, "roles", 0, "characterUuid"))

	call(t, h, "PUT", "/api/materials/"+material, `{"name": "Hamlet", "format": "play", "characterGroups": [{"characters": [{"name": "Hamlet"}, {"name": "Gertrude"}]}]}`)

	after := call(t, h, "GET", "/api/productions/"+production, "")
	hamlet, ok := at(t, after, "cast", 0, "roles", 0, "characterUuid").(string)
	require.True(t, ok, "the role resolves once the material depicts the character")
	assert.Equal(t, hamlet, at(t, after, "cast", 2, "roles", 0, "characterUuid"))

	character := call(t, h, "GET", "/api/characters/"+hamlet, "")
	assert.Equal(t, []string{"Hamlet"}, names(t, at(t, character, "productions")))
	assert.Contains(t, at(t, character, "variantNames"), "Young Hamlet")

	kinnear, ok := at(t, after, "cast", 0, "uuid").(string)
	require.True(t, ok)
	person := call(t, h, "GET", "/api/people/"+kinnear, "")
	roles := at(t, person, "castMemberProductions", 0, "roles")
	assert.Equal(t, []string{"Hamlet", "Young Hamlet"}, names(t, roles))

	call(t, h, "PUT", "/api/characters/"+hamlet, `{"name": "Prince Hamlet"}`)
	renamed := call(t, h, "GET", "/api/productions/"+production, "")
	assert.Nil(t, at(t, renamed, "cast", 0, "roles", 0, "characterUuid"), "a renamed character no longer matches the role")
}
