package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagebase/stagebase/engine/domain"
	"github.com/stagebase/stagebase/pkg/repo"
)

type call struct {
	cypher string
	params map[string]any
}

type fakeRunner struct {
	calls []call
	rows  func(cypher string, params map[string]any) []repo.Row
	err   error
}

func (f *fakeRunner) Run(_ context.Context, cypher string, params map[string]any) ([]repo.Row, error) {
	f.calls = append(f.calls, call{cypher, params})
	if f.err != nil {
		return nil, f.err
	}
	if f.rows == nil {
		return nil, nil
	}
	return f.rows(cypher, params), nil
}

func TestResolve_Existing(t *testing.T) {
	r := &fakeRunner{rows: func(string, map[string]any) []repo.Row {
		return []repo.Row{{"holder": "abc", "duplicates": int64(1)}}
	}}
	res, err := Resolve(context.Background(), r, domain.ModelMaterial, domain.Identity{Name: "Plugh", Differentiator: "1"}, "")
	require.NoError(t, err)
	assert.Equal(t, Resolution{UUID: "abc", Exists: true}, res)
	require.Len(t, r.calls, 1)
	assert.Contains(t, r.calls[0].cypher, "MATCH (n:Material { name: $name, differentiator: $differentiator })")
	assert.Equal(t, "1", r.calls[0].params["differentiator"])
}

func TestResolve_Free(t *testing.T) {
	r := &fakeRunner{rows: func(string, map[string]any) []repo.Row {
		return []repo.Row{{"holder": nil, "duplicates": int64(0)}}
	}}
	res, err := Resolve(context.Background(), r, domain.ModelPerson, domain.Identity{Name: "New Person"}, "")
	require.NoError(t, err)
	assert.Equal(t, Resolution{}, res)
}

func TestResolveNew(t *testing.T) {
	taken := &fakeRunner{rows: func(string, map[string]any) []repo.Row {
		return []repo.Row{{"holder": "abc", "duplicates": int64(1)}}
	}}
	err := ResolveNew(context.Background(), taken, domain.ModelVenue, domain.Identity{Name: "Almeida Theatre"}, "pending")
	assert.ErrorIs(t, err, domain.ErrDuplicateEntity)
	assert.Contains(t, err.Error(), `"Almeida Theatre"`)
	assert.Equal(t, "pending", taken.calls[0].params["uuid"], "the pending uuid is excluded")

	free := &fakeRunner{rows: func(string, map[string]any) []repo.Row {
		return []repo.Row{{"duplicates": int64(0)}}
	}}
	assert.NoError(t, ResolveNew(context.Background(), free, domain.ModelVenue, domain.Identity{Name: "Almeida Theatre", Differentiator: "2"}, "pending"))
}

func TestResolve_StoreError(t *testing.T) {
	r := &fakeRunner{err: errors.New("connection refused")}
	_, err := Resolve(context.Background(), r, domain.ModelVenue, domain.Identity{Name: "Almeida Theatre"}, "")
	assert.ErrorIs(t, err, domain.ErrStore)
	err = ResolveNew(context.Background(), r, domain.ModelVenue, domain.Identity{Name: "Almeida Theatre"}, "pending")
	assert.ErrorIs(t, err, domain.ErrStore)
	_, ok := FieldErrors(err)
	assert.False(t, ok)
}

func TestCheckUnique(t *testing.T) {
	taken := &fakeRunner{rows: func(string, map[string]any) []repo.Row {
		return []repo.Row{{"duplicates": int64(1)}}
	}}
	errs, err := CheckUnique(context.Background(), taken, domain.ModelPerson, domain.Identity{Name: "Ferdinand Foo"}, "self")
	require.NoError(t, err)
	assert.Equal(t, []string{domain.MsgDuplicateIdentity}, errs["name"])
	assert.Equal(t, []string{domain.MsgDuplicateIdentity}, errs["differentiator"])
	assert.Contains(t, taken.calls[0].cypher, "WHERE n.uuid <> $uuid")
	assert.Equal(t, "self", taken.calls[0].params["uuid"])

	free := &fakeRunner{rows: func(string, map[string]any) []repo.Row {
		return []repo.Row{{"duplicates": int64(0)}}
	}}
	errs, err = CheckUnique(context.Background(), free, domain.ModelPerson, domain.Identity{Name: "Ferdinand Foo", Differentiator: "2"}, "")
	require.NoError(t, err)
	assert.True(t, errs.Empty())
}

func TestFieldErrors(t *testing.T) {
	violation := &neo4j.Neo4jError{Code: ConstraintViolation, Msg: "already exists"}
	errs, ok := FieldErrors(fmt.Errorf("write: %w", violation))
	require.True(t, ok)
	assert.Len(t, errs, 2)

	errs, ok = FieldErrors(fmt.Errorf("%w: Person \"Foo\"", domain.ErrDuplicateEntity))
	require.True(t, ok)
	assert.Equal(t, DuplicateErrors(), errs)

	_, ok = FieldErrors(&neo4j.Neo4jError{Code: "Neo.TransientError.General.DatabaseUnavailable"})
	assert.False(t, ok)
	_, ok = FieldErrors(errors.New("boom"))
	assert.False(t, ok)
}

func TestGuard_AncestorAndParent(t *testing.T) {
	r := &fakeRunner{rows: func(_ string, params map[string]any) []repo.Row {
		cands := params["candidates"].([]map[string]any)
		require.Len(t, cands, 2)
		return []repo.Row{
			{"index": int64(0), "found": true, "isAncestor": true, "hasParent": false},
			{"index": int64(2), "found": true, "isAncestor": false, "hasParent": true},
		}
	}}
	children := []domain.Identity{{Name: "Grandparent"}, {}, {Name: "Taken"}}
	errs, err := SubMaterials.Guard(context.Background(), r, "self", "subMaterials", 5, children)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.MsgAncestor}, errs["subMaterials.0.name"])
	assert.Equal(t, []string{domain.MsgHasParent}, errs["subMaterials.2.name"])
	assert.Contains(t, r.calls[0].cypher, "[:SUB_MATERIAL*1..5]")
}

func TestGuardOne_VersionNotExclusive(t *testing.T) {
	r := &fakeRunner{rows: func(string, map[string]any) []repo.Row {
		return []repo.Row{{"index": int64(0), "found": true, "isAncestor": false, "hasParent": true}}
	}}
	errs, err := OriginalVersion.GuardOne(context.Background(), r, "self", "originalVersionMaterial", 0, domain.Identity{Name: "Plugh", Differentiator: "1"})
	require.NoError(t, err)
	assert.True(t, errs.Empty(), "an original may have many subsequent versions")
	assert.True(t, strings.Contains(r.calls[0].cypher, "ORIGINAL_VERSION*1..10"))
}

func TestGuard_NoCandidatesSkipsQuery(t *testing.T) {
	r := &fakeRunner{}
	errs, err := SubVenues.Guard(context.Background(), r, "self", "subVenues", 0, []domain.Identity{{}})
	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Empty(t, r.calls)
}

func TestGuardUUIDs_Unknown(t *testing.T) {
	known := "0f7e7b5c-2d6a-4a0e-8d7b-5e1c9a2b3c44"
	missing := "9c1b7d1e-8a42-4c5a-9a8e-3f2b8a6f0d11"
	r := &fakeRunner{rows: func(string, map[string]any) []repo.Row {
		return []repo.Row{
			{"index": int64(0), "found": true, "isAncestor": false, "hasParent": false},
			{"index": int64(2), "found": false, "isAncestor": false, "hasParent": false},
		}
	}}
	refs := []domain.UUIDRef{{UUID: known}, {UUID: "bad"}, {UUID: missing}}
	errs, err := SubProductions.GuardUUIDs(context.Background(), r, "self", "subProductions", 3, refs)
	require.NoError(t, err)
	assert.Equal(t, domain.Errors{"subProductions.2.uuid": {domain.MsgUnknownUUID}}, errs)
}

func TestUnknown(t *testing.T) {
	r := &fakeRunner{rows: func(string, map[string]any) []repo.Row {
		return []repo.Row{{"uuid": "b"}}
	}}
	got, err := Unknown(context.Background(), r, domain.ModelProduction, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"b": true}, got)
	assert.Contains(t, r.calls[0].cypher, "WHERE n IS NULL")
}

func TestExists(t *testing.T) {
	r := &fakeRunner{rows: func(string, map[string]any) []repo.Row {
		return []repo.Row{{"found": int64(1)}}
	}}
	ok, err := Exists(context.Background(), r, domain.ModelCharacter, "abc")
	require.NoError(t, err)
	assert.True(t, ok)
}
