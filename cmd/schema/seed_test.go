package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagebase/stagebase/engine/catalogue"
	"github.com/stagebase/stagebase/engine/domain"
	"github.com/stagebase/stagebase/pkg/repo"
)

func TestLoadFixtures(t *testing.T) {
	fh, err := os.Open("testdata/hamlet.yaml")
	require.NoError(t, err)
	defer fh.Close()

	fs, err := loadFixtures("hamlet.yaml", fh)
	require.NoError(t, err)
	require.Len(t, fs, 4)

	kinds := make([]string, len(fs))
	for i, f := range fs {
		kinds[i] = f.Kind
	}
	assert.Equal(t, []string{"venues", "materials", "productions", "award-ceremonies"}, kinds)
	assert.Empty(t, fs[0].UUID)
	assert.Equal(t, "7e4f0c2a-9b61-4c8e-a3d5-2f1b6c9e0a47", fs[2].UUID)

	var prod domain.ProductionInput
	require.NoError(t, fs[2].node.Decode(&prod))
	assert.Equal(t, "Hamlet", prod.Name)
	assert.Empty(t, prod.UUID, "fixture uuid must not leak into the body")
	assert.Equal(t, "2010-10-07", prod.PressDate)
	assert.Equal(t, domain.Identity{Name: "Olivier Theatre"}, prod.Venue)
	require.Len(t, prod.Cast, 2)
	assert.Equal(t, "Ruth Negga", prod.Cast[1].Name)
	assert.Equal(t, "Ophelia", prod.Cast[1].Roles[0].Name)

	var mat domain.MaterialInput
	require.NoError(t, fs[1].node.Decode(&mat))
	assert.Equal(t, 1600, mat.Year)
	assert.Equal(t, "King Hamlet", mat.CharacterGroups[0].Characters[2].UnderlyingName)

	var cer domain.AwardCeremonyInput
	require.NoError(t, fs[3].node.Decode(&cer))
	assert.Equal(t, "Laurence Olivier Awards", cer.Award.Name)
	assert.Equal(t, fs[2].UUID, cer.Categories[0].Nominations[0].Productions[0].UUID)
}

func TestLoadFixtures_Errors(t *testing.T) {
	tests := []struct {
		name, doc, want string
	}{
		{"unknown kind", "- kind: plays\n  name: Hamlet\n", `unknown kind "plays"`},
		{"not a sequence", "kind: people\n", "cannot unmarshal"},
		{"bad field type", "- kind: [people]\n", "f.yaml:1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadFixtures("f.yaml", strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFixtures_Empty(t *testing.T) {
	fs, err := loadFixtures("empty.yaml", strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, fs)
}

func TestPinnedIDs(t *testing.T) {
	ids := &pinnedIDs{}
	ids.pin("pinned")
	assert.Equal(t, "pinned", ids.id())
	next := ids.id()
	assert.NotEqual(t, "pinned", next)
	assert.Len(t, next, 36)
}

// fakeRunner answers the first rule whose key occurs in the query and
// records every uuid parameter it sees.
type fakeRunner struct {
	rules map[string][]repo.Row
	order []string
	uuids []string
}

func (f *fakeRunner) Run(_ context.Context, cypher string, params map[string]any) ([]repo.Row, error) {
	if strings.Contains(cypher, "SET n += ") {
		if u, ok := params["uuid"].(string); ok {
			f.uuids = append(f.uuids, u)
		}
	}
	for _, k := range f.order {
		if strings.Contains(cypher, k) {
			return f.rules[k], nil
		}
	}
	return nil, nil
}

type fakeStore struct{ r *fakeRunner }

func (s fakeStore) Read(ctx context.Context, fn repo.TxFunc) error  { return fn(ctx, s.r) }
func (s fakeStore) Write(ctx context.Context, fn repo.TxFunc) error { return fn(ctx, s.r) }

func newSeeder(duplicates int64, keepGoing bool) (*seeder, *fakeRunner) {
	r := &fakeRunner{
		order: []string{"AS duplicates", "SET n += ", "MATCH (n:Person", "MATCH (n:Character"},
		rules: map[string][]repo.Row{
			"AS duplicates":      {{"duplicates": duplicates}},
			"SET n += ":          {{"uuid": "x"}},
			"MATCH (n:Person":    {{"uuid": "x", "name": "Rory Kinnear", "differentiator": ""}},
			"MATCH (n:Character": {{"uuid": "x", "name": "Ophelia", "differentiator": ""}},
		},
	}
	ids := &pinnedIDs{}
	log := slog.New(slog.DiscardHandler)
	return &seeder{
		cat:       catalogue.New(fakeStore{r}, catalogue.WithIDs(ids.id)),
		ids:       ids,
		log:       log,
		keepGoing: keepGoing,
	}, r
}

const peopleDoc = `
- kind: people
  uuid: 11111111-1111-4111-8111-111111111111
  name: Rory Kinnear
- kind: characters
  name: Ophelia
`

func TestSeed_CreatesWithPinnedUUID(t *testing.T) {
	s, r := newSeeder(0, false)
	fs, err := loadFixtures("people.yaml", strings.NewReader(peopleDoc))
	require.NoError(t, err)

	rep, err := s.seed(context.Background(), fs)
	require.NoError(t, err)
	assert.Equal(t, seedReport{Created: 2}, rep)
	require.Len(t, r.uuids, 2)
	assert.Equal(t, "11111111-1111-4111-8111-111111111111", r.uuids[0])
	assert.NotEqual(t, r.uuids[0], r.uuids[1])
}

func TestSeed_RejectedStops(t *testing.T) {
	s, _ := newSeeder(1, false)
	fs, err := loadFixtures("people.yaml", strings.NewReader(peopleDoc))
	require.NoError(t, err)

	rep, err := s.seed(context.Background(), fs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "people.yaml:")
	assert.Equal(t, seedReport{Rejected: 1}, rep)
}

func TestSeed_RejectedKeepGoing(t *testing.T) {
	s, _ := newSeeder(1, true)
	fs, err := loadFixtures("people.yaml", strings.NewReader(peopleDoc))
	require.NoError(t, err)

	rep, err := s.seed(context.Background(), fs)
	require.NoError(t, err)
	assert.Equal(t, seedReport{Rejected: 2}, rep)
}
