package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// --- Mock infrastructure ---

type mockResult struct {
	records []*neo4j.Record
	idx     int
	err     error
}

func (m *mockResult) Next(ctx context.Context) bool {
	if m.idx < len(m.records) {
		m.idx++
		return true
	}
	return false
}

func (m *mockResult) Record() *neo4j.Record { return m.records[m.idx-1] }

func (m *mockResult) Err() error { return m.err }

type mockTx struct {
	result  *mockResult
	err     error
	cyphers []string
	params  []map[string]any
}

func (m *mockTx) Run(ctx context.Context, cypher string, params map[string]any) (result, error) {
	m.cyphers = append(m.cyphers, cypher)
	m.params = append(m.params, params)
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockSession struct {
	tx     *mockTx
	reads  int
	writes int
	closed bool
}

func (s *mockSession) ExecuteRead(ctx context.Context, work func(tx txRunner) (any, error)) (any, error) {
	s.reads++
	return work(s.tx)
}

func (s *mockSession) ExecuteWrite(ctx context.Context, work func(tx txRunner) (any, error)) (any, error) {
	s.writes++
	return work(s.tx)
}

func (s *mockSession) Close(ctx context.Context) error {
	s.closed = true
	return nil
}

func newTestStore(sess *mockSession, opts ...Neo4jOption) (*Neo4jStore, *[]neo4j.AccessMode) {
	var modes []neo4j.AccessMode
	s := NewNeo4jStore(nil, opts...)
	s.newSession = func(ctx context.Context, mode neo4j.AccessMode) session {
		modes = append(modes, mode)
		return sess
	}
	return s, &modes
}

func record(keys []string, values ...any) *neo4j.Record {
	return &neo4j.Record{Keys: keys, Values: values}
}

// --- Tests ---

func TestRead_CollectsRows(t *testing.T) {
	tx := &mockTx{result: &mockResult{records: []*neo4j.Record{
		record([]string{"uuid", "name"}, "u1", "Olivier Theatre"),
		record([]string{"uuid", "name"}, "u2", "Lyttelton Theatre"),
	}}}
	sess := &mockSession{tx: tx}
	s, modes := newTestStore(sess)

	var got []Row
	err := s.Read(context.Background(), func(ctx context.Context, r Runner) error {
		rows, err := r.Run(ctx, "MATCH (n:Venue) RETURN n.uuid AS uuid, n.name AS name", nil)
		got = rows
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1]["name"] != "Lyttelton Theatre" {
		t.Fatalf("got %v", got)
	}
	if sess.reads != 1 || sess.writes != 0 || !sess.closed {
		t.Fatalf("session use: reads=%d writes=%d closed=%v", sess.reads, sess.writes, sess.closed)
	}
	if len(*modes) != 1 || (*modes)[0] != neo4j.AccessModeRead {
		t.Fatalf("modes %v", *modes)
	}
}

func TestWrite_UsesWriteTransaction(t *testing.T) {
	tx := &mockTx{result: &mockResult{}}
	sess := &mockSession{tx: tx}
	s, modes := newTestStore(sess)

	err := s.Write(context.Background(), func(ctx context.Context, r Runner) error {
		_, err := r.Run(ctx, "CREATE (n:Person { uuid: $uuid })", map[string]any{"uuid": "u1"})
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	if sess.writes != 1 || (*modes)[0] != neo4j.AccessModeWrite {
		t.Fatalf("expected write session, got writes=%d modes=%v", sess.writes, *modes)
	}
	if tx.params[0]["uuid"] != "u1" {
		t.Fatalf("params not forwarded: %v", tx.params)
	}
}

func TestRun_Errors(t *testing.T) {
	dbDown := errors.New("db down")
	sess := &mockSession{tx: &mockTx{err: dbDown}}
	s, _ := newTestStore(sess)
	err := s.Read(context.Background(), func(ctx context.Context, r Runner) error {
		_, err := r.Run(ctx, "RETURN 1", nil)
		return err
	})
	if !errors.Is(err, dbDown) {
		t.Fatalf("expected db down, got %v", err)
	}

	streamErr := errors.New("stream reset")
	sess = &mockSession{tx: &mockTx{result: &mockResult{err: streamErr}}}
	s, _ = newTestStore(sess)
	err = s.Read(context.Background(), func(ctx context.Context, r Runner) error {
		_, err := r.Run(ctx, "RETURN 1", nil)
		return err
	})
	if !errors.Is(err, streamErr) {
		t.Fatalf("expected stream reset, got %v", err)
	}
}

func TestQueryHook(t *testing.T) {
	var seen []string
	hook := func(ctx context.Context, cypher string, elapsed time.Duration, err error) {
		seen = append(seen, cypher)
	}
	sess := &mockSession{tx: &mockTx{result: &mockResult{}}}
	s, _ := newTestStore(sess, WithQueryHook(hook), WithDatabase("catalogue"))
	if s.database != "catalogue" {
		t.Fatalf("database %q", s.database)
	}
	_ = s.Write(context.Background(), func(ctx context.Context, r Runner) error {
		if _, err := r.Run(ctx, "RETURN 1", nil); err != nil {
			return err
		}
		_, err := r.Run(ctx, "RETURN 2", nil)
		return err
	})
	if len(seen) != 2 || seen[1] != "RETURN 2" {
		t.Fatalf("hook saw %v", seen)
	}
}

func TestRecordRow_ShortValues(t *testing.T) {
	row := recordRow(&neo4j.Record{Keys: []string{"a", "b"}, Values: []any{int64(1)}})
	if row["a"] != int64(1) {
		t.Fatalf("got %v", row)
	}
	if _, ok := row["b"]; ok {
		t.Fatal("missing value should be absent")
	}
}

func TestListOptsNormalized(t *testing.T) {
	o := ListOpts{Offset: -3}.Normalized()
	if o.Offset != 0 || o.Limit != DefaultLimit {
		t.Fatalf("got %+v", o)
	}
	o = ListOpts{Offset: 20, Limit: 5}.Normalized()
	if o.Offset != 20 || o.Limit != 5 {
		t.Fatalf("got %+v", o)
	}
}

// TestSession_DriverFallback verifies the adapter path when no test seam is set.
func TestSession_DriverFallback(t *testing.T) {
	fd := &fakeDriver{}
	s := NewNeo4jStore(fd, WithDatabase("neo4j"))
	sess := s.session(context.Background(), neo4j.AccessModeWrite)
	if _, ok := sess.(*neo4jSessionAdapter); !ok {
		t.Fatal("expected neo4jSessionAdapter")
	}
	if fd.cfg.DatabaseName != "neo4j" || fd.cfg.AccessMode != neo4j.AccessModeWrite {
		t.Fatalf("session config %+v", fd.cfg)
	}
}

type fakeDriver struct {
	neo4j.DriverWithContext
	cfg neo4j.SessionConfig
}

type fakeSession struct {
	neo4j.SessionWithContext
}

func (d *fakeDriver) NewSession(_ context.Context, cfg neo4j.SessionConfig) neo4j.SessionWithContext {
	d.cfg = cfg
	return &fakeSession{}
}
