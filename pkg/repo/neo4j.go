package repo

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// result is the minimal interface needed from a neo4j result.
type result interface {
	Next(ctx context.Context) bool
	Record() *neo4j.Record
	Err() error
}

// txRunner is the minimal interface needed from a managed transaction.
type txRunner interface {
	Run(ctx context.Context, cypher string, params map[string]any) (result, error)
}

// session is the minimal interface needed from a neo4j session.
type session interface {
	ExecuteRead(ctx context.Context, work func(tx txRunner) (any, error)) (any, error)
	ExecuteWrite(ctx context.Context, work func(tx txRunner) (any, error)) (any, error)
	Close(ctx context.Context) error
}

// QueryHook observes every executed query.
type QueryHook func(ctx context.Context, cypher string, elapsed time.Duration, err error)

// Neo4jStore runs units of work in Neo4j managed transactions.
type Neo4jStore struct {
	driver     neo4j.DriverWithContext
	database   string
	hook       QueryHook
	newSession func(ctx context.Context, mode neo4j.AccessMode) session // for testing
}

// Neo4jOption configures a Neo4jStore.
type Neo4jOption func(*Neo4jStore)

// WithDatabase selects a database other than the server default.
func WithDatabase(name string) Neo4jOption {
	return func(s *Neo4jStore) { s.database = name }
}

// WithQueryHook registers an observer called after every query.
func WithQueryHook(h QueryHook) Neo4jOption {
	return func(s *Neo4jStore) { s.hook = h }
}

// NewNeo4jStore creates a store over an open driver.
func NewNeo4jStore(driver neo4j.DriverWithContext, opts ...Neo4jOption) *Neo4jStore {
	s := &Neo4jStore{driver: driver}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Compile-time interface check.
var _ Store = (*Neo4jStore)(nil)

// neo4jSessionAdapter adapts neo4j.SessionWithContext to the session interface.
type neo4jSessionAdapter struct {
	sess neo4j.SessionWithContext
}

func (a *neo4jSessionAdapter) ExecuteRead(ctx context.Context, work func(tx txRunner) (any, error)) (any, error) {
	return a.sess.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return work(&txAdapter{tx: tx})
	})
}

func (a *neo4jSessionAdapter) ExecuteWrite(ctx context.Context, work func(tx txRunner) (any, error)) (any, error) {
	return a.sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return work(&txAdapter{tx: tx})
	})
}

func (a *neo4jSessionAdapter) Close(ctx context.Context) error {
	return a.sess.Close(ctx)
}

type txAdapter struct {
	tx neo4j.ManagedTransaction
}

func (t *txAdapter) Run(ctx context.Context, cypher string, params map[string]any) (result, error) {
	return t.tx.Run(ctx, cypher, params)
}

func (s *Neo4jStore) session(ctx context.Context, mode neo4j.AccessMode) session {
	if s.newSession != nil {
		return s.newSession(ctx, mode)
	}
	return &neo4jSessionAdapter{sess: s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: s.database,
	})}
}

// Read runs fn in a read transaction.
func (s *Neo4jStore) Read(ctx context.Context, fn TxFunc) error {
	sess := s.session(ctx, neo4j.AccessModeRead)
	defer sess.Close(ctx)
	_, err := sess.ExecuteRead(ctx, func(tx txRunner) (any, error) {
		return nil, fn(ctx, &txRows{tx: tx, hook: s.hook})
	})
	return err
}

// Write runs fn in a write transaction. The driver retries fn on transient
// failures, so fn must not have side effects outside the transaction.
func (s *Neo4jStore) Write(ctx context.Context, fn TxFunc) error {
	sess := s.session(ctx, neo4j.AccessModeWrite)
	defer sess.Close(ctx)
	_, err := sess.ExecuteWrite(ctx, func(tx txRunner) (any, error) {
		return nil, fn(ctx, &txRows{tx: tx, hook: s.hook})
	})
	return err
}

// txRows drains results into rows.
type txRows struct {
	tx   txRunner
	hook QueryHook
}

func (t *txRows) Run(ctx context.Context, cypher string, params map[string]any) (rows []Row, err error) {
	start := time.Now()
	defer func() {
		if t.hook != nil {
			t.hook(ctx, cypher, time.Since(start), err)
		}
	}()
	res, err := t.tx.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	for res.Next(ctx) {
		rows = append(rows, recordRow(res.Record()))
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

func recordRow(rec *neo4j.Record) Row {
	row := make(Row, len(rec.Keys))
	for i, k := range rec.Keys {
		if i < len(rec.Values) {
			row[k] = rec.Values[i]
		}
	}
	return row
}
