package graph

import (
	"context"

	"github.com/stagebase/stagebase/engine/domain"
	"github.com/stagebase/stagebase/pkg/fn"
	"github.com/stagebase/stagebase/pkg/repo"
)

// Stats are the catalogue's node counts per label and relationship counts
// per type.
type Stats struct {
	Nodes         map[string]int64 `json:"nodes"`
	Relationships map[string]int64 `json:"relationships"`
}

const (
	nodeCounts         = `MATCH (n) RETURN labels(n)[0] AS type, count(*) AS count`
	relationshipCounts = `MATCH ()-[r]->() RETURN type(r) AS type, count(*) AS count`
)

// Collect reads both counts concurrently, each in its own read transaction.
func Collect(ctx context.Context, store repo.Store) (Stats, error) {
	counts := fn.FanOutResult(
		func() fn.Result[map[string]int64] { return count(ctx, store, nodeCounts) },
		func() fn.Result[map[string]int64] { return count(ctx, store, relationshipCounts) },
	)
	all, err := counts.Unwrap()
	if err != nil {
		return Stats{}, domain.NewStoreError("stats", err)
	}
	return Stats{Nodes: all[0], Relationships: all[1]}, nil
}

func count(ctx context.Context, store repo.Store, cypher string) fn.Result[map[string]int64] {
	counts := make(map[string]int64)
	err := store.Read(ctx, func(ctx context.Context, r repo.Runner) error {
		rows, err := r.Run(ctx, cypher, nil)
		if err != nil {
			return err
		}
		for _, row := range rows {
			if t, ok := row["type"].(string); ok {
				if c, ok := row["count"].(int64); ok {
					counts[t] = c
				}
			}
		}
		return nil
	})
	return fn.FromPair(counts, err)
}
