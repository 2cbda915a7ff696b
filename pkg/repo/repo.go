// Package repo defines the narrow graph-store execution interface the engine
// consumes, and list options.
package repo

import "context"

// Row is one result record keyed by its returned column names.
type Row map[string]any

// Runner executes a parameterised query and returns every row.
type Runner interface {
	Run(ctx context.Context, cypher string, params map[string]any) ([]Row, error)
}

// TxFunc is a unit of work run inside one transaction. Returning an error
// rolls the transaction back.
type TxFunc func(ctx context.Context, r Runner) error

// Store runs units of work in read or write transactions.
type Store interface {
	Read(ctx context.Context, fn TxFunc) error
	Write(ctx context.Context, fn TxFunc) error
}

// DefaultLimit applies when ListOpts.Limit is unset.
const DefaultLimit = 100

// ListOpts controls pagination for List operations.
type ListOpts struct {
	Offset int
	Limit  int
}

// Normalized returns opts with a non-negative offset and a positive limit.
func (o ListOpts) Normalized() ListOpts {
	if o.Offset < 0 {
		o.Offset = 0
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	return o
}
