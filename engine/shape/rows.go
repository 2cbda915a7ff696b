// Package shape turns the flat rows returned by show, edit and list queries
// back into nested, ordered response trees.
package shape

import (
	"fmt"
	"math"

	"github.com/stagebase/stagebase/engine/domain"
	"github.com/stagebase/stagebase/pkg/repo"
)

// Str reads a string column; absent and null read as "".
func Str(r repo.Row, key string) string {
	s, _ := r[key].(string)
	return s
}

// StrPtr reads a nullable string column.
func StrPtr(r repo.Row, key string) *string {
	s, ok := r[key].(string)
	if !ok {
		return nil
	}
	return &s
}

// Int reads an integer column. The driver returns int64; fixtures may use int
// or float64.
func Int(r repo.Row, key string) int {
	n, _ := IntOK(r, key)
	return n
}

// IntOK reads an integer column and reports whether it was present and numeric.
func IntOK(r repo.Row, key string) (int, bool) {
	switch v := r[key].(type) {
	case int64:
		return int(v), true
	case int:
		return v, true
	case int32:
		return int(v), true
	case float64:
		return int(math.Round(v)), true
	}
	return 0, false
}

// Bool reads a boolean column; absent and null read as false.
func Bool(r repo.Row, key string) bool {
	b, _ := r[key].(bool)
	return b
}

// Rows reads a list-of-maps column, skipping null elements.
func Rows(r repo.Row, key string) []repo.Row {
	list, _ := r[key].([]any)
	out := make([]repo.Row, 0, len(list))
	for _, item := range list {
		switch m := item.(type) {
		case map[string]any:
			out = append(out, repo.Row(m))
		case repo.Row:
			out = append(out, m)
		}
	}
	return out
}

// Strings reads a list-of-strings column.
func Strings(r repo.Row, key string) []string {
	list, _ := r[key].([]any)
	var out []string
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Model reads a model tag column.
func Model(r repo.Row, key string) domain.Model {
	return domain.Model(Str(r, key))
}

// Header reads the identity columns shared by every top-level row.
func Header(r repo.Row, m domain.Model) domain.Header {
	return domain.Header{
		Model:          m,
		UUID:           Str(r, "uuid"),
		Name:           Str(r, "name"),
		Differentiator: Str(r, "differentiator"),
	}
}

// Single returns the only row of a result, or an error when there is more
// than one. ok is false when there is none.
func Single(rows []repo.Row) (row repo.Row, ok bool, err error) {
	switch len(rows) {
	case 0:
		return nil, false, nil
	case 1:
		return rows[0], true, nil
	}
	return nil, false, fmt.Errorf("shape: expected one row, got %d", len(rows))
}
