// Package identity resolves (name, differentiator) identities against the
// graph, checks their uniqueness per label, and guards hierarchy links.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/stagebase/stagebase/engine/cypher"
	"github.com/stagebase/stagebase/engine/domain"
	"github.com/stagebase/stagebase/pkg/repo"
)

// ConstraintViolation is the Neo4j status code raised when a write breaks a
// uniqueness constraint.
const ConstraintViolation = "Neo.ClientError.Schema.ConstraintValidationFailed"

// NewUUID returns a fresh node uuid.
func NewUUID() string { return uuid.NewString() }

// Resolution is the outcome of resolving an identity.
type Resolution struct {
	// UUID is the uuid of the node holding the identity, empty when none does.
	UUID   string
	Exists bool
}

func lookup(m domain.Model, id domain.Identity, self string) *cypher.Query {
	q := cypher.New()
	name := q.Param("name", id.Name)
	diff := q.Param("differentiator", id.Differentiator)
	own := q.Param("uuid", self)
	return q.
		Match(fmt.Sprintf("(n:%s { name: %s, differentiator: %s })", m.Label(), name, diff)).
		Where("n.uuid <> " + own).
		Return("head(collect(n.uuid)) AS holder", "count(n) AS duplicates")
}

// Resolve looks up the node of model m holding identity id, ignoring the node
// whose uuid is self. self is empty when no node is excluded.
func Resolve(ctx context.Context, r repo.Runner, m domain.Model, id domain.Identity, self string) (Resolution, error) {
	if m.Label() == "" {
		return Resolution{}, fmt.Errorf("identity: model %q has no label", m)
	}
	text, params := lookup(m, id, self).Render()
	rows, err := r.Run(ctx, text, params)
	if err != nil {
		return Resolution{}, domain.NewStoreError("resolve", err)
	}
	if len(rows) == 0 {
		return Resolution{}, nil
	}
	n, _ := rows[0]["duplicates"].(int64)
	holder, _ := rows[0]["holder"].(string)
	return Resolution{UUID: holder, Exists: n > 0}, nil
}

// ResolveNew resolves id for a node about to be created under the pending
// uuid and fails with domain.ErrDuplicateEntity when another node holds it.
func ResolveNew(ctx context.Context, r repo.Runner, m domain.Model, id domain.Identity, pending string) error {
	res, err := Resolve(ctx, r, m, id, pending)
	if err != nil {
		return err
	}
	if res.Exists {
		return fmt.Errorf("%w: %s %q (%q)", domain.ErrDuplicateEntity, m, id.Name, id.Differentiator)
	}
	return nil
}

// DuplicateErrors is the field error pair reported for a taken identity.
func DuplicateErrors() domain.Errors {
	var errs domain.Errors
	errs.Add("name", domain.MsgDuplicateIdentity)
	errs.Add("differentiator", domain.MsgDuplicateIdentity)
	return errs
}

// CheckUnique reports field errors when another node of model m, with a uuid
// other than self, already holds id.
func CheckUnique(ctx context.Context, r repo.Runner, m domain.Model, id domain.Identity, self string) (domain.Errors, error) {
	res, err := Resolve(ctx, r, m, id, self)
	if err != nil {
		return nil, err
	}
	if res.Exists {
		return DuplicateErrors(), nil
	}
	return nil, nil
}

// FieldErrors maps a taken identity to the field errors of CheckUnique. It
// covers domain.ErrDuplicateEntity and the uniqueness-constraint violation
// raised by a racing write. ok is false for any other error.
func FieldErrors(err error) (errs domain.Errors, ok bool) {
	if errors.Is(err, domain.ErrDuplicateEntity) {
		return DuplicateErrors(), true
	}
	var nerr *neo4j.Neo4jError
	if errors.As(err, &nerr) && nerr.Code == ConstraintViolation {
		return DuplicateErrors(), true
	}
	return nil, false
}

// Exists reports whether a node of model m has the given uuid.
func Exists(ctx context.Context, r repo.Runner, m domain.Model, id string) (bool, error) {
	q := cypher.New()
	own := q.Param("uuid", id)
	q.Match(fmt.Sprintf("(n:%s { uuid: %s })", m.Label(), own)).
		Return("count(n) AS found")
	text, params := q.Render()
	rows, err := r.Run(ctx, text, params)
	if err != nil {
		return false, domain.NewStoreError("exists", err)
	}
	if len(rows) == 0 {
		return false, nil
	}
	n, _ := rows[0]["found"].(int64)
	return n > 0, nil
}

// Unknown returns the subset of uuids that match no node of model m.
func Unknown(ctx context.Context, r repo.Runner, m domain.Model, uuids []string) (map[string]bool, error) {
	if len(uuids) == 0 {
		return nil, nil
	}
	q := cypher.New()
	list := q.Param("uuids", uuids)
	q.Unwind(list, "id").
		OptionalMatch(fmt.Sprintf("(n:%s { uuid: id })", m.Label())).
		With("id", "n").
		Where("n IS NULL").
		Return("id AS uuid")
	text, params := q.Render()
	rows, err := r.Run(ctx, text, params)
	if err != nil {
		return nil, domain.NewStoreError("unknown uuids", err)
	}
	out := make(map[string]bool, len(rows))
	for _, row := range rows {
		if id, ok := row["uuid"].(string); ok {
			out[id] = true
		}
	}
	return out, nil
}
