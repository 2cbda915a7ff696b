package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// Sentinel errors.
var (
	ErrNotFound        = errors.New("not found")
	ErrStore           = errors.New("store error")
	ErrDuplicateEntity = errors.New("duplicate entity")
	ErrChainDepth      = errors.New("hierarchy chain exceeds maximum depth")
)

// Validation messages surfaced to clients.
const (
	MsgTooShort          = "Value is too short"
	MsgTooLong           = "Value is too long"
	MsgDuplicateIdentity = "Name and differentiator combination already exists"
	MsgNameRequired      = "Name is required if differentiator is present"
	MsgSelfReference     = "Instance cannot form a relationship with itself"
	MsgAncestor          = "Instance with these attributes is an ancestor of this instance"
	MsgHasParent         = "Instance with these attributes already has a parent"
	MsgDuplicateInGroup  = "This item has been duplicated within the group"
	MsgUnknownModel      = "Value is not a permitted model"
	MsgMembersNotAllowed = "Members are only permitted for companies"
	MsgNoNominees        = "Nomination requires at least one nominee"
	MsgUnknownUUID       = "No instance exists with this UUID"
	MsgInvalidUUID       = "Value is not a valid UUID"
	MsgNegativeYear      = "Value must not be negative"
)

// MaxNameLength bounds every name-like string.
const MaxNameLength = 1000

// NotFoundError reports that no node of the given model has the uuid.
type NotFoundError struct {
	Model Model
	UUID  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Model, e.UUID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFound creates a NotFoundError.
func NewNotFound(m Model, uuid string) *NotFoundError {
	return &NotFoundError{Model: m, UUID: uuid}
}

// StoreError wraps a graph-store failure for one operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is matches ErrStore so callers can classify without unwrapping the cause.
func (e *StoreError) Is(target error) bool { return target == ErrStore }

// NewStoreError creates a StoreError.
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

// Errors maps a field path to its human-readable messages.
type Errors map[string][]string

// Add appends a message for a field.
func (e *Errors) Add(field, msg string) {
	if *e == nil {
		*e = make(Errors)
	}
	(*e)[field] = append((*e)[field], msg)
}

// Merge copies every message from other, with each field prefixed.
func (e *Errors) Merge(prefix string, other Errors) {
	for field, msgs := range other {
		for _, m := range msgs {
			e.Add(Path(prefix, field), m)
		}
	}
}

// Empty reports whether no message has been recorded.
func (e Errors) Empty() bool { return len(e) == 0 }

// Fields returns the field paths in sorted order.
func (e Errors) Fields() []string {
	out := make([]string, 0, len(e))
	for f := range e {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON renders a nil map as {}.
func (e Errors) MarshalJSON() ([]byte, error) {
	if e == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string][]string(e))
}

// Path joins field path segments with dots; ints become indexes.
func Path(parts ...any) string {
	var out string
	for _, p := range parts {
		var seg string
		switch v := p.(type) {
		case string:
			seg = v
		case int:
			seg = strconv.Itoa(v)
		default:
			seg = fmt.Sprint(v)
		}
		if seg == "" {
			continue
		}
		if out != "" {
			out += "."
		}
		out += seg
	}
	return out
}

// Outcome is attached to every write response: an empty error map on success,
// or hasErrors with field messages when validation rejected the write.
type Outcome struct {
	HasErrors bool   `json:"hasErrors,omitempty" yaml:"-"`
	Errors    Errors `json:"errors" yaml:"-"`
}

// SetErrors records validation errors on the outcome.
func (o *Outcome) SetErrors(errs Errors) {
	o.Errors = errs
	o.HasErrors = !errs.Empty()
}

// Reset clears client-supplied outcome fields before validation.
func (o *Outcome) Reset() { *o = Outcome{} }

// Rejected returns the field errors of a rejected write, or nil.
func (o Outcome) Rejected() Errors {
	if !o.HasErrors {
		return nil
	}
	return o.Errors
}
