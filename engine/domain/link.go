package domain

import (
	"bytes"
	"encoding/json"
)

// Link is one level of a folded hierarchy. Up holds the parent chain and is
// rendered under UpKey only below the top of the chain; Down holds children
// and is rendered under DownKey only when non-empty.
type Link struct {
	Model   Model
	UUID    *string
	Name    string
	Format  string
	Year    int
	Up      *Link
	UpKey   string
	Down    []Link
	DownKey string
}

// MarshalJSON renders the link with its relation keys in a stable order.
func (l Link) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	field := func(key string, v any) error {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(b)
		return nil
	}
	if err := field("model", l.Model); err != nil {
		return nil, err
	}
	if err := field("uuid", l.UUID); err != nil {
		return nil, err
	}
	if err := field("name", l.Name); err != nil {
		return nil, err
	}
	if l.Format != "" {
		if err := field("format", l.Format); err != nil {
			return nil, err
		}
	}
	if l.Year != 0 {
		if err := field("year", l.Year); err != nil {
			return nil, err
		}
	}
	if l.UpKey != "" && l.Up != nil {
		if err := field(l.UpKey, l.Up); err != nil {
			return nil, err
		}
	}
	if l.DownKey != "" && len(l.Down) > 0 {
		if err := field(l.DownKey, l.Down); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
