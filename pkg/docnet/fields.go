package docnet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	derrors "github.com/matzehuels/docnet/pkg/errors"
)

// Fields is an insertion-ordered bag of named, dynamically typed values.
// Values are JSON-shaped: strings, numbers, bools, nil, []any slices and
// map[string]any objects. Anything else must marshal cleanly to JSON for
// the snapshot codec to accept it.
//
// Fields preserves the order in which names were first set. JSON encoding
// writes names in that order, and decoding preserves the document order of
// the source object. Numbers decode as float64, per encoding/json.
//
// The zero value is ready to use. Fields values share internal state when
// copied by assignment; use [Fields.Copy] for an independent snapshot.
type Fields struct {
	keys   []string
	values map[string]any
}

// NewFields creates a field bag seeded from init. The bag holds a deep copy,
// so later mutation of init does not alter it. Seed names are ordered
// lexically for deterministic iteration; nil init yields an empty bag.
func NewFields(init map[string]any) Fields {
	var f Fields
	for _, k := range slices.Sorted(maps.Keys(init)) {
		f.Set(k, init[k])
	}
	return f
}

// Get returns the value stored under name.
// Returns a FIELD_NOT_FOUND error if the field is absent.
func (f Fields) Get(name string) (any, error) {
	v, ok := f.values[name]
	if !ok {
		return nil, derrors.New(derrors.ErrCodeFieldNotFound, "no field %q", name)
	}
	return v, nil
}

// Has reports whether a field with the given name exists.
func (f Fields) Has(name string) bool {
	_, ok := f.values[name]
	return ok
}

// Set stores value under name, deep-copying container values.
// Setting an existing name replaces the value but keeps its position.
func (f *Fields) Set(name string, value any) {
	if f.values == nil {
		f.values = make(map[string]any)
	}
	if _, ok := f.values[name]; !ok {
		f.keys = append(f.keys, name)
	}
	f.values[name] = deepCopyValue(value)
}

// Delete removes the field with the given name.
// Returns a FIELD_NOT_FOUND error if the field is absent.
func (f *Fields) Delete(name string) error {
	if _, ok := f.values[name]; !ok {
		return derrors.New(derrors.ErrCodeFieldNotFound, "no field %q", name)
	}
	delete(f.values, name)
	if i := slices.Index(f.keys, name); i >= 0 {
		f.keys = slices.Delete(f.keys, i, i+1)
	}
	return nil
}

// Len returns the number of fields.
func (f Fields) Len() int { return len(f.keys) }

// Names returns the field names in insertion order.
// The returned slice is a copy.
func (f Fields) Names() []string {
	return slices.Clone(f.keys)
}

// Copy returns an independent deep copy of the bag.
func (f Fields) Copy() Fields {
	out := Fields{
		keys:   slices.Clone(f.keys),
		values: make(map[string]any, len(f.values)),
	}
	for k, v := range f.values {
		out.values[k] = deepCopyValue(v)
	}
	return out
}

// MarshalJSON encodes the bag as a JSON object in insertion order.
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(f.values[k])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving its key order.
// The previous contents of the bag are discarded.
func (f *Fields) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("fields: expected JSON object, got %v", tok)
	}

	*f = Fields{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("fields: expected object key, got %v", keyTok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("fields: value of %q: %w", key, err)
		}
		f.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// deepCopyValue copies JSON-shaped container values so the bag never
// aliases caller-owned maps or slices. Scalars are returned as-is.
func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, x := range val {
			out[k] = deepCopyValue(x)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, x := range val {
			out[i] = deepCopyValue(x)
		}
		return out
	case Fields:
		return val.Copy()
	default:
		return v
	}
}
