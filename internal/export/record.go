// Package export serializes instantiations so later compilation units can
// reuse them without rebinding member bodies.
package export

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// SchemaVersion changes whenever the record layout changes.
const SchemaVersion uint16 = 1

var ErrSchemaMismatch = errors.New("export: schema version mismatch")

// TypeRef is a structural type reference independent of any interner.
// Classes, enums and generic subjects are named by qualified name; a class
// reference with Args names a specialization of the subject Name.
type TypeRef struct {
	Kind     uint8     `msgpack:"k"`
	Name     string    `msgpack:"n,omitempty"`
	Args     []TypeRef `msgpack:"a,omitempty"`
	Const    bool      `msgpack:"c,omitempty"`
	Pointers uint8     `msgpack:"p,omitempty"`
	Ref      uint8     `msgpack:"r,omitempty"`
}

type Member struct {
	Name   string    `msgpack:"name"`
	Params []TypeRef `msgpack:"params"`
	Result TypeRef   `msgpack:"result"`
	Flags  uint32    `msgpack:"flags"`
	Bound  bool      `msgpack:"bound"`
}

// Instantiation is the persisted form of one instantiation: its subject,
// arguments, member list with bind state, and the generic base chain.
type Instantiation struct {
	Schema  uint16          `msgpack:"schema"`
	Subject string          `msgpack:"subject"`
	Args    []TypeRef       `msgpack:"args"`
	Members []Member        `msgpack:"members"`
	Bases   []Instantiation `msgpack:"bases,omitempty"`
}

// BoundMembers counts members recorded as bound.
func (in *Instantiation) BoundMembers() int {
	n := 0
	for _, m := range in.Members {
		if m.Bound {
			n++
		}
	}
	return n
}

// Archive carries every instantiation a compilation unit owns.
type Archive struct {
	Schema         uint16          `msgpack:"schema"`
	Unit           string          `msgpack:"unit"`
	Instantiations []Instantiation `msgpack:"instantiations"`
}

func WriteInstantiation(rec *Instantiation) ([]byte, error) {
	if rec == nil {
		return nil, errors.New("export: nil instantiation")
	}
	rec.Schema = SchemaVersion
	return marshal(rec)
}

func ReadInstantiation(data []byte) (*Instantiation, error) {
	var rec Instantiation
	if err := unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if rec.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchemaMismatch, rec.Schema, SchemaVersion)
	}
	return &rec, nil
}

func WriteArchive(a *Archive) ([]byte, error) {
	if a == nil {
		return nil, errors.New("export: nil archive")
	}
	a.Schema = SchemaVersion
	for i := range a.Instantiations {
		a.Instantiations[i].Schema = SchemaVersion
	}
	return marshal(a)
}

func ReadArchive(data []byte) (*Archive, error) {
	var a Archive
	if err := unmarshal(data, &a); err != nil {
		return nil, err
	}
	if a.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchemaMismatch, a.Schema, SchemaVersion)
	}
	return &a, nil
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.UseCompactInts(true)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("export: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func unmarshal(data []byte, v any) error {
	if err := msgpack.Unmarshal(data, v); err != nil {
		return fmt.Errorf("export: decode: %w", err)
	}
	return nil
}
