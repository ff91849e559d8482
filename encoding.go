package bypass

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

type encodingMethod int

const (
	MsgPack encodingMethod = iota
	JSON

	defaultSnapshotEncoding = MsgPack
)

type snapshot struct {
	Schema  string          `msgpack:"s" json:"schema"`
	Arity   int             `msgpack:"a" json:"arity"`
	Entries []snapshotEntry `msgpack:"e" json:"entries"`
}

type snapshotEntry struct {
	Setting  string  `msgpack:"k" json:"setting"`
	Bindings [][]any `msgpack:"b" json:"bindings"`
}

func (r *Registry) makeSnapshot() snapshot {
	snap := snapshot{
		Schema:  r.schema.name,
		Arity:   r.schema.Arity(),
		Entries: make([]snapshotEntry, 0, len(r.entries)),
	}
	for _, e := range r.entries {
		se := snapshotEntry{Setting: e.setting, Bindings: make([][]any, len(e.bindings))}
		for i, b := range e.bindings {
			se.Bindings[i] = []any(b)
		}
		snap.Entries = append(snap.Entries, se)
	}
	return snap
}

func (r *Registry) applySnapshot(snap snapshot) error {
	if snap.Arity != r.schema.Arity() {
		return &ArityMismatchError{Want: r.schema.Arity(), Got: snap.Arity}
	}
	for _, se := range snap.Entries {
		for _, b := range se.Bindings {
			if len(b) != r.schema.Arity() {
				return arityErr(r.schema, len(b))
			}
		}
	}
	r.Clear()
	for _, se := range snap.Entries {
		e := r.ensureEntry(se.Setting)
		for _, b := range se.Bindings {
			e.bindings = append(e.bindings, Binding(b))
		}
	}
	return nil
}

// EncodeSnapshot writes the registry's snapshot to w in the given encoding.
func (r *Registry) EncodeSnapshot(w io.Writer, method encodingMethod) error {
	snap := r.makeSnapshot()
	switch method {
	case MsgPack:
		enc := msgpack.GetEncoder()
		enc.Reset(w)
		enc.SetSortMapKeys(true)
		err := enc.Encode(snap)
		msgpack.PutEncoder(enc)
		if err != nil {
			return fmt.Errorf("encode %s snapshot: %w", r.schema.name, err)
		}
		return nil
	case JSON:
		if err := json.NewEncoder(w).Encode(snap); err != nil {
			return fmt.Errorf("encode %s snapshot: %w", r.schema.name, err)
		}
		return nil
	default:
		panic("unsupported encoding")
	}
}

// DecodeSnapshot replaces the registry's contents with a snapshot read from
// rd. The snapshot arity must match the registry's schema, and every binding
// row is checked against it before any contents are replaced. Binding values
// come back as the codec's generic types; snapshots are interchange, not
// type-preserving storage.
func (r *Registry) DecodeSnapshot(rd io.Reader, method encodingMethod) error {
	var snap snapshot
	switch method {
	case MsgPack:
		dec := msgpack.GetDecoder()
		dec.Reset(rd)
		dec.UseLooseInterfaceDecoding(true)
		err := dec.Decode(&snap)
		msgpack.PutDecoder(dec)
		if err != nil {
			return fmt.Errorf("decode %s snapshot: %w", r.schema.name, err)
		}
	case JSON:
		if err := json.NewDecoder(rd).Decode(&snap); err != nil {
			return fmt.Errorf("decode %s snapshot: %w", r.schema.name, err)
		}
	default:
		panic("unsupported encoding")
	}
	return r.applySnapshot(snap)
}

// MarshalBinary encodes the registry's snapshot in msgpack.
func (r *Registry) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.EncodeSnapshot(&buf, defaultSnapshotEncoding); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a msgpack snapshot produced by MarshalBinary.
func (r *Registry) UnmarshalBinary(data []byte) error {
	return r.DecodeSnapshot(bytes.NewReader(data), defaultSnapshotEncoding)
}
