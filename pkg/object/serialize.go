package object

import (
	"bytes"
	"fmt"
	"sort"
)

// ---------------------------------------------------------------------------
// Blob
// ---------------------------------------------------------------------------

// MarshalBlob serializes a Blob to raw bytes (identity).
func MarshalBlob(b *Blob) []byte {
	out := make([]byte, len(b.Data))
	copy(out, b.Data)
	return out
}

// UnmarshalBlob deserializes raw bytes into a Blob.
func UnmarshalBlob(data []byte) (*Blob, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return &Blob{Data: out}, nil
}

// ---------------------------------------------------------------------------
// Tree
// ---------------------------------------------------------------------------

// treeSortKey orders tree entries the way Git does: a directory compares as
// if its name carried a trailing slash, so "foo.txt" < "foo" (dir) < "foo0".
func treeSortKey(e TreeEntry) string {
	if e.IsDir() {
		return e.Name + "/"
	}
	return e.Name
}

// SortTreeEntries sorts entries in place by the directory-aware comparator.
func SortTreeEntries(entries []TreeEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return treeSortKey(entries[i]) < treeSortKey(entries[j])
	})
}

// MarshalTree serializes a Tree. Entries are emitted pre-sorted as
// "mode SP name NUL hash20" records. Duplicate names are rejected.
func MarshalTree(tr *Tree) ([]byte, error) {
	entries := make([]TreeEntry, len(tr.Entries))
	copy(entries, tr.Entries)
	SortTreeEntries(entries)

	var buf bytes.Buffer
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.Name] {
			return nil, fmt.Errorf("%w: duplicate tree entry %q", ErrMalformed, e.Name)
		}
		seen[e.Name] = true

		raw, err := e.Hash.Raw()
		if err != nil {
			return nil, fmt.Errorf("%w: tree entry %q: %v", ErrMalformed, e.Name, err)
		}
		buf.WriteString(e.Mode)
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(raw)
	}
	return buf.Bytes(), nil
}

// UnmarshalTree parses a Tree from its binary form.
func UnmarshalTree(data []byte) (*Tree, error) {
	tr := &Tree{}
	pos := 0
	for pos < len(data) {
		spc := bytes.IndexByte(data[pos:], ' ')
		if spc < 0 {
			return nil, fmt.Errorf("%w: tree record missing space after mode", ErrMalformed)
		}
		mode := string(data[pos : pos+spc])

		nameStart := pos + spc + 1
		nul := bytes.IndexByte(data[nameStart:], 0)
		if nul < 0 {
			return nil, fmt.Errorf("%w: tree record missing NUL after name", ErrMalformed)
		}
		name := string(data[nameStart : nameStart+nul])

		hashStart := nameStart + nul + 1
		if hashStart+20 > len(data) {
			return nil, fmt.Errorf("%w: truncated hash in tree record %q", ErrMalformed, name)
		}
		tr.Entries = append(tr.Entries, TreeEntry{
			Mode: mode,
			Name: name,
			Hash: HashFromRaw(data[hashStart : hashStart+20]),
		})
		pos = hashStart + 20
	}
	return tr, nil
}

// ---------------------------------------------------------------------------
// Commit / Tag (KVLM payloads)
// ---------------------------------------------------------------------------

// MarshalCommit serializes a Commit through its KVLM.
func MarshalCommit(c *Commit) []byte {
	return c.KVLM.Serialize()
}

// UnmarshalCommit parses a Commit and checks its required header.
func UnmarshalCommit(data []byte) (*Commit, error) {
	kv, err := ParseKVLM(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal commit: %w", err)
	}
	if _, ok := kv.Get("tree"); !ok {
		return nil, fmt.Errorf("unmarshal commit: %w: missing tree header", ErrMalformed)
	}
	return &Commit{KVLM: kv}, nil
}

// MarshalTag serializes a Tag through its KVLM.
func MarshalTag(t *Tag) []byte {
	return t.KVLM.Serialize()
}

// UnmarshalTag parses a Tag and checks its required headers.
func UnmarshalTag(data []byte) (*Tag, error) {
	kv, err := ParseKVLM(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal tag: %w", err)
	}
	if _, ok := kv.Get("object"); !ok {
		return nil, fmt.Errorf("unmarshal tag: %w: missing object header", ErrMalformed)
	}
	return &Tag{KVLM: kv}, nil
}
