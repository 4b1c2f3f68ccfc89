package object

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zlib"
)

// Store is a content-addressed loose-object store with a 2-character fan-out
// directory layout: objects/ab/cdef0123... Each file holds the zlib-compressed
// envelope "type len\0payload".
type Store struct {
	root string
}

// NewStore creates a Store rooted at the given directory (typically .git/).
// The objects/ subdirectory is created lazily on first write.
func NewStore(root string) *Store {
	return &Store{root: root}
}

func (s *Store) objectPath(h Hash) string {
	return filepath.Join(s.root, "objects", string(h[:2]), string(h[2:]))
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) bool {
	if len(h) != 40 {
		return false
	}
	_, err := os.Stat(s.objectPath(h))
	return err == nil
}

// Write stores an object and returns its content hash. Re-writing identical
// content is a no-op beyond the existence check: content addressing makes
// the operation idempotent. New files land via temp + rename so a reader
// never sees a partial object.
func (s *Store) Write(t Type, data []byte) (Hash, error) {
	h := HashObject(t, data)

	if s.Has(h) {
		return h, nil
	}

	dir := filepath.Join(s.root, "objects", string(h[:2]))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("object write mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("object write tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	zw := zlib.NewWriter(tmp)
	if _, err := fmt.Fprintf(zw, "%s %d\x00", t, len(data)); err != nil {
		zw.Close()
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("object write: %w", err)
	}
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("object write: %w", err)
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("object write compress: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("object write close: %w", err)
	}

	if err := os.Rename(tmpName, s.objectPath(h)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("object write rename: %w", err)
	}
	return h, nil
}

// Read retrieves an object by hash, returning its type and raw payload.
// A missing file yields ErrNotFound; decompression failures, a malformed
// envelope, or a length mismatch yield ErrCorrupt.
func (s *Store) Read(h Hash) (Type, []byte, error) {
	if len(h) != 40 {
		return "", nil, fmt.Errorf("object read %q: %w", h, ErrNotFound)
	}
	f, err := os.Open(s.objectPath(h))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("object read %s: %w", h, ErrNotFound)
		}
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}
	defer f.Close()

	zr, err := zlib.NewReader(f)
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: %w: %v", h, ErrCorrupt, err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: %w: %v", h, ErrCorrupt, err)
	}

	nul := bytes.IndexByte(raw, 0)
	if nul < 0 {
		return "", nil, fmt.Errorf("object read %s: %w: missing header NUL", h, ErrCorrupt)
	}
	header := string(raw[:nul])
	payload := raw[nul+1:]

	typeName, lenStr, ok := strings.Cut(header, " ")
	if !ok {
		return "", nil, fmt.Errorf("object read %s: %w: bad header %q", h, ErrCorrupt, header)
	}
	length, err := strconv.Atoi(lenStr)
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: %w: bad length %q", h, ErrCorrupt, lenStr)
	}
	if length != len(payload) {
		return "", nil, fmt.Errorf("object read %s: %w: length mismatch (header=%d, actual=%d)",
			h, ErrCorrupt, length, len(payload))
	}

	return Type(typeName), payload, nil
}

// ReadType returns only the stored type of an object.
func (s *Store) ReadType(h Hash) (Type, error) {
	t, _, err := s.Read(h)
	return t, err
}

// ResolvePrefix expands a hex prefix (at least 2 characters) to the unique
// full hash it identifies. With 2 or more prefix characters the scan is
// scoped to one fan-out bucket; fewer would require a full-store walk, so
// short prefixes are rejected.
func (s *Store) ResolvePrefix(prefix string) (Hash, error) {
	prefix = strings.ToLower(prefix)
	if len(prefix) < 2 || len(prefix) > 40 || !IsHex(prefix) {
		return "", fmt.Errorf("resolve prefix %q: %w", prefix, ErrNotFound)
	}
	if len(prefix) == 40 {
		if !s.Has(Hash(prefix)) {
			return "", fmt.Errorf("resolve prefix %q: %w", prefix, ErrNotFound)
		}
		return Hash(prefix), nil
	}

	bucket := filepath.Join(s.root, "objects", prefix[:2])
	names, err := os.ReadDir(bucket)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("resolve prefix %q: %w", prefix, ErrNotFound)
		}
		return "", fmt.Errorf("resolve prefix %q: %w", prefix, err)
	}

	var matches []Hash
	for _, de := range names {
		candidate := prefix[:2] + de.Name()
		if strings.HasPrefix(candidate, prefix) {
			matches = append(matches, Hash(candidate))
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("resolve prefix %q: %w", prefix, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("resolve prefix %q: %w (%d candidates)", prefix, ErrAmbiguousHash, len(matches))
	}
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

// WriteBlob serializes and stores a Blob.
func (s *Store) WriteBlob(b *Blob) (Hash, error) {
	return s.Write(TypeBlob, MarshalBlob(b))
}

// ReadBlob reads and deserializes a Blob.
func (s *Store) ReadBlob(h Hash) (*Blob, error) {
	data, err := s.readTyped(h, TypeBlob)
	if err != nil {
		return nil, err
	}
	return UnmarshalBlob(data)
}

// WriteTree serializes and stores a Tree.
func (s *Store) WriteTree(tr *Tree) (Hash, error) {
	data, err := MarshalTree(tr)
	if err != nil {
		return "", err
	}
	return s.Write(TypeTree, data)
}

// ReadTree reads and deserializes a Tree.
func (s *Store) ReadTree(h Hash) (*Tree, error) {
	data, err := s.readTyped(h, TypeTree)
	if err != nil {
		return nil, err
	}
	return UnmarshalTree(data)
}

// WriteCommit serializes and stores a Commit.
func (s *Store) WriteCommit(c *Commit) (Hash, error) {
	return s.Write(TypeCommit, MarshalCommit(c))
}

// ReadCommit reads and deserializes a Commit.
func (s *Store) ReadCommit(h Hash) (*Commit, error) {
	data, err := s.readTyped(h, TypeCommit)
	if err != nil {
		return nil, err
	}
	return UnmarshalCommit(data)
}

// WriteTag serializes and stores a Tag.
func (s *Store) WriteTag(t *Tag) (Hash, error) {
	return s.Write(TypeTag, MarshalTag(t))
}

// ReadTag reads and deserializes a Tag.
func (s *Store) ReadTag(h Hash) (*Tag, error) {
	data, err := s.readTyped(h, TypeTag)
	if err != nil {
		return nil, err
	}
	return UnmarshalTag(data)
}

func (s *Store) readTyped(h Hash, want Type) ([]byte, error) {
	t, data, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if t != want {
		return nil, fmt.Errorf("object %s: type mismatch: got %q, want %q", h, t, want)
	}
	return data, nil
}
