package repo

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/odvcencio/lit/pkg/object"
)

// The staging area is one binary file, .git/index, in the DIRC version-2
// layout: a 12-byte header (signature, version, entry count), then one
// record per staged path — ten big-endian uint32 stat fields, the raw
// 20-byte content hash, a 16-bit flag word, and the NUL-terminated path,
// with the whole record padded to an 8-byte boundary. Records are stored
// in ascending path order. Trailing extension blocks are ignored on load.

var indexSignature = [4]byte{'D', 'I', 'R', 'C'}

const (
	indexVersion         = 2
	indexEntryFixedSize  = 62 // stat fields + hash + flags, before the path
	indexEntryAlignment  = 8
	indexFlagsNameMask   = 0x0FFF
	indexFlagsStageMask  = 0x3000
	indexFlagsStageShift = 12
)

// Index file modes for the fixed mode set.
const (
	IndexModeFile       = 0o100644
	IndexModeExecutable = 0o100755
	IndexModeSymlink    = 0o120000
)

// IndexEntry records the staged state of a single path. Path is the unique
// key; Stage is nonzero only for merge conflicts, which this engine does
// not produce but faithfully round-trips.
type IndexEntry struct {
	Ctime     uint32
	CtimeNano uint32
	Mtime     uint32
	MtimeNano uint32
	Dev       uint32
	Ino       uint32
	Mode      uint32
	UID       uint32
	GID       uint32
	Size      uint32
	Hash      object.Hash
	Stage     uint16
	Path      string
}

// Index is the ordered staging area between HEAD's tree and the working
// directory.
type Index struct {
	Entries []IndexEntry
}

// LoadIndex reads .git/index. A missing file is an empty index, not an
// error.
func (r *Repo) LoadIndex() (*Index, error) {
	data, err := os.ReadFile(r.indexPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Index{}, nil
		}
		return nil, fmt.Errorf("load index: %w", err)
	}
	idx, err := decodeIndex(data)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	return idx, nil
}

func decodeIndex(data []byte) (*Index, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("%w: truncated header", ErrCorruptIndex)
	}
	if !bytes.Equal(data[:4], indexSignature[:]) {
		return nil, fmt.Errorf("%w: bad signature %q", ErrCorruptIndex, data[:4])
	}
	version := binary.BigEndian.Uint32(data[4:8])
	if version != indexVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptIndex, version)
	}
	count := binary.BigEndian.Uint32(data[8:12])

	idx := &Index{Entries: make([]IndexEntry, 0, count)}
	pos := 12
	for i := uint32(0); i < count; i++ {
		entry, next, err := decodeIndexEntry(data, pos)
		if err != nil {
			return nil, err
		}
		if len(idx.Entries) > 0 && idx.Entries[len(idx.Entries)-1].Path >= entry.Path {
			return nil, fmt.Errorf("%w: entries not in ascending path order at %q", ErrCorruptIndex, entry.Path)
		}
		idx.Entries = append(idx.Entries, entry)
		pos = next
	}
	// Anything after the declared entries (extensions, checksum) is ignored.
	return idx, nil
}

func decodeIndexEntry(data []byte, pos int) (IndexEntry, int, error) {
	if pos+indexEntryFixedSize > len(data) {
		return IndexEntry{}, 0, fmt.Errorf("%w: truncated entry at offset %d", ErrCorruptIndex, pos)
	}
	b := data[pos:]

	e := IndexEntry{
		Ctime:     binary.BigEndian.Uint32(b[0:4]),
		CtimeNano: binary.BigEndian.Uint32(b[4:8]),
		Mtime:     binary.BigEndian.Uint32(b[8:12]),
		MtimeNano: binary.BigEndian.Uint32(b[12:16]),
		Dev:       binary.BigEndian.Uint32(b[16:20]),
		Ino:       binary.BigEndian.Uint32(b[20:24]),
		Mode:      binary.BigEndian.Uint32(b[24:28]),
		UID:       binary.BigEndian.Uint32(b[28:32]),
		GID:       binary.BigEndian.Uint32(b[32:36]),
		Size:      binary.BigEndian.Uint32(b[36:40]),
		Hash:      object.HashFromRaw(b[40:60]),
	}
	flags := binary.BigEndian.Uint16(b[60:62])
	e.Stage = (flags & indexFlagsStageMask) >> indexFlagsStageShift

	// Path: NUL-terminated, then padding filler to the 8-byte boundary.
	pathStart := pos + indexEntryFixedSize
	nul := bytes.IndexByte(data[pathStart:], 0)
	if nul < 0 {
		return IndexEntry{}, 0, fmt.Errorf("%w: unterminated path at offset %d", ErrCorruptIndex, pathStart)
	}
	e.Path = string(data[pathStart : pathStart+nul])

	entryLen := indexEntryFixedSize + nul + 1
	padded := entryLen + (indexEntryAlignment-entryLen%indexEntryAlignment)%indexEntryAlignment
	next := pos + padded
	if next > len(data) {
		return IndexEntry{}, 0, fmt.Errorf("%w: truncated padding at offset %d", ErrCorruptIndex, pos)
	}
	return e, next, nil
}

// Save serializes the index and atomically replaces .git/index via a temp
// file + rename, so a concurrent reader never observes a partial write.
func (idx *Index) Save(r *Repo) error {
	data, err := encodeIndex(idx)
	if err != nil {
		return fmt.Errorf("save index: %w", err)
	}

	tmp, err := os.CreateTemp(r.GitDir, ".index-tmp-*")
	if err != nil {
		return fmt.Errorf("save index: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("save index: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("save index: close: %w", err)
	}
	if err := os.Rename(tmpName, r.indexPath()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("save index: rename: %w", err)
	}
	return nil
}

func encodeIndex(idx *Index) ([]byte, error) {
	entries := make([]IndexEntry, len(idx.Entries))
	copy(entries, idx.Entries)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	var buf bytes.Buffer
	buf.Write(indexSignature[:])
	writeU32(&buf, indexVersion)
	writeU32(&buf, uint32(len(entries)))

	for _, e := range entries {
		if err := encodeIndexEntry(&buf, e); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func encodeIndexEntry(buf *bytes.Buffer, e IndexEntry) error {
	raw, err := e.Hash.Raw()
	if err != nil {
		return fmt.Errorf("entry %q: %w", e.Path, err)
	}

	writeU32(buf, e.Ctime)
	writeU32(buf, e.CtimeNano)
	writeU32(buf, e.Mtime)
	writeU32(buf, e.MtimeNano)
	writeU32(buf, e.Dev)
	writeU32(buf, e.Ino)
	writeU32(buf, e.Mode)
	writeU32(buf, e.UID)
	writeU32(buf, e.GID)
	writeU32(buf, e.Size)
	buf.Write(raw)

	nameLen := len(e.Path)
	if nameLen > indexFlagsNameMask {
		nameLen = indexFlagsNameMask
	}
	flags := uint16(nameLen) | (e.Stage << indexFlagsStageShift)
	var fb [2]byte
	binary.BigEndian.PutUint16(fb[:], flags)
	buf.Write(fb[:])

	buf.WriteString(e.Path)
	buf.WriteByte(0)

	entryLen := indexEntryFixedSize + len(e.Path) + 1
	for pad := (indexEntryAlignment - entryLen%indexEntryAlignment) % indexEntryAlignment; pad > 0; pad-- {
		buf.WriteByte(0)
	}
	return nil
}

func writeU32(w io.Writer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

// Upsert inserts or replaces the entry for its path, preserving ascending
// path order.
func (idx *Index) Upsert(e IndexEntry) {
	i := sort.Search(len(idx.Entries), func(i int) bool { return idx.Entries[i].Path >= e.Path })
	if i < len(idx.Entries) && idx.Entries[i].Path == e.Path {
		idx.Entries[i] = e
		return
	}
	idx.Entries = append(idx.Entries, IndexEntry{})
	copy(idx.Entries[i+1:], idx.Entries[i:])
	idx.Entries[i] = e
}

// Remove deletes the entries for the given paths. Every path must be
// present; a missing one yields ErrPathNotInIndex and the index is left
// unchanged.
func (idx *Index) Remove(paths []string) error {
	for _, p := range paths {
		if _, ok := idx.Entry(p); !ok {
			return fmt.Errorf("%w: %q", ErrPathNotInIndex, p)
		}
	}

	drop := make(map[string]bool, len(paths))
	for _, p := range paths {
		drop[p] = true
	}
	kept := idx.Entries[:0]
	for _, e := range idx.Entries {
		if !drop[e.Path] {
			kept = append(kept, e)
		}
	}
	idx.Entries = kept
	return nil
}

// Entry returns the entry for a path.
func (idx *Index) Entry(path string) (*IndexEntry, bool) {
	i := sort.Search(len(idx.Entries), func(i int) bool { return idx.Entries[i].Path >= path })
	if i < len(idx.Entries) && idx.Entries[i].Path == path {
		return &idx.Entries[i], true
	}
	return nil, false
}

// BlobHashForPath returns the staged content hash for a path. This is the
// query surface external consumers (ignore matchers, status) build on.
func (idx *Index) BlobHashForPath(path string) (object.Hash, bool) {
	e, ok := idx.Entry(path)
	if !ok {
		return "", false
	}
	return e.Hash, true
}

// IsTracked reports whether a path is staged.
func (idx *Index) IsTracked(path string) bool {
	_, ok := idx.Entry(path)
	return ok
}
