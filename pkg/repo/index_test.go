package repo

import (
	"encoding/binary"
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/odvcencio/lit/pkg/object"
)

const (
	testHashA = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	testHashB = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

func testEntry(path, hash string) IndexEntry {
	return IndexEntry{
		Ctime:     1700000000,
		CtimeNano: 123456789,
		Mtime:     1700000000,
		MtimeNano: 123456789,
		Mode:      IndexModeFile,
		Size:      42,
		Hash:      object.Hash(hash),
		Path:      path,
	}
}

func TestIndex_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	idx := &Index{}
	idx.Upsert(testEntry("b/deep.txt", testHashB))
	idx.Upsert(testEntry("a.txt", testHashA))

	if err := idx.Save(r); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := r.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}

	if diff := cmp.Diff(idx.Entries, got.Entries); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestIndex_LoadMissingIsEmpty(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	idx, err := r.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	if len(idx.Entries) != 0 {
		t.Errorf("entries = %d, want 0", len(idx.Entries))
	}
}

func TestIndex_OnDiskFormat(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	idx := &Index{}
	idx.Upsert(testEntry("a.txt", testHashA))
	if err := idx.Save(r); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(r.indexPath())
	if err != nil {
		t.Fatalf("read index: %v", err)
	}

	if string(data[:4]) != "DIRC" {
		t.Errorf("signature = %q, want DIRC", data[:4])
	}
	if v := binary.BigEndian.Uint32(data[4:8]); v != 2 {
		t.Errorf("version = %d, want 2", v)
	}
	if n := binary.BigEndian.Uint32(data[8:12]); n != 1 {
		t.Errorf("entry count = %d, want 1", n)
	}
	// 12-byte header + 62 fixed + "a.txt" + NUL = 80, already 8-aligned.
	if len(data) != 80 {
		t.Errorf("file size = %d, want 80", len(data))
	}
}

func TestIndex_CorruptSignature(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := os.WriteFile(r.indexPath(), []byte("JUNKjunkjunkjunk"), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
	if _, err := r.LoadIndex(); !errors.Is(err, ErrCorruptIndex) {
		t.Errorf("LoadIndex error = %v, want ErrCorruptIndex", err)
	}
}

func TestIndex_UnsupportedVersion(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	data := make([]byte, 12)
	copy(data, "DIRC")
	binary.BigEndian.PutUint32(data[4:8], 3)
	if err := os.WriteFile(r.indexPath(), data, 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
	if _, err := r.LoadIndex(); !errors.Is(err, ErrCorruptIndex) {
		t.Errorf("LoadIndex error = %v, want ErrCorruptIndex", err)
	}
}

func TestIndex_UpsertKeepsOrderAndReplaces(t *testing.T) {
	idx := &Index{}
	idx.Upsert(testEntry("m.txt", testHashA))
	idx.Upsert(testEntry("a.txt", testHashA))
	idx.Upsert(testEntry("z.txt", testHashA))

	replacement := testEntry("m.txt", testHashB)
	idx.Upsert(replacement)

	if len(idx.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(idx.Entries))
	}
	for i, want := range []string{"a.txt", "m.txt", "z.txt"} {
		if idx.Entries[i].Path != want {
			t.Errorf("entry %d = %q, want %q", i, idx.Entries[i].Path, want)
		}
	}
	if e, _ := idx.Entry("m.txt"); e.Hash != object.Hash(testHashB) {
		t.Errorf("m.txt hash = %s, want %s", e.Hash, testHashB)
	}
}

func TestIndex_RemoveMissingPathFails(t *testing.T) {
	idx := &Index{}
	idx.Upsert(testEntry("a.txt", testHashA))

	err := idx.Remove([]string{"a.txt", "nope.txt"})
	if !errors.Is(err, ErrPathNotInIndex) {
		t.Fatalf("Remove error = %v, want ErrPathNotInIndex", err)
	}
	// The failed removal must not touch the index.
	if !idx.IsTracked("a.txt") {
		t.Error("a.txt removed despite failed Remove")
	}
}

func TestIndexLock_Exclusive(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	lock, err := r.LockIndex()
	if err != nil {
		t.Fatalf("LockIndex: %v", err)
	}
	if _, err := r.LockIndex(); !errors.Is(err, ErrIndexLocked) {
		t.Errorf("second LockIndex error = %v, want ErrIndexLocked", err)
	}

	if err := lock.Unlock(); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	lock2, err := r.LockIndex()
	if err != nil {
		t.Fatalf("LockIndex after Unlock: %v", err)
	}
	lock2.Unlock()

	// Unlock is idempotent.
	if err := lock.Unlock(); err != nil {
		t.Errorf("repeated Unlock: %v", err)
	}
}
