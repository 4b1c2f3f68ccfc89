package object

// Hash is a 40-character hex-encoded SHA-1 digest.
type Hash string

// Type identifies the kind of object stored.
type Type string

const (
	TypeBlob   Type = "blob"
	TypeTree   Type = "tree"
	TypeCommit Type = "commit"
	TypeTag    Type = "tag"
)

const (
	// Tree mode strings, matching Git's canonical forms.
	ModeDir        = "40000"
	ModeFile       = "100644"
	ModeExecutable = "100755"
	ModeSymlink    = "120000"
)

// Blob holds raw file data.
type Blob struct {
	Data []byte
}

// TreeEntry is one entry in a tree object. Hash refers to a blob for file
// and symlink modes, and to a subtree for ModeDir.
type TreeEntry struct {
	Mode string
	Name string
	Hash Hash
}

// IsDir reports whether the entry refers to a subtree.
func (e TreeEntry) IsDir() bool {
	return e.Mode == ModeDir || e.Mode == "040000"
}

// Tree holds a list of entries sorted by the directory-aware comparator.
type Tree struct {
	Entries []TreeEntry
}

// Commit wraps a KVLM so that unknown headers and header order survive a
// round trip. Required headers are reached through typed accessors.
type Commit struct {
	KVLM *KVLM
}

// Tree returns the hash from the commit's "tree" header.
func (c *Commit) Tree() Hash {
	v, _ := c.KVLM.Get("tree")
	return Hash(v)
}

// Parents returns all "parent" header values in order.
func (c *Commit) Parents() []Hash {
	vals := c.KVLM.Values("parent")
	out := make([]Hash, len(vals))
	for i, v := range vals {
		out[i] = Hash(v)
	}
	return out
}

// Author returns the raw "author" header ("name <email> timestamp tz").
func (c *Commit) Author() string {
	v, _ := c.KVLM.Get("author")
	return v
}

// Committer returns the raw "committer" header.
func (c *Commit) Committer() string {
	v, _ := c.KVLM.Get("committer")
	return v
}

// Message returns the free-form message body.
func (c *Commit) Message() string {
	return string(c.KVLM.Message)
}

// NewCommit builds a commit with headers in canonical order.
func NewCommit(tree Hash, parents []Hash, author, committer, message string) *Commit {
	kv := NewKVLM()
	kv.Add("tree", string(tree))
	for _, p := range parents {
		kv.Add("parent", string(p))
	}
	kv.Add("author", author)
	kv.Add("committer", committer)
	kv.Message = []byte(message)
	return &Commit{KVLM: kv}
}

// Tag is an annotated tag object. Like Commit it wraps a KVLM.
type Tag struct {
	KVLM *KVLM
}

// Target returns the hash from the tag's "object" header.
func (t *Tag) Target() Hash {
	v, _ := t.KVLM.Get("object")
	return Hash(v)
}

// TargetType returns the "type" header as an object Type.
func (t *Tag) TargetType() Type {
	v, _ := t.KVLM.Get("type")
	return Type(v)
}

// Name returns the "tag" header.
func (t *Tag) Name() string {
	v, _ := t.KVLM.Get("tag")
	return v
}

// Tagger returns the raw "tagger" header.
func (t *Tag) Tagger() string {
	v, _ := t.KVLM.Get("tagger")
	return v
}

// Message returns the free-form message body.
func (t *Tag) Message() string {
	return string(t.KVLM.Message)
}

// NewTag builds an annotated tag with headers in canonical order.
func NewTag(target Hash, targetType Type, name, tagger, message string) *Tag {
	kv := NewKVLM()
	kv.Add("object", string(target))
	kv.Add("type", string(targetType))
	kv.Add("tag", name)
	kv.Add("tagger", tagger)
	kv.Message = []byte(message)
	return &Tag{KVLM: kv}
}
