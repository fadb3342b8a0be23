package doctree

// Kind distinguishes directories from files in a parsed tree.
type Kind int

const (
	KindDir Kind = iota
	KindFile
)

func (k Kind) String() string {
	if k == KindFile {
		return "file"
	}
	return "dir"
}

// Entry is a single directory or file declared in the tree section.
type Entry struct {
	Path  string // Full path, joined onto the base location
	Rel   string // Slash-separated path relative to the base, starting with the root name
	Name  string // Bare name as written in the tree
	Depth int    // Indentation level the entry was declared at (root is 0)
	Kind  Kind
}

// Layout is the result of parsing the tree section.
type Layout struct {
	Root  string  // Root folder name
	Dirs  []Entry // Root first, then directories in encounter order
	Files []Entry // Files in encounter order
}

// Block is a content block from the content section.
type Block struct {
	Path    string // Declared path exactly as written in the header line
	Content string // Lines joined with "\n", trailing whitespace trimmed
}

// Blocks maps declared paths to content, remembering the order in which
// each declared path first appeared. A repeated path replaces the earlier
// content but keeps its position.
type Blocks struct {
	order []string
	byKey map[string]string
}

func NewBlocks() *Blocks {
	return &Blocks{byKey: make(map[string]string)}
}

// Put commits content under a declared path, overwriting any earlier value.
func (b *Blocks) Put(path, content string) {
	if _, ok := b.byKey[path]; !ok {
		b.order = append(b.order, path)
	}
	b.byKey[path] = content
}

// Get returns the content for an exact declared path.
func (b *Blocks) Get(path string) (string, bool) {
	c, ok := b.byKey[path]
	return c, ok
}

// Len returns the number of distinct declared paths.
func (b *Blocks) Len() int {
	return len(b.order)
}

// All returns the blocks in order of first appearance.
func (b *Blocks) All() []Block {
	out := make([]Block, 0, len(b.order))
	for _, p := range b.order {
		out = append(out, Block{Path: p, Content: b.byKey[p]})
	}
	return out
}
