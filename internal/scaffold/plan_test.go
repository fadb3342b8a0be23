package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/scaffold/internal/doctree"
	"github.com/dgallion1/scaffold/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sep = "------------------------------------"

func lines(s string) []string {
	return source.Lines(s)
}

func TestBuildPlan_EndToEndScenario(t *testing.T) {
	doc := `project
├── src
│   └── main.cpp
------------------------------------
src/main.cpp
int main(){}
------------------------------------
`
	plan, err := BuildPlan(lines(doc), "")
	require.NoError(t, err)

	require.Len(t, plan.Dirs, 2)
	assert.Equal(t, "project", plan.Dirs[0].Path)
	assert.Equal(t, filepath.Join("project", "src"), plan.Dirs[1].Path)

	require.Len(t, plan.Files, 1)
	assert.Equal(t, filepath.Join("project", "src", "main.cpp"), plan.Files[0].Path)
	assert.Equal(t, "int main(){}", plan.Files[0].Content)
	assert.True(t, plan.Files[0].Matched)
	assert.Equal(t, "src/main.cpp", plan.Files[0].Source)
	assert.Empty(t, plan.Warnings)
}

func TestBuildPlan_RootAndDelimiterOnly(t *testing.T) {
	plan, err := BuildPlan([]string{"project", sep}, "")
	require.NoError(t, err)
	require.Len(t, plan.Dirs, 1)
	assert.Equal(t, "project", plan.Dirs[0].Rel)
	assert.Empty(t, plan.Files)
}

func TestBuildPlan_NoDelimiter(t *testing.T) {
	plan, err := BuildPlan([]string{"  project  ", "└── notes.txt"}, "base")
	require.NoError(t, err)
	assert.Equal(t, "project", plan.Root)
	require.Len(t, plan.Files, 1)
	assert.Equal(t, filepath.Join("base", "project", "notes.txt"), plan.Files[0].Path)
	assert.False(t, plan.Files[0].Matched)
	assert.Equal(t, "", plan.Files[0].Content)
}

func TestBuildPlan_MissingContentIsNotAnError(t *testing.T) {
	doc := "app\n├── a.txt\n└── b.txt\n" + sep + "\na.txt\nalpha\n" + sep + "\n"
	plan, err := BuildPlan(lines(doc), "")
	require.NoError(t, err)
	require.Len(t, plan.Files, 2)
	assert.Equal(t, "alpha", plan.Files[0].Content)
	assert.True(t, plan.Files[0].Matched)
	assert.Equal(t, "", plan.Files[1].Content)
	assert.False(t, plan.Files[1].Matched)
	assert.Equal(t, 1, plan.Blocks)
}

func TestBuildPlan_Errors(t *testing.T) {
	_, err := BuildPlan(nil, "")
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = BuildPlan([]string{"   \t"}, "")
	assert.ErrorIs(t, err, ErrMissingRootName)

	_, err = BuildPlan([]string{""}, "")
	assert.ErrorIs(t, err, ErrMissingRootName)
}

func TestBuildPlan_DelimiterInsideTreeSectionStartsContent(t *testing.T) {
	doc := "r\n├── a.txt\n" + sep + "\n├── b.txt\n"
	plan, err := BuildPlan(lines(doc), "")
	require.NoError(t, err)
	// b.txt is in the content section, so it is never parsed as a tree line.
	require.Len(t, plan.Files, 1)
	assert.Equal(t, "r/a.txt", plan.Files[0].Rel)
}

func TestBuildPlan_DuplicateNamesPreferClosestPath(t *testing.T) {
	doc := `proj
├── api
│   └── main.go
└── cli
    └── main.go
------------------------------------
api/main.go
package api
------------------------------------
cli/main.go
package cli
------------------------------------
`
	plan, err := BuildPlan(lines(doc), "")
	require.NoError(t, err)
	require.Len(t, plan.Files, 2)
	assert.Equal(t, "package api", plan.Files[0].Content)
	assert.Equal(t, "package cli", plan.Files[1].Content)

	// Each file has a single closest declared path, so nothing is ambiguous.
	assert.Empty(t, plan.Warnings)
}

func TestBuildPlan_RawSuffixNeighbourDoesNotWarn(t *testing.T) {
	doc := `proj
└── src
    └── main.cpp
------------------------------------
src/domain.cpp
domain
------------------------------------
src/main.cpp
int main(){}
------------------------------------
`
	plan, err := BuildPlan(lines(doc), "")
	require.NoError(t, err)
	require.Len(t, plan.Files, 1)
	assert.Equal(t, "int main(){}", plan.Files[0].Content)
	assert.Empty(t, plan.Warnings)
}

func TestBuildPlan_TiedCandidatesWarn(t *testing.T) {
	doc := "p\n└── x.txt\n" + sep + "\nfoo/x.txt\none\n" + sep + "\nbar/x.txt\ntwo\n" + sep + "\n"
	plan, err := BuildPlan(lines(doc), "")
	require.NoError(t, err)
	assert.Equal(t, "one", plan.Files[0].Content)

	require.Len(t, plan.Warnings, 1)
	w := plan.Warnings[0]
	assert.Equal(t, "p/x.txt", w.File)
	assert.Equal(t, []string{"foo/x.txt", "bar/x.txt"}, w.Candidates)
	assert.Equal(t, "foo/x.txt", w.Chosen)
	assert.Contains(t, w.String(), "2 declared paths match")
}

func TestBuildPlan_Deterministic(t *testing.T) {
	doc := "p\n└── x.txt\n" + sep + "\nfoo/x.txt\none\n" + sep + "\nbar/x.txt\ntwo\n" + sep + "\n"
	for range 20 {
		plan, err := BuildPlan(lines(doc), "")
		require.NoError(t, err)
		assert.Equal(t, "one", plan.Files[0].Content)
	}
}

func TestSplit(t *testing.T) {
	doc, err := Split([]string{"root\r", "├── a", sep + "\r", "a.txt", "x"})
	require.NoError(t, err)
	assert.Equal(t, "root", doc.Root)
	assert.Equal(t, []string{"├── a"}, doc.TreeLines)
	assert.Equal(t, []string{sep + "\r", "a.txt", "x"}, doc.ContentLines)
}

func TestResolve(t *testing.T) {
	file := doctree.Entry{Name: "main.go", Rel: "proj/cmd/app/main.go"}
	blocks := []doctree.Block{
		{Path: "main.rs", Content: "no"},
		{Path: "xmain.go", Content: "raw suffix"},
		{Path: "app/main.go", Content: "two parts"},
		{Path: "proj/cmd/app/main.go", Content: "full"},
	}

	m := Resolve(file, blocks)
	require.True(t, m.Found)
	assert.Equal(t, "full", m.Block.Content)
	assert.Equal(t, []string{"xmain.go", "app/main.go", "proj/cmd/app/main.go"}, m.Candidates)
	assert.False(t, m.Ambiguous)
}

func TestResolve_TieIsAmbiguous(t *testing.T) {
	file := doctree.Entry{Name: "main.go", Rel: "proj/main.go"}
	blocks := []doctree.Block{
		{Path: "a/main.go", Content: "first"},
		{Path: "b/main.go", Content: "second"},
		{Path: "proj/main.go", Content: "exact"},
	}

	m := Resolve(file, blocks[:2])
	assert.True(t, m.Ambiguous)
	assert.Equal(t, "first", m.Block.Content)

	// A strictly closer candidate clears the tie.
	m = Resolve(file, blocks)
	assert.False(t, m.Ambiguous)
	assert.Equal(t, "exact", m.Block.Content)
}

func TestResolve_RawSuffixStillMatches(t *testing.T) {
	// A header ending with the bare name counts even without a separator.
	file := doctree.Entry{Name: "main.cpp", Rel: "p/main.cpp"}
	m := Resolve(file, []doctree.Block{{Path: "src_main.cpp", Content: "c"}})
	require.True(t, m.Found)
	assert.Equal(t, "c", m.Block.Content)
}

func TestResolve_CaseSensitive(t *testing.T) {
	file := doctree.Entry{Name: "Main.go", Rel: "p/Main.go"}
	m := Resolve(file, []doctree.Block{{Path: "main.go"}})
	assert.False(t, m.Found)
	assert.Empty(t, m.Candidates)
}

func TestResolve_ExactRelativePathWinsOverEarlierCandidate(t *testing.T) {
	file := doctree.Entry{Name: "util.go", Rel: "p/lib/util.go"}
	blocks := []doctree.Block{
		{Path: "other/util.go", Content: "wrong"},
		{Path: "./lib/util.go", Content: "right"},
	}
	m := Resolve(file, blocks)
	assert.Equal(t, "right", m.Block.Content)
}

func TestLoadPlan(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.txt")
	doc := "site\n└── index.html\n" + sep + "\nindex.html\n\n<h1>Hi</h1>\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	plan, err := LoadPlan(path, dir, source.Options{})
	require.NoError(t, err)
	require.Len(t, plan.Files, 1)
	assert.Equal(t, filepath.Join(dir, "site", "index.html"), plan.Files[0].Path)
	assert.Equal(t, "<h1>Hi</h1>", plan.Files[0].Content)

	_, err = LoadPlan(filepath.Join(dir, "nope.txt"), dir, source.Options{})
	assert.ErrorIs(t, err, ErrInputUnreadable)

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = LoadPlan(empty, dir, source.Options{})
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.False(t, strings.Contains(err.Error(), "unreadable"))
}
