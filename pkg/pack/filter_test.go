package pack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func asCandidates(rels ...string) []CandidateFile {
	out := make([]CandidateFile, 0, len(rels))
	for _, rel := range rels {
		out = append(out, CandidateFile{AbsPath: "/project/" + rel, RelPath: rel})
	}
	return out
}

func TestSelect(t *testing.T) {
	candidates := asCandidates(
		"main.go",
		"util.go",
		"docs/guide.md",
		"docs/api.md",
		"src/app.go",
		"src/app_test.go",
		"assets/data.json",
	)

	tests := []struct {
		name    string
		include FilterSpec
		exclude FilterSpec
		want    []string
	}{
		{
			name: "no filters keep everything",
			want: []string{"main.go", "util.go", "docs/guide.md", "docs/api.md", "src/app.go", "src/app_test.go", "assets/data.json"},
		},
		{
			name:    "exclude exact file",
			exclude: FilterSpec{Files: []string{"util.go"}},
			want:    []string{"main.go", "docs/guide.md", "docs/api.md", "src/app.go", "src/app_test.go", "assets/data.json"},
		},
		{
			name:    "exclude extension",
			exclude: FilterSpec{Extensions: []string{".md"}},
			want:    []string{"main.go", "util.go", "src/app.go", "src/app_test.go", "assets/data.json"},
		},
		{
			name:    "exclude folder subtree",
			exclude: FilterSpec{Folders: []string{"src"}},
			want:    []string{"main.go", "util.go", "docs/guide.md", "docs/api.md", "assets/data.json"},
		},
		{
			name:    "exclude only keeps the rest",
			exclude: FilterSpec{Extensions: []string{".json"}, Folders: []string{"docs"}},
			want:    []string{"main.go", "util.go", "src/app.go", "src/app_test.go"},
		},
		{
			name:    "include extension",
			include: FilterSpec{Extensions: []string{".go"}},
			want:    []string{"main.go", "util.go", "src/app.go", "src/app_test.go"},
		},
		{
			name:    "include folder",
			include: FilterSpec{Folders: []string{"docs"}},
			want:    []string{"docs/guide.md", "docs/api.md"},
		},
		{
			name:    "include exact file",
			include: FilterSpec{Files: []string{"assets/data.json"}},
			want:    []string{"assets/data.json"},
		},
		{
			name:    "include rules combine as a union",
			include: FilterSpec{Files: []string{"main.go"}, Folders: []string{"docs"}},
			want:    []string{"main.go", "docs/guide.md", "docs/api.md"},
		},
		{
			name:    "exclusion wins over inclusion",
			include: FilterSpec{Extensions: []string{".md"}},
			exclude: FilterSpec{Folders: []string{"docs"}},
			want:    []string{},
		},
		{
			name:    "exclusion trims an included folder",
			include: FilterSpec{Folders: []string{"src"}},
			exclude: FilterSpec{Files: []string{"src/app_test.go"}},
			want:    []string{"src/app.go"},
		},
		{
			name:    "include without matches selects nothing",
			include: FilterSpec{Extensions: []string{".rs"}},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Select(candidates, tt.include, tt.exclude, zap.NewNop())
			assert.Equal(t, tt.want, relPaths(got))
		})
	}
}

func TestSelectFolderDoesNotMatchFileOfSameName(t *testing.T) {
	candidates := asCandidates("src", "src/app.go")

	got := Select(candidates, FilterSpec{}, FilterSpec{Folders: []string{"src"}}, zap.NewNop())
	assert.Equal(t, []string{"src"}, relPaths(got))
}

func TestSelectPreservesOrder(t *testing.T) {
	candidates := asCandidates("z.go", "a.go", "m.go")

	got := Select(candidates, FilterSpec{Extensions: []string{".go"}}, FilterSpec{}, zap.NewNop())
	assert.Equal(t, []string{"z.go", "a.go", "m.go"}, relPaths(got))
}
