// File: pkg/pack/tree.go
package pack

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// treeNode is one level of the rendered hierarchy.
type treeNode struct {
	children map[string]*treeNode
	isDir    bool
}

// RenderTree renders the selected files as a tree(1)-style listing
// rooted at rootLabel. The tree reflects exactly the files that were
// packed, not the whole directory on disk.
func RenderTree(rootLabel string, files []CandidateFile) string {
	root := &treeNode{children: map[string]*treeNode{}, isDir: true}
	for _, file := range files {
		node := root
		parts := strings.Split(file.RelPath, "/")
		for i, part := range parts {
			child, ok := node.children[part]
			if !ok {
				child = &treeNode{children: map[string]*treeNode{}, isDir: i < len(parts)-1}
				node.children[part] = child
			} else if i < len(parts)-1 {
				child.isDir = true
			}
			node = child
		}
	}

	var treeBuilder strings.Builder
	treeBuilder.WriteString(rootLabel + "/\n")
	renderChildren(&treeBuilder, root, "")
	return treeBuilder.String()
}

// renderChildren appends node's children to the builder, depth first.
func renderChildren(treeBuilder *strings.Builder, node *treeNode, prefix string) {
	names := make([]string, 0, len(node.children))
	for name := range node.children {
		names = append(names, name)
	}

	// Sort entries: directories first, then files, alphabetically
	sort.Slice(names, func(i, j int) bool {
		a, b := node.children[names[i]], node.children[names[j]]
		if a.isDir != b.isDir {
			return a.isDir
		}
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})

	for i, name := range names {
		connector := "├── "
		extension := "│   "
		if i == len(names)-1 {
			connector = "└── "
			extension = "    "
		}

		child := node.children[name]
		if child.isDir {
			treeBuilder.WriteString(fmt.Sprintf("%s%s%s/\n", prefix, connector, name))
			renderChildren(treeBuilder, child, prefix+extension)
		} else {
			treeBuilder.WriteString(fmt.Sprintf("%s%s%s\n", prefix, connector, name))
		}
	}
}

// WriteTree writes the rendered tree listing to path.
func WriteTree(path, content string, logger *zap.Logger) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		logger.Error("Failed to write tree file", zap.String("treePath", path), zap.Error(err))
		return &Error{Kind: KindOutputWrite, Path: path, Err: err}
	}

	logger.Debug("Wrote tree file", zap.String("treePath", path))
	return nil
}
