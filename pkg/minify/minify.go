// File: pkg/minify/minify.go

// Package minify reduces source text to a compact single-line form for
// prompt assembly. It strips block and line comments, then collapses
// all remaining whitespace runs into single spaces.
//
// The transform is intentionally lexer-free: comment markers inside
// string literals or URLs (https://...) are treated as comments too.
// That trade-off keeps the transform uniform across languages at the
// cost of occasionally mangling such content.
package minify

import (
	"regexp"
	"strings"
)

var (
	blockCommentRE = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentRE  = regexp.MustCompile(`(?m)//[^\n]*`)
	whitespaceRE   = regexp.MustCompile(`\s+`)
)

// Minify strips /* */ and // comments from content and collapses every
// whitespace run (spaces, tabs, newlines) into a single space. The
// result carries no leading or trailing whitespace; minifying an
// already minified string returns it unchanged.
func Minify(content string) string {
	// Block comments are replaced with a space so that tokens joined
	// only by a comment ("a/*x*/b") do not fuse.
	content = blockCommentRE.ReplaceAllString(content, " ")
	content = lineCommentRE.ReplaceAllString(content, "")
	content = whitespaceRE.ReplaceAllString(content, " ")
	return strings.TrimSpace(content)
}
