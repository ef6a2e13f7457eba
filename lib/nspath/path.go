// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package nspath models locations in the directory namespace.
//
// A [Path] is an ordered list of non-empty segment names. The empty
// Path is the namespace root. Paths are written with "/" separators:
// a leading "/" makes the text absolute, anything else is relative to
// a base path supplied by the caller (normally the shell's current
// directory). Parsing never fails; empty segments are dropped, so
// "//a//b/" and "/a/b" name the same directory.
//
// Operations that derive a new Path return a fresh slice. A Path
// handed out by this package is never modified afterwards, which lets
// the shell share its current path with the completion hook without
// copying.
package nspath

import "strings"

// Path is a sequence of directory names from the namespace root.
type Path []string

// Root is the empty path.
var Root = Path{}

// Parse converts slash-separated text into a Path. "", "/" and any
// text consisting only of slashes parse to the root.
func Parse(text string) Path {
	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimPrefix(trimmed, "/")
	path := Path{}
	for _, segment := range strings.Split(trimmed, "/") {
		if segment != "" {
			path = append(path, segment)
		}
	}
	return path
}

// Resolve interprets text relative to base. Absolute text ignores
// base. The segments "." and ".." are applied as they are encountered:
// "." is dropped and ".." removes the preceding segment (a no-op at the
// root).
func Resolve(base Path, text string) Path {
	trimmed := strings.TrimSpace(text)
	var result Path
	if strings.HasPrefix(trimmed, "/") {
		result = Path{}
	} else {
		result = base.clone()
	}
	for _, segment := range Parse(trimmed) {
		switch segment {
		case ".":
		case "..":
			if len(result) > 0 {
				result = result[:len(result)-1]
			}
		default:
			result = append(result, segment)
		}
	}
	return result
}

// String formats the path as absolute text: "/" for the root,
// "/a/b" otherwise.
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	return "/" + strings.Join(p, "/")
}

// IsRoot reports whether p names the namespace root.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// Parent returns p without its last segment. The parent of the root
// is the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return Path{}
	}
	return p[:len(p)-1].clone()
}

// Join returns a new path with segments appended. Empty segments are
// skipped.
func (p Path) Join(segments ...string) Path {
	result := p.clone()
	for _, segment := range segments {
		if segment != "" {
			result = append(result, segment)
		}
	}
	return result
}

// Equal reports whether p and other name the same directory.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

func (p Path) clone() Path {
	result := make(Path, len(p), len(p)+1)
	copy(result, p)
	return result
}
