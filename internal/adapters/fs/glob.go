package fs

import (
	"os"
	"strings"
)

// Glob implements ports.Globber: '*' expansion against the filesystem.
// '*' never matches '/'; patterns are split into path segments and only the
// first segment carrying a wildcard is matched per directory scan, with the
// remainder handled by recursion or a final file test.
type Glob struct {
	oracle *Oracle
}

// NewGlob creates a new Glob.
func NewGlob(oracle *Oracle) *Glob {
	return &Glob{oracle: oracle}
}

// Expand expands each pattern and returns the matches joined by single
// spaces. A pattern without matches is emitted verbatim, or dropped when
// noEmit is set.
func (g *Glob) Expand(patterns []string, noEmit bool) string {
	var out []string
	for _, p := range patterns {
		g.expand(&out, p, noEmit)
	}
	return strings.Join(out, " ")
}

func (g *Glob) expand(out *[]string, src string, noEmit bool) bool {
	star := strings.IndexByte(src, '*')
	if star < 0 {
		if noEmit {
			return false
		}
		*out = append(*out, src)
		return false
	}

	// Split at the last '/' before the first '*': everything before is the
	// directory to scan, the rest up to the next '/' is the segment to
	// match against directory entries.
	dir := "."
	segStart := 0
	if slash := strings.LastIndexByte(src[:star], '/'); slash >= 0 {
		dir = src[:slash]
		segStart = slash + 1
	}
	segEnd := len(src)
	rest := ""
	if nslash := strings.IndexByte(src[star:], '/'); nslash >= 0 {
		segEnd = star + nslash
		rest = src[segEnd:]
	}
	parts := segmentParts(src[segStart:segEnd])

	if !g.expandDir(out, dir, parts, rest) {
		if noEmit {
			return false
		}
		*out = append(*out, src)
		return false
	}
	return true
}

// expandDir scans dir for entries matching parts. rest is the pattern
// remainder starting at '/', or empty when the segment was the last path
// component. Reports whether anything was appended.
func (g *Glob) expandDir(out *[]string, dir string, parts []string, rest string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}

	appended := false
	for _, ent := range entries {
		name := ent.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !segmentMatches(name, parts) {
			continue
		}
		matched := composePath(dir, name)
		if rest == "" {
			*out = append(*out, matched)
			appended = true
			continue
		}
		if strings.IndexByte(rest[1:], '*') >= 0 {
			// Further wildcards below: recurse, suppressing verbatim
			// fallback for the sub-pattern.
			if g.expand(out, matched+rest, true) {
				appended = true
			}
			continue
		}
		// No further wildcard: the composed path only counts if it exists
		// as a readable file.
		if g.oracle.Exists(matched + rest) {
			*out = append(*out, matched+rest)
			appended = true
		}
	}
	return appended
}

// composePath joins a scanned directory and an entry name the way matches
// are emitted: relative results carry an explicit "./" prefix.
func composePath(dir, name string) string {
	rel := name
	if dir != "." {
		rel = dir + "/" + name
	}
	if strings.HasPrefix(rel, "/") || strings.HasPrefix(rel, "./") {
		return rel
	}
	return "./" + rel
}

// segmentParts chops one path segment into alternating literal and "*"
// parts. Consecutive stars collapse into one.
func segmentParts(seg string) []string {
	var parts []string
	for {
		star := strings.IndexByte(seg, '*')
		if star < 0 {
			break
		}
		if star > 0 {
			parts = append(parts, seg[:star])
		}
		if len(parts) == 0 || parts[len(parts)-1] != "*" {
			parts = append(parts, "*")
		}
		seg = seg[star+1:]
	}
	if seg != "" {
		parts = append(parts, seg)
	}
	return parts
}

// segmentMatches matches a filename against the parts left to right. A '*'
// greedily skips characters until the next literal fits; a trailing '*'
// matches the remainder.
func segmentMatches(fn string, parts []string) bool {
	for i := 0; i < len(parts); i++ {
		elem := parts[i]
		if elem == "*" {
			i++
			for i < len(parts) && parts[i] == "*" {
				i++
			}
			if i == len(parts) {
				return true
			}
			elem = parts[i]
			for len(fn) > len(elem) && fn[:len(elem)] != elem {
				fn = fn[1:]
			}
		}
		if len(fn) < len(elem) || fn[:len(elem)] != elem {
			return false
		}
		fn = fn[len(elem):]
	}
	return fn == ""
}
