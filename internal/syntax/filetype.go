package syntax

import (
	"os"
	"path/filepath"
	"strings"
)

// Profile describes the highlighting rules resolved for a file: which lexical
// categories are detected, the comment delimiters, and the keyword sets. A
// profile with everything disabled still carries a display name.
type Profile struct {
	Name              string
	Numbers           bool
	Strings           bool
	Characters        bool
	LineComment       string // empty disables single-line comments
	BlockCommentStart string
	BlockCommentEnd   string
	PrimaryKeywords   []string
	SecondaryKeywords []string
}

// HasBlockComments reports whether multi-line comment detection is enabled.
func (p Profile) HasBlockComments() bool {
	return p.BlockCommentStart != "" && p.BlockCommentEnd != ""
}

// DefaultProfile is the profile for files with no recognized type: a display
// name and no lexical highlighting.
func DefaultProfile() Profile {
	return Profile{Name: "No filetype"}
}

func rustProfile(name string) Profile {
	return Profile{
		Name:              name,
		Numbers:           true,
		Strings:           true,
		Characters:        true,
		LineComment:       "//",
		BlockCommentStart: "/*",
		BlockCommentEnd:   "*/",
		PrimaryKeywords: []string{
			"as", "break", "const", "continue", "crate", "else", "enum", "extern",
			"false", "fn", "for", "if", "impl", "in", "let", "loop", "match",
			"mod", "move", "mut", "pub", "ref", "return", "self", "Self",
			"static", "struct", "super", "trait", "true", "type", "unsafe",
			"use", "where", "while", "dyn", "abstract", "become", "box", "do",
			"final", "macro", "override", "priv", "typeof", "unsized", "virtual",
			"yield", "async", "await", "try",
		},
		SecondaryKeywords: []string{
			"bool", "char", "i8", "i16", "i32", "i64", "isize",
			"u8", "u16", "u32", "u64", "usize", "f32", "f64",
		},
	}
}

func goProfile(name string) Profile {
	return Profile{
		Name:              name,
		Numbers:           true,
		Strings:           true,
		Characters:        true,
		LineComment:       "//",
		BlockCommentStart: "/*",
		BlockCommentEnd:   "*/",
		PrimaryKeywords: []string{
			"break", "case", "chan", "const", "continue", "default", "defer",
			"else", "fallthrough", "for", "func", "go", "goto", "if", "import",
			"interface", "map", "package", "range", "return", "select",
			"struct", "switch", "type", "var",
		},
		SecondaryKeywords: []string{
			"bool", "byte", "complex64", "complex128", "error", "float32",
			"float64", "int", "int8", "int16", "int32", "int64", "rune",
			"string", "uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
			"any", "true", "false", "nil", "iota",
		},
	}
}

// plainNames maps extensions with a known display name but no lexical rules.
var plainNames = map[string]string{
	"txt":      "Plain Text",
	"md":       "Markdown",
	"json":     "JSON",
	"yaml":     "YAML",
	"yml":      "YAML",
	"doc":      "MS Word 95-97",
	"docx":     "MS Word",
	"odt":      "OpenDocument Text",
	"gd":       "GDScript",
	"tscn":     "Godot Scene",
	"scn":      "Godot Scene (binary)",
	"tres":     "Godot Resource",
	"res":      "Godot Resource (binary)",
	"gdshader": "Godot Shader",
	"shader":   "Shader",
	"godot":    "Godot Project",
}

// mappingEntry is one line of a user filetypes mapping: a set of patterns and
// the display label they resolve to.
type mappingEntry struct {
	patterns []string
	label    string
}

// Resolver turns file names into highlight profiles. A user mapping file, when
// present, takes precedence over the built-in extension table.
type Resolver struct {
	entries []mappingEntry
}

// NewResolver builds a resolver, loading the first mapping file that exists
// among the given candidate paths. Missing or unreadable files are skipped.
func NewResolver(mappingPaths ...string) *Resolver {
	r := &Resolver{}
	for _, p := range mappingPaths {
		if p == "" {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		r.entries = parseMapping(string(data))
		break
	}
	return r
}

// Resolve returns the highlight profile for a file name. Matching is
// case-insensitive. User mapping entries are consulted first (glob patterns
// against the full path or basename, exact basenames, then bare extensions);
// the built-in table handles everything else.
func (r *Resolver) Resolve(fileName string) Profile {
	pathLower := strings.ToLower(fileName)
	baseLower := strings.ToLower(filepath.Base(fileName))
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))

	for _, e := range r.entries {
		if !e.matches(pathLower, baseLower, ext) {
			continue
		}
		return profileForExt(ext, e.label)
	}

	switch ext {
	case "rs":
		return rustProfile("Rust")
	case "go":
		return goProfile("Go")
	}
	if name, ok := plainNames[ext]; ok {
		return Profile{Name: name}
	}
	return DefaultProfile()
}

// profileForExt attaches a user-chosen label to the keyword profile the
// extension would otherwise get.
func profileForExt(ext, label string) Profile {
	switch ext {
	case "rs":
		return rustProfile(label)
	case "go":
		return goProfile(label)
	}
	return Profile{Name: label}
}

func (e mappingEntry) matches(pathLower, baseLower, ext string) bool {
	for _, pat := range e.patterns {
		switch {
		case strings.ContainsAny(pat, "*?/\\"):
			if matchGlob(pat, pathLower) || matchGlob(pat, baseLower) {
				return true
			}
		case strings.Contains(pat, "."):
			if baseLower == pat {
				return true
			}
		default:
			if ext == pat {
				return true
			}
		}
	}
	return false
}

// parseMapping parses the filetypes mapping format: one entry per line,
// `patterns <delim> label` where <delim> is "=>", "->", ":" or "=", patterns
// are separated by commas, semicolons or whitespace, and "#" starts a comment.
func parseMapping(contents string) []mappingEntry {
	var entries []mappingEntry
	for _, raw := range strings.Split(contents, "\n") {
		line := strings.TrimSpace(raw)
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if line == "" {
			continue
		}

		var lhs, rhs string
		for _, delim := range []string{"=>", "->", ":", "="} {
			if l, r, ok := strings.Cut(line, delim); ok {
				lhs, rhs = strings.TrimSpace(l), strings.TrimSpace(r)
				break
			}
		}
		if lhs == "" || rhs == "" {
			continue
		}

		label := strings.Trim(rhs, `"'`)
		var patterns []string
		for _, tok := range strings.FieldsFunc(lhs, func(r rune) bool {
			return r == ',' || r == ';' || r == ' ' || r == '\t'
		}) {
			pat := strings.ToLower(strings.Trim(tok, `"'`))
			pat = strings.TrimPrefix(pat, ".")
			if pat != "" {
				patterns = append(patterns, pat)
			}
		}
		if len(patterns) > 0 {
			entries = append(entries, mappingEntry{patterns: patterns, label: label})
		}
	}
	return entries
}

// matchGlob matches text against a pattern supporting "*" (any run) and "?"
// (any one character), with backtracking on stars.
func matchGlob(pattern, text string) bool {
	p, t := []byte(pattern), []byte(text)
	pi, ti := 0, 0
	star, starT := -1, 0
	for ti < len(t) {
		switch {
		case pi < len(p) && (p[pi] == '?' || p[pi] == t[ti]):
			pi++
			ti++
		case pi < len(p) && p[pi] == '*':
			star, starT = pi, ti
			pi++
		case star >= 0:
			pi = star + 1
			starT++
			ti = starT
		default:
			return false
		}
	}
	for pi < len(p) && p[pi] == '*' {
		pi++
	}
	return pi == len(p)
}
