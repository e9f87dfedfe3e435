package buffer

import "quill/internal/syntax"

// Row is one logical line of the document: its text as runes plus the
// per-character highlight classification from the last lexer pass. Indexing is
// always by character, never by byte, so splits and joins at arbitrary offsets
// are safe for multi-byte text.
type Row struct {
	chars   []rune
	classes []syntax.Class

	// valid reports whether classes matches the current text and carry
	// state; any edit clears it.
	valid    bool
	carryIn  bool
	carryOut bool
}

func newRow(s string) *Row {
	return &Row{chars: []rune(s)}
}

// Len returns the number of characters in the row.
func (r *Row) Len() int { return len(r.chars) }

func (r *Row) String() string { return string(r.chars) }

// Chars exposes the row's characters for rendering. Callers must not mutate
// the returned slice.
func (r *Row) Chars() []rune { return r.chars }

// Classes exposes the per-character classifications computed by the last
// Document.Highlight call. Same length as Chars for a highlighted row.
func (r *Row) Classes() []syntax.Class { return r.classes }

func (r *Row) invalidate() { r.valid = false }

// insertAt inserts c before offset x. x == Len appends.
func (r *Row) insertAt(x int, c rune) {
	r.chars = append(r.chars, 0)
	copy(r.chars[x+1:], r.chars[x:])
	r.chars[x] = c
	r.invalidate()
}

// deleteAt removes the character at offset x.
func (r *Row) deleteAt(x int) {
	r.chars = append(r.chars[:x], r.chars[x+1:]...)
	r.invalidate()
}

// split truncates the row at offset x and returns a new row holding the
// remainder.
func (r *Row) split(x int) *Row {
	rest := make([]rune, len(r.chars)-x)
	copy(rest, r.chars[x:])
	r.chars = r.chars[:x]
	r.invalidate()
	return &Row{chars: rest}
}

// appendRow joins another row's content onto the end of this one.
func (r *Row) appendRow(o *Row) {
	r.chars = append(r.chars, o.chars...)
	r.invalidate()
}

// find returns the first occurrence of q starting at or after offset from.
func (r *Row) find(q []rune, from int) (int, bool) {
	for i := from; i+len(q) <= len(r.chars); i++ {
		if runesEqual(r.chars[i:i+len(q)], q) {
			return i, true
		}
	}
	return 0, false
}

// findBackward returns the last occurrence of q that ends at or before offset
// limit.
func (r *Row) findBackward(q []rune, limit int) (int, bool) {
	if limit > len(r.chars) {
		limit = len(r.chars)
	}
	for i := limit - len(q); i >= 0; i-- {
		if runesEqual(r.chars[i:i+len(q)], q) {
			return i, true
		}
	}
	return 0, false
}

func runesEqual(a, b []rune) bool {
	for i := range b {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
