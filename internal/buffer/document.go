package buffer

import (
	"errors"
	"strings"

	"quill/internal/syntax"
)

// ErrNoFileName is returned by Save when the document has no file identity.
var ErrNoFileName = errors.New("document has no file name")

// Position is a caret between characters: X is the character column in
// [0, row length], Y the row index.
type Position struct {
	X int
	Y int
}

// Direction selects which way Find scans from its starting position.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Document is the in-memory text buffer: an ordered, never-empty sequence of
// rows plus the file identity, dirty flag and highlight profile. Mutation
// methods are total over clamped positions; the caller (the editor
// controller) is responsible for keeping positions within buffer geometry.
type Document struct {
	rows      []*Row
	fileName  string
	dirty     bool
	profile   syntax.Profile
	charCount int
}

// New returns an empty untitled document with a single empty row.
func New() *Document {
	return &Document{
		rows:      []*Row{newRow("")},
		profile:   syntax.DefaultProfile(),
		charCount: 1,
	}
}

// Load builds a document from file content already read by the caller. Line
// endings are normalized to "\n"; a single trailing line break is not treated
// as an extra empty row, so an immediate Save reproduces the original line
// content.
func Load(fileName, content string, profile syntax.Profile) *Document {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.TrimSuffix(content, "\n")

	var rows []*Row
	for _, line := range strings.Split(content, "\n") {
		rows = append(rows, newRow(line))
	}

	d := &Document{rows: rows, fileName: fileName, profile: profile}
	d.charCount = d.countChars()
	return d
}

func (d *Document) countChars() int {
	n := 0
	for _, r := range d.rows {
		n += r.Len() + 1 // content plus one line break per row
	}
	return n
}

// Len returns the number of rows.
func (d *Document) Len() int { return len(d.rows) }

// IsEmpty reports whether the document holds no text at all.
func (d *Document) IsEmpty() bool {
	return len(d.rows) == 1 && d.rows[0].Len() == 0
}

// Row returns the row at index y, or nil if y is out of range.
func (d *Document) Row(y int) *Row {
	if y < 0 || y >= len(d.rows) {
		return nil
	}
	return d.rows[y]
}

// CharCount returns the cached character count: all runes plus one line break
// per row, matching the persisted form.
func (d *Document) CharCount() int { return d.charCount }

// Dirty reports whether the content differs from the last successful save.
func (d *Document) Dirty() bool { return d.dirty }

// FileName returns the document's file identity; empty for an untitled
// document.
func (d *Document) FileName() string { return d.fileName }

// FileType returns the display name of the resolved highlight profile.
func (d *Document) FileType() string { return d.profile.Name }

// SetFileName attaches a file identity and the profile resolved for it, and
// invalidates all highlighting.
func (d *Document) SetFileName(name string, profile syntax.Profile) {
	d.fileName = name
	d.profile = profile
	for _, r := range d.rows {
		r.invalidate()
	}
}

// Insert places c at the given position. A line break splits the row in two,
// inserting the tail as a new row immediately below; anything else is a
// single-character insertion. The position must already be clamped to buffer
// geometry.
func (d *Document) Insert(at Position, c rune) {
	if at.Y < 0 || at.Y >= len(d.rows) {
		return
	}
	if c == '\n' {
		rest := d.rows[at.Y].split(at.X)
		d.rows = append(d.rows, nil)
		copy(d.rows[at.Y+2:], d.rows[at.Y+1:])
		d.rows[at.Y+1] = rest
	} else {
		d.rows[at.Y].insertAt(at.X, c)
	}
	d.dirty = true
	d.charCount++
}

// Delete removes the character at the given position. At end of row it merges
// the following row onto this one (the line join); at end of the last row it
// is a no-op.
func (d *Document) Delete(at Position) {
	if at.Y < 0 || at.Y >= len(d.rows) {
		return
	}
	row := d.rows[at.Y]
	switch {
	case at.X < row.Len():
		row.deleteAt(at.X)
	case at.Y+1 < len(d.rows):
		row.appendRow(d.rows[at.Y+1])
		d.rows = append(d.rows[:at.Y+1], d.rows[at.Y+2:]...)
	default:
		return
	}
	d.dirty = true
	d.charCount--
}

// Find scans for the first occurrence of query starting adjacent to from,
// wrapping around the whole buffer exactly once. Matching is case-sensitive.
func (d *Document) Find(query string, from Position, dir Direction) (Position, bool) {
	q := []rune(query)
	if len(q) == 0 || len(d.rows) == 0 {
		return Position{}, false
	}
	if dir == Forward {
		return d.findForward(q, from)
	}
	return d.findBackward(q, from)
}

func (d *Document) findForward(q []rune, from Position) (Position, bool) {
	x, y := from.X+1, from.Y
	if y < 0 || y >= len(d.rows) {
		x, y = 0, 0
	}
	for i := 0; i <= len(d.rows); i++ {
		if idx, ok := d.rows[y].find(q, x); ok {
			return Position{X: idx, Y: y}, true
		}
		y = (y + 1) % len(d.rows)
		x = 0
	}
	return Position{}, false
}

func (d *Document) findBackward(q []rune, from Position) (Position, bool) {
	y := from.Y
	if y < 0 || y >= len(d.rows) {
		y = len(d.rows) - 1
	}
	limit := from.X
	for i := 0; i <= len(d.rows); i++ {
		if idx, ok := d.rows[y].findBackward(q, limit); ok {
			return Position{X: idx, Y: y}, true
		}
		y--
		if y < 0 {
			y = len(d.rows) - 1
		}
		limit = d.rows[y].Len()
	}
	return Position{}, false
}

// Contents returns the persisted form: every row followed by one line break.
func (d *Document) Contents() string {
	var sb strings.Builder
	for _, r := range d.rows {
		sb.WriteString(r.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Save persists the document through the supplied writer (local file or
// remote copy). A failed write leaves dirty and content untouched; success
// clears dirty and refreshes the character-count cache.
func (d *Document) Save(write func(name, content string) error) error {
	if d.fileName == "" {
		return ErrNoFileName
	}
	if err := write(d.fileName, d.Contents()); err != nil {
		return err
	}
	d.dirty = false
	d.charCount = d.countChars()
	return nil
}

// Highlight reclassifies rows up to and including index until, propagating the
// block-comment carry state row to row. Rows whose text and carry-in are
// unchanged are skipped, making repeated calls over an unchanged buffer
// no-ops.
func (d *Document) Highlight(until int) {
	carry := false
	for y := 0; y < len(d.rows) && y <= until; y++ {
		row := d.rows[y]
		if !row.valid || row.carryIn != carry {
			classes, out := syntax.Run(d.profile, row.chars, carry)
			row.classes = classes
			row.carryIn = carry
			row.carryOut = out
			row.valid = true
		}
		carry = row.carryOut
	}
}
