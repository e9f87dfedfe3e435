package ui

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"quill/internal/buffer"
	"quill/internal/syntax"
)

// Version is shown on the welcome screen.
const Version = "0.4.0"

const statusTimeout = 5 * time.Second

// statusTickMsg triggers a re-render so an expired status message disappears.
type statusTickMsg struct{}

// promptKind selects what the prompt input is collecting.
type promptKind int

const (
	promptCommand  promptKind = iota
	promptFileName            // save-as file name
	promptFormat              // file extension for a name without one
)

// pendingSave records what should happen once a save completes.
type pendingSave int

const (
	saveOnly pendingSave = iota
	saveAndQuit
)

// promptState is the active prompt, nil when the editor is in plain edit mode.
type promptState struct {
	input textinput.Model
	kind  promptKind
	after pendingSave
	name  string // file name waiting for an extension
}

// searchState is the active incremental search, nil outside search mode.
type searchState struct {
	input     textinput.Model
	origin    buffer.Position // cursor position when the search started
	direction buffer.Direction
	found     bool
}

// EditorModel is the keystroke-driven editor over a single document.
type EditorModel struct {
	doc    *buffer.Document
	cursor buffer.Position
	offset buffer.Position
	width  int
	height int

	prompt   *promptState
	search   *searchState
	showHelp bool

	status   string
	statusAt time.Time

	quitConfirm bool

	resolver   *syntax.Resolver
	defaultExt string
	persist    func(name, content string) error
}

// NewEditorModel creates an editor over doc. persist is called with the file
// name and full contents whenever the document is saved.
func NewEditorModel(doc *buffer.Document, resolver *syntax.Resolver, defaultExt string, persist func(name, content string) error) EditorModel {
	m := EditorModel{
		doc:        doc,
		resolver:   resolver,
		defaultExt: defaultExt,
		persist:    persist,
	}
	m.status = "HELP: Ctrl-F = find | Ctrl-S = save | Ctrl-E = command | Ctrl-Q = quit"
	m.statusAt = time.Now()
	return m
}

// SetDimensions sets the editor's display dimensions.
func (m *EditorModel) SetDimensions(width, height int) {
	m.width = width
	m.height = height
}

// Cursor returns the current cursor position in document coordinates.
func (m EditorModel) Cursor() buffer.Position { return m.cursor }

// Document returns the document being edited.
func (m EditorModel) Document() *buffer.Document { return m.doc }

func (m EditorModel) editorHeight() int {
	h := m.height - 2 // status bar + message bar
	if h < 1 {
		h = 1
	}
	return h
}

// SetStatus replaces the message bar text. The message stays until another
// status overwrites it or the expiry timer fires.
func (m *EditorModel) SetStatus(msg string) {
	m.status = msg
	m.statusAt = time.Now()
}

func (m *EditorModel) setStatus(msg string) tea.Cmd {
	m.status = msg
	m.statusAt = time.Now()
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg { return statusTickMsg{} })
}

// Update handles messages for the editor.
func (m EditorModel) Update(msg tea.Msg) (EditorModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statusTickMsg:
		return m, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		switch {
		case m.showHelp:
			m.showHelp = false
		case m.prompt != nil:
			cmd = m.updatePrompt(msg)
		case m.search != nil:
			cmd = m.updateSearch(msg)
		default:
			cmd = m.updateEdit(msg)
		}
		m.scroll()
		return m, cmd
	}
	return m, nil
}

// --- Edit mode ----------------------------------------------------------

func (m *EditorModel) updateEdit(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key != "ctrl+q" {
		m.quitConfirm = false
	}

	switch key {
	case "ctrl+q":
		if m.doc.Dirty() && !m.quitConfirm {
			m.quitConfirm = true
			return m.setStatus("WARNING! File has unsaved changes. Press Ctrl-Q again to quit.")
		}
		return tea.Quit

	case "ctrl+s":
		return m.startSave(saveOnly)

	case "ctrl+f":
		m.startSearch()
		return nil

	case "ctrl+e":
		m.startPrompt(promptCommand, saveOnly, "Command: ")
		return nil

	case "up", "down", "left", "right", "home", "end", "pgup", "pgdown":
		m.moveCursor(key)

	case "enter":
		m.insertRune('\n')

	case "tab":
		m.insertRune('\t')

	case "backspace":
		if m.cursor.X > 0 || m.cursor.Y > 0 {
			m.moveCursor("left")
			m.doc.Delete(m.cursor)
		}

	case "delete":
		m.doc.Delete(m.cursor)

	case "esc":
		m.status = ""

	default:
		if len(msg.Runes) > 0 && !msg.Alt {
			for _, r := range msg.Runes {
				m.insertRune(r)
			}
		}
	}
	return nil
}

func (m *EditorModel) insertRune(r rune) {
	m.doc.Insert(m.cursor, r)
	if r == '\n' {
		m.cursor.X = 0
		m.cursor.Y++
	} else {
		m.cursor.X++
	}
}

// moveCursor applies a movement key, keeping the cursor on a valid position
// within the document.
func (m *EditorModel) moveCursor(key string) {
	x, y := m.cursor.X, m.cursor.Y

	switch key {
	case "up":
		if y > 0 {
			y--
		}
	case "down":
		if y < m.doc.Len()-1 {
			y++
		}
	case "left":
		if x > 0 {
			x--
		} else if y > 0 {
			y--
			x = m.doc.Row(y).Len()
		}
	case "right":
		if row := m.doc.Row(y); row != nil && x < row.Len() {
			x++
		} else if y < m.doc.Len()-1 {
			y++
			x = 0
		}
	case "home":
		x = 0
	case "end":
		if row := m.doc.Row(y); row != nil {
			x = row.Len()
		}
	case "pgup":
		h := m.editorHeight()
		if y > h {
			y -= h
		} else {
			y = 0
		}
	case "pgdown":
		y += m.editorHeight()
		if max := m.doc.Len() - 1; y > max {
			y = max
		}
	}

	// A vertical move can land past the end of a shorter row.
	if row := m.doc.Row(y); row != nil && x > row.Len() {
		x = row.Len()
	}
	m.cursor = buffer.Position{X: x, Y: y}
}

// scroll keeps the cursor inside the visible window.
func (m *EditorModel) scroll() {
	h := m.editorHeight()
	w := m.width
	if w < 1 {
		w = 1
	}
	if m.cursor.Y < m.offset.Y {
		m.offset.Y = m.cursor.Y
	}
	if m.cursor.Y >= m.offset.Y+h {
		m.offset.Y = m.cursor.Y - h + 1
	}
	if m.cursor.X < m.offset.X {
		m.offset.X = m.cursor.X
	}
	if m.cursor.X >= m.offset.X+w {
		m.offset.X = m.cursor.X - w + 1
	}
}

// --- Saving -------------------------------------------------------------

func (m *EditorModel) startSave(after pendingSave) tea.Cmd {
	if m.doc.FileName() == "" {
		m.startPrompt(promptFileName, after, "Save as: ")
		return nil
	}
	return m.doSave(after)
}

func (m *EditorModel) doSave(after pendingSave) tea.Cmd {
	name := m.doc.FileName()
	if err := m.doc.Save(m.persist); err != nil {
		log.Printf("[Editor] save %s: %v", name, err)
		return m.setStatus("Error writing file: " + err.Error())
	}
	log.Printf("[Editor] saved %s", name)
	if after == saveAndQuit {
		return tea.Quit
	}
	return m.setStatus("File saved successfully.")
}

// --- Prompt mode --------------------------------------------------------

func (m *EditorModel) startPrompt(kind promptKind, after pendingSave, label string) {
	ti := textinput.New()
	ti.Prompt = label
	ti.CharLimit = 256
	ti.Focus()
	m.prompt = &promptState{input: ti, kind: kind, after: after}
}

func (m *EditorModel) updatePrompt(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		kind := m.prompt.kind
		m.prompt = nil
		if kind != promptCommand {
			return m.setStatus("Save aborted.")
		}
		return nil

	case "enter":
		ps := m.prompt
		m.prompt = nil
		val := strings.TrimSpace(ps.input.Value())
		switch ps.kind {
		case promptCommand:
			return m.runCommand(val)

		case promptFileName:
			if val == "" {
				return m.setStatus("Save aborted.")
			}
			if filepath.Ext(val) != "" {
				m.doc.SetFileName(val, m.resolver.Resolve(val))
				return m.doSave(ps.after)
			}
			// No extension yet; ask for the format.
			m.startPrompt(promptFormat, ps.after, fmt.Sprintf("File extension (%s): ", m.defaultExt))
			m.prompt.name = val
			return nil

		case promptFormat:
			ext := strings.TrimPrefix(val, ".")
			if ext == "" {
				ext = m.defaultExt
			}
			name := ps.name + "." + ext
			m.doc.SetFileName(name, m.resolver.Resolve(name))
			return m.doSave(ps.after)
		}
		return nil

	default:
		var cmd tea.Cmd
		m.prompt.input, cmd = m.prompt.input.Update(msg)
		return cmd
	}
}

func (m *EditorModel) runCommand(cmd string) tea.Cmd {
	switch cmd {
	case "":
		return nil
	case "w", "save":
		return m.startSave(saveOnly)
	case "q", "quit":
		if m.doc.Dirty() {
			return m.setStatus("Unsaved changes! Use q! to force or wq to save and quit.")
		}
		return tea.Quit
	case "q!", "quit!":
		return tea.Quit
	case "wq":
		return m.startSave(saveAndQuit)
	case "help", "h":
		m.showHelp = true
		return nil
	default:
		// A bare number jumps to that line.
		var lineNum int
		if _, err := fmt.Sscanf(cmd, "%d", &lineNum); err == nil && lineNum > 0 && cmd == fmt.Sprintf("%d", lineNum) {
			if lineNum > m.doc.Len() {
				lineNum = m.doc.Len()
			}
			m.cursor = buffer.Position{X: 0, Y: lineNum - 1}
			return nil
		}
		return m.setStatus("Unknown command: " + cmd)
	}
}

// --- Search mode --------------------------------------------------------

func (m *EditorModel) startSearch() {
	ti := textinput.New()
	ti.Prompt = "Search (ESC to cancel, arrows to navigate): "
	ti.CharLimit = 256
	ti.Focus()
	m.search = &searchState{input: ti, origin: m.cursor, direction: buffer.Forward}
}

func (m *EditorModel) updateSearch(msg tea.KeyMsg) tea.Cmd {
	s := m.search
	switch msg.String() {
	case "esc":
		m.cursor = s.origin
		m.search = nil
		return nil

	case "enter":
		m.search = nil
		return nil

	case "right", "down":
		s.direction = buffer.Forward
		m.advanceSearch()
		return nil

	case "left", "up":
		s.direction = buffer.Backward
		m.advanceSearch()
		return nil

	default:
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		m.runSearch()
		return cmd
	}
}

// runSearch restarts the search from the frozen origin so that edits to the
// query do not drift the starting point.
func (m *EditorModel) runSearch() {
	s := m.search
	query := s.input.Value()
	if query == "" {
		s.found = false
		m.cursor = s.origin
		return
	}
	// Offset by one so a match at the origin itself is still found.
	from := s.origin
	if s.direction == buffer.Forward {
		from.X--
	} else {
		from.X++
	}
	if pos, ok := m.doc.Find(query, from, s.direction); ok {
		s.found = true
		m.cursor = pos
	} else {
		s.found = false
		m.cursor = s.origin
	}
}

// advanceSearch moves to the next match relative to the current cursor.
func (m *EditorModel) advanceSearch() {
	s := m.search
	query := s.input.Value()
	if query == "" {
		return
	}
	if pos, ok := m.doc.Find(query, m.cursor, s.direction); ok {
		s.found = true
		m.cursor = pos
	}
}

// --- View ---------------------------------------------------------------

func (m EditorModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return RenderHelp(m.width, m.height)
	}

	h := m.editorHeight()
	m.doc.Highlight(m.offset.Y + h)

	var rows []string
	for i := 0; i < h; i++ {
		fileRow := m.offset.Y + i
		row := m.doc.Row(fileRow)
		if row == nil {
			if m.doc.IsEmpty() && m.doc.FileName() == "" && !m.doc.Dirty() && i == h/3 {
				rows = append(rows, m.welcomeLine())
			} else {
				rows = append(rows, tildeStyle.Render("~"))
			}
			continue
		}
		rows = append(rows, m.renderRow(fileRow, row))
	}

	body := strings.Join(rows, "\n")
	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusBar(), m.renderMessageBar())
}

func (m EditorModel) welcomeLine() string {
	msg := fmt.Sprintf("Quill editor -- version %s", Version)
	if len(msg) > m.width {
		msg = msg[:m.width]
	}
	pad := (m.width - len(msg)) / 2
	if pad > 0 {
		msg = tildeStyle.Render("~") + strings.Repeat(" ", pad-1) + msg
	}
	return msg
}

// renderRow renders one document row with syntax colors, the search match
// overlay, and the cursor cell.
func (m EditorModel) renderRow(fileRow int, row *buffer.Row) string {
	chars := row.Chars()
	classes := row.Classes()

	// Matches of the live search query shadow the lexical classes.
	var matchCols map[int]bool
	if m.search != nil {
		if q := []rune(m.search.input.Value()); len(q) > 0 {
			matchCols = map[int]bool{}
			for _, start := range findAll(chars, q) {
				for j := start; j < start+len(q); j++ {
					matchCols[j] = true
				}
			}
		}
	}

	var sb strings.Builder
	for x := m.offset.X; x < len(chars) && x-m.offset.X < m.width; x++ {
		ch := string(chars[x])
		if chars[x] == '\t' {
			ch = " "
		}

		switch {
		case fileRow == m.cursor.Y && x == m.cursor.X && m.prompt == nil:
			sb.WriteString(cursorStyle.Render(ch))
		case matchCols[x]:
			sb.WriteString(classStyle(syntax.Match).Render(ch))
		case x < len(classes) && classes[x] != syntax.None:
			sb.WriteString(classStyle(classes[x]).Render(ch))
		default:
			sb.WriteString(ch)
		}
	}
	// Cursor past the last character.
	if fileRow == m.cursor.Y && m.prompt == nil && m.cursor.X >= len(chars) && m.cursor.X-m.offset.X < m.width {
		sb.WriteString(cursorStyle.Render(" "))
	}
	return sb.String()
}

// findAll returns the start indices of every occurrence of q in chars.
func findAll(chars, q []rune) []int {
	var starts []int
	for i := 0; i+len(q) <= len(chars); i++ {
		match := true
		for j := range q {
			if chars[i+j] != q[j] {
				match = false
				break
			}
		}
		if match {
			starts = append(starts, i)
		}
	}
	return starts
}

func (m EditorModel) renderStatusBar() string {
	name := m.doc.FileName()
	if name == "" {
		name = "[No Name]"
	}
	if len(name) > 20 {
		name = name[:20]
	}
	modified := ""
	if m.doc.Dirty() {
		modified = " (modified)"
	}
	left := fmt.Sprintf(" %s - %d lines%s", name, m.doc.Len(), modified)
	right := fmt.Sprintf("%s | %d/%d | %d chars ",
		m.doc.FileType(), m.cursor.Y+1, m.doc.Len(), m.doc.CharCount())

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m EditorModel) renderMessageBar() string {
	switch {
	case m.prompt != nil:
		return m.prompt.input.View()
	case m.search != nil:
		line := m.search.input.View()
		if !m.search.found && m.search.input.Value() != "" {
			line += notFoundStyle.Render("  (not found)")
		}
		return line
	case m.status != "" && time.Since(m.statusAt) < statusTimeout:
		if len(m.status) > m.width {
			return m.status[:m.width]
		}
		return m.status
	}
	return ""
}

// classStyle maps a highlight class to its style.
func classStyle(c syntax.Class) lipgloss.Style {
	switch c {
	case syntax.Number:
		return numberStyle
	case syntax.Match:
		return matchStyle
	case syntax.String:
		return stringStyle
	case syntax.Character:
		return characterStyle
	case syntax.Comment, syntax.MultilineComment:
		return commentStyle
	case syntax.PrimaryKeyword:
		return primaryKeywordStyle
	case syntax.SecondaryKeyword:
		return secondaryKeywordStyle
	}
	return lipgloss.NewStyle()
}

// Styles for the editor.
var (
	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#EFEFEF")).
			Foreground(lipgloss.Color("#3F3F3F"))

	cursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#FFFFFF")).
			Foreground(lipgloss.Color("#000000"))

	tildeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#444444"))

	notFoundStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D70000"))

	numberStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("#DCA3A3"))
	matchStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("#268BD2")).Reverse(true)
	stringStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("#D33682"))
	characterStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C71C4"))
	commentStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#859900"))
	primaryKeywordStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#B58900"))
	secondaryKeywordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2AA198"))
)
