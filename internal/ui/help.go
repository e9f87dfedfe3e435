package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var helpContent = `
  Quill

  Keys
  Arrows        Move the cursor
  Home/End      Line start / line end
  PgUp/PgDn     Page up / down
  Ctrl+S        Save (prompts for a name on new files)
  Ctrl+F        Incremental search, arrows jump between matches
  Ctrl+E        Open the command prompt
  Ctrl+Q        Quit (press twice to discard unsaved changes)
  Esc           Dismiss the status message / cancel a prompt

  Commands (Ctrl+E)
  w, save       Save the file
  q, quit       Quit, refused while there are unsaved changes
  q!, quit!     Quit and discard unsaved changes
  wq            Save and quit
  <number>      Go to line
  help, h       This overlay

  Press any key to close.
`

var helpStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#2AA198")).
	Padding(1, 3).
	Bold(false)

// RenderHelp returns the help overlay view.
func RenderHelp(width, height int) string {
	box := helpStyle.Render(helpContent)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
