package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PasswordSubmitMsg carries the password entered in the dialog.
// Abort is true when the user cancelled instead.
type PasswordSubmitMsg struct {
	Password string
	Abort    bool
}

// HostKeyResponseMsg carries the user's decision on an unknown host key.
type HostKeyResponseMsg struct {
	Accepted bool
}

// PasswordDialogModel asks for an SSH password.
type PasswordDialogModel struct {
	input  textinput.Model
	prompt string
	width  int
	height int
}

// NewPasswordDialog creates a password dialog with the given prompt line,
// e.g. "Password for admin@web01:".
func NewPasswordDialog(prompt string) PasswordDialogModel {
	ti := textinput.New()
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '*'
	ti.CharLimit = 128
	ti.Focus()
	return PasswordDialogModel{input: ti, prompt: prompt}
}

// SetDimensions sets the dialog's display dimensions.
func (m *PasswordDialogModel) SetDimensions(width, height int) {
	m.width = width
	m.height = height
}

// Update handles key input for the password dialog.
func (m PasswordDialogModel) Update(msg tea.Msg) (PasswordDialogModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			pw := m.input.Value()
			return m, func() tea.Msg { return PasswordSubmitMsg{Password: pw} }
		case "esc", "ctrl+c":
			return m, func() tea.Msg { return PasswordSubmitMsg{Abort: true} }
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the password dialog centered on screen.
func (m PasswordDialogModel) View() string {
	content := m.prompt + "\n\n" + m.input.View() + "\n\n" +
		dialogHintStyle.Render("Enter to submit, Esc to cancel")
	box := dialogBoxStyle.Render(content)
	if m.width == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// HostKeyDialogModel asks whether to trust an unknown host key.
type HostKeyDialogModel struct {
	host        string
	fingerprint string
	width       int
	height      int
}

// NewHostKeyDialog creates a trust-this-host dialog.
func NewHostKeyDialog(host, fingerprint string) HostKeyDialogModel {
	return HostKeyDialogModel{host: host, fingerprint: fingerprint}
}

// SetDimensions sets the dialog's display dimensions.
func (m *HostKeyDialogModel) SetDimensions(width, height int) {
	m.width = width
	m.height = height
}

// Update handles key input for the host key dialog.
func (m HostKeyDialogModel) Update(msg tea.Msg) (HostKeyDialogModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "y", "Y":
			return m, func() tea.Msg { return HostKeyResponseMsg{Accepted: true} }
		case "n", "N", "esc", "ctrl+c":
			return m, func() tea.Msg { return HostKeyResponseMsg{Accepted: false} }
		}
	}
	return m, nil
}

// View renders the host key dialog centered on screen.
func (m HostKeyDialogModel) View() string {
	content := fmt.Sprintf("The authenticity of host %s can't be established.\n\nFingerprint:\n  %s\n\n", m.host, m.fingerprint) +
		dialogHintStyle.Render("Trust this host? (y/n)")
	box := dialogBoxStyle.Render(content)
	if m.width == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

var (
	dialogBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#B58900")).
			Padding(1, 3)

	dialogHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)
