package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/crypto/ssh"

	"quill/internal/buffer"
	"quill/internal/config"
	"quill/internal/remote"
	"quill/internal/syntax"
	"quill/internal/ui"
)

// ============================================================================
// Application states
// ============================================================================

type appState int

const (
	stateLoading appState = iota
	statePassword
	stateHostKey
	stateEditor
)

const transferTimeout = 30 * time.Second

// ============================================================================
// Messages
// ============================================================================

// passwordRequestMsg is sent by the connect worker when the server asks for a
// password or challenge answer.
type passwordRequestMsg struct {
	prompt string
}

// hostKeyRequestMsg is sent by the connect worker when an unknown host key
// needs user approval.
type hostKeyRequestMsg struct {
	host        string
	fingerprint string
}

// openedMsg is sent by the connect worker when the remote open attempt
// finishes, successfully or not.
type openedMsg struct {
	client  *remote.Client
	content string
	err     error
}

// ============================================================================
// Prompt bridge
// ============================================================================

// promptBridge carries messages between the connect worker goroutine and the
// TUI event loop. The worker blocks on responses while the user types into a
// dialog.
type promptBridge struct {
	msgCh      chan tea.Msg          // worker -> TUI
	passwordCh chan passwordResponse // TUI -> worker
	approvalCh chan bool             // TUI -> worker (host key decision)
}

type passwordResponse struct {
	password  string
	cancelled bool
}

func newPromptBridge() *promptBridge {
	return &promptBridge{
		msgCh:      make(chan tea.Msg, 1),
		passwordCh: make(chan passwordResponse),
		approvalCh: make(chan bool),
	}
}

// waitForBridgeMsg returns a command that blocks until the worker sends the
// next message.
func waitForBridgeMsg(bridge *promptBridge) tea.Cmd {
	return func() tea.Msg {
		return <-bridge.msgCh
	}
}

// ============================================================================
// App model
// ============================================================================

type AppModel struct {
	state    appState
	width    int
	height   int
	cfg      *config.Config
	resolver *syntax.Resolver
	target   *remote.Target
	client   *remote.Client
	bridge   *promptBridge
	fileName string

	editor   ui.EditorModel
	password ui.PasswordDialogModel
	hostKey  ui.HostKeyDialogModel
}

func initialModel(args []string) AppModel {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("[AppModel] config load failed: %v", err)
		cfg = &config.Config{}
	}
	resolver := syntax.NewResolver(filetypesPaths(cfg)...)
	m := AppModel{
		state:    stateEditor,
		cfg:      cfg,
		resolver: resolver,
	}

	if len(args) == 0 {
		m.editor = ui.NewEditorModel(buffer.New(), resolver, cfg.SaveExtension(), writeLocalFile)
		return m
	}

	spec := args[0]
	if tgt, ok := remote.ParseTarget(spec, config.LoadSSHConfig()); ok {
		m.state = stateLoading
		m.target = &tgt
		m.fileName = tgt.DisplayName()
		m.bridge = newPromptBridge()
		return m
	}

	m.fileName = spec
	doc, errStatus := openLocal(spec, resolver)
	m.editor = ui.NewEditorModel(doc, resolver, cfg.SaveExtension(), writeLocalFile)
	if errStatus != "" {
		m.editor.SetStatus(errStatus)
	} else {
		rememberRecent(cfg, spec)
	}
	return m
}

// filetypesPaths lists candidate syntax mapping files, most specific first.
func filetypesPaths(cfg *config.Config) []string {
	var paths []string
	if cfg.FiletypesPath != "" {
		paths = append(paths, cfg.FiletypesPath)
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "quill", "filetypes.txt"))
	}
	return paths
}

// openLocal reads a file from disk. A failed open falls back to an empty
// unnamed document with an error status, leaving the editor usable.
func openLocal(path string, resolver *syntax.Resolver) (*buffer.Document, string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[AppModel] open %s: %v", path, err)
		return buffer.New(), fmt.Sprintf("ERR: Could not open file: %s", path)
	}
	return buffer.Load(path, string(data), resolver.Resolve(path)), ""
}

func writeLocalFile(name, content string) error {
	return os.WriteFile(name, []byte(content), 0644)
}

func rememberRecent(cfg *config.Config, name string) {
	cfg.AddRecent(name)
	if err := config.Save(cfg); err != nil {
		log.Printf("[AppModel] config save failed: %v", err)
	}
}

func (m AppModel) Init() tea.Cmd {
	if m.target != nil {
		go connectWorker(*m.target, m.bridge)
		return waitForBridgeMsg(m.bridge)
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.editor.SetDimensions(msg.Width, msg.Height)
		m.password.SetDimensions(msg.Width, msg.Height)
		m.hostKey.SetDimensions(msg.Width, msg.Height)
		return m, nil

	case passwordRequestMsg:
		m.state = statePassword
		m.password = ui.NewPasswordDialog(msg.prompt)
		m.password.SetDimensions(m.width, m.height)
		return m, nil

	case hostKeyRequestMsg:
		m.state = stateHostKey
		m.hostKey = ui.NewHostKeyDialog(msg.host, msg.fingerprint)
		m.hostKey.SetDimensions(m.width, m.height)
		return m, nil

	case ui.PasswordSubmitMsg:
		if m.bridge == nil {
			return m, nil
		}
		m.bridge.passwordCh <- passwordResponse{password: msg.Password, cancelled: msg.Abort}
		m.state = stateLoading
		return m, waitForBridgeMsg(m.bridge)

	case ui.HostKeyResponseMsg:
		if m.bridge == nil {
			return m, nil
		}
		m.bridge.approvalCh <- msg.Accepted
		m.state = stateLoading
		return m, waitForBridgeMsg(m.bridge)

	case openedMsg:
		return m.handleOpened(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.state == stateEditor {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m AppModel) handleOpened(msg openedMsg) (tea.Model, tea.Cmd) {
	m.bridge = nil
	if msg.err != nil {
		log.Printf("[AppModel] remote open failed: %v", msg.err)
		m.editor = ui.NewEditorModel(buffer.New(), m.resolver, m.cfg.SaveExtension(), writeLocalFile)
		m.editor.SetDimensions(m.width, m.height)
		m.editor.SetStatus(fmt.Sprintf("ERR: Could not open file: %s", m.fileName))
		m.state = stateEditor
		return m, nil
	}

	log.Printf("[AppModel] opened %s (%d bytes)", m.fileName, len(msg.content))
	m.client = msg.client
	client := msg.client
	remotePath := m.target.Path
	persist := func(name, content string) error {
		ctx, cancel := context.WithTimeout(context.Background(), transferTimeout)
		defer cancel()
		return client.WriteFile(ctx, remotePath, content)
	}
	doc := buffer.Load(m.fileName, msg.content, m.resolver.Resolve(remotePath))
	m.editor = ui.NewEditorModel(doc, m.resolver, m.cfg.SaveExtension(), persist)
	m.editor.SetDimensions(m.width, m.height)
	m.state = stateEditor
	rememberRecent(m.cfg, m.fileName)
	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC && m.state != stateEditor {
		return m, tea.Quit
	}
	var cmd tea.Cmd
	switch m.state {
	case statePassword:
		m.password, cmd = m.password.Update(msg)
	case stateHostKey:
		m.hostKey, cmd = m.hostKey.Update(msg)
	case stateEditor:
		m.editor, cmd = m.editor.Update(msg)
	case stateLoading:
		// connection in progress, keys are ignored
	}
	return m, cmd
}

func (m AppModel) View() string {
	switch m.state {
	case stateLoading:
		text := loadingStyle.Render(fmt.Sprintf("Connecting to %s ...", m.fileName))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, text)
	case statePassword:
		return m.password.View()
	case stateHostKey:
		return m.hostKey.View()
	default:
		return m.editor.View()
	}
}

// ============================================================================
// Connect worker
// ============================================================================

// acceptedHosts remembers host keys the user approved this session, keyed by
// hostname with the SHA256 fingerprint as value.
var acceptedHosts = map[string]string{}

// connectWorker dials the target and fetches the file in the background,
// pausing on the bridge whenever user input is needed.
func connectWorker(tgt remote.Target, bridge *promptBridge) {
	log.Printf("[Worker] connecting to %s@%s:%s", tgt.User, tgt.Host, tgt.Port)
	methods := buildAuthMethods(tgt, bridge)
	client, err := remote.Dial(tgt.Host, tgt.Port, tgt.User, methods, makeHostKeyCallback(bridge))
	if err != nil {
		bridge.msgCh <- openedMsg{err: err}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), transferTimeout)
	defer cancel()
	content, err := client.ReadFile(ctx, tgt.Path)
	if err != nil {
		client.Close()
		bridge.msgCh <- openedMsg{err: fmt.Errorf("read %s: %w", tgt.Path, err)}
		return
	}
	bridge.msgCh <- openedMsg{client: client, content: content}
}

// buildAuthMethods assembles auth methods in order of preference: the
// configured identity file, the SSH agent, default key files, then
// interactive password and keyboard-interactive prompts over the bridge.
func buildAuthMethods(tgt remote.Target, bridge *promptBridge) []ssh.AuthMethod {
	var methods []ssh.AuthMethod

	if tgt.IdentityFile != "" {
		if am, err := remote.PubKeyAuth(tgt.IdentityFile); err == nil {
			methods = append(methods, am)
		} else {
			log.Printf("[Worker] identity file %s unusable: %v", tgt.IdentityFile, err)
		}
	}
	if am, ok := remote.AgentAuth(); ok {
		methods = append(methods, am)
	}
	for _, keyPath := range remote.DefaultKeyPaths() {
		if keyPath == tgt.IdentityFile {
			continue
		}
		if am, err := remote.PubKeyAuth(keyPath); err == nil {
			methods = append(methods, am)
		}
	}

	ask := func(prompt string) (string, error) {
		bridge.msgCh <- passwordRequestMsg{prompt: prompt}
		resp := <-bridge.passwordCh
		if resp.cancelled {
			return "", fmt.Errorf("authentication cancelled by user")
		}
		return resp.password, nil
	}

	methods = append(methods, remote.PasswordCallbackAuth(func() (string, error) {
		return ask(fmt.Sprintf("Password for %s@%s:", tgt.User, tgt.Host))
	}))
	methods = append(methods, remote.KeyboardInteractiveAuth(
		func(user, instruction string, questions []string, echos []bool) ([]string, error) {
			answers := make([]string, len(questions))
			for i, q := range questions {
				prompt := strings.TrimSpace(q)
				if prompt == "" {
					prompt = fmt.Sprintf("Authentication for %s@%s:", tgt.User, tgt.Host)
				}
				answer, err := ask(prompt)
				if err != nil {
					return nil, err
				}
				answers[i] = answer
			}
			return answers, nil
		}))
	return methods
}

// makeHostKeyCallback verifies host keys against the session cache, asking
// the user over the bridge when a key has not been seen before.
func makeHostKeyCallback(bridge *promptBridge) ssh.HostKeyCallback {
	return func(hostname string, addr net.Addr, key ssh.PublicKey) error {
		fingerprint := ssh.FingerprintSHA256(key)
		if acceptedHosts[hostname] == fingerprint {
			return nil
		}
		bridge.msgCh <- hostKeyRequestMsg{host: hostname, fingerprint: fingerprint}
		if !<-bridge.approvalCh {
			return fmt.Errorf("host key rejected by user")
		}
		acceptedHosts[hostname] = fingerprint
		return nil
	}
}

// ============================================================================
// Entry point
// ============================================================================

// logPath picks a debug log location. Runs from a source checkout log next
// to the working directory; installed binaries log under the XDG state dir.
func logPath() string {
	if cwd, err := os.Getwd(); err == nil {
		if exe, err := os.Executable(); err == nil {
			if strings.HasPrefix(exe, cwd) || strings.Contains(exe, "go-build") {
				return filepath.Join(".logs", "debug.log")
			}
		}
	}
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".logs", "debug.log")
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "quill", "debug.log")
}

func main() {
	lp := logPath()
	if err := os.MkdirAll(filepath.Dir(lp), 0755); err == nil {
		if f, err := tea.LogToFile(lp, "debug"); err == nil {
			defer f.Close()
		}
	}
	log.Printf("=== quill %s starting ===", ui.Version)

	p := tea.NewProgram(initialModel(os.Args[1:]), tea.WithAltScreen())
	final, err := p.Run()
	if app, ok := final.(AppModel); ok && app.client != nil {
		app.client.Close()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// ============================================================================
// Styles
// ============================================================================

var loadingStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#2AA198")).
	Bold(true)
