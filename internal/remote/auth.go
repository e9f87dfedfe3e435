package remote

import (
	"net"
	"os"
	"path/filepath"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

// PubKeyAuth returns an AuthMethod for public key authentication from a key file.
func PubKeyAuth(keyPath string) (ssh.AuthMethod, error) {
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, err
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, err
	}
	return ssh.PublicKeys(signer), nil
}

// AgentAuth returns an AuthMethod backed by the running ssh-agent, if any.
func AgentAuth() (ssh.AuthMethod, bool) {
	sock := os.Getenv("SSH_AUTH_SOCK")
	if sock == "" {
		return nil, false
	}
	conn, err := net.Dial("unix", sock)
	if err != nil {
		return nil, false
	}
	ag := agent.NewClient(conn)
	return ssh.PublicKeysCallback(ag.Signers), true
}

// DefaultKeyPaths returns the standard private key locations that exist on disk.
func DefaultKeyPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	var paths []string
	for _, name := range []string{"id_ed25519", "id_rsa"} {
		p := filepath.Join(home, ".ssh", name)
		if _, err := os.Stat(p); err == nil {
			paths = append(paths, p)
		}
	}
	return paths
}

// PasswordCallbackAuth returns an AuthMethod that asks fn for a password when
// the server requests one, retrying up to three times.
func PasswordCallbackAuth(fn func() (string, error)) ssh.AuthMethod {
	return ssh.RetryableAuthMethod(ssh.PasswordCallback(fn), 3)
}

// KeyboardInteractiveAuth returns an AuthMethod for server-driven challenges
// such as one-time codes.
func KeyboardInteractiveAuth(fn ssh.KeyboardInteractiveChallenge) ssh.AuthMethod {
	return ssh.RetryableAuthMethod(ssh.KeyboardInteractive(fn), 3)
}
