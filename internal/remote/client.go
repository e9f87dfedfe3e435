package remote

import (
	"bytes"
	"context"
	"net"
	"strings"
	"time"

	"github.com/bramvdbogaerde/go-scp"
	"golang.org/x/crypto/ssh"
)

// Client wraps an SSH connection used to read and write single files over SCP.
type Client struct {
	client  *ssh.Client
	address string
}

// Dial connects to host:port with the given auth methods.
func Dial(host, port, username string, authMethods []ssh.AuthMethod, hkCallback ssh.HostKeyCallback) (*Client, error) {
	cfg := &ssh.ClientConfig{
		User:            username,
		Auth:            authMethods,
		HostKeyCallback: hkCallback,
		Timeout:         10 * time.Second,
	}
	address := net.JoinHostPort(host, port)
	client, err := ssh.Dial("tcp", address, cfg)
	if err != nil {
		return nil, err
	}
	return &Client{client: client, address: address}, nil
}

// Close closes the SSH connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// Address returns the host:port the client dialed.
func (c *Client) Address() string {
	return c.address
}

// ReadFile downloads the remote file at path and returns its contents.
func (c *Client) ReadFile(ctx context.Context, path string) (string, error) {
	scpClient, err := scp.NewClientBySSH(c.client)
	if err != nil {
		return "", err
	}
	defer scpClient.Close()

	var buf bytes.Buffer
	if err := scpClient.CopyFromRemotePassThru(ctx, &buf, path, nil); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteFile uploads content to the remote path with 0644 permissions.
func (c *Client) WriteFile(ctx context.Context, path, content string) error {
	scpClient, err := scp.NewClientBySSH(c.client)
	if err != nil {
		return err
	}
	defer scpClient.Close()

	return scpClient.CopyFile(ctx, strings.NewReader(content), path, "0644")
}
