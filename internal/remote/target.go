package remote

import (
	osuser "os/user"
	"strings"

	"quill/internal/config"
)

// Target identifies a file on a remote host, parsed from an scp-style
// argument such as "user@host:path" or "alias:path".
type Target struct {
	User         string
	Host         string
	Port         string
	Path         string
	Alias        string // ssh_config alias the target was resolved from, if any
	IdentityFile string // from the matched ssh_config host, if any
}

// DisplayName returns the target in the form it was given, for status lines
// and the recent-files list.
func (t Target) DisplayName() string {
	if t.Alias != "" {
		return t.Alias + ":" + t.Path
	}
	host := t.Host
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if t.User != "" {
		return t.User + "@" + host + ":" + t.Path
	}
	return host + ":" + t.Path
}

// ParseTarget interprets spec as a remote file reference. It follows scp's
// convention: anything with a colon before the first slash is remote. The
// host part is resolved against the given ssh_config hosts, so a bare alias
// picks up its HostName, User, Port and IdentityFile. Returns false when spec
// is a local path.
func ParseTarget(spec string, hosts []config.SSHHost) (Target, bool) {
	user := ""
	rest := spec
	if i := strings.Index(rest, "@"); i >= 0 && !strings.ContainsAny(rest[:i], "/:") {
		user = rest[:i]
		rest = rest[i+1:]
	}

	var host, path string
	if strings.HasPrefix(rest, "[") {
		// Bracketed IPv6 literal, e.g. [::1]:/etc/motd.
		end := strings.Index(rest, "]")
		if end < 0 || end+1 >= len(rest) || rest[end+1] != ':' {
			return Target{}, false
		}
		host = rest[1:end]
		path = rest[end+2:]
	} else {
		i := strings.Index(rest, ":")
		if i <= 0 || strings.Contains(rest[:i], "/") {
			return Target{}, false
		}
		host = rest[:i]
		path = rest[i+1:]
	}
	if host == "" || path == "" {
		return Target{}, false
	}

	t := Target{User: user, Host: host, Port: "22", Path: path}
	if h, ok := config.MatchSSHHost(hosts, host); ok {
		t.Alias = host
		t.Host = h.DisplayHost()
		if t.User == "" {
			t.User = h.User
		}
		if h.Port != "" {
			t.Port = h.Port
		}
		t.IdentityFile = h.IdentityFile
	}
	if t.User == "" {
		if u, err := osuser.Current(); err == nil {
			t.User = u.Username
		}
	}
	return t, true
}
