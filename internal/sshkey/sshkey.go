// Package sshkey searches authorized-key material for an operator-named
// entry and stages the matching line for the provisioning call.
package sshkey

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/ssh"
)

// keyTypePrefixes is the closed set of algorithm tags a stored key line
// may begin with.
var keyTypePrefixes = []string{
	"ssh-ed25519",
	"ssh-rsa",
	"ssh-dss",
	"ecdsa-sha2-nistp256",
	"ecdsa-sha2-nistp384",
	"ecdsa-sha2-nistp521",
	"sk-ssh-ed25519@openssh.com",
	"sk-ecdsa-sha2-nistp256@openssh.com",
}

// Match is a single resolved authorized-key line.
type Match struct {
	Line    string
	Comment string
}

// Find scans store line by line and returns the first line that begins
// with a recognized key-type prefix, contains token as a substring, and
// parses as an authorized key. Later matches are ignored: ambiguity is
// resolved by file order. A miss is not an error; the caller falls back
// to password login.
func Find(store io.Reader, token string) (Match, bool, error) {
	scanner := bufio.NewScanner(store)
	// Key lines can exceed bufio's default token size.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !hasKeyTypePrefix(line) || !strings.Contains(line, token) {
			continue
		}

		_, comment, _, _, err := ssh.ParseAuthorizedKey([]byte(line))
		if err != nil {
			continue
		}

		return Match{Line: line, Comment: comment}, true, nil
	}

	if err := scanner.Err(); err != nil {
		return Match{}, false, fmt.Errorf("failed to scan credential store: %w", err)
	}

	return Match{}, false, nil
}

// FindInFile is Find over the authorized-keys file at path. A missing
// store is a miss, not an error.
func FindInFile(path, token string) (Match, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Match{}, false, nil
		}
		return Match{}, false, fmt.Errorf("failed to open credential store: %w", err)
	}
	defer f.Close()

	return Find(f, token)
}

// Stage writes the matched line into a fresh owner-only temp file and
// returns its path. The caller removes it during cleanup.
func (m Match) Stage() (string, error) {
	path := filepath.Join(os.TempDir(), "lxcforge-key-"+uuid.NewString())

	if err := os.WriteFile(path, []byte(m.Line+"\n"), 0600); err != nil {
		return "", fmt.Errorf("failed to stage public key: %w", err)
	}

	return path, nil
}

// Remove deletes a staged file. Safe to call on an already-removed or
// never-created path.
func Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove staged key file: %w", err)
	}
	return nil
}

func hasKeyTypePrefix(line string) bool {
	for _, prefix := range keyTypePrefixes {
		if strings.HasPrefix(line, prefix+" ") {
			return true
		}
	}
	return false
}
