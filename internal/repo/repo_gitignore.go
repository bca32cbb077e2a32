// repo_gitignore.go maintains .noterev/.gitignore.
//
// Stores are committed by default. Init --local appends them under a header
// so the revision history stays on this machine.

package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const localHeader = "# Local stores (not committed)"

const defaultGitignore = `# noterev - ignore local config and SQLite sidecar files
config.yaml
*.db-wal
*.db-shm
`

func writeGitignore(root string) error {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte(defaultGitignore), 0644); err != nil {
			return fmt.Errorf("write gitignore: %w", err)
		}
	}
	return nil
}

// parseGitignore reads a gitignore file and returns its trimmed lines.
func parseGitignore(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return lines, nil
}

// Ignore adds entries to root/.gitignore under the local header, skipping
// ones already present.
func Ignore(root string, entries ...string) error {
	path := filepath.Join(root, ".gitignore")
	lines, err := parseGitignore(path)
	if err != nil {
		return err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	s := string(content)

	added := false
	for _, e := range entries {
		if slices.Contains(lines, e) {
			continue
		}
		if !added && !slices.Contains(lines, localHeader) {
			s += "\n" + localHeader + "\n"
		}
		s += e + "\n"
		added = true
	}
	if !added {
		return nil
	}
	return os.WriteFile(path, []byte(s), 0644)
}

// IsIgnored reports whether entry is listed in root/.gitignore.
func IsIgnored(root, entry string) (bool, error) {
	lines, err := parseGitignore(filepath.Join(root, ".gitignore"))
	if err != nil {
		return false, err
	}
	return slices.Contains(lines, entry), nil
}
