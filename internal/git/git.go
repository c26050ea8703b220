package git

import (
	"fmt"
	"os/exec"
	"strings"
)

// Exposure reports how git sees the files that may hold a passphrase or
// encrypted passwords
type Exposure struct {
	IsRepo    bool
	Tracked   []string // committed or staged, the passphrase may already be in history
	Unignored []string // not tracked yet, but not covered by .gitignore either
	Ignored   []string
}

// IsGitRepo checks if the working directory is inside a git repository
func IsGitRepo(workDir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = workDir
	return cmd.Run() == nil
}

// IsTracked checks if a file is tracked by git
func IsTracked(workDir, path string) bool {
	cmd := exec.Command("git", "ls-files", "--", path)
	cmd.Dir = workDir
	output, err := cmd.Output()
	if err != nil {
		return false
	}

	return len(strings.TrimSpace(string(output))) > 0
}

// IsIgnored checks if a file is ignored by git (handles all .gitignore files)
func IsIgnored(workDir, path string) bool {
	cmd := exec.Command("git", "check-ignore", "-q", "--", path)
	cmd.Dir = workDir

	// git check-ignore returns exit code 0 if file is ignored
	return cmd.Run() == nil
}

// CheckExposure classifies each of the given files. Empty paths are skipped.
func CheckExposure(workDir string, files []string) *Exposure {
	exposure := &Exposure{}
	if !IsGitRepo(workDir) {
		return exposure
	}
	exposure.IsRepo = true

	for _, file := range files {
		if file == "" {
			continue
		}
		switch {
		case IsTracked(workDir, file):
			exposure.Tracked = append(exposure.Tracked, file)
		case IsIgnored(workDir, file):
			exposure.Ignored = append(exposure.Ignored, file)
		default:
			exposure.Unignored = append(exposure.Unignored, file)
		}
	}

	return exposure
}

// Format renders the exposure for display. Returns "" outside a repository.
func (e *Exposure) Format() string {
	if !e.IsRepo {
		return ""
	}

	var result strings.Builder
	result.WriteString("\nGit:\n")

	for _, file := range e.Tracked {
		result.WriteString(fmt.Sprintf("   error: %s is tracked by git (run: git rm --cached %s)\n", file, file))
	}
	for _, file := range e.Unignored {
		result.WriteString(fmt.Sprintf("   warning: %s not in .gitignore\n", file))
	}
	if len(e.Tracked) == 0 && len(e.Unignored) == 0 {
		if len(e.Ignored) > 0 {
			result.WriteString(fmt.Sprintf("   ok: %d file(s) in .gitignore\n", len(e.Ignored)))
		} else {
			result.WriteString("   ok: nothing to check\n")
		}
	}

	return result.String()
}
