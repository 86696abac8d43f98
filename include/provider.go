package include

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Provider loads include sources by name. from is the canonical path of
// the file doing the including, or "" at the top level. Load returns the
// source bytes and a canonical path used for memoization and cycle
// detection, so two spellings of the same file must canonicalize equal.
type Provider interface {
	Load(name, from string) ([]byte, string, error)
}

// NotFoundError reports an include name no candidate location satisfied.
type NotFoundError struct {
	Name  string
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("include %q not found, tried: %s", e.Name, strings.Join(e.Tried, ", "))
}

// FileProvider resolves include names on the filesystem. Relative names
// are tried against the including file's directory, then each extra
// lookup dir, then the working directory.
type FileProvider struct {
	Dirs []string
}

func (p *FileProvider) Load(name, from string) ([]byte, string, error) {
	var tried []string
	for _, cand := range p.candidates(name, from) {
		abs, err := filepath.Abs(cand)
		if err != nil {
			continue
		}
		d, err := os.ReadFile(abs)
		if err == nil {
			return d, abs, nil
		}
		if !os.IsNotExist(err) {
			return nil, "", err
		}
		tried = append(tried, abs)
	}
	return nil, "", &NotFoundError{Name: name, Tried: tried}
}

func (p *FileProvider) candidates(name, from string) []string {
	if filepath.IsAbs(name) {
		return []string{name}
	}
	var res []string
	if from != "" {
		res = append(res, filepath.Join(filepath.Dir(from), name))
	}
	for _, d := range p.Dirs {
		res = append(res, filepath.Join(d, name))
	}
	res = append(res, name)
	return res
}
