package compiler

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// FileIncluder gives the preprocessor access to source files. The
// preprocessor never touches a filesystem itself.
type FileIncluder interface {
	// ReadFile returns the contents of a resolved path.
	ReadFile(path string) ([]byte, error)
	// ResolveInclude turns the quoted path of an #include found in current
	// into a concrete path.
	ResolveInclude(current, quoted string) string
}

// OSIncluder reads sources from the host filesystem.
type OSIncluder struct {
	// IncludeDirs are searched, in order, when the include is not found
	// relative to the including file.
	IncludeDirs []string
}

// ReadFile implements FileIncluder.
func (o *OSIncluder) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return data, nil
}

// ResolveInclude implements FileIncluder. Priority 1 is relative to the
// including file's directory, then each include directory. When nothing
// exists the relative candidate is returned so the read error names it.
func (o *OSIncluder) ResolveInclude(current, quoted string) string {
	if filepath.IsAbs(quoted) {
		return quoted
	}
	candidate := filepath.Join(filepath.Dir(current), quoted)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	for _, dir := range o.IncludeDirs {
		p := filepath.Join(dir, quoted)
		if _, err := os.Stat(p); err == nil {
			logrus.Debugf("resolved include %q via include dir %s", quoted, dir)
			return p
		}
	}
	return candidate
}
