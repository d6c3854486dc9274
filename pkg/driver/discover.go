package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ccqual/ccqual/internal/config"
	"github.com/ccqual/ccqual/internal/srcloc"
)

// DiscoverFiles walks baseDir for every recognized source file,
// canonicalizing each path so later write-policy checks compare like
// with like regardless of symlinks or relative components.
func DiscoverFiles(baseDir string) ([]string, error) {
	canonBase, err := srcloc.Canonicalize(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolving base dir: %w", err)
	}

	var out []string
	err = filepath.WalkDir(canonBase, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !hasRecognizedExt(path) {
			return nil
		}
		out = append(out, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", baseDir, err)
	}
	return out, nil
}

func hasRecognizedExt(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range config.SourceFileExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ReadFiles reads every path into ctx.Files.
func (c *Context) ReadFiles(paths []string) {
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			c.addError(fmt.Errorf("reading %s: %w", p, err))
			continue
		}
		c.Files[p] = string(data)
	}
}

// isSystemHeader approximates spec.md's "outside the project" test:
// any header not underneath the base directory, which in practice
// means every header this driver did not itself discover by walking
// baseDir (angle-bracket includes resolved by the compiler's own
// search path are never seen by DiscoverFiles at all). baseDir is
// canonicalized first, since the discovered paths it is compared
// against are canonical. A path with a /usr/ component is also
// treated as a system header.
func isSystemHeader(path, baseDir string) bool {
	if canon, err := srcloc.Canonicalize(baseDir); err == nil {
		baseDir = canon
	}
	return !srcloc.IsDescendant(baseDir, path) || strings.Contains(path, string(filepath.Separator)+"usr"+string(filepath.Separator))
}
