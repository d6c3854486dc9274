package driver

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ccqual/ccqual/internal/config"
	"github.com/ccqual/ccqual/internal/srcloc"
)

// WritePolicy implements spec.md §6's file-write rules: every
// rewritten file is written next to its source with the postfix
// inserted before the extension, unless postfix is the stdout
// sentinel "-", in which case every file's rewritten text is written
// to stdout instead, each preceded by a path header. A rewritten path
// that resolves outside baseDir (a header reached through a symlink
// escaping the project) is refused rather than written, since this
// program was only ever asked to rewrite baseDir's own tree.
func WritePolicy(rendered map[string]string, baseDir, postfix string, stdout io.Writer) error {
	canonBase, err := srcloc.Canonicalize(baseDir)
	if err != nil {
		return fmt.Errorf("resolving base dir: %w", err)
	}

	paths := make([]string, 0, len(rendered))
	for p := range rendered {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if !srcloc.IsDescendant(canonBase, path) {
			return fmt.Errorf("refusing to write %s: escapes base dir %s", path, baseDir)
		}
		if postfix == config.StdoutPostfix {
			fmt.Fprintf(stdout, "==> %s\n", path)
			fmt.Fprint(stdout, rendered[path])
			continue
		}
		outPath := withPostfix(path, postfix)
		if err := os.WriteFile(outPath, []byte(rendered[path]), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
	}
	return nil
}

func withPostfix(path, postfix string) string {
	if postfix == "" {
		postfix = config.DefaultOutputPostfix
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s.%s%s", base, postfix, ext)
}
