package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// NotebookExt is the file extension searched for inside directories.
const NotebookExt = ".ipynb"

// ExpandPaths turns file, directory and glob arguments into a list of
// notebook files.
//
//   - A glob (containing *, ?, [ or {) expands with doublestar, so ** crosses
//     directories. A glob that matches nothing is an error.
//   - A directory expands to every *.ipynb file beneath it.
//   - Anything else must be an existing file.
//
// Each glob's matches are sorted. A file named twice is listed once, at its
// first position.
func ExpandPaths(args []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			files = append(files, clean)
		}
	}

	for _, arg := range args {
		if isGlob(arg) {
			if !doublestar.ValidatePattern(filepath.ToSlash(arg)) {
				return nil, fmt.Errorf("invalid glob pattern %q", arg)
			}
			matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("expand %q: %w", arg, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no files match %q", arg)
			}
			sort.Strings(matches)
			for _, m := range matches {
				add(m)
			}
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}

		pattern := filepath.Join(arg, "**", "*"+NotebookExt)
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("scan directory %s: %w", arg, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}

	return files, nil
}

func isGlob(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}
