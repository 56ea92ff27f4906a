package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shibukawa/hxo"
)

// ComponentExt is the file extension of single-file components.
const ComponentExt = ".hxo"

// sourceFile is a component to compile and its path relative to the input root.
type sourceFile struct {
	Path string
	Rel  string
}

// collectFiles expands inputs into component files. Directories are walked
// recursively and keep their hierarchy in Rel; plain files use their base name.
func collectFiles(inputs []string) ([]sourceFile, error) {
	var files []sourceFile

	seen := map[string]bool{}
	add := func(path, rel string) {
		if seen[path] {
			return
		}

		seen[path] = true
		files = append(files, sourceFile{Path: path, Rel: rel})
	}

	for _, input := range inputs {
		if !fileExists(input) {
			return nil, fmt.Errorf("%w: %s", ErrInputFileNotExist, input)
		}

		if !isDirectory(input) {
			add(input, filepath.Base(input))
			continue
		}

		var found []sourceFile

		err := filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if path != input && (strings.HasPrefix(d.Name(), ".") || d.Name() == "node_modules") {
					return filepath.SkipDir
				}

				return nil
			}

			if filepath.Ext(path) != ComponentExt {
				return nil
			}

			rel, err := filepath.Rel(input, path)
			if err != nil {
				return err
			}

			found = append(found, sourceFile{Path: path, Rel: rel})

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", input, err)
		}

		sort.Slice(found, func(i, j int) bool { return found[i].Rel < found[j].Rel })

		for _, f := range found {
			add(f.Path, f.Rel)
		}
	}

	if len(files) == 0 {
		return nil, hxo.ErrNoInputFiles
	}

	return files, nil
}

// ensureDir creates a directory if it doesn't exist
func ensureDir(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, 0o755)
	}

	return nil
}

// writeFile writes content to a file, creating directories if necessary
func writeFile(path, content string) error {
	dir := filepath.Dir(path)
	if err := ensureDir(dir); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	return os.WriteFile(path, []byte(content), 0o644)
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// isDirectory checks if a path is a directory
func isDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.IsDir()
}
