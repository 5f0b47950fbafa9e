// Package vault provides read access to a directory tree of markdown notes.
// It walks the tree for markdown files, reads their contents, and can watch
// the tree for changes so callers can re-run a refresh cycle.
//
// Example usage:
//
//	v, err := vault.Open("notes")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	files, err := v.Files(ctx)
//	for _, name := range files {
//	    text, err := v.ReadFile(name)
//	    // ...
//	}
package vault

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Vault is a markdown notes directory.
type Vault struct {
	root string
}

// Open resolves root and verifies it is a directory.
func Open(root string) (*Vault, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault %s is not a directory", root)
	}

	return &Vault{root: abs}, nil
}

// Root returns the absolute path of the vault directory.
func (v *Vault) Root() string {
	return v.root
}

// Files walks the vault and returns the paths of all markdown files,
// relative to the vault root and sorted for deterministic scan order.
// Dot-directories (.obsidian, .git, ...) are skipped.
func (v *Vault) Files(ctx context.Context) ([]string, error) {
	var files []string

	err := filepath.WalkDir(v.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Check for cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d.IsDir() {
			if path != v.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.EqualFold(filepath.Ext(d.Name()), ".md") {
			rel, err := filepath.Rel(v.root, path)
			if err != nil {
				return err
			}
			files = append(files, rel)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan vault: %w", err)
	}

	sort.Strings(files)
	return files, nil
}

// ReadFile returns the contents of a file by its vault-relative path.
func (v *Vault) ReadFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(v.root, name))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return string(data), nil
}
