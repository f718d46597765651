package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/RGgreenbhm/HomeTeam-Navigator-sub003/internal/bundle"
)

// sourceExtensions are the file types that contribute to a bundle and
// therefore to its cache key
var sourceExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs", ".json", ".css"}

// HashProfile creates a unique hash for a profile and the source tree it
// builds from. The hash is based on:
// - Content of every source file under the profile's source root
// - Entry point, platform, node target and module format
// - Externalized dependencies (sorted for consistency)
// - Bundle, sourcemap and minify flags
func HashProfile(dir string, p bundle.Profile) (string, error) {
	h := sha256.New()

	// Hash the source tree (sorted walk for consistency)
	files, err := collectSourceFiles(filepath.Join(dir, p.SourceRoot))
	if err != nil {
		return "", err
	}

	for _, file := range files {
		rel, err := filepath.Rel(dir, file)
		if err != nil {
			rel = file
		}

		h.Write([]byte(filepath.ToSlash(rel)))

		fileHash, err := HashFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to hash source file: %w", err)
		}

		h.Write([]byte(fileHash))
	}

	// Hash profile settings
	h.Write([]byte(p.EntryPoint))
	h.Write([]byte(p.Platform))
	h.Write([]byte(p.NodeTarget))
	h.Write([]byte(p.Format))

	sortedExternal := make([]string, len(p.External))
	copy(sortedExternal, p.External)
	sort.Strings(sortedExternal)
	h.Write([]byte(strings.Join(sortedExternal, "|")))

	h.Write([]byte(strconv.FormatBool(p.Bundle)))
	h.Write([]byte(strconv.FormatBool(p.Sourcemap)))
	h.Write([]byte(strconv.FormatBool(p.Minify)))

	return hex.EncodeToString(h.Sum(nil)), nil
}

// collectSourceFiles returns the sorted list of source files under root
func collectSourceFiles(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		if isSourceFile(path) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk source root: %w", err)
	}

	sort.Strings(files)

	return files, nil
}

func isSourceFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))

	for _, s := range sourceExtensions {
		if ext == s {
			return true
		}
	}

	return false
}

// HashFile creates a hash of a file's content
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
