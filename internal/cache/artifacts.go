package cache

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/RGgreenbhm/HomeTeam-Navigator-sub003/internal/bundle"
)

// CollectOutputs returns the artifacts a profile's build produced,
// relative to the project dir: the outfile plus its source map if the
// bundler emitted one.
func CollectOutputs(dir string, p bundle.Profile) ([]string, error) {
	outputs := []string{}

	if _, err := os.Stat(filepath.Join(dir, p.Outfile)); err != nil {
		return nil, fmt.Errorf("missing bundle output %s: %w", p.Outfile, err)
	}

	outputs = append(outputs, p.Outfile)

	mapFile := p.Outfile + ".map"
	if _, err := os.Stat(filepath.Join(dir, mapFile)); err == nil {
		outputs = append(outputs, mapFile)
	}

	return outputs, nil
}

// CopyArtifacts copies bundle outputs from the project dir to the cache
func CopyArtifacts(sourceDir, destDir string, outputs []string) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	for _, output := range outputs {
		src := filepath.Join(sourceDir, output)
		dst := filepath.Join(destDir, output)

		if err := copyFile(src, dst); err != nil {
			return fmt.Errorf("failed to copy %s: %w", output, err)
		}
	}

	return nil
}

// RestoreArtifacts copies cached outputs back to the project dir
func RestoreArtifacts(cacheDir, destDir string, outputs []string) error {
	for _, output := range outputs {
		src := filepath.Join(cacheDir, output)
		dst := filepath.Join(destDir, output)

		if err := copyFile(src, dst); err != nil {
			return fmt.Errorf("failed to restore %s: %w", output, err)
		}
	}

	return nil
}

// copyFile copies a file from src to dst
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}

	defer srcFile.Close()

	// Create parent directory if needed
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}

	// Preserve file permissions
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	return os.Chmod(dst, srcInfo.Mode())
}
