package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// save writes data next to a temporary name in destDir and renames it to
// srcName with a .png extension once fully flushed.
func save(data []byte, destDir, srcName string) (err error) {
	destName := strings.TrimSuffix(srcName, filepath.Ext(srcName)) + ".png"

	outFile, err := os.CreateTemp(destDir, destName+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary destination %q: %w", destName, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil && err == nil {
			err = fmt.Errorf("could not flush temporary destination %q: %w", destName, defErr)
		}
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", destName, defErr)
		}

		if canRename && err == nil {
			if defErr := os.Rename(outFile.Name(), filepath.Join(destDir, destName)); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", destName, defErr)
			}
		}
		if err != nil {
			_ = os.Remove(outFile.Name())
		}
	}()

	n, err := outFile.Write(data)
	if err != nil {
		return fmt.Errorf("could not write destination %q: %w", destName, err)
	} else if n != len(data) {
		return fmt.Errorf("wrote only %d/%d bytes to %q", n, len(data), destName)
	}

	canRename = true
	return nil
}
