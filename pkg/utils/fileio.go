package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// AtomicWriteFile writes data to a temporary file in the target directory and
// renames it into place, so readers never observe a partially written file
func AtomicWriteFile(filePath string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filePath)
	if err := EnsureDir(dir, 0755); err != nil {
		return err
	}

	file, err := os.CreateTemp(dir, filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	tempFile := file.Name()

	_, writeErr := file.Write(data)
	closeErr := file.Close()

	switch {
	case writeErr != nil:
		err = fmt.Errorf("failed to write to temporary file %s: %w", tempFile, writeErr)
	case closeErr != nil:
		err = fmt.Errorf("failed to close temporary file %s: %w", tempFile, closeErr)
	default:
		if chmodErr := os.Chmod(tempFile, perm); chmodErr != nil {
			err = fmt.Errorf("failed to set permissions on temporary file %s: %w", tempFile, chmodErr)
		} else if renameErr := os.Rename(tempFile, filePath); renameErr != nil {
			err = fmt.Errorf("failed to rename temporary file %s to %s: %w", tempFile, filePath, renameErr)
		}
	}
	if err != nil {
		_ = os.Remove(tempFile)
		return err
	}
	return nil
}

// EnsureDir ensures that a directory exists, creating it if necessary
func EnsureDir(dir string, perm os.FileMode) error {
	if err := os.MkdirAll(dir, perm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
