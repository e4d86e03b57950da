package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// CopyFile streams src to dst using io.Copy with default permissions (0o644).
func CopyFile(src, dst string) error {
	return CopyFileMode(src, dst, 0o644)
}

// CopyFileMode streams src to dst, setting the given file mode on dst.
func CopyFileMode(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// ErrTargetExists indicates RenameExclusive refused to clobber an existing file.
var ErrTargetExists = errors.New("rename target already exists")

// RenameExclusive renames src to dst, failing with ErrTargetExists rather
// than replacing dst. The source is left untouched on any failure.
func RenameExclusive(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("%w: %s", ErrTargetExists, dst)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat rename target: %w", err)
	}
	return os.Rename(src, dst)
}
