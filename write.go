package ilo

import (
	"fmt"
	"os"
	"path/filepath"
)

// encode marshals v with a recover guard: some encoders panic on unsupported
// kinds (yaml on funcs) instead of returning an error.
func encode(codec Codec, v any) (data []byte, retErr error) {
	defer func() {
		if r := recover(); r != nil {
			data = nil
			retErr = fmt.Errorf("%w as %s: %v", ErrEncode, codec.Extension(), r)
		}
	}()

	data, err := codec.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("%w as %s: %w", ErrEncode, codec.Extension(), err)
	}
	return data, nil
}

// writeFileAtomic writes data to a temp file in path's directory and renames
// it onto path. The temp file is fully written, synced and closed before the
// rename is attempted, so a failure anywhere in the sequence leaves the
// previous file (if any) intact. os.CreateTemp opens the file 0600, which is
// the intended permission for config files.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w %s: create temp file: %w", ErrWrite, path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w %s: sync temp file: %w", ErrWrite, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w %s: close temp file: %w", ErrWrite, path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w %s: rename temp file: %w", ErrWrite, path, err)
	}
	return nil
}
