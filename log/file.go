package log

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ardnew/logchan/pkg"
)

// Permission modes of created log directories and files.
const (
	defaultDirMode  os.FileMode = 0o755
	defaultFileMode os.FileMode = 0o644
)

// fileSink appends lines to a file. The file is opened and closed for every
// line, so no handle outlives a call.
type fileSink struct {
	path string
}

// write appends line and a newline in a single write, creating the file and
// any missing parent directories first.
func (s fileSink) write(line string) (err error) {
	fail := func(err error) error {
		return pkg.ErrWriteFile.With(slog.String("file", s.path)).Wrap(err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return fail(err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, defaultFileMode)
	if err != nil {
		return fail(err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fail(cerr)
		}
	}()

	if _, err := f.Write(append([]byte(line), '\n')); err != nil {
		return fail(err)
	}

	return nil
}
