package storage

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// FileSaver writes downloaded documents into a directory. Files are written
// to a temp name first and renamed, so a reader never sees a partial PDF.
type FileSaver struct {
	fs  afero.Fs
	dir string
	log zerolog.Logger
}

// NewFileSaver creates a FileSaver backed by the OS filesystem.
func NewFileSaver(dir string, log zerolog.Logger) *FileSaver {
	return NewFileSaverFs(afero.NewOsFs(), dir, log)
}

// NewFileSaverFs creates a FileSaver on an arbitrary afero filesystem.
func NewFileSaverFs(fs afero.Fs, dir string, log zerolog.Logger) *FileSaver {
	if dir == "" {
		dir = "."
	}
	return &FileSaver{
		fs:  fs,
		dir: dir,
		log: log.With().Str("component", "file_saver").Logger(),
	}
}

// Save stores data as name inside the download directory and returns the
// final path. An existing file with the same name is replaced.
func (s *FileSaver) Save(name string, data []byte) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("save %q: invalid file name", name)
	}
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	tmp, err := afero.TempFile(s.fs, s.dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = s.fs.Remove(tmpName)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return "", fmt.Errorf("close %s: %w", name, err)
	}

	dest := filepath.Join(s.dir, name)
	if err := s.fs.Rename(tmpName, dest); err != nil {
		_ = s.fs.Remove(tmpName)
		return "", fmt.Errorf("rename %s: %w", name, err)
	}

	s.log.Debug().Str("path", dest).Int("bytes", len(data)).Msg("File saved")
	return dest, nil
}
