package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

type saveData struct {
	HighScore int64 `msgpack:"high_score"`
}

// File stores the high score as a msgpack document on disk.
type File struct {
	path string
}

// NewFile returns a store backed by path. The file is created on first save.
func NewFile(path string) *File {
	return &File{path: path}
}

// LoadHighScore implements HighScoreStore.
func (f *File) LoadHighScore() (int, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read save file: %w", err)
	}

	var data saveData
	if err := msgpack.Unmarshal(raw, &data); err != nil {
		return 0, fmt.Errorf("decode save file %s: %w", f.path, err)
	}
	if data.HighScore < 0 {
		return 0, nil
	}
	return int(data.HighScore), nil
}

// SaveHighScore implements HighScoreStore. The write goes to a temp file
// first so a crash never leaves a truncated save behind.
func (f *File) SaveHighScore(score int) error {
	raw, err := msgpack.Marshal(&saveData{HighScore: int64(score)})
	if err != nil {
		return fmt.Errorf("encode save file: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp save file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write save file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close save file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace save file: %w", err)
	}
	return nil
}

var _ HighScoreStore = (*File)(nil)
