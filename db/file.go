package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"contractors/models"
)

const datasetFile = "admin-db.json"

// FileStore хранит весь набор данных в одном JSON-файле.
// Отсутствующий или повреждённый файл читается как пустой набор.
type FileStore struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir, now: time.Now}
}

func (s *FileStore) Path() string {
	return filepath.Join(s.dir, datasetFile)
}

func (s *FileStore) Load(ctx context.Context) (*models.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FileStore) Update(ctx context.Context, fn func(*models.Dataset) error) (*models.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := s.read()
	if err != nil {
		return nil, err
	}
	if err := fn(ds); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.write(ds); err != nil {
		return nil, err
	}
	return ds, nil
}

func (s *FileStore) read() (*models.Dataset, error) {
	raw, err := os.ReadFile(s.Path())
	if errors.Is(err, fs.ErrNotExist) || (err == nil && len(raw) == 0) {
		return models.NewDataset(s.now()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	ds := &models.Dataset{}
	if err := json.Unmarshal(raw, ds); err != nil {
		return models.NewDataset(s.now()), nil
	}
	ds.Normalize()
	return ds, nil
}

// write пишет во временный файл и переименовывает его поверх основного.
func (s *FileStore) write(ds *models.Dataset) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, datasetFile+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return fmt.Errorf("replace dataset: %w", err)
	}
	return nil
}
