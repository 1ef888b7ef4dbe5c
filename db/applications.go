package db

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"contractors/models"
)

const applicationsFile = "applications.jsonl"

// ApplicationLog: журнал поступивших заявок, по одной JSON-записи на строку.
type ApplicationLog struct {
	dir string
	mu  sync.Mutex
}

func NewApplicationLog(dir string) *ApplicationLog {
	return &ApplicationLog{dir: dir}
}

func (l *ApplicationLog) Path() string {
	return filepath.Join(l.dir, applicationsFile)
}

func (l *ApplicationLog) Append(ctx context.Context, rec models.ApplicationRecord) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode application: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	f, err := os.OpenFile(l.Path(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open applications log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append application: %w", err)
	}
	return nil
}

// List читает журнал целиком; пустые и нераспознанные строки пропускаются.
func (l *ApplicationLog) List(ctx context.Context) ([]models.ApplicationRecord, error) {
	l.mu.Lock()
	raw, err := os.ReadFile(l.Path())
	l.mu.Unlock()

	records := []models.ApplicationRecord{}
	if errors.Is(err, fs.ErrNotExist) {
		return records, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read applications log: %w", err)
	}

	sc := bufio.NewScanner(bytes.NewReader(raw))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec models.ApplicationRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan applications log: %w", err)
	}
	return records, nil
}

func (l *ApplicationLog) Count(ctx context.Context) (int, error) {
	records, err := l.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}
