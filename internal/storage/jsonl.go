package storage

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sugawarayuuta/sonnet"

	"venueRouter/internal/model"
)

// JsonlJournal appends unit records to a JSONL file.
type JsonlJournal struct {
	path string
	mu   sync.Mutex
}

func NewJsonlJournal(path string) *JsonlJournal {
	return &JsonlJournal{path: path}
}

// Append writes one record as a JSON line.
func (j *JsonlJournal) Append(_ context.Context, record model.UnitRecord) error {
	line, err := sonnet.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal unit record: %w", err)
	}

	dir := filepath.Dir(j.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create journal dir: %w", err)
		}
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	file, err := os.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if _, err := writer.Write(line); err != nil {
		return fmt.Errorf("write unit record: %w", err)
	}
	if err := writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush journal: %w", err)
	}
	return nil
}

// ReadJournal loads every record of a journal file, oldest first.
func ReadJournal(path string) ([]model.UnitRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	var records []model.UnitRecord
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for line := 1; scanner.Scan(); line++ {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var record model.UnitRecord
		if err := sonnet.Unmarshal(scanner.Bytes(), &record); err != nil {
			return nil, fmt.Errorf("parse journal line %d: %w", line, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return records, nil
}
