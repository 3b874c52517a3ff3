package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sugawarayuuta/sonnet"

	"venueRouter/internal/model"
)

// FileReportStore keeps reports in one JSON document keyed by participant.
// Writes go to a temporary file renamed over the old one.
type FileReportStore struct {
	path string
	mu   sync.Mutex
}

func NewFileReportStore(path string) *FileReportStore {
	return &FileReportStore{path: path}
}

func (s *FileReportStore) load() (map[string]model.ArbitrageReport, error) {
	reports := make(map[string]model.ArbitrageReport)

	stat, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return reports, nil
		}
		return nil, fmt.Errorf("stat report file: %w", err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("report path is a directory")
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read report file: %w", err)
	}
	if len(data) == 0 {
		return reports, nil
	}
	if err := sonnet.Unmarshal(data, &reports); err != nil {
		return nil, fmt.Errorf("parse report file: %w", err)
	}
	return reports, nil
}

// PutReport replaces the participant's report.
func (s *FileReportStore) PutReport(_ context.Context, report model.ArbitrageReport) error {
	if report.Participant == "" {
		return fmt.Errorf("report participant is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reports, err := s.load()
	if err != nil {
		return err
	}
	reports[report.Participant] = report

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	data, err := sonnet.Marshal(reports)
	if err != nil {
		return fmt.Errorf("marshal reports: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write report tmp: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename report file: %w", err)
	}
	return nil
}

// GetReport returns the participant's latest report.
func (s *FileReportStore) GetReport(_ context.Context, participant string) (model.ArbitrageReport, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reports, err := s.load()
	if err != nil {
		return model.ArbitrageReport{}, false, err
	}
	report, ok := reports[participant]
	return report, ok, nil
}
