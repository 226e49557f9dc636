package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/model"
)

// JsonlSink appends alerts or skip rows to JSONL files.
type JsonlSink struct {
	alertPath string
	skipPath  string
	mu        sync.Mutex
}

func NewJsonlSink(alertPath, skipPath string) *JsonlSink {
	return &JsonlSink{alertPath: alertPath, skipPath: skipPath}
}

// PutAlertBatch appends a batch of lock alerts as JSON lines.
func (s *JsonlSink) PutAlertBatch(alerts []model.LockAlert) error {
	if len(alerts) == 0 {
		return nil
	}
	rows := make([]interface{}, 0, len(alerts))
	for _, alert := range alerts {
		rows = append(rows, alert)
	}
	return s.appendRows(s.alertPath, rows)
}

// PutSkipBatch appends skip rows as JSON lines.
func (s *JsonlSink) PutSkipBatch(skips []model.SkipRecord) error {
	if len(skips) == 0 {
		return nil
	}
	rows := make([]interface{}, 0, len(skips))
	for _, skip := range skips {
		rows = append(rows, skip)
	}
	return s.appendRows(s.skipPath, rows)
}

func (s *JsonlSink) appendRows(path string, rows []interface{}) error {
	if path == "" {
		return fmt.Errorf("sink path is empty")
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, row := range rows {
		line, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("marshal row: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}
