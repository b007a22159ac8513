// Package audit records bypass usages and denies to an append-only
// log. Logging here is observability, not a gate: sinks may fail,
// callers never let that stop the underlying command.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cmdguard/cmdguard/internal/models"
)

// Sink records audit entries.
type Sink interface {
	Record(entry models.AuditEntry) error
	Close() error
}

// fileSink appends JSONL records. Each record is a single Write to an
// O_APPEND descriptor, so concurrent shell sessions cannot interleave
// within one record.
type fileSink struct {
	mu   sync.Mutex
	file *os.File
}

// NewFileSink opens (creating if needed) the audit log at path.
func NewFileSink(path string) (Sink, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create audit log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	return &fileSink{file: f}, nil
}

// Record appends one entry. Args are redacted before they touch disk.
func (s *fileSink) Record(entry models.AuditEntry) error {
	entry.Args, entry.ArgsRedacted = RedactArgs(entry.Args)

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.file.Write(data); err != nil {
		// One retry; the kernel may have been transiently out of space.
		if _, err2 := s.file.Write(data); err2 != nil {
			return fmt.Errorf("failed to write audit entry: %w", err)
		}
	}
	return nil
}

func (s *fileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}

// DefaultLogPath resolves the audit log location: CMDGUARD_AUDIT_LOG
// if set, else ~/.local/state/cmdguard/audit.jsonl.
func DefaultLogPath() string {
	if p := os.Getenv("CMDGUARD_AUDIT_LOG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "audit.jsonl"
	}
	return filepath.Join(home, ".local", "state", "cmdguard", "audit.jsonl")
}

// Memory is an in-memory sink for tests and dry runs.
type Memory struct {
	mu      sync.Mutex
	Entries []models.AuditEntry
}

func (m *Memory) Record(entry models.AuditEntry) error {
	entry.Args, entry.ArgsRedacted = RedactArgs(entry.Args)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, entry)
	return nil
}

func (m *Memory) Close() error { return nil }

// Len reports recorded entry count.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Entries)
}

// Discard swallows every entry; used when the file sink cannot open.
type Discard struct{}

func (Discard) Record(models.AuditEntry) error { return nil }
func (Discard) Close() error                   { return nil }
