package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cmdguard/cmdguard/internal/models"
)

func TestFileSinkAppendsJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "audit.jsonl")
	sink, err := NewFileSink(path)
	if err != nil {
		t.Fatalf("NewFileSink failed: %v", err)
	}

	entries := []models.AuditEntry{
		{Timestamp: time.Now().UTC().Format(time.RFC3339), FlagOrRuleID: "--force-danger", Command: "git", Cwd: "/tmp"},
		{Timestamp: time.Now().UTC().Format(time.RFC3339), FlagOrRuleID: "rm_recursive", Command: "rm", Cwd: "/tmp", Verdict: models.VerdictDeny},
	}
	for _, e := range entries {
		if err := sink.Record(e); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open log: %v", err)
	}
	defer f.Close()

	var got []models.AuditEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e models.AuditEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("log line is not valid JSON: %v\n%s", err, scanner.Text())
		}
		got = append(got, e)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].FlagOrRuleID != "--force-danger" || got[1].FlagOrRuleID != "rm_recursive" {
		t.Errorf("records out of order or corrupted: %+v", got)
	}
}

func TestFileSinkAppendsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")

	for i := 0; i < 2; i++ {
		sink, err := NewFileSink(path)
		if err != nil {
			t.Fatalf("NewFileSink failed: %v", err)
		}
		if err := sink.Record(models.AuditEntry{FlagOrRuleID: "--force-danger", Command: "git"}); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		sink.Close()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	lines := 0
	for _, b := range data {
		if b == '\n' {
			lines++
		}
	}
	if lines != 2 {
		t.Errorf("expected 2 lines after reopen, got %d", lines)
	}
}

func TestMemorySink(t *testing.T) {
	var m Memory
	if err := m.Record(models.AuditEntry{FlagOrRuleID: "--force-danger", Command: "git"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if m.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", m.Len())
	}
}

func TestRedactArgs(t *testing.T) {
	cases := []struct {
		name         string
		args         []string
		want         []string
		wantRedacted bool
	}{
		{
			"flag equals value",
			[]string{"push", "--token=ghp_abc123"},
			[]string{"push", "--token=[REDACTED]"},
			true,
		},
		{
			"flag then value",
			[]string{"login", "--password", "hunter2"},
			[]string{"login", "--password", "[REDACTED]"},
			true,
		},
		{
			"bare secret prefix",
			[]string{"curl", "sk-proj-abcdef"},
			[]string{"curl", "[REDACTED]"},
			true,
		},
		{
			"clean args untouched",
			[]string{"reset", "--hard", "HEAD~1"},
			[]string{"reset", "--hard", "HEAD~1"},
			false,
		},
		{
			"paths not flagged",
			[]string{"-rf", "/very/long/path/that/is/definitely/not/a/secret/value"},
			[]string{"-rf", "/very/long/path/that/is/definitely/not/a/secret/value"},
			false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, redacted := RedactArgs(tc.args)
			if redacted != tc.wantRedacted {
				t.Errorf("redacted = %v, want %v", redacted, tc.wantRedacted)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Errorf("args[%d] = %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}
