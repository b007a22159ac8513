package matcher

import "testing"

func TestGitClassify(t *testing.T) {
	cases := []struct {
		name   string
		args   []string
		wantID string
		wantOK bool
	}{
		{"reset hard", []string{"reset", "--hard"}, "git_reset", true},
		{"reset hard with ref", []string{"reset", "--hard", "HEAD~1"}, "git_reset", true},
		{"reset soft", []string{"reset", "--soft", "HEAD~1"}, "", false},
		{"push force long", []string{"push", "--force", "origin", "main"}, "git_push_force", true},
		{"push force short", []string{"push", "-f"}, "git_push_force", true},
		{"push force with lease", []string{"push", "--force-with-lease"}, "", false},
		{"plain push", []string{"push"}, "", false},
		{"clean force", []string{"clean", "-fd"}, "git_clean", true},
		{"clean dry run", []string{"clean", "-n"}, "", false},
		{"branch delete", []string{"branch", "-D", "feature"}, "git_branch_delete", true},
		{"branch safe delete", []string{"branch", "-d", "feature"}, "", false},
		{"stash drop", []string{"stash", "drop"}, "git_stash_drop", true},
		{"stash clear", []string{"stash", "clear"}, "git_stash_drop", true},
		{"stash push", []string{"stash", "push"}, "", false},
		{"checkout discard", []string{"checkout", "--", "main.go"}, "git_checkout_discard", true},
		{"checkout branch", []string{"checkout", "feature"}, "", false},
		{"no args", nil, "", false},
	}

	var m Git
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := m.Classify(tc.args)
			if ok != tc.wantOK || id != tc.wantID {
				t.Errorf("Classify(%v) = (%q, %v), want (%q, %v)", tc.args, id, ok, tc.wantID, tc.wantOK)
			}
		})
	}
}

func TestRmClassify(t *testing.T) {
	cases := []struct {
		args   []string
		wantOK bool
	}{
		{[]string{"-rf", "/tmp/x"}, true},
		{[]string{"-fr", "build"}, true},
		{[]string{"-r", "-f", "build"}, true},
		{[]string{"--recursive", "--force", "build"}, true},
		{[]string{"-r", "build"}, false},
		{[]string{"file.txt"}, false},
	}
	var m Rm
	for _, tc := range cases {
		id, ok := m.Classify(tc.args)
		if ok != tc.wantOK {
			t.Errorf("Classify(%v) ok = %v, want %v", tc.args, ok, tc.wantOK)
		}
		if ok && id != "rm_recursive" {
			t.Errorf("Classify(%v) id = %q", tc.args, id)
		}
	}
}

func TestMvClassify(t *testing.T) {
	var m Mv
	if id, ok := m.Classify([]string{"a.txt", "b.txt"}); !ok || id != "mv_git" {
		t.Errorf("two-operand mv should match mv_git, got (%q, %v)", id, ok)
	}
	if _, ok := m.Classify([]string{"--help"}); ok {
		t.Error("mv with no operands should not match")
	}
}

func TestSetFirstMatchWins(t *testing.T) {
	s := NewSet()
	s.Add("x", Func{IDs: []string{"first"}, Fn: func(args []string) (string, bool) {
		return "first", true
	}})
	s.Add("x", Func{IDs: []string{"second"}, Fn: func(args []string) (string, bool) {
		return "second", true
	}})

	id, ok := s.Classify("x", nil)
	if !ok || id != "first" {
		t.Errorf("expected first-match-wins, got (%q, %v)", id, ok)
	}
}

func TestSetUnknownCommand(t *testing.T) {
	s := NewSet()
	s.Add("git", Git{})
	if _, ok := s.Classify("ls", []string{"-la"}); ok {
		t.Error("command with no matcher must not classify")
	}
}

func TestSetRuleIDsDeterministic(t *testing.T) {
	s := NewSet()
	s.Add("git", Git{})
	s.Add("rm", Rm{})

	first := s.RuleIDs()
	second := s.RuleIDs()
	if len(first) != len(second) {
		t.Fatalf("RuleIDs length changed between calls: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("RuleIDs order not stable at %d: %q vs %q", i, first[i], second[i])
		}
	}
	if first[0] != "git_reset" {
		t.Errorf("expected git ids first, got %q", first[0])
	}
}

func TestCELMatcher(t *testing.T) {
	m, err := NewCEL([]CELExpr{
		{RuleID: "docker_prune", Command: "docker", Expr: `args.size() >= 2 && args[0] == "system" && args[1] == "prune"`},
		{RuleID: "docker_rm_force", Command: "docker", Expr: `"rm" in args && "-f" in args`},
	})
	if err != nil {
		t.Fatalf("NewCEL failed: %v", err)
	}

	bound := m.Bind("docker", []string{"docker_prune", "docker_rm_force"})

	if id, ok := bound.Classify([]string{"system", "prune", "-a"}); !ok || id != "docker_prune" {
		t.Errorf("expected docker_prune, got (%q, %v)", id, ok)
	}
	if id, ok := bound.Classify([]string{"rm", "-f", "web"}); !ok || id != "docker_rm_force" {
		t.Errorf("expected docker_rm_force, got (%q, %v)", id, ok)
	}
	if _, ok := bound.Classify([]string{"ps"}); ok {
		t.Error("docker ps should not classify")
	}
}

func TestCELCompileErrorAtLoadTime(t *testing.T) {
	_, err := NewCEL([]CELExpr{
		{RuleID: "bad", Command: "x", Expr: `args.size(`},
	})
	if err == nil {
		t.Fatal("expected compile error for malformed expression")
	}
}

func TestCELNonBoolRejected(t *testing.T) {
	_, err := NewCEL([]CELExpr{
		{RuleID: "bad", Command: "x", Expr: `argline`},
	})
	if err == nil {
		t.Fatal("expected error for non-boolean expression")
	}
}
