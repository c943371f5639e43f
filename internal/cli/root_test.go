package cli

import (
	"testing"

	"github.com/aidanlsb/docsectiond/internal/config"
)

func TestResolveProjectRootPrecedence(t *testing.T) {
	origFlag := projectRootFlag
	origCfg := cfg
	t.Cleanup(func() {
		projectRootFlag = origFlag
		cfg = origCfg
	})

	dir := t.TempDir()

	projectRootFlag = ""
	cfg = nil
	if _, err := resolveProjectRoot(nil); err == nil {
		t.Fatal("expected error with no project root configured")
	}

	cfg = &config.Config{ProjectRoot: dir}
	got, err := resolveProjectRoot(nil)
	if err != nil {
		t.Fatalf("resolveProjectRoot: %v", err)
	}
	if got != dir {
		t.Fatalf("got %q, want %q (from config)", got, dir)
	}

	got, err = resolveProjectRoot([]string{dir})
	if err != nil {
		t.Fatalf("resolveProjectRoot: %v", err)
	}
	if got != dir {
		t.Fatalf("positional arg: got %q, want %q", got, dir)
	}

	projectRootFlag = dir
	got, err = resolveProjectRoot([]string{"/nonexistent-ignored"})
	if err != nil {
		t.Fatalf("resolveProjectRoot: %v", err)
	}
	if got != dir {
		t.Fatalf("flag should win over positional arg: got %q, want %q", got, dir)
	}
}

func TestResolveProjectRootRejectsNonDirectory(t *testing.T) {
	origFlag := projectRootFlag
	t.Cleanup(func() { projectRootFlag = origFlag })

	projectRootFlag = "/does/not/exist/at/all"
	if _, err := resolveProjectRoot(nil); err == nil {
		t.Fatal("expected error for nonexistent project root")
	}
}
