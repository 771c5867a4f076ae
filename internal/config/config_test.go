package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/acmesh-lang/acmesh/internal/state"
)

func TestLoadMissingFileYieldsEmptyRC(t *testing.T) {
	rc, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rc.Vars) != 0 {
		t.Errorf("got %v, want an empty RC for a missing file", rc.Vars)
	}
}

func TestLoadParsesVarsMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rc.yaml")
	content := "vars:\n  greeting: hello\n  shell: acmesh\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	rc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rc.Vars["greeting"] != "hello" || rc.Vars["shell"] != "acmesh" {
		t.Errorf("got %v", rc.Vars)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rc.yaml")
	if err := os.WriteFile(path, []byte("vars: [this, is, not, a, map]"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error parsing a vars value that isn't a map")
	}
}

func TestApplyOverwritesEnvironmentSeededVars(t *testing.T) {
	st := &state.State{Variables: map[string]state.Value{"shell": {"other"}}}
	Apply(st, &RC{Vars: map[string]string{"shell": "acmesh", "new": "1"}})
	if got := st.GetString("shell"); got != "acmesh" {
		t.Errorf("got %q, want the rc file to win over the prior value", got)
	}
	if got := st.GetString("new"); got != "1" {
		t.Errorf("got %q, want 1", got)
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rc.yaml")
	if err := os.WriteFile(path, []byte("vars:\n  v: one\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	st := state.New()
	w, err := Watch(path, st, nil)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("vars:\n  v: two\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if st.GetString("v") == "two" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("rc file write was not picked up within the deadline; got v=%q", st.GetString("v"))
}

func TestDefaultPathIsUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath: %v", err)
	}
	if filepath.Dir(path) != home {
		t.Errorf("got %q, want it to live directly under %q", path, home)
	}
	if filepath.Base(path) != ".acmeshrc.yaml" {
		t.Errorf("got basename %q, want .acmeshrc.yaml", filepath.Base(path))
	}
}
