package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/toparvion/analogtail/internal/analog"
)

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("version error = %v", err)
	}
	if got := buf.String(); !strings.HasPrefix(got, "analogtail dev") {
		t.Fatalf("version output = %q, want analogtail dev...", got)
	}
}

func TestChoicesCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]analog.Choice{{Group: "g", Path: "/a.log", Title: "a.log"}})
	}))
	defer srv.Close()

	root := newRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetArgs([]string{
		"choices", "-o", "json",
		"--server", srv.URL,
		"--config", filepath.Join(t.TempDir(), "none.toml"),
	})
	if err := root.Execute(); err != nil {
		t.Fatalf("choices error = %v", err)
	}
	if !strings.Contains(buf.String(), `"path": "/a.log"`) {
		t.Fatalf("choices output = %q", buf.String())
	}
}

func TestTailRejectsExtraArgs(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"tail", "a", "b"})
	if err := root.Execute(); err == nil {
		t.Fatalf("tail with two paths error = nil, want error")
	}
}
