package opener

import (
	"context"
	"errors"
	"os/exec"
	"reflect"
	"testing"
)

func TestSystemOpenUsesPlatformDefault(t *testing.T) {
	cases := map[string][]string{
		"darwin":  {"open", "doc.chart"},
		"linux":   {"xdg-open", "doc.chart"},
		"windows": {"cmd", "/c", "start", "", "doc.chart"},
	}
	for goos, want := range cases {
		var got []string
		s := System{GOOS: goos, Run: func(cmd *exec.Cmd) error {
			got = cmd.Args
			return nil
		}}
		if err := s.Open(context.Background(), "doc.chart"); err != nil {
			t.Fatalf("%s: open: %v", goos, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("%s: expected %q, got %q", goos, want, got)
		}
	}
}

func TestSystemOpenCommandOverride(t *testing.T) {
	var args []string
	s := System{Command: []string{"less", "-R"}, Run: func(cmd *exec.Cmd) error {
		args = cmd.Args
		return errors.New("boom")
	}}
	err := s.Open(context.Background(), "doc.chart")
	if err == nil {
		t.Fatalf("expected run error to propagate")
	}
	if !reflect.DeepEqual(args, []string{"less", "-R", "doc.chart"}) {
		t.Fatalf("unexpected args %q", args)
	}
}

func TestForMode(t *testing.T) {
	viewed := ""
	view := Func(func(_ context.Context, path string) error {
		viewed = path
		return nil
	})

	o, err := ForMode("", "", view)
	if err != nil {
		t.Fatalf("for mode: %v", err)
	}
	if _, ok := o.(None); !ok {
		t.Fatalf("expected None for empty mode, got %T", o)
	}

	o, err = ForMode("System", "less -R", view)
	if err != nil {
		t.Fatalf("for mode: %v", err)
	}
	if sys, ok := o.(System); !ok || !reflect.DeepEqual(sys.Command, []string{"less", "-R"}) {
		t.Fatalf("unexpected system opener %#v", o)
	}

	o, err = ForMode("view", "", view)
	if err != nil {
		t.Fatalf("for mode: %v", err)
	}
	if err := o.Open(context.Background(), "doc.chart"); err != nil || viewed != "doc.chart" {
		t.Fatalf("expected view func to be called, got %q (%v)", viewed, err)
	}

	if _, err := ForMode("view", "", nil); err == nil {
		t.Fatalf("expected error without a viewer")
	}
	if _, err := ForMode("browser", "", view); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
