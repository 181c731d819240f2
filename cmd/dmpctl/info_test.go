package main

import (
	"strings"
	"testing"
)

func TestInfoCommand(t *testing.T) {
	path := writeTestDump(t)

	out, err := captureOutput(t, func() error {
		return runInfo([]string{path})
	})
	if err != nil {
		t.Fatalf("runInfo: %v", err)
	}
	for _, want := range []string{"x64", "10.0.22631", "SystemInfoStream", "ModuleListStream"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInfoCommandJSON(t *testing.T) {
	path := writeTestDump(t)
	jsonOut = true
	defer func() { jsonOut = false }()

	out, err := captureOutput(t, func() error {
		return runInfo([]string{path})
	})
	if err != nil {
		t.Fatalf("runInfo: %v", err)
	}
	if !strings.Contains(out, `"streamCount": 2`) {
		t.Errorf("json output missing stream count:\n%s", out)
	}
}

func TestInfoCommandMissingFile(t *testing.T) {
	_, err := captureOutput(t, func() error {
		return runInfo([]string{"/nonexistent/x.dmp"})
	})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
