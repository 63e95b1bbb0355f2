package runtime

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type evalCase struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Output string `yaml:"output"`
	Error  string `yaml:"error"`
}

type evalCaseFile struct {
	Cases []evalCase `yaml:"cases"`
}

// TestEvalCases runs the table in testdata/eval_cases.yaml. Each case
// executes a small program and checks the captured output, the returned
// error, or both (output produced before the failing statement).
func TestEvalCases(t *testing.T) {
	path := filepath.Join("..", "..", "testdata", "eval_cases.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}

	var file evalCaseFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		t.Fatalf("failed to parse %s: %v", path, err)
	}
	if len(file.Cases) == 0 {
		t.Fatalf("%s contains no cases", path)
	}

	for _, tc := range file.Cases {
		t.Run(tc.Name, func(t *testing.T) {
			got, err := runSource(tc.Source)

			if tc.Error != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got none (output %q)", tc.Error, got)
				}
				if !strings.Contains(err.Error(), tc.Error) {
					t.Fatalf("error %q does not contain %q", err.Error(), tc.Error)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tc.Output != "" || tc.Error == "" {
				if got != tc.Output {
					t.Errorf("output mismatch:\nexpected: %q\ngot:      %q", tc.Output, got)
				}
			}
		})
	}
}
