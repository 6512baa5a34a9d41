package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ccollicutt/sqlparam/internal/cli/commands"
	"github.com/ccollicutt/sqlparam/pkg/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{config.EnvConfig, config.EnvStrategy, config.EnvHistoryPath, config.EnvLogLevel} {
		t.Setenv(key, "")
	}
}

func runCLI(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand(&commands.GlobalOptions{})

	if cmd.Use != "sqlparam" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}
	for _, flag := range []string{"sql", "value"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
	for _, flag := range []string{"config", "verbose"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("Missing persistent flag: %s", flag)
		}
	}

	want := []string{"detect", "diagnose", "extract", "history", "validate", "version"}
	for _, name := range want {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
			}
		}
		if !found {
			t.Errorf("Missing subcommand: %s", name)
		}
	}
}

func TestRun_Substitute(t *testing.T) {
	clearEnv(t)

	code, out, errOut := runCLI(t, "", "-s", "SELECT * FROM user WHERE id = ? AND name = ?", "-v", "7(Long), bob(String)")
	if code != 0 {
		t.Fatalf("Expected exit 0, got %d: %s", code, errOut)
	}
	if out != "SELECT * FROM user WHERE id = 7 AND name = 'bob'\n" {
		t.Errorf("Unexpected output: %q", out)
	}
}

func TestRun_IncompleteInput(t *testing.T) {
	clearEnv(t)

	code, out, errOut := runCLI(t, "", "--sql", "SELECT ?")
	if code != 2 {
		t.Errorf("Expected exit 2, got %d", code)
	}
	if out != "" {
		t.Errorf("Expected no output, got %q", out)
	}
	if !strings.HasPrefix(errOut, "Error: both --sql and --value must be provided together") {
		t.Errorf("Unexpected stderr: %q", errOut)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	clearEnv(t)

	code, _, errOut := runCLI(t, "", "frobnicate")
	if code != 2 {
		t.Errorf("Expected exit 2, got %d", code)
	}
	if !strings.Contains(errOut, "frobnicate") {
		t.Errorf("Unexpected stderr: %q", errOut)
	}
}

func TestRun_Version(t *testing.T) {
	clearEnv(t)

	code, out, _ := runCLI(t, "", "version")
	if code != 0 {
		t.Errorf("Expected exit 0, got %d", code)
	}
	if out != "sqlparam "+commands.Version+"\n" {
		t.Errorf("Unexpected output: %q", out)
	}
}

func TestRun_BadConfig(t *testing.T) {
	clearEnv(t)
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	code, _, errOut := runCLI(t, "", "--config", missing, "extract", "-")
	if code != 2 {
		t.Errorf("Expected exit 2, got %d", code)
	}
	if !strings.Contains(errOut, "loading config") {
		t.Errorf("Unexpected stderr: %q", errOut)
	}

	// version ignores the broken config
	if code, _, _ := runCLI(t, "", "--config", missing, "version"); code != 0 {
		t.Errorf("Expected exit 0 for version, got %d", code)
	}
}

func TestRun_ExtractStrict(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	configPath := filepath.Join(dir, "sqlparam.yaml")
	if err := os.WriteFile(configPath, []byte("log_level: error\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	log := "DEBUG ==>  Preparing: SELECT ? , ?\nDEBUG ==> Parameters: 1(Long)\n"

	code, out, errOut := runCLI(t, log, "-c", configPath, "extract", "--strict")
	if code != 1 {
		t.Errorf("Expected exit 1, got %d: %s", code, errOut)
	}
	if !strings.Contains(out, "-- MISSING_VALUES:") {
		t.Errorf("Expected issue in output, got %q", out)
	}

	// exit code does not leak into the next run
	code, _, _ = runCLI(t, log, "-c", configPath, "extract")
	if code != 0 {
		t.Errorf("Expected exit 0 without --strict, got %d", code)
	}
}
