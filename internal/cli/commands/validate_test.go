package commands

import (
	"strings"
	"testing"
)

func TestNewValidateCommand(t *testing.T) {
	cmd := NewValidateCommand()

	if cmd.Use != "validate <config-file>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}
	if !strings.Contains(cmd.Long, "Validate") {
		t.Error("Missing description in Long")
	}
}

func TestRunValidate_Success(t *testing.T) {
	clearConfigEnv(t)
	configPath := writeFile(t, t.TempDir(), "sqlparam.yaml", `extraction:
  strategy: label
  sql_label: "SQL:"
  value_label: "Params:"
string_types: [String, VARCHAR]
output: json
history:
  path: /tmp/sqlparam-history.db
webhooks:
  - name: team
    url: https://hooks.example.com/sql
`)

	out, err := execute(t, NewValidateCommand(), "", configPath)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	for _, want := range []string{
		"Configuration valid!",
		"Strategy:     label",
		`SQL label:    "SQL:"`,
		"String types: String, VARCHAR",
		"Output:       json",
		"History:      /tmp/sqlparam-history.db",
		"1. team [on_issues]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRunValidate_Invalid(t *testing.T) {
	clearConfigEnv(t)
	configPath := writeFile(t, t.TempDir(), "sqlparam.yaml", "output: xml\n")

	_, err := execute(t, NewValidateCommand(), "", configPath)
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestRunValidate_MissingArg(t *testing.T) {
	if _, err := execute(t, NewValidateCommand(), ""); err == nil {
		t.Error("Expected error without a config file argument")
	}
}
