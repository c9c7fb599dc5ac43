package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeQueryFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "query.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCompileCommand_Text(t *testing.T) {
	schemaDir := writeSchemaDir(t, testSchemaCUE)
	queryFile := writeQueryFile(t, "table: orders\n")

	stdout, _, err := executeCommand(t, "compile", schemaDir, "--query", queryFile)
	require.NoError(t, err)

	assert.Contains(t, stdout, `SELECT "@rid", "status", "total_amount" FROM "orders"`)
}

func TestCompileCommand_JSON(t *testing.T) {
	schemaDir := writeSchemaDir(t, testSchemaCUE)
	queryFile := writeQueryFile(t, "table: orders\nselect: [status]\n")

	stdout, _, err := executeCommand(t, "--format", "json", "compile", schemaDir, "--query", queryFile)
	require.NoError(t, err)

	var response CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &response))
	assert.Equal(t, "ok", response.Status)

	data, err := json.Marshal(response.Data)
	require.NoError(t, err)
	var output CompileOutput
	require.NoError(t, json.Unmarshal(data, &output))

	require.Len(t, output.Statements, 1)
	assert.Equal(t, `SELECT "status" FROM "orders" `, output.Statements[0])
	assert.Equal(t, []string{"status"}, output.Selection)
	assert.True(t, output.SelectionResolved)
	assert.NotEmpty(t, output.Token)
}

func TestCompileCommand_Aggregate(t *testing.T) {
	schemaDir := writeSchemaDir(t, testSchemaCUE)
	queryFile := writeQueryFile(t, "table: orders\naggregate:\n  sum: amount\n")

	stdout, _, err := executeCommand(t, "compile", schemaDir, "--query", queryFile)
	require.NoError(t, err)
	assert.Contains(t, stdout, `SELECT SUM("amount") AS amount FROM "orders"`)
}

func TestCompileCommand_CastMode(t *testing.T) {
	schemaDir := writeSchemaDir(t, testSchemaCUE)
	queryFile := writeQueryFile(t, "table: orders\naggregate:\n  sum: amount\n")

	stdout, _, err := executeCommand(t, "compile", schemaDir, "--query", queryFile, "--cast-mode")
	require.NoError(t, err)
	assert.Contains(t, stdout, `SUM("amount").asFloat() AS amount`)
}

func TestCompileCommand_OutputFile(t *testing.T) {
	schemaDir := writeSchemaDir(t, testSchemaCUE)
	queryFile := writeQueryFile(t, "table: orders\nselect: [status]\n")
	outFile := filepath.Join(t.TempDir(), "statement.sql")

	_, _, err := executeCommand(t, "compile", schemaDir, "--query", queryFile, "-o", outFile)
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Equal(t, `SELECT "status" FROM "orders" `, string(data))
}

func TestCompileCommand_SchemaMismatch(t *testing.T) {
	schemaDir := writeSchemaDir(t, testSchemaCUE)
	queryFile := writeQueryFile(t, "table: invoices\n")

	stdout, _, err := executeCommand(t, "compile", schemaDir, "--query", queryFile)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "SCHEMA_MISMATCH")
}

func TestCompileCommand_InvalidAggregation(t *testing.T) {
	schemaDir := writeSchemaDir(t, testSchemaCUE)
	queryFile := writeQueryFile(t, "table: orders\naggregate:\n  groupBy: status\n")

	stdout, _, err := executeCommand(t, "compile", schemaDir, "--query", queryFile)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "INVALID_AGGREGATION")
}

func TestCompileCommand_MissingQueryFile(t *testing.T) {
	schemaDir := writeSchemaDir(t, testSchemaCUE)

	stdout, _, err := executeCommand(t, "compile", schemaDir, "--query", "/nonexistent/query.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, ErrCodeQueryFailed)
}

func TestCompileCommand_SchemaDirNotFound(t *testing.T) {
	queryFile := writeQueryFile(t, "table: orders\n")

	stdout, _, err := executeCommand(t, "compile", "/nonexistent/schema", "--query", queryFile)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, ErrCodeNotFound)
}
