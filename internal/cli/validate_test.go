package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand_Valid(t *testing.T) {
	schemaDir := writeSchemaDir(t, testSchemaCUE)

	stdout, _, err := executeCommand(t, "validate", schemaDir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Schema valid")
	assert.Contains(t, stdout, "2 entit(ies)")
}

func TestValidateCommand_JSON(t *testing.T) {
	schemaDir := writeSchemaDir(t, testSchemaCUE)

	stdout, _, err := executeCommand(t, "--format", "json", "validate", schemaDir)
	require.NoError(t, err)

	var response CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &response))
	assert.Equal(t, "ok", response.Status)

	data, marshalErr := json.Marshal(response.Data)
	require.NoError(t, marshalErr)
	var result ValidationResult
	require.NoError(t, json.Unmarshal(data, &result))

	assert.True(t, result.Valid)
	assert.Equal(t, 2, result.EntityCount)
	assert.Empty(t, result.Errors)
}

func TestValidateCommand_DuplicateTable(t *testing.T) {
	schemaDir := writeSchemaDir(t, `
package test

entity: {
	order: {
		table: "orders"
	}
	shipment: {
		table: "orders"
	}
}
`)

	stdout, _, err := executeCommand(t, "validate", schemaDir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "✗ Validation failed")
	assert.Contains(t, stdout, "already registered")
}

func TestValidateCommand_MissingTable(t *testing.T) {
	schemaDir := writeSchemaDir(t, `
package test

entity: order: {
	attributes: [{name: "status"}]
}
`)

	stdout, _, err := executeCommand(t, "validate", schemaDir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, ErrCodeEntityTable)
}

func TestValidateCommand_DirNotFound(t *testing.T) {
	_, _, err := executeCommand(t, "validate", "/nonexistent/schema")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
