package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestValidate_ExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{
			name: "valid with yaml config",
			args: []string{"validate", "-m", "testdata/shop.yaml", "-c", "testdata/prod.yaml"},
			code: ExitSuccess,
		},
		{
			name: "valid with defines",
			args: []string{"validate", "-m", "testdata/shop.yaml",
				"-D", "server.host=localhost", "-D", "checkout.gateway=https://pay.example.com"},
			code: ExitSuccess,
		},
		{
			name: "missing values",
			args: []string{"validate", "-m", "testdata/shop.yaml"},
			code: ExitValidationError,
		},
		{
			name: "defines override yaml",
			args: []string{"validate", "-m", "testdata/shop.yaml", "-c", "testdata/prod.yaml", "-D", "server.port=0"},
			code: ExitValidationError,
		},
		{
			name: "manifest not found",
			args: []string{"validate", "-m", "testdata/absent.yaml"},
			code: ExitConfigError,
		},
		{
			name: "config file not found",
			args: []string{"validate", "-m", "testdata/shop.yaml", "-c", "testdata/absent.yaml"},
			code: ExitConfigError,
		},
		{
			name: "unknown flag",
			args: []string{"validate", "--nope"},
			code: ExitUsageError,
		},
		{
			name: "unexpected argument",
			args: []string{"validate", "extra"},
			code: ExitUsageError,
		},
		{
			name: "unknown output format",
			args: []string{"validate", "-m", "testdata/shop.yaml", "-o", "xml"},
			code: ExitUsageError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := execute(t, tt.args...)
			assert.Equal(t, tt.code, code, "stdout:\n%s\nstderr:\n%s", stdout, stderr)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	code, stdout, stderr := execute(t, "validate", "-m", "testdata/shop.yaml")
	require.Equal(t, ExitValidationError, code)

	assert.Contains(t, stdout, "checkout.gateway")
	assert.Contains(t, stdout, "ServerConfig@server")
	assert.Contains(t, stdout, "problems:  2")
	assert.Contains(t, stderr, "2 configuration problem(s) found")
}

func TestValidate_JSON(t *testing.T) {
	code, stdout, _ := execute(t, "validate", "-m", "testdata/shop.yaml", "-c", "testdata/prod.yaml", "-o", "json")
	require.Equal(t, ExitSuccess, code)

	var s summary
	require.NoError(t, json.Unmarshal([]byte(stdout), &s))
	assert.True(t, s.Valid)
	assert.Equal(t, 3, s.Bindings)
	assert.Equal(t, []string{"ServerConfig@server"}, s.Mappings)
	assert.Equal(t, []string{"url"}, s.Resolvers)
	assert.Empty(t, s.Problems)
}

func TestValidate_EnvFiles(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.env")
	prod := filepath.Join(dir, "prod.env")
	require.NoError(t, os.WriteFile(base, []byte("SERVER_HOST=base.local\nCHECKOUT_GATEWAY=not a url\n"), 0o600))
	require.NoError(t, os.WriteFile(prod, []byte("CHECKOUT_GATEWAY=https://pay.example.com\n"), 0o600))

	code, stdout, _ := execute(t, "validate", "-m", "testdata/shop.yaml", "--env-file", base)
	assert.Equal(t, ExitValidationError, code)
	assert.Contains(t, stdout, "checkout.gateway")

	code, stdout, _ = execute(t, "validate", "-m", "testdata/shop.yaml", "--env-file", base, "--env-file", prod)
	assert.Equal(t, ExitSuccess, code, stdout)
}

func TestVersion(t *testing.T) {
	code, stdout, _ := execute(t, "version")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "configcheck ")
}
