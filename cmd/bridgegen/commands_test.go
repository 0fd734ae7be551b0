package main

import (
	"bytes"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const badDecls = `
package: broken
functions:
  - name: indy_returns_void
    returns: void
    params:
      - {name: command_handle, type: indy_handle_t}
  - name: indy_float_arg
    returns: indy_error_t
    params:
      - {name: command_handle, type: indy_handle_t}
      - {name: ratio, type: double}
      - name: cb
        type: callback
        params:
          - {name: xcommand_handle, type: indy_handle_t}
          - {name: err, type: indy_error_t}
`

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "bridge.go")
	manifest := filepath.Join(dir, "exports.yaml")

	stdout, _, err := run(t, "generate", "-i", "../../indy/indy.yaml", "-o", out, "--manifest", manifest, "--package", "sdkbridge")
	require.NoError(t, err)
	assert.Contains(t, stdout, "entry points into")

	f, err := parser.ParseFile(token.NewFileSet(), out, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, "sdkbridge", f.Name.Name)

	data, err := os.ReadFile(manifest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "create_wallet(config, credentials, cb(err))")
	assert.NotContains(t, string(data), "register_wallet_type")
}

func TestCheck(t *testing.T) {
	stdout, _, err := run(t, "check", "-i", "../../indy/indy.yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "create_wallet(config, credentials, cb(err))\n")
}

func TestCheckReportsEveryViolation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte(badDecls), 0o600))

	_, stderr, err := run(t, "check", "-i", path)
	require.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, stderr, "indy_returns_void")
	assert.Contains(t, stderr, "indy_float_arg: parameter ratio")

	out := filepath.Join(t.TempDir(), "bridge.go")
	_, _, err = run(t, "generate", "-i", path, "-o", out)
	require.ErrorIs(t, err, errCheckFailed)
	assert.NoFileExists(t, out)
}

func TestGenerateRequiresFlags(t *testing.T) {
	_, _, err := run(t, "generate", "-i", "../../indy/indy.yaml")
	assert.ErrorContains(t, err, "output")

	_, _, err = run(t, "generate", "-i", "../../indy/indy.yaml", "-o", filepath.Join(t.TempDir(), "x.go"), "--package", "func")
	assert.Error(t, err)
}
