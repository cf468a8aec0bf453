package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Minimal 64-bit little-endian ELF: header only, no section table.
var elfHeaderOnly = []byte{
	0x7f, 0x45, 0x4c, 0x46, // ELF magic
	0x02,                                           // 64-bit
	0x01,                                           // Little endian
	0x01,                                           // ELF version
	0x00,                                           // System V ABI
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // Padding
	0x02, 0x00, // Executable file
	0x3e, 0x00, // x86-64
	0x01, 0x00, 0x00, 0x00, // Version
	0x00, 0x10, 0x40, 0x00, 0x00, 0x00, 0x00, 0x00, // Entry point
	0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // Program header offset
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // Section header offset
	0x00, 0x00, 0x00, 0x00, // Flags
	0x40, 0x00, // ELF header size
	0x38, 0x00, // Program header size
	0x00, 0x00, // Program header count
	0x40, 0x00, // Section header size
	0x00, 0x00, // Section header count
	0x00, 0x00, // String table index
}

func writeTempBinary(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.bin")
	require.NoError(t, os.WriteFile(path, data, 0o755))
	return path
}

func TestRootCommandStructure(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "elfdump", cmd.Use)

	names := []string{}
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "dump")
	assert.Contains(t, names, "inspect")
	assert.Contains(t, names, "version")
}

func TestRootVersionFlag(t *testing.T) {
	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "dev")
}

func TestDumpCommand(t *testing.T) {
	path := writeTempBinary(t, elfHeaderOnly)

	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"dump", path})

	require.NoError(t, cmd.Execute())
	out := buf.String()
	assert.Contains(t, out, "ELF file")
	assert.Contains(t, out, "AMD x86-64")
	assert.Contains(t, out, "entry 0x401000")
}

func TestDumpCommandRejectsNonELF(t *testing.T) {
	path := writeTempBinary(t, []byte("not an elf file"))

	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"dump", path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid magic number")
}

func TestDumpCommandMissingFile(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"dump", filepath.Join(t.TempDir(), "missing.bin")})

	require.Error(t, cmd.Execute())
}

func TestDumpCommandRequiresArg(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"dump"})

	err := cmd.Execute()
	require.Error(t, err)
	var usage usageError
	assert.True(t, errors.As(err, &usage), "missing argument should be a usage error")
}

// Usage errors (bad invocations) must be distinguishable from runtime
// failures so main can exit 2 for the former and 1 for the latter.
func TestUsageErrorClassification(t *testing.T) {
	run := func(args ...string) error {
		cmd := newRootCmd()
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetErr(new(bytes.Buffer))
		cmd.SetArgs(args)
		return cmd.Execute()
	}

	var usage usageError

	err := run("dump", "a", "b")
	require.Error(t, err)
	assert.True(t, errors.As(err, &usage), "extra argument")

	err = run("inspect", "--bogus", "x")
	require.Error(t, err)
	assert.True(t, errors.As(err, &usage), "unknown flag")

	err = run("dump", writeTempBinary(t, []byte("not an elf file")))
	require.Error(t, err)
	assert.False(t, errors.As(err, &usage), "parse failure is not a usage error")
}
