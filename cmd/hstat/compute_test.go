package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInputs(t *testing.T) (dataPath, modelPath string) {
	t.Helper()
	dir := t.TempDir()

	var csv strings.Builder
	csv.WriteString("x0,x1,x2\n")
	for i := 0; i < 25; i++ {
		fmt.Fprintf(&csv, "%d,%d,%d\n", i%5, (i*3)%7, (i*2)%4)
	}
	dataPath = filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(dataPath, []byte(csv.String()), 0o644))

	modelPath = filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(modelPath, []byte(`{"kind": "linear", "coefficients": {"x2": 1}, "interactions": [{"features": ["x0", "x1"], "coefficient": 1}]}`), 0o644))
	return dataPath, modelPath
}

func runCompute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LOG_LEVEL", "ERROR")

	cmd := newComputeCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestComputeCommand(t *testing.T) {
	dataPath, modelPath := writeInputs(t)

	out, err := runCompute(t, "--data", dataPath, "--model", modelPath, "--seed", "1", "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "| 1 | (0, 1) |", "all columns are reported by index")
	assert.Contains(t, out, "Rows used:** 25 of 25")

	out, err = runCompute(t, "--data", dataPath, "--model", modelPath, "--seed", "1", "--format", "markdown", "--features", "x0,x1,x2")
	require.NoError(t, err)
	assert.Contains(t, out, "| 1 | (x0, x1) |")
}

func TestComputeCommandWritesFile(t *testing.T) {
	dataPath, modelPath := writeInputs(t)
	outPath := filepath.Join(t.TempDir(), "report.html")

	_, err := runCompute(t, "--data", dataPath, "--model", modelPath, "--format", "html", "-o", outPath, "--features", "x0,x1")
	require.NoError(t, err)

	page, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(page), "<table>")
}

func TestComputeCommandErrors(t *testing.T) {
	dataPath, modelPath := writeInputs(t)

	_, err := runCompute(t, "--data", dataPath)
	assert.Error(t, err, "model flag is required")

	_, err = runCompute(t, "--data", dataPath, "--model", modelPath, "--format", "pdf")
	assert.ErrorContains(t, err, "unknown report format")

	_, err = runCompute(t, "--data", dataPath, "--model", modelPath, "--persist")
	assert.ErrorContains(t, err, "DATABASE_URL")

	_, err = runCompute(t, "--data", dataPath, "--model", modelPath, "--n-max", "0")
	assert.Error(t, err)
}
