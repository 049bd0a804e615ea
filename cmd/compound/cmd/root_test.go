package cmd

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "compound version 1.0.0")
}

func TestCalcScenario(t *testing.T) {
	out, _, err := run(t, "calc", "--capital", "1,000", "--profit", "10", "--trades", "3", "--details")
	require.NoError(t, err)

	assert.Contains(t, out, "Trading Summary")
	assert.Contains(t, out, "$1,331")
	assert.Contains(t, out, "$331")
	assert.Contains(t, out, "33.10%")
	assert.Contains(t, out, "Trades Details")
	assert.Contains(t, out, "$1,210")
}

func TestCalcRejectsOutOfRangeFlag(t *testing.T) {
	out, errOut, err := run(t, "calc", "--trades", "150")
	require.NoError(t, err)

	assert.Contains(t, errOut, `ignored --trades="150"`)
	assert.Contains(t, out, "$1,146,739.98")
}

func TestCalcFromShareLink(t *testing.T) {
	out, _, err := run(t, "calc", "--csv", "--url", "https://example.com/?capital=1000&profit=10&trades=150")
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 152)
}

func TestCalcOverflowingShareLink(t *testing.T) {
	out, errOut, err := run(t, "calc", "--url", "https://x/?capital=250&profit=1000&trades=10000")
	require.NoError(t, err)

	assert.Contains(t, errOut, "exceeds floating-point range")
	assert.Contains(t, out, "Trading Summary")
	assert.Contains(t, out, "+Inf%")
}

func TestCalcChartRange(t *testing.T) {
	out, _, err := run(t, "calc")
	require.NoError(t, err)
	assert.Contains(t, out, "$100k to $1.1M")
}

func TestCalcShare(t *testing.T) {
	out, errOut, err := run(t, "calc", "--trades", "20", "--share")
	require.NoError(t, err)

	assert.Contains(t, out, "http://localhost:8080/?capital=100000&profit=5&trades=20")
	assert.Contains(t, errOut, "Link copied to clipboard!")
}

func TestCalcUsesConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compound.yaml")
	require.NoError(t, os.WriteFile(path, []byte("defaults:\n  capital: 1000\n  profit: 10\n  trades: 3\n"), 0644))

	out, _, err := run(t, "--config", path, "calc")
	require.NoError(t, err)
	assert.Contains(t, out, "$1,331")
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compound.yaml")

	out, _, err := run(t, "config", "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created default configuration")

	out, _, err = run(t, "config", "validate", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "capital=100000 profit=5% trades=50")
}

func TestBadLogLevel(t *testing.T) {
	_, _, err := run(t, "--log-level", "shout", "calc")
	assert.Error(t, err)
}
