package e2e

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeOptionsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "e2e.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadOptionsMissingFileYieldsDefaults(t *testing.T) {
	opts, err := LoadOptions(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, ModeOCT, opts.Mode)
	require.Equal(t, DefaultMaxDirectoryBlocks, opts.MaxDirectoryBlocks)
}

func TestLoadOptionsOverlay(t *testing.T) {
	path := writeOptionsFile(t, `
mode: faf
maxDirectoryBlocks: 16
fundusLateralityPolicy: disabled
`)
	opts, err := LoadOptions(path)
	require.NoError(t, err)
	require.Equal(t, ModeFundusAutofluorescence, opts.Mode)
	require.Equal(t, 16, opts.MaxDirectoryBlocks)
	require.Equal(t, LateralityUnknown, opts.FundusLateralityPolicy(0))
}

func TestLoadOptionsDefaultPolicy(t *testing.T) {
	path := writeOptionsFile(t, "mode: faf\n")
	opts, err := LoadOptions(path)
	require.NoError(t, err)
	require.Equal(t, LateralityRight, opts.FundusLateralityPolicy(0))
	require.Equal(t, LateralityRight, opts.FundusLateralityPolicy(1))
	require.Equal(t, LateralityLeft, opts.FundusLateralityPolicy(2))
}

func TestLoadOptionsUnknownMode(t *testing.T) {
	path := writeOptionsFile(t, "mode: octopus\n")
	_, err := LoadOptions(path)
	require.Error(t, err)
}

func TestLoadOptionsUnknownPolicy(t *testing.T) {
	path := writeOptionsFile(t, "fundusLateralityPolicy: coinflip\n")
	_, err := LoadOptions(path)
	require.Error(t, err)
}

func TestLoadOptionsBadYAML(t *testing.T) {
	path := writeOptionsFile(t, "mode: [\n")
	_, err := LoadOptions(path)
	require.Error(t, err)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	require.Equal(t, ModeOCT, m)

	m, err = ParseMode("faf")
	require.NoError(t, err)
	require.Equal(t, ModeFundusAutofluorescence, m)

	_, err = ParseMode("nope")
	require.Error(t, err)
}
