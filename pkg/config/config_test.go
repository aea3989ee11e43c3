package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "fabric", cfg.Name)
	assert.Equal(t, DefaultPointScaleFactor, cfg.Layout.PointScaleFactor)
	assert.Equal(t, DefaultMaxCachedMeasurements, cfg.Layout.MaxCachedMeasurements)
	assert.Equal(t, 1.0, cfg.Layout.FontSizeMultiplier)
	assert.Equal(t, DefaultMaxCommitAttempts, cfg.Mounting.MaxCommitAttempts)
	assert.True(t, cfg.Mounting.ReconcilesState())
	assert.Equal(t, DefaultTextCacheSize, cfg.Text.CacheSize)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOptional_Missing(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadOptional(dir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), cfg.Name)
	assert.Equal(t, DefaultMaxCommitAttempts, cfg.Mounting.MaxCommitAttempts)
}

func TestLoadOptional_NameFromModule(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/acme/widgets/v2\n\ngo 1.24\n")

	cfg, err := LoadOptional(dir)

	require.NoError(t, err)
	assert.Equal(t, "widgets", cfg.Name)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
version: v1.2.0
name: demo
layout:
  pointScaleFactor: 3
  maxCachedMeasurements: 4
  swapLeftAndRightInRTL: true
mounting:
  maxCommitAttempts: 7
  stateReconciliation: false
text:
  cacheSize: 32
  defaultFontSize: 17
`)

	cfg, err := Load(filepath.Join(dir, FileName))

	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Name)
	assert.Equal(t, 3.0, cfg.Layout.PointScaleFactor)
	assert.Equal(t, 4, cfg.Layout.MaxCachedMeasurements)
	assert.True(t, cfg.Layout.SwapLeftAndRightInRTL)
	assert.Equal(t, 7, cfg.Mounting.MaxCommitAttempts)
	assert.False(t, cfg.Mounting.ReconcilesState())
	assert.Equal(t, DefaultTelemetrySamples, cfg.Mounting.TelemetrySamples)
	assert.Equal(t, 32, cfg.Text.CacheSize)
	assert.Equal(t, 17.0, cfg.Text.DefaultFontSize)
}

func TestParse_Invalid(t *testing.T) {
	type tc struct {
		doc      string
		contains string
	}

	tests := map[string]tc{
		"malformed yaml":      {doc: "layout: [", contains: "failed to parse"},
		"bad version":         {doc: "version: one", contains: "semantic version"},
		"future major":        {doc: "version: v2.0.0", contains: "unsupported config version"},
		"negative scale":      {doc: "layout:\n  pointScaleFactor: -2", contains: "layout.pointScaleFactor"},
		"negative attempts":   {doc: "mounting:\n  maxCommitAttempts: -1", contains: "mounting.maxCommitAttempts"},
		"negative cache size": {doc: "text:\n  cacheSize: -5", contains: "text.cacheSize"},
		"negative font size":  {doc: "text:\n  defaultFontSize: -1", contains: "text.defaultFontSize"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, FileName, "name: x\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, err := FindProjectRoot(nested)

	require.NoError(t, err)
	want, _ := filepath.EvalSymlinks(root)
	gotResolved, _ := filepath.EvalSymlinks(got)
	assert.Equal(t, want, gotResolved)
}
