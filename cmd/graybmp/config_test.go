package main

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissing(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, &config{}, cfg)
}

func TestLoadConfig(t *testing.T) {
	file := filepath.Join(t.TempDir(), "graybmp.yaml")
	require.NoError(t, ioutil.WriteFile(file, []byte(`db: /tmp/catalog.db
workers: 4
levels: 8
expressions:
  invert: 1 - v
  vignette: v * (1 - abs(col / width - 0.5))
`), 0644))

	cfg, err := loadConfig(file)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/catalog.db", cfg.DB)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 8, cfg.Levels)
	assert.Equal(t, "1 - v", cfg.expression("invert"))
	assert.Equal(t, "v * 2", cfg.expression("v * 2"))
}

func TestLoadConfigInvalid(t *testing.T) {
	file := filepath.Join(t.TempDir(), "graybmp.yaml")
	require.NoError(t, ioutil.WriteFile(file, []byte("colour: red\n"), 0644))

	_, err := loadConfig(file)
	assert.Error(t, err)
}
