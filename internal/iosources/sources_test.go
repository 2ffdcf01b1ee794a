package iosources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSourcesConfig_Minimal(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	tmpDir := t.TempDir()

	// Create minimal sources.yaml
	yamlContent := `
categories:
  - category: biometric
    parent: api_data_aadhar_biometric
  - category: demographic
    parent: api_data_aadhar_demographic
  - category: enrolment
    parent: api_data_aadhar_enrolment
`

	configPath := filepath.Join(tmpDir, "sources.yaml")
	err := os.WriteFile(configPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	// Load config
	cfg, err := loadSourcesConfig(configPath)
	require.NoError(t, err)
	require.Len(t, cfg.Categories, 3)

	// Check first category, pattern default applied
	cat := cfg.Categories[0]
	assert.Equal(t, "biometric", cat.Category)
	assert.Equal(t, "api_data_aadhar_biometric", cat.Parent)
	assert.Equal(t, "*.csv", cat.Pattern)
}

func TestLoadSourcesConfig_FileNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	_, err := loadSourcesConfig("nonexistent.yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read sources config file")
}

func TestLoadSourcesConfig_InvalidYAML(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "sources.yaml")
	err := os.WriteFile(configPath, []byte("categories: [unclosed"), 0644)
	require.NoError(t, err)

	_, err = loadSourcesConfig(configPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse sources config file")
}

func TestLoadSourcesConfig_MissingCategory(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	tmpDir := t.TempDir()

	// Only two of three required categories
	yamlContent := `
categories:
  - category: biometric
    parent: bio
  - category: demographic
    parent: demo
`

	configPath := filepath.Join(tmpDir, "sources.yaml")
	err := os.WriteFile(configPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	_, err = loadSourcesConfig(configPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "required category 'enrolment' is missing")
}

func TestLoadSourcesConfig_CustomPattern(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	tmpDir := t.TempDir()

	yamlContent := `
categories:
  - category: biometric
    parent: bio
    pattern: "bio_*.csv"
  - category: demographic
    parent: demo
  - category: enrolment
    parent: enrol
`

	configPath := filepath.Join(tmpDir, "sources.yaml")
	err := os.WriteFile(configPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	cfg, err := loadSourcesConfig(configPath)
	require.NoError(t, err)

	cat, ok := cfg.Get("biometric")
	require.True(t, ok)
	assert.Equal(t, "bio_*.csv", cat.Pattern)
}
