package sources_test

import (
	"path/filepath"
	"testing"

	"github.com/distpulse/dpulse/pkg/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *sources.SourcesConfig {
	return &sources.SourcesConfig{
		Categories: []sources.CategoryConfig{
			{Category: "biometric", Parent: "api_data_aadhar_biometric"},
			{Category: "demographic", Parent: "api_data_aadhar_demographic"},
			{Category: "enrolment", Parent: "api_data_aadhar_enrolment"},
		},
	}
}

func TestValidate_Minimal(t *testing.T) {
	cfg := validConfig()
	err := cfg.Validate()
	require.NoError(t, err)
	assert.Empty(t, cfg.Warnings)

	// Pattern default is applied to every category
	for _, cat := range cfg.Categories {
		assert.Equal(t, "*.csv", cat.Pattern)
	}
}

func TestValidate_MissingCategory(t *testing.T) {
	cfg := validConfig()
	cfg.Categories = cfg.Categories[:2]

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enrolment")
}

func TestValidate_DuplicateCategory(t *testing.T) {
	cfg := validConfig()
	cfg.Categories = append(cfg.Categories, sources.CategoryConfig{
		Category: "biometric",
		Parent:   "another_dir",
	})

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than once")
}

func TestValidate_EmptyParent(t *testing.T) {
	cfg := validConfig()
	cfg.Categories[1].Parent = "  "

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parent directory is required")
}

func TestValidate_UnknownCategoryWarns(t *testing.T) {
	cfg := validConfig()
	cfg.Categories = append(cfg.Categories, sources.CategoryConfig{
		Category: "Mandate",
		Parent:   "api_data_mandate",
	})

	err := cfg.Validate()
	require.NoError(t, err)
	require.Len(t, cfg.Warnings, 1)
	assert.Equal(t, "mandate", cfg.Warnings[0].Category)
	assert.Contains(t, cfg.Warnings[0].Suggestion, "biometric")
}

func TestValidate_NormalizesCategoryName(t *testing.T) {
	cfg := validConfig()
	cfg.Categories[0].Category = "  Biometric "

	err := cfg.Validate()
	require.NoError(t, err)
	assert.Equal(t, "biometric", cfg.Categories[0].Category)
}

func TestGet(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	cat, ok := cfg.Get("demographic")
	require.True(t, ok)
	assert.Equal(t, "api_data_aadhar_demographic", cat.Parent)

	_, ok = cfg.Get("unknown")
	assert.False(t, ok)
}

func TestResolveParent(t *testing.T) {
	tests := []struct {
		name    string
		dataDir string
		parent  string
		want    string
	}{
		{
			name:    "relative joins data dir",
			dataDir: "data",
			parent:  "api_data_aadhar_biometric",
			want:    filepath.Join("data", "api_data_aadhar_biometric"),
		},
		{
			name:    "absolute ignored data dir",
			dataDir: "data",
			parent:  "/srv/exports/biometric",
			want:    "/srv/exports/biometric",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sources.ResolveParent(tt.dataDir, tt.parent)
			assert.Equal(t, tt.want, got)
		})
	}
}
