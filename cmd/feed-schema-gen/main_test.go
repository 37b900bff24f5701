package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedlake/internal/feed"
)

func TestBuildFeedSchema_Definitions(t *testing.T) {
	schema := buildFeedSchema()
	defs, ok := schema["$defs"].(map[string]map[string]interface{})
	require.True(t, ok)

	for _, name := range []string{"Document", "Metadata", "Spec", "FieldSpec", "PartitionSpec", "StorageSpec"} {
		assert.Contains(t, defs, name)
	}

	assert.Equal(t, []string{"apiVersion", "kind", "metadata", "spec"}, defs["Document"]["required"])
	assert.Equal(t, []string{"category", "name"}, defs["Metadata"]["required"])
	assert.Equal(t, []string{"name", "type"}, defs["FieldSpec"]["required"])
	assert.NotContains(t, defs["StorageSpec"], "required")
}

func TestApplyFeedConstraints(t *testing.T) {
	schema := buildFeedSchema()
	defs := schema["$defs"].(map[string]map[string]interface{})

	apiVersion := getDefProperty(defs, "Document", "apiVersion")
	require.NotNil(t, apiVersion)
	assert.Equal(t, []string{feed.SupportedAPIVersion}, apiVersion["enum"])

	category := getDefProperty(defs, "Metadata", "category")
	require.NotNil(t, category)
	assert.Equal(t, identifierPattern, category["pattern"])

	fieldName := getDefProperty(defs, "FieldSpec", "name")
	require.NotNil(t, fieldName)
	assert.Equal(t, identifierMaxLength, fieldName["maxLength"])

	rules, ok := defs["Spec"]["allOf"].([]interface{})
	require.True(t, ok)
	assert.Len(t, rules, 3)
}

func TestYAMLFieldName(t *testing.T) {
	tests := []struct {
		field, tag string
		wantName   string
		wantOmit   bool
	}{
		{"APIVersion", "apiVersion", "apiVersion", false},
		{"Storage", "storage,omitempty", "storage", true},
		{"Comment", "", "comment", false},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			name, omit := yamlFieldName(tt.field, tt.tag)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantOmit, omit)
		})
	}
}

func TestRun_WritesSchemaAndManifest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "v1")
	require.NoError(t, run(dir))

	data, err := os.ReadFile(filepath.Join(dir, "index.json"))
	require.NoError(t, err)

	var manifest struct {
		APIVersion string            `json:"apiVersion"`
		Files      map[string]string `json:"files"`
	}
	require.NoError(t, json.Unmarshal(data, &manifest))
	assert.Equal(t, feed.SupportedAPIVersion, manifest.APIVersion)
	assert.Len(t, manifest.Files["feed.schema.json"], 64)

	_, err = os.Stat(filepath.Join(dir, "feed.schema.json"))
	require.NoError(t, err)
}
