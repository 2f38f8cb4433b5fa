package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResumeSchema_ValidJSON(t *testing.T) {
	var schemaObj map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(Resume), &schemaObj))

	_, hasSchema := schemaObj["$schema"]
	_, hasProps := schemaObj["properties"]
	assert.True(t, hasSchema, "schema should declare $schema")
	assert.True(t, hasProps, "schema should declare properties")
}

func TestResumeSchema_CoversEverySection(t *testing.T) {
	var schemaObj struct {
		Properties map[string]interface{} `json:"properties"`
	}
	require.NoError(t, json.Unmarshal([]byte(Resume), &schemaObj))

	for _, section := range []string{
		"personal", "contact", "about", "skills", "languages", "links",
		"experience", "education", "projects", "certifications",
	} {
		assert.Contains(t, schemaObj.Properties, section)
	}
}
