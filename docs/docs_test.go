package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDocRendersEveryRoute(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths       map[string]map[string]interface{} `json:"paths"`
		Definitions map[string]interface{}            `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.Equal(t, "Keyword Article Proxy API", doc.Info.Title)
	assert.Contains(t, doc.Paths["/settings"], "get")
	assert.Contains(t, doc.Paths["/settings"], "post")
	assert.Contains(t, doc.Paths["/generate-articles"], "get")
	assert.Contains(t, doc.Paths["/api/post-to-wordpress"], "post")
	assert.Contains(t, doc.Paths["/api/articles"], "get")
	assert.Contains(t, doc.Paths["/api/articles/export"], "get")
	assert.Contains(t, doc.Definitions, "models.Settings")
}
