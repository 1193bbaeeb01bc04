package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDoc(t *testing.T) {
	doc, err := swag.ReadDoc()
	require.NoError(t, err)

	var spec struct {
		Info  map[string]any            `json:"info"`
		Host  string                    `json:"host"`
		Paths map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &spec))

	assert.Equal(t, SwaggerInfo.Title, spec.Info["title"])
	assert.Equal(t, "localhost:8080", spec.Host)
	for _, path := range []string{"/users/register", "/users/activate", "/users/activate/resend", "/health"} {
		assert.Contains(t, spec.Paths, path)
	}
}
