package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDocument(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		Paths       map[string]json.RawMessage `json:"paths"`
		Definitions map[string]struct {
			Properties map[string]map[string]interface{} `json:"properties"`
		} `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	for _, path := range []string{"/restaurants", "/authenticate/login", "/admin/users", "/admin/seed/restaurants"} {
		assert.Contains(t, doc.Paths, path)
	}

	create, ok := doc.Definitions["handler.CreateUserRequest"]
	require.True(t, ok)
	assert.EqualValues(t, 8, create.Properties["password"]["minLength"])
}
