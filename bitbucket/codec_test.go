package bitbucket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCamelCase(t *testing.T) {
	tests := map[string]string{
		"DisplayId":    "displayId",
		"ID":           "id",
		"URLPath":      "urlPath",
		"LatestCommit": "latestCommit",
		"name":         "name",
		"A":            "a",
		"":             "",
	}

	for input, want := range tests {
		assert.Equal(t, want, camelCase(input), "camelCase(%q)", input)
	}
}

func TestJSONCodec_Marshal(t *testing.T) {
	type payload struct {
		DisplayId string
		ID        int
		URLPath   string
		Missing   *string
		Tagged    string `json:"scmId"`
		Nested    map[string]any
		List      []any
	}

	codec := NewJSONCodec()
	data, err := codec.Marshal(payload{
		DisplayId: "feature",
		ID:        42,
		URLPath:   "/p",
		Tagged:    "git",
		Nested:    map[string]any{"InnerKey": 1, "Gone": nil},
		List:      []any{map[string]any{"Value": nil, "Kept": true}, nil},
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"displayId": "feature",
		"id": 42,
		"urlPath": "/p",
		"scmId": "git",
		"nested": {"innerKey": 1},
		"list": [{"kept": true}, null]
	}`, string(data))
}

func TestJSONCodec_MarshalPolicyDisabled(t *testing.T) {
	codec := &JSONCodec{}
	data, err := codec.Marshal(struct {
		DisplayId string
		Missing   *string
	}{DisplayId: "x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"DisplayId":"x","Missing":null}`, string(data))
}

func TestJSONCodec_Unmarshal(t *testing.T) {
	codec := NewJSONCodec()

	t.Run("camel case into untagged fields", func(t *testing.T) {
		var out struct {
			DisplayId    string
			LatestCommit string
		}
		require.NoError(t, codec.Unmarshal([]byte(`{"displayId":"main","latestCommit":"abc"}`), &out))
		assert.Equal(t, "main", out.DisplayId)
		assert.Equal(t, "abc", out.LatestCommit)
	})

	t.Run("numbers keep precision in generic values", func(t *testing.T) {
		var out map[string]any
		require.NoError(t, codec.Unmarshal([]byte(`{"id":9007199254740993}`), &out))
		assert.Equal(t, json.Number("9007199254740993"), out["id"])
	})

	t.Run("malformed body", func(t *testing.T) {
		var out Repository
		assert.Error(t, codec.Unmarshal([]byte(`{"slug":`), &out))
	})

	t.Run("trailing content", func(t *testing.T) {
		var out Repository
		assert.Error(t, codec.Unmarshal([]byte(`{"slug":"api"} <html>oops</html>`), &out))
		assert.Error(t, codec.Unmarshal([]byte(`{"slug":"api"}{"slug":"web"}`), &out))
		assert.Error(t, codec.Unmarshal([]byte(`{"slug":"api"}}`), &out))
	})

	t.Run("trailing whitespace", func(t *testing.T) {
		var out Repository
		require.NoError(t, codec.Unmarshal([]byte("{\"slug\":\"api\"}\n  \t"), &out))
		assert.Equal(t, "api", out.Slug)
	})

	t.Run("roles by name", func(t *testing.T) {
		var p PullRequestParticipant
		require.NoError(t, codec.Unmarshal([]byte(`{"role":"REVIEWER","approved":true}`), &p))
		assert.Equal(t, RoleReviewer, p.Role)
		assert.True(t, p.Approved)
	})
}
