package bitbucket

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsEncode(t *testing.T) {
	var nilLimit *int
	var nilName *string

	tests := []struct {
		name   string
		params Params
		want   string
	}{
		{name: "nil values omitted", params: Params{"name": nil, "limit": 10}, want: "limit=10"},
		{name: "nil pointers omitted", params: Params{"limit": nilLimit, "name": nilName, "start": Ptr(25)}, want: "start=25"},
		{name: "empty string kept", params: Params{"name": ""}, want: "name="},
		{name: "bools", params: Params{"public": true}, want: "public=true"},
		{name: "slices repeat", params: Params{"state": []string{"OPEN", "MERGED"}}, want: "state=OPEN&state=MERGED"},
		{name: "stringers", params: Params{"permission": PermissionRepoRead}, want: "permission=REPO_READ"},
		{name: "unset enum omitted", params: Params{"permission": PermissionNone.param(), "role": RoleUnknown.param()}, want: ""},
		{name: "escaping", params: Params{"name": "a b&c"}, want: "name=a+b%26c"},
		{name: "empty", params: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.params.Encode())
		})
	}
}

func TestClient_Resolve(t *testing.T) {
	client, err := NewClient("https://bb.example.com/context/", NoAuth(), zerolog.Nop())
	require.NoError(t, err)

	tests := []struct {
		name     string
		endpoint Endpoint
		want     string
	}{
		{
			name:     "default root and version",
			endpoint: APIEndpoint("projects", "PRJ", "repos"),
			want:     "https://bb.example.com/context/rest/api/1.0/projects/PRJ/repos",
		},
		{
			name:     "slashes normalised",
			endpoint: APIEndpoint("/repos/"),
			want:     "https://bb.example.com/context/rest/api/1.0/repos",
		},
		{
			name:     "other root",
			endpoint: APIEndpoint("repos").WithRoot("/branch-utils"),
			want:     "https://bb.example.com/context/rest/branch-utils/1.0/repos",
		},
		{
			name:     "custom version",
			endpoint: Endpoint{Root: "/build-status", Version: "2.0", Path: "commits/abc"},
			want:     "https://bb.example.com/context/rest/build-status/2.0/commits/abc",
		},
		{
			name:     "raw endpoint",
			endpoint: RawEndpoint("projects", "PRJ", "repos", "r", "sizes"),
			want:     "https://bb.example.com/context/projects/PRJ/repos/r/sizes",
		},
		{
			name:     "segments escaped",
			endpoint: APIEndpoint("projects", "~user name"),
			want:     "https://bb.example.com/context/rest/api/1.0/projects/~user%20name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, client.resolve(tt.endpoint).String())
		})
	}
}

func TestClient_NewRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("query and headers", func(t *testing.T) {
		client, err := NewClient("https://bb.example.com", NoAuth(), zerolog.Nop(), WithUserAgent("bucketeer/test"))
		require.NoError(t, err)

		req, err := client.newRequest(ctx, http.MethodGet, APIEndpoint("repos"), Params{"name": nil, "limit": 10}, nil)
		require.NoError(t, err)
		assert.Equal(t, "limit=10", req.URL.RawQuery)
		assert.Equal(t, "application/json", req.Header.Get("Accept"))
		assert.Equal(t, "bucketeer/test", req.Header.Get("User-Agent"))
		assert.Empty(t, req.Header.Get("Content-Type"))
		assert.Empty(t, req.Header.Get("Authorization"))
	})

	t.Run("basic credentials", func(t *testing.T) {
		client, err := NewClient("https://bb.example.com", BasicAuth("admin", "secret"), zerolog.Nop())
		require.NoError(t, err)

		req, err := client.newRequest(ctx, http.MethodGet, APIEndpoint("repos"), nil, nil)
		require.NoError(t, err)
		user, pass, ok := req.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "admin", user)
		assert.Equal(t, "secret", pass)
	})

	t.Run("token invoked per request", func(t *testing.T) {
		var calls int
		client, err := NewClient("https://bb.example.com", TokenAuth(func() (string, error) {
			calls++
			if calls == 1 {
				return "first", nil
			}
			return "refreshed", nil
		}), zerolog.Nop())
		require.NoError(t, err)

		req1, err := client.newRequest(ctx, http.MethodGet, APIEndpoint("repos"), nil, nil)
		require.NoError(t, err)
		req2, err := client.newRequest(ctx, http.MethodGet, APIEndpoint("repos"), nil, nil)
		require.NoError(t, err)

		assert.Equal(t, "Bearer first", req1.Header.Get("Authorization"))
		assert.Equal(t, "Bearer refreshed", req2.Header.Get("Authorization"))
		assert.Equal(t, 2, calls)
		_, _, hasBasic := req2.BasicAuth()
		assert.False(t, hasBasic)
	})

	t.Run("token failure aborts", func(t *testing.T) {
		client, err := NewClient("https://bb.example.com", TokenAuth(func() (string, error) {
			return "", errors.New("vault sealed")
		}), zerolog.Nop())
		require.NoError(t, err)

		_, err = client.newRequest(ctx, http.MethodGet, APIEndpoint("repos"), nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "vault sealed")
	})

	t.Run("body encoded with codec", func(t *testing.T) {
		client, err := NewClient("https://bb.example.com", NoAuth(), zerolog.Nop())
		require.NoError(t, err)

		req, err := client.newRequest(ctx, http.MethodPost, APIEndpoint("projects"), nil, struct {
			Key         string
			Description *string
		}{Key: "PRJ"})
		require.NoError(t, err)
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

		body := make([]byte, 64)
		n, _ := req.Body.Read(body)
		assert.JSONEq(t, `{"key":"PRJ"}`, string(body[:n]))
	})
}

func TestCredentials_String(t *testing.T) {
	assert.Equal(t, "basic", BasicAuth("u", "p").String())
	assert.Equal(t, "token", StaticToken("t").String())
	assert.Equal(t, "none", NoAuth().String())
}
