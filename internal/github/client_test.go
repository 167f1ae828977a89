package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReleaseParams(t *testing.T) {
	tests := map[string]struct {
		version string
		prefix  string
		wantTag string
	}{
		"prefix applied":         {version: "1.2.3", prefix: "v", wantTag: "v1.2.3"},
		"prefix already present": {version: "v1.2.3", prefix: "v", wantTag: "v1.2.3"},
		"no prefix":              {version: "1.2.3", prefix: "", wantTag: "1.2.3"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			params := BuildReleaseParams(tc.version, "body", "", "", tc.prefix, false, false)
			assert.Equal(t, tc.wantTag, params.TagName)
			assert.Equal(t, "body", params.Body)
		})
	}
}

func TestCreateRelease(t *testing.T) {
	var got map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v3/repos/acme/widget/releases", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 1, "tag_name": "v1.2.3"}`))
	}))
	defer server.Close()

	client, err := NewClientWithHTTP(server.Client()).WithBaseURL(server.URL + "/")
	require.NoError(t, err)

	params := BuildReleaseParams("1.2.3", "## [1.2.3] - 2021-02-03\n- fix", "widget 1.2.3", "main", "v", true, false)
	status, err := client.CreateRelease(context.Background(), "acme", "widget", params)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)

	assert.Equal(t, "v1.2.3", got["tag_name"])
	assert.Equal(t, "widget 1.2.3", got["name"])
	assert.Equal(t, "main", got["target_commitish"])
	assert.Equal(t, true, got["draft"])
	assert.Equal(t, false, got["prerelease"])
	assert.Contains(t, got["body"], "- fix")
}

func TestCreateRelease_RemoteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message": "Validation Failed"}`))
	}))
	defer server.Close()

	client, err := NewClientWithHTTP(server.Client()).WithBaseURL(server.URL + "/")
	require.NoError(t, err)

	status, err := client.CreateRelease(context.Background(), "acme", "widget",
		BuildReleaseParams("1.2.3", "body", "", "", "v", false, false))
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestToken(t *testing.T) {
	t.Setenv("PONTOS_GITHUB_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")

	_, err := Token()
	require.Error(t, err)

	t.Setenv("GITHUB_TOKEN", "gh-token")
	token, err := Token()
	require.NoError(t, err)
	assert.Equal(t, "gh-token", token)

	t.Setenv("PONTOS_GITHUB_TOKEN", "pontos-token")
	token, err = Token()
	require.NoError(t, err)
	assert.Equal(t, "pontos-token", token)
}
