package devblog

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	mu     sync.Mutex
	method string
	path   string
	query  map[string][]string
	apiKey string
	body   map[string]any
}

// last returns a copy of the last request seen by the fake API.
func (r *recorded) last() recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return recorded{method: r.method, path: r.path, query: r.query, apiKey: r.apiKey, body: r.body}
}

func fakeAPI(t *testing.T, status int, response string) (*Client, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.Query()
		rec.apiKey = r.Header.Get("api-key")
		if buf, _ := io.ReadAll(r.Body); len(buf) > 0 {
			_ = json.Unmarshal(buf, &rec.body)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)

	client := NewClient("token")
	client.BaseURL = srv.URL + "/api"
	return client, rec
}

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func TestSearchArticles(t *testing.T) {
	client, rec := fakeAPI(t, http.StatusOK, `[{"id":1,"title":"Go"}]`)

	result := client.SearchArticles(t.Context(), SearchArticlesInput{
		Query:   "react hooks",
		PerPage: intPtr(5000),
		Tag:     "react",
		Top:     7,
	})

	assert.Equal(t, []any{map[string]any{"id": float64(1), "title": "Go"}}, result)
	got := rec.last()
	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/api/articles", got.path)
	assert.Equal(t, "react+hooks", got.query["q"][0])
	assert.Equal(t, "1000", got.query["per_page"][0])
	assert.Equal(t, "1", got.query["page"][0])
	assert.Equal(t, "react", got.query["tag"][0])
	assert.Equal(t, "7", got.query["top"][0])
	assert.NotContains(t, got.query, "username")
	assert.Empty(t, got.apiKey)
}

func TestSearchArticlesFailure(t *testing.T) {
	client, _ := fakeAPI(t, http.StatusInternalServerError, `oops`)

	result := client.SearchArticles(t.Context(), SearchArticlesInput{Query: "go"})
	assert.Equal(t, map[string]any{"error": "Failed to fetch articles: HTTP 500 Internal Server Error"}, result)
}

func TestGetArticleNotFound(t *testing.T) {
	client, rec := fakeAPI(t, http.StatusNotFound, `{"error":"not found"}`)

	result := client.GetArticle(t.Context(), "42")
	assert.Equal(t, map[string]any{"error": "Article with ID '42' not found"}, result)
	got := rec.last()
	assert.Equal(t, "/api/articles/42", got.path)
}

func TestGetTagsDefaults(t *testing.T) {
	client, rec := fakeAPI(t, http.StatusOK, `[{"name":"go"}]`)

	client.GetTags(t.Context(), GetTagsInput{})
	got := rec.last()
	assert.Equal(t, "/api/tags", got.path)
	assert.Equal(t, "10", got.query["per_page"][0])
	assert.Equal(t, "1", got.query["page"][0])
}

func TestCreateArticle(t *testing.T) {
	client, rec := fakeAPI(t, http.StatusCreated, `{"id":7,"title":"Hello"}`)

	result := client.CreateArticle(t.Context(), CreateArticleInput{
		Title:        "  Hello  ",
		BodyMarkdown: "# Hello",
		Tags:         []string{"a", "b", "c", "d", "e"},
	})

	assert.Equal(t, map[string]any{"id": float64(7), "title": "Hello"}, result)
	got := rec.last()
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "token", got.apiKey)
	assert.Equal(t, map[string]any{"article": map[string]any{
		"title":         "Hello",
		"body_markdown": "# Hello",
		"published":     false,
		"tags":          []any{"a", "b", "c", "d"},
	}}, got.body)
}

func TestCreateArticleValidation(t *testing.T) {
	client, rec := fakeAPI(t, http.StatusOK, `{}`)

	assert.Equal(t, map[string]any{"error": "Title is required and cannot be empty"},
		client.CreateArticle(t.Context(), CreateArticleInput{Title: " ", BodyMarkdown: "x"}))
	assert.Equal(t, map[string]any{"error": "Body content (body_markdown) is required and cannot be empty"},
		client.CreateArticle(t.Context(), CreateArticleInput{Title: "x", BodyMarkdown: "\n"}))
	got := rec.last()
	assert.Empty(t, got.method)
}

func TestCreateArticleErrors(t *testing.T) {
	tests := []struct {
		status   int
		body     string
		expected string
	}{
		{status: http.StatusBadRequest, body: `{}`, expected: "Bad request - Invalid article data provided"},
		{status: http.StatusUnauthorized, body: `{}`, expected: "Unauthorized - Invalid or missing API key"},
		{status: http.StatusUnprocessableEntity, body: `{"error":"Title has already been used"}`, expected: "Validation error: Title has already been used"},
		{status: http.StatusUnprocessableEntity, body: `{}`, expected: "Validation error: Validation error"},
		{status: http.StatusTooManyRequests, body: `{}`, expected: "Rate limit reached - Please try again in 30 seconds"},
		{status: http.StatusForbidden, body: `{}`, expected: "Failed to create article (HTTP 403)"},
		{status: http.StatusBadGateway, body: `<html>`, expected: "Failed to create article: HTTP 502"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			client, _ := fakeAPI(t, tt.status, tt.body)
			result := client.CreateArticle(t.Context(), CreateArticleInput{Title: "t", BodyMarkdown: "b"})
			obj, ok := result.(map[string]any)
			require.True(t, ok)
			assert.Equal(t, tt.expected, obj["error"])
		})
	}
}

func TestUpdateArticle(t *testing.T) {
	client, rec := fakeAPI(t, http.StatusOK, `{"id":7,"title":"New"}`)

	client.UpdateArticle(t.Context(), UpdateArticleInput{ArticleID: " 7 ", Title: strPtr(" New "), Published: new(bool)})
	got := rec.last()
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/api/articles/7", got.path)
	assert.Equal(t, map[string]any{"article": map[string]any{"title": "New", "published": false}}, got.body)
}

func TestUpdateArticleValidation(t *testing.T) {
	client, rec := fakeAPI(t, http.StatusOK, `{}`)

	assert.Equal(t, map[string]any{"error": "Article ID is required and cannot be empty"},
		client.UpdateArticle(t.Context(), UpdateArticleInput{ArticleID: " "}))
	assert.Equal(t, map[string]any{"error": "Title cannot be empty if provided"},
		client.UpdateArticle(t.Context(), UpdateArticleInput{ArticleID: "1", Title: strPtr("")}))
	assert.Equal(t, map[string]any{"error": "At least one field must be provided to update the article"},
		client.UpdateArticle(t.Context(), UpdateArticleInput{ArticleID: "1"}))
	got := rec.last()
	assert.Empty(t, got.method)
}

func TestUpdateArticleErrors(t *testing.T) {
	client, _ := fakeAPI(t, http.StatusForbidden, `{"error":"forbidden"}`)
	result := client.UpdateArticle(t.Context(), UpdateArticleInput{ArticleID: "1", Series: strPtr("go")})
	assert.Equal(t, map[string]any{
		"error":   "Forbidden - You don't have permission to update this article",
		"details": map[string]any{"error": "forbidden"},
	}, result)

	client, _ = fakeAPI(t, http.StatusNotFound, `{}`)
	result = client.UpdateArticle(t.Context(), UpdateArticleInput{ArticleID: "9", Series: strPtr("go")})
	assert.Equal(t, "Article with ID '9' not found", result.(map[string]any)["error"])
}

func TestTransportError(t *testing.T) {
	client := NewClient("token")
	client.BaseURL = "http://127.0.0.1:1/api"

	result := client.GetTags(t.Context(), GetTagsInput{})
	assert.Contains(t, result.(map[string]any)["error"], "Failed to fetch tags: ")
}

func TestServerTools(t *testing.T) {
	client, _ := fakeAPI(t, http.StatusOK, `[{"name":"go"}]`)

	ctx := t.Context()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	_, err := NewServer(client).Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	session, err := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "test"}, nil).Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	var names []string
	for tool, err := range session.Tools(ctx, nil) {
		require.NoError(t, err)
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"search_articles", "get_article", "get_tags", "create_article", "update_article"}, names)

	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "get_tags", Arguments: map[string]any{"per_page": 3}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"go"}]`, result.Content[0].(*mcp.TextContent).Text)
}
