package devblog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcplab/mcp-examples/pkg/config"
)

const maxPerPage = 1000

type SearchArticlesInput struct {
	Query    string `json:"query" jsonschema:"The search query/topic to search for (e.g. laravel authentication, react hooks)"`
	PerPage  *int   `json:"per_page,omitempty" jsonschema:"Number of articles to return per page (default: 10, max: 1000)"`
	Page     *int   `json:"page,omitempty" jsonschema:"Page number for pagination (default: 1)"`
	Tag      string `json:"tag,omitempty" jsonschema:"Filter by specific tag"`
	Username string `json:"username,omitempty" jsonschema:"Filter by specific username"`
	State    string `json:"state,omitempty" jsonschema:"Filter by article state (fresh for recent articles)"`
	Top      int    `json:"top,omitempty" jsonschema:"Filter by top articles (7 for weekly, 30 for monthly)"`
}

type GetArticleInput struct {
	ArticleID string `json:"article_id" jsonschema:"The article ID or path (e.g. 2546060 or devteam/some-article-3hfh)"`
}

type GetTagsInput struct {
	PerPage *int `json:"per_page,omitempty" jsonschema:"Number of tags to return (default: 10, max: 1000)"`
	Page    *int `json:"page,omitempty" jsonschema:"Page number for pagination (default: 1)"`
}

type CreateArticleInput struct {
	Title          string   `json:"title" jsonschema:"The title of the article"`
	BodyMarkdown   string   `json:"body_markdown" jsonschema:"The content of the article in markdown format"`
	Published      bool     `json:"published,omitempty" jsonschema:"Whether to publish the article immediately (default: false for draft)"`
	Tags           []string `json:"tags,omitempty" jsonschema:"List of tags for the article (max 4 tags)"`
	Description    string   `json:"description,omitempty" jsonschema:"Brief description/summary of the article"`
	CanonicalURL   string   `json:"canonical_url,omitempty" jsonschema:"Canonical URL if this is a cross-post"`
	MainImage      string   `json:"main_image,omitempty" jsonschema:"URL of the main image for the article"`
	OrganizationID int      `json:"organization_id,omitempty" jsonschema:"ID of organization to publish under"`
	Series         string   `json:"series,omitempty" jsonschema:"Name of the series this article belongs to"`
}

// UpdateArticleInput only sends the fields that are set.
type UpdateArticleInput struct {
	ArticleID      string   `json:"article_id" jsonschema:"The ID of the article to update (e.g. 2546060)"`
	Title          *string  `json:"title,omitempty" jsonschema:"The new title of the article"`
	BodyMarkdown   *string  `json:"body_markdown,omitempty" jsonschema:"The new content of the article in markdown format"`
	Published      *bool    `json:"published,omitempty" jsonschema:"Whether to publish/unpublish the article"`
	Tags           []string `json:"tags,omitempty" jsonschema:"New list of tags for the article (max 4 tags)"`
	Description    *string  `json:"description,omitempty" jsonschema:"New brief description/summary of the article"`
	CanonicalURL   *string  `json:"canonical_url,omitempty" jsonschema:"New canonical URL if this is a cross-post"`
	MainImage      *string  `json:"main_image,omitempty" jsonschema:"New URL of the main image for the article"`
	OrganizationID *int     `json:"organization_id,omitempty" jsonschema:"ID of organization to publish under"`
	Series         *string  `json:"series,omitempty" jsonschema:"Name of the series this article belongs to"`
}

// NewServer returns the DEV_TO_Blog_MCP_Server backed by client.
func NewServer(client *Client) *mcp.Server {
	server := mcp.NewServer(config.Implementation("DEV_TO_Blog_MCP_Server"), nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_articles",
		Description: "Search for articles on dev.to by topic/keyword. Returns a list of articles with title, description, URL and tags.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in SearchArticlesInput) (*mcp.CallToolResult, any, error) {
		return jsonResult(client.SearchArticles(ctx, in)), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_article",
		Description: "Get detailed information about a specific dev.to article by its ID or path, including its full content.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in GetArticleInput) (*mcp.CallToolResult, any, error) {
		return jsonResult(client.GetArticle(ctx, in.ArticleID)), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_tags",
		Description: "Get popular tags from dev.to.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in GetTagsInput) (*mcp.CallToolResult, any, error) {
		return jsonResult(client.GetTags(ctx, in)), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_article",
		Description: "Create a new article on dev.to. Articles are created as drafts unless published is true. Rate limited: wait 30 seconds before retrying.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in CreateArticleInput) (*mcp.CallToolResult, any, error) {
		return jsonResult(client.CreateArticle(ctx, in)), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_article",
		Description: "Update an existing article on dev.to. Only the provided fields are changed. You can only update your own articles.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in UpdateArticleInput) (*mcp.CallToolResult, any, error) {
		return jsonResult(client.UpdateArticle(ctx, in)), nil, nil
	})

	return server
}

func (c *Client) SearchArticles(ctx context.Context, in SearchArticlesInput) any {
	query := pagination(in.PerPage, in.Page)
	if in.Query != "" {
		query.Set("q", strings.ReplaceAll(in.Query, " ", "+"))
	}
	if in.Tag != "" {
		query.Set("tag", in.Tag)
	}
	if in.Username != "" {
		query.Set("username", in.Username)
	}
	if in.State != "" {
		query.Set("state", in.State)
	}
	if in.Top != 0 {
		query.Set("top", strconv.Itoa(in.Top))
	}

	articles, err := c.do(ctx, http.MethodGet, "/articles", query, nil, false)
	if err != nil {
		logf("HTTP error occurred: %v\n", err)
		return errorResult("Failed to fetch articles: " + err.Error())
	}
	return articles
}

func (c *Client) GetArticle(ctx context.Context, articleID string) any {
	article, err := c.do(ctx, http.MethodGet, "/articles/"+articleID, nil, nil, false)
	if err != nil {
		logf("HTTP error occurred: %v\n", err)
		var statusErr *statusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return errorResult(fmt.Sprintf("Article with ID '%s' not found", articleID))
		}
		return errorResult("Failed to fetch article: " + err.Error())
	}
	return article
}

func (c *Client) GetTags(ctx context.Context, in GetTagsInput) any {
	tags, err := c.do(ctx, http.MethodGet, "/tags", pagination(in.PerPage, in.Page), nil, false)
	if err != nil {
		logf("HTTP error occurred: %v\n", err)
		return errorResult("Failed to fetch tags: " + err.Error())
	}
	return tags
}

func (c *Client) CreateArticle(ctx context.Context, in CreateArticleInput) any {
	if strings.TrimSpace(in.Title) == "" {
		return errorResult("Title is required and cannot be empty")
	}
	if strings.TrimSpace(in.BodyMarkdown) == "" {
		return errorResult("Body content (body_markdown) is required and cannot be empty")
	}

	article := map[string]any{
		"title":         strings.TrimSpace(in.Title),
		"body_markdown": in.BodyMarkdown,
		"published":     in.Published,
	}
	if len(in.Tags) > 0 {
		article["tags"] = firstTags(in.Tags)
	}
	if in.Description != "" {
		article["description"] = in.Description
	}
	if in.CanonicalURL != "" {
		article["canonical_url"] = in.CanonicalURL
	}
	if in.MainImage != "" {
		article["main_image"] = in.MainImage
	}
	if in.OrganizationID != 0 {
		article["organization_id"] = in.OrganizationID
	}
	if in.Series != "" {
		article["series"] = in.Series
	}

	created, err := c.do(ctx, http.MethodPost, "/articles", nil, map[string]any{"article": article}, true)
	if err != nil {
		logf("HTTP error occurred: %v\n", err)
		return writeError("create", "", err)
	}

	logf("Article created successfully: %s\n", titleOf(created))
	return created
}

func (c *Client) UpdateArticle(ctx context.Context, in UpdateArticleInput) any {
	articleID := strings.TrimSpace(in.ArticleID)
	if articleID == "" {
		return errorResult("Article ID is required and cannot be empty")
	}

	article := map[string]any{}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return errorResult("Title cannot be empty if provided")
		}
		article["title"] = strings.TrimSpace(*in.Title)
	}
	if in.BodyMarkdown != nil {
		if strings.TrimSpace(*in.BodyMarkdown) == "" {
			return errorResult("Body content (body_markdown) cannot be empty if provided")
		}
		article["body_markdown"] = *in.BodyMarkdown
	}
	if in.Published != nil {
		article["published"] = *in.Published
	}
	if in.Tags != nil {
		article["tags"] = firstTags(in.Tags)
	}
	if in.Description != nil {
		article["description"] = *in.Description
	}
	if in.CanonicalURL != nil {
		article["canonical_url"] = *in.CanonicalURL
	}
	if in.MainImage != nil {
		article["main_image"] = *in.MainImage
	}
	if in.OrganizationID != nil {
		article["organization_id"] = *in.OrganizationID
	}
	if in.Series != nil {
		article["series"] = *in.Series
	}

	if len(article) == 0 {
		return errorResult("At least one field must be provided to update the article")
	}

	updated, err := c.do(ctx, http.MethodPut, "/articles/"+articleID, nil, map[string]any{"article": article}, true)
	if err != nil {
		logf("HTTP error occurred: %v\n", err)
		return writeError("update", in.ArticleID, err)
	}

	logf("Article updated successfully: %s\n", titleOf(updated))
	return updated
}

// writeError maps a failed create or update onto the error object returned
// to the model.
func writeError(action, articleID string, err error) map[string]any {
	var statusErr *statusError
	if !errors.As(err, &statusErr) {
		return errorResult(fmt.Sprintf("Failed to %s article: %v", action, err))
	}

	var details any
	if json.Unmarshal(statusErr.Body, &details) != nil {
		return errorResult(fmt.Sprintf("Failed to %s article: HTTP %d", action, statusErr.StatusCode))
	}

	var message string
	switch statusErr.StatusCode {
	case http.StatusBadRequest:
		message = "Bad request - Invalid article data provided"
	case http.StatusUnauthorized:
		message = "Unauthorized - Invalid or missing API key"
	case http.StatusForbidden:
		if action == "update" {
			message = "Forbidden - You don't have permission to update this article"
		}
	case http.StatusNotFound:
		if action == "update" {
			message = fmt.Sprintf("Article with ID '%s' not found", articleID)
		}
	case http.StatusUnprocessableEntity:
		reason := "Validation error"
		if obj, ok := details.(map[string]any); ok {
			if s, ok := obj["error"].(string); ok && s != "" {
				reason = s
			}
		}
		message = "Validation error: " + reason
	case http.StatusTooManyRequests:
		message = "Rate limit reached - Please try again in 30 seconds"
	}
	if message == "" {
		message = fmt.Sprintf("Failed to %s article (HTTP %d)", action, statusErr.StatusCode)
	}

	return map[string]any{"error": message, "details": details}
}

func pagination(perPage, page *int) url.Values {
	size, number := 10, 1
	if perPage != nil {
		size = min(*perPage, maxPerPage)
	}
	if page != nil {
		number = *page
	}

	return url.Values{
		"per_page": []string{strconv.Itoa(size)},
		"page":     []string{strconv.Itoa(number)},
	}
}

func firstTags(tags []string) []string {
	if len(tags) > 4 {
		return tags[:4]
	}
	return tags
}

func titleOf(article any) string {
	if obj, ok := article.(map[string]any); ok {
		if title, ok := obj["title"].(string); ok {
			return title
		}
	}
	return "Unknown title"
}

func errorResult(message string) map[string]any {
	return map[string]any{"error": message}
}

func jsonResult(v any) *mcp.CallToolResult {
	buf, err := json.Marshal(v)
	if err != nil {
		buf = []byte(fmt.Sprintf(`{"error":%q}`, err.Error()))
	}
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: string(buf)}}}
}

func logf(format string, a ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format, a...)
}
