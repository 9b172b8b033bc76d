package images

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcplab/mcp-examples/pkg/config"
)

const BaseURL = "https://picsum.photos"

const description = `Generate a random image URL from Lorem Picsum.
Args:
    width (int): The width of the image.
    height (int): The height of the image.
    options (Dict[str, str], optional): Additional options for the image. Defaults to {}.

available options:
    - grayscale: 1 for grayscale, 0 for color
    - blur: 1-10 for blur level
    - random: 1 for random image, 0 for specific image
    - seed: seed value for random image
    - quality: quality of the image (0-100)`

type ImageRequest struct {
	Width   int               `json:"width" jsonschema:"The width of the image"`
	Height  int               `json:"height" jsonschema:"The height of the image"`
	Options map[string]string `json:"options,omitempty" jsonschema:"Additional options for the image"`
}

// URL builds the picsum URL. Options are appended as a query with sorted keys.
func URL(width, height int, options map[string]string) string {
	url := fmt.Sprintf("%s/%d/%d", BaseURL, width, height)
	if len(options) == 0 {
		return url
	}

	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+options[k])
	}

	return url + "?" + strings.Join(pairs, "&")
}

func NewServer() *mcp.Server {
	server := mcp.NewServer(config.Implementation("Images_Generator_MCP_Server"), nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_image_url",
		Description: description,
	}, func(_ context.Context, _ *mcp.CallToolRequest, in ImageRequest) (*mcp.CallToolResult, any, error) {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: URL(in.Width, in.Height, in.Options)}},
		}, nil, nil
	})

	return server
}
