package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/mcplab/mcp-examples/pkg/telemetry"
)

func List(ctx context.Context, target Target, show, tool, format string, out io.Writer) error {
	c, err := start(ctx, target)
	if err != nil {
		return fmt.Errorf("starting client: %w", err)
	}
	defer c.Close()

	return list(ctx, c.Session(), show, tool, format, out)
}

func list(ctx context.Context, session *mcp.ClientSession, show, tool, format string, out io.Writer) error {
	meter := otel.GetMeterProvider().Meter(telemetry.MeterName)
	toolsDiscoveredGauge, _ := meter.Int64Gauge("mcp.cli.tools.discovered",
		metric.WithDescription("Number of tools discovered by CLI"),
		metric.WithUnit("1"))

	var tools []*mcp.Tool
	for t, err := range session.Tools(ctx, nil) {
		if err != nil {
			return fmt.Errorf("listing tools: %w", err)
		}
		tools = append(tools, t)
	}

	toolsDiscoveredGauge.Record(ctx, int64(len(tools)),
		metric.WithAttributes(
			attribute.String("mcp.cli.command", "tools."+show),
		))

	switch show {
	case "list":
		if format == "json" {
			buf, err := json.MarshalIndent(tools, "", "  ")
			if err != nil {
				return fmt.Errorf("marshalling tools: %w", err)
			}

			fmt.Fprintln(out, string(buf))
		} else {
			fmt.Fprintln(out, len(tools), "tools:")
			for _, tool := range tools {
				fmt.Fprintln(out, " -", tool.Name, "-", toolDescription(tool))
			}
		}
	case "count":
		if format == "json" {
			fmt.Fprintf(out, "{\"count\": %d}\n", len(tools))
		} else {
			fmt.Fprintln(out, len(tools), "tools")
		}
	case "inspect":
		var found *mcp.Tool
		for _, t := range tools {
			if t.Name == tool {
				found = t
				break
			}
		}
		if found == nil {
			return fmt.Errorf("tool %s not found", tool)
		}

		if format == "json" {
			buf, err := json.MarshalIndent(found, "", "  ")
			if err != nil {
				return fmt.Errorf("marshalling tools: %w", err)
			}

			fmt.Fprintln(out, string(buf))
		} else {
			fmt.Fprintln(out, "Name:", found.Name)
			fmt.Fprintln(out, "Description:", found.Description)

			if found.InputSchema != nil {
				buf, err := json.MarshalIndent(found.InputSchema, "", "  ")
				if err != nil {
					return fmt.Errorf("marshalling input schema: %w", err)
				}
				fmt.Fprintln(out, "Input schema:", string(buf))
			}
		}
	default:
		return fmt.Errorf("unknown listing %q", show)
	}

	return nil
}

func toolDescription(tool *mcp.Tool) string {
	if tool.Annotations != nil && tool.Annotations.Title != "" {
		return tool.Annotations.Title
	}
	return descriptionSummary(tool.Description)
}

// descriptionSummary keeps the first sentence of a description.
func descriptionSummary(description string) string {
	var result []string

	for line := range strings.SplitSeq(description, "\n") {
		line := strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "Args:" || line == "Returns:" {
			break
		}

		if strings.Contains(line, ". ") {
			parts := strings.SplitN(line, ". ", 2)
			result = append(result, parts[0]+".")
			break
		}

		result = append(result, line)
		if strings.HasSuffix(line, ".") {
			break
		}
	}

	return strings.TrimSpace(strings.Join(result, " "))
}
