package interceptors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"github.com/google/shlex"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcplab/mcp-examples/pkg/logs"
)

// Callbacks returns the middleware chain installed on a tool server.
func Callbacks(serverName string, logCalls, blockSecrets bool, interceptors []Interceptor) []mcp.Middleware {
	middleware := []mcp.Middleware{TelemetryMiddleware(serverName)}

	for _, interceptor := range interceptors {
		middleware = append(middleware, interceptor.ToMiddleware())
	}

	if logCalls {
		middleware = append(middleware, LogCallsMiddleware())
	}

	if blockSecrets {
		middleware = append(middleware, BlockSecretsMiddleware())
	}

	return middleware
}

type Interceptor struct {
	When     string
	Type     string
	Argument string
}

// Parse reads interceptor specs.
//
//	--interceptor=before:exec:/bin/path
//	--interceptor=after:exec:jq .
//	--interceptor=before:http:http://localhost:8080/url
func Parse(specs []string) ([]Interceptor, error) {
	var interceptors []Interceptor

	for _, spec := range specs {
		parts := strings.SplitN(spec, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid interceptor spec '%s', expected format is 'when:type:argument'", spec)
		}

		w := strings.ToLower(parts[0])
		if w != "before" && w != "after" {
			return nil, fmt.Errorf("invalid interceptor when: '%s', expected 'before' or 'after'", w)
		}

		t := strings.ToLower(parts[1])
		if t != "exec" && t != "http" {
			return nil, fmt.Errorf("invalid interceptor type: '%s', expected 'exec' or 'http'", t)
		}

		interceptors = append(interceptors, Interceptor{
			When:     w,
			Type:     t,
			Argument: parts[2],
		})
	}

	return interceptors, nil
}

// ToMiddleware hands the tool call params to a "before" interceptor, or the
// tool result to an "after" one. Whatever the interceptor prints or answers,
// when not blank, becomes the result of the call and short-circuits the tool
// for "before".
func (i *Interceptor) ToMiddleware() mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			if method != "tools/call" {
				return next(ctx, method, req)
			}

			if i.When == "before" {
				replaced, err := i.intercept(ctx, map[string]any{"params": req.GetParams()})
				if err != nil || replaced != nil {
					return replaced, err
				}
				return next(ctx, method, req)
			}

			result, err := next(ctx, method, req)
			if err != nil {
				return nil, err
			}
			replaced, err := i.intercept(ctx, result)
			if err != nil {
				return nil, err
			}
			if replaced != nil {
				return replaced, nil
			}
			return result, nil
		}
	}
}

// intercept returns nil, nil when the interceptor has nothing to say.
func (i *Interceptor) intercept(ctx context.Context, payload any) (*mcp.CallToolResult, error) {
	message, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s interceptor payload: %w", i.When, err)
	}

	var out []byte
	switch i.Type {
	case "exec":
		out, err = i.runExec(ctx, message)
	case "http":
		out, err = i.runHTTP(ctx, message)
	default:
		err = fmt.Errorf("unknown interceptor type '%s'", i.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("%s interceptor %s: %w", i.When, i.Argument, err)
	}

	out = bytes.TrimSpace(out)
	if len(out) == 0 {
		return nil, nil
	}

	var result mcp.CallToolResult
	if err := json.Unmarshal(out, &result); err != nil {
		return nil, fmt.Errorf("decoding %s interceptor output: %w", i.When, err)
	}
	return &result, nil
}

func (i *Interceptor) runExec(ctx context.Context, message []byte) ([]byte, error) {
	words, err := shlex.Split(i.Argument)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("no command")
	}

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, words[0], words[1:]...)
	cmd.Stdin = bytes.NewReader(message)
	cmd.Stdout = &stdout
	cmd.Stderr = logs.NewPrefixer(logOutput, "  - ")
	if err := cmd.Run(); err != nil {
		return nil, err
	}
	return stdout.Bytes(), nil
}

func (i *Interceptor) runHTTP(ctx context.Context, message []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.Argument, bytes.NewReader(message))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("answered %s", resp.Status)
	}
	return body, nil
}

var httpClient = &http.Client{Timeout: 30 * time.Second}
