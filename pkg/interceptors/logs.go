package interceptors

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// logOutput is stderr, stdout carries the protocol of stdio servers.
var logOutput io.Writer = os.Stderr

func logf(format string, a ...any) {
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}
	_, _ = fmt.Fprintf(logOutput, format, a...)
}

func argumentsToString(args any) string {
	if raw, ok := args.(json.RawMessage); ok {
		return string(raw)
	}

	buf, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprintf("%v", args)
	}

	return string(buf)
}
