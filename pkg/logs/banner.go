package logs

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/op/go-logging.v1"
)

var bannerRule = strings.Repeat("=", 50)

// Banner writes a framed section to the payload log.
func Banner(logger *logging.Logger, title string, lines ...string) {
	logger.Info(bannerRule)
	logger.Info(title)
	for _, line := range lines {
		logger.Info(line)
	}
	logger.Info(bannerRule)
}

// JSON renders v indented for the payload log, falling back to %v.
func JSON(v any) string {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(buf)
}
