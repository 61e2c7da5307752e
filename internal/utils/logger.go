package utils

import (
	"log"
	"strings"
)

// LogEvent prints standardized log line with module/action/request_id.
// Avoid logging sensitive payload; message should be summarized.
func LogEvent(requestID, module, action, message string) {
	req := strings.TrimSpace(requestID)
	if req == "" {
		// event dari luar request HTTP (migration, settle background)
		req = "-"
	}
	log.Printf("[%s] request_id=%s action=%s %s", strings.ToUpper(module), req, action, message)
}
