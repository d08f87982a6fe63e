package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"internhub/internal/common"
)

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return common.NewError(common.CodeValidation, "invalid request body", err)
	}
	return nil
}

// idFromPath pulls a path segment counted from the end: 1 is the last
// segment, 2 the one before it.
func idFromPath(r *http.Request, fromEnd int) (common.UUID, error) {
	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(segments) < fromEnd {
		return "", common.NewError(common.CodeValidation, "missing id in path", nil)
	}
	return common.ParseUUID(segments[len(segments)-fromEnd])
}

func errUnauthorized() error {
	return common.NewError(common.CodeUnauthorized, "authentication required", nil)
}
