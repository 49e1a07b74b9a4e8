package utils

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Slugify lower-cases input and joins whitespace runs with a dash.
func Slugify(input string) string {
	slug := strings.ToLower(strings.TrimSpace(input))
	return whitespaceRegex.ReplaceAllString(slug, "-")
}

func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, strconv.ErrRange
	}
	return id, nil
}

func PtrInt64(i *int64) int64 {
	if i == nil {
		return 0
	}
	return *i
}

// WriteJSONError writes the {success:false,error} envelope used by every endpoint.
func WriteJSONError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "error": message})
}
