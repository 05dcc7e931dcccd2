package utils

import (
	"encoding/json"
	"net/http"
	"strings"
)

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func NormalizeLanguage(language string) string {
	return strings.ToLower(strings.TrimSpace(language))
}
