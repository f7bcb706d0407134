package httpx

import (
	"encoding/json"
	"net/http"
)

// APIError is the error envelope every authzeed endpoint returns on
// failure. Code is one of the ErrorCode constants below, not a raw Go
// error string, so CLI and SDK callers can branch on failure kind
// without parsing Message.
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code ErrorCode, msg string) {
	WriteJSON(w, status, APIError{Code: code, Message: msg})
}
