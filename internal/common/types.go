package common

import (
	"context"
	"encoding/json"
	"net/http"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	handleKey
)

// WithIdentity stores the authenticated caller in ctx.
func WithIdentity(ctx context.Context, userID uint64, handle string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, handleKey, handle)
}

func UserIDFromContext(ctx context.Context) (uint64, bool) {
	id, ok := ctx.Value(userIDKey).(uint64)
	return id, ok && id != 0
}

func HandleFromContext(ctx context.Context) string {
	h, _ := ctx.Value(handleKey).(string)
	return h
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func WriteError(w http.ResponseWriter, err error) int {
	status, msg := HTTPStatus(err)
	WriteJSON(w, status, ErrorResponse{Error: msg})
	return status
}
