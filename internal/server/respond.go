package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/thywilljoshua/pdf-mindmap/internal/errs"
	"github.com/thywilljoshua/pdf-mindmap/internal/logging"
)

type errorBody struct {
	Error string    `json:"error"`
	Code  errs.Code `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status via its code. Uncoded errors are reported
// as internal without their details.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errs.GetCode(err)
	if errors.Is(err, context.DeadlineExceeded) {
		code = errs.ErrCodeTimeout
	}
	msg := errs.UserMessage(err)
	if code == "" || code == errs.ErrCodeInternal {
		code = errs.ErrCodeInternal
		msg = "internal error"
	}
	status := errs.HTTPStatus(code)

	logger := logging.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "path", r.URL.Path, "code", code, "err", err)
	} else {
		logger.Debug("request rejected", "path", r.URL.Path, "code", code, "err", err)
	}
	writeJSON(w, status, errorBody{Error: msg, Code: code})
}
