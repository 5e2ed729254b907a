package server

import (
	"bytes"
	stderrors "errors"
	"io"
	"net/http"

	gojson "github.com/goccy/go-json"

	"github.com/matzehuels/jsonflow/pkg/errors"
	"github.com/matzehuels/jsonflow/pkg/mutate"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidJSON, errors.ErrCodeInvalidInput, errors.ErrCodeInvalidEdit,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeEditRejected:
		return http.StatusConflict
	case errors.ErrCodeNodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		writeErrorStatus(w, r, http.StatusRequestEntityTooLarge, string(errors.ErrCodeInvalidInput), "request body too large")
		return
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}
	// A missing node is reported as its own code so clients can tell a
	// stale id from an edit that breaks the tree.
	if stderrors.Is(err, mutate.ErrNodeNotFound) {
		code = errors.ErrCodeNodeNotFound
	}
	status := statusFor(code)
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err, "request_id", RequestID(r.Context()))
		msg = "internal error"
	}
	writeErrorStatus(w, r, status, string(code), msg)
}

func writeErrorStatus(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeJSON(w, status, errorBody{Code: code, Message: msg, RequestID: RequestID(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := gojson.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, `{"code":"INTERNAL_ERROR","message":"encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// decode reads a JSON request body into v, limited to the configured size.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.BodyLimit))
	if err != nil {
		return err
	}
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
