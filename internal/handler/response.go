package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/recipebook/recipebook-go/internal/model"
	"github.com/recipebook/recipebook-go/internal/service"
)

const maxBodyBytes = 1 << 20 // 1MB

var (
	errInvalidBody   = errors.New("invalid request body")
	errBodyTooLarge  = errors.New("request body too large")
	errMalformedPath = errors.New("id must be a valid uuid")
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, status int, result any) {
	writeJSON(w, status, model.Success(status, result))
}

func writeFailure(w http.ResponseWriter, status int, result any, messages ...string) {
	writeJSON(w, status, model.Failure(status, result, messages...))
}

// writeError maps a service error onto a failure envelope. Anything not
// recognised is an unhandled fault and is logged here, once.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeFailure(w, http.StatusBadRequest, nil, verr.Messages...)
	case errors.Is(err, service.ErrNotFound):
		writeFailure(w, http.StatusNotFound, nil, err.Error())
	case errors.Is(err, service.ErrInvalidID),
		errors.Is(err, service.ErrIDMismatch),
		errors.Is(err, service.ErrBodyRequired),
		errors.Is(err, service.ErrNameTaken),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrRegistrationFailed),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, errInvalidBody),
		errors.Is(err, errMalformedPath):
		writeFailure(w, http.StatusBadRequest, nil, err.Error())
	case errors.Is(err, errBodyTooLarge):
		writeFailure(w, http.StatusRequestEntityTooLarge, nil, err.Error())
	default:
		slog.ErrorContext(r.Context(), "unhandled error", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, model.InternalError(err))
	}
}

// readBody returns the raw request body, or nil when the request carried none.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	defer r.Body.Close()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errBodyTooLarge
		}
		return nil, err
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, nil
	}
	return body, nil
}

// decodeBody decodes a JSON body into a new T. A missing body yields nil.
func decodeBody[T any](w http.ResponseWriter, r *http.Request) (*T, error) {
	body, err := readBody(w, r)
	if err != nil || body == nil {
		return nil, err
	}

	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, errInvalidBody
	}
	return &v, nil
}

// pathID parses the {id} URL parameter. The nil uuid parses fine and is
// rejected by the services.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errMalformedPath
	}
	return id, nil
}
