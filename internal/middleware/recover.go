package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/recipebook/recipebook-go/internal/model"
)

// Recoverer turns a panic in a downstream handler into a 500 envelope.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			panicRecoveries.Inc()
			err := fmt.Errorf("panic: %v", rec)
			slog.ErrorContext(r.Context(), "handler panicked", "error", err, "stack", string(debug.Stack()))

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(model.InternalError(err))
		}()

		next.ServeHTTP(w, r)
	})
}
