package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
)

// recoverJSON turns a panic in an API handler into a JSON 500 response.
func recoverJSON(next http.Handler) http.Handler {
	const op = "delivery.http.recoverJSON"

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "panic": fmt.Sprint(rec)})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, serverErrorResponse)
		}()

		next.ServeHTTP(w, r)
	})
}
