package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const entryIDKey contextKey = "entry_id"

// EntryID parses the {id} route parameter as a numeric entry id and
// answers 400 for anything else, before any handler touches storage.
func EntryID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid ID", "Entry id must be numeric.")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), entryIDKey, id)))
	})
}

// EntryIDFrom returns the id parsed by EntryID.
func EntryIDFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(entryIDKey).(int64)
	return id, ok
}
