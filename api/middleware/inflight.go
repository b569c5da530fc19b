package middleware

import (
	"net/http"
	"sync/atomic"

	"github.com/parshwa-io/adminconsole-backend/api/responses"
	pkgerrors "github.com/parshwa-io/adminconsole-backend/pkg/errors"
	"github.com/parshwa-io/adminconsole-backend/pkg/logger"
)

// DeleteGuard serializes deletion requests. The console is a small internal
// tool; one deletion at a time keeps the compensating cleanup logic simple to
// reason about.
type DeleteGuard struct {
	busy atomic.Bool
}

func NewDeleteGuard() *DeleteGuard {
	return &DeleteGuard{}
}

// TryAcquire marks a deletion in flight. It fails when one is already running.
func (g *DeleteGuard) TryAcquire() bool {
	return g.busy.CompareAndSwap(false, true)
}

// Release clears the in-flight flag.
func (g *DeleteGuard) Release() {
	g.busy.Store(false)
}

// InFlight reports whether a deletion is currently running.
func (g *DeleteGuard) InFlight() bool {
	return g.busy.Load()
}

// SingleDelete rejects a deletion request with 409 while another is running.
func SingleDelete(guard *DeleteGuard, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if guard == nil {
				next.ServeHTTP(w, r)
				return
			}
			if !guard.TryAcquire() {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeConflict, "a deletion is already in progress"))
				return
			}
			defer guard.Release()
			next.ServeHTTP(w, r)
		})
	}
}
