package idempotency

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmehra2102/bookit/pkg/httpx"
)

const (
	HeaderKey      = "Idempotency-Key"
	HeaderReplayed = "Idempotent-Replayed"
)

// Middleware deduplicates requests carrying an Idempotency-Key header.
// Responses below 500 are stored and replayed; 5xx responses release the
// key so the client can retry. Redis errors fail open.
func Middleware(log *slog.Logger, store *Store, scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(HeaderKey)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			key := store.Key(scope, raw)

			resp, found, err := store.Load(ctx, key)
			switch {
			case errors.Is(err, ErrInFlight):
				conflict(w, r, log)
				return
			case err != nil:
				log.Warn("idempotency lookup failed", "key", key, "err", err)
				next.ServeHTTP(w, r)
				return
			case found:
				replay(w, resp)
				return
			}

			seen, err := store.Seen(ctx, key)
			if err != nil {
				log.Warn("idempotency claim failed", "key", key, "err", err)
				next.ServeHTTP(w, r)
				return
			}
			if seen {
				conflict(w, r, log)
				return
			}

			// The outcome is recorded even when the client has gone away, so a
			// retry with the same key can still get the response.
			bg := context.WithoutCancel(ctx)
			var buf bytes.Buffer
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&buf)
			defer func() {
				if rec := recover(); rec != nil {
					release(bg, log, store, key)
					panic(rec)
				}
			}()
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status >= http.StatusInternalServerError {
				release(bg, log, store, key)
				return
			}
			resp := Response{Status: status, ContentType: ww.Header().Get("Content-Type"), Body: buf.Bytes()}
			if err := store.Save(bg, key, resp); err != nil {
				log.Warn("idempotency save failed", "key", key, "err", err)
			}
		})
	}
}

func release(ctx context.Context, log *slog.Logger, store *Store, key string) {
	if err := store.Release(ctx, key); err != nil {
		log.Warn("idempotency release failed", "key", key, "err", err)
	}
}

func replay(w http.ResponseWriter, resp Response) {
	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	w.Header().Set(HeaderReplayed, "true")
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}

func conflict(w http.ResponseWriter, r *http.Request, log *slog.Logger) {
	httpx.WriteError(w, r, log, ErrInFlight)
}
