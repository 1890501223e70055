package bus

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Logging logs every dispatch with its kind and duration. Failed dispatches
// are logged at warn level; the error itself is passed through untouched.
func Logging(log zerolog.Logger) Middleware {
	return func(kind Kind, next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req Request) (any, error) {
			start := time.Now()
			res, err := next(ctx, req)

			evt := log.Debug()
			if err != nil {
				evt = log.Warn().Err(err)
			}
			evt.Str("kind", string(kind)).
				Dur("elapsed", time.Since(start)).
				Msg("request dispatched")

			return res, err
		}
	}
}
