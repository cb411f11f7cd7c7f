package mid

import (
	"context"
	"net/http"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/metrics"
	"github.com/ardanlabs/powledger/foundation/web"
)

// Metrics updates the request collectors once the request is handled.
func Metrics(m *metrics.Metrics) web.Middleware {

	// This is the actual middleware function to be executed.
	mw := func(handler web.Handler) web.Handler {

		// Create the handler that will be attached in the middleware chain.
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			err := handler(ctx, w, r)

			status := http.StatusInternalServerError
			now := time.Now()
			if v, verr := web.GetValues(ctx); verr == nil {
				if v.StatusCode != 0 {
					status = v.StatusCode
				}
				now = v.Now
			}

			m.Request(r.Method, r.URL.Path, status, time.Since(now))

			// Return the error so it can be handled further up the chain.
			return err
		}

		return h
	}

	return mw
}
