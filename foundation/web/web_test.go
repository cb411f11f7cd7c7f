package web_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ardanlabs/powledger/foundation/web"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_App(t *testing.T) {
	shutdown := make(chan os.Signal, 1)

	var order []string
	mw := func(name string) web.Middleware {
		return func(handler web.Handler) web.Handler {
			return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				order = append(order, name)
				return handler(ctx, w, r)
			}
		}
	}

	app := web.NewApp(shutdown, mw("app"))

	app.Handle(http.MethodGet, "v1", "/echo/:name", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		v, err := web.GetValues(ctx)
		if err != nil {
			return err
		}

		resp := struct {
			Name    string `json:"name"`
			TraceID string `json:"traceid"`
		}{
			Name:    web.Param(r, "name"),
			TraceID: v.TraceID,
		}

		return web.Respond(ctx, w, resp, http.StatusOK)
	}, mw("route"))

	app.Handle(http.MethodPost, "v1", "/decode", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var req struct {
			Account string `json:"account"`
		}
		if err := web.Decode(r, &req); err != nil {
			return web.Respond(ctx, w, err.Error(), http.StatusBadRequest)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	})

	app.Handle(http.MethodGet, "", "/integrity", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.NewShutdownError("integrity issue")
	})

	t.Log("Given the need to route requests through middleware.")
	{
		t.Logf("\tTest 0:\tWhen calling a route with a parameter.")
		{
			order = nil
			w := httptest.NewRecorder()
			app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/echo/bill", nil))

			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 0:\tShould receive a 200, got %d.", failed, w.Code)
			}
			t.Logf("\t%s\tTest 0:\tShould receive a 200.", success)

			var resp struct {
				Name    string `json:"name"`
				TraceID string `json:"traceid"`
			}
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould decode the response: %s", failed, err)
			}
			if resp.Name != "bill" || len(resp.TraceID) != 36 {
				t.Fatalf("\t%s\tTest 0:\tShould get the parameter and a trace id: %+v", failed, resp)
			}
			t.Logf("\t%s\tTest 0:\tShould get the parameter and a trace id.", success)

			if strings.Join(order, ",") != "app,route" {
				t.Fatalf("\t%s\tTest 0:\tShould run app middleware first: %v", failed, order)
			}
			t.Logf("\t%s\tTest 0:\tShould run app middleware first.", success)
		}

		t.Logf("\tTest 1:\tWhen decoding request bodies.")
		{
			w := httptest.NewRecorder()
			app.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/decode", strings.NewReader(`{"account":"bill"}`)))
			if w.Code != http.StatusNoContent {
				t.Fatalf("\t%s\tTest 1:\tShould accept a known field, got %d.", failed, w.Code)
			}
			t.Logf("\t%s\tTest 1:\tShould accept a known field.", success)

			w = httptest.NewRecorder()
			app.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/decode", strings.NewReader(`{"other":"bill"}`)))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("\t%s\tTest 1:\tShould reject an unknown field, got %d.", failed, w.Code)
			}
			t.Logf("\t%s\tTest 1:\tShould reject an unknown field.", success)
		}

		t.Logf("\tTest 2:\tWhen a handler returns a shutdown error.")
		{
			w := httptest.NewRecorder()
			app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/integrity", nil))

			select {
			case <-shutdown:
				t.Logf("\t%s\tTest 2:\tShould signal a shutdown.", success)
			default:
				t.Fatalf("\t%s\tTest 2:\tShould signal a shutdown.", failed)
			}
		}
	}
}
