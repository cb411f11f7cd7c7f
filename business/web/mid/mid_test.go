package mid_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ardanlabs/powledger/business/sys/validate"
	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/business/web/mid"
	"github.com/ardanlabs/powledger/foundation/blockchain/metrics"
	"github.com/ardanlabs/powledger/foundation/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Middleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	log := zap.NewNop().Sugar()

	app := web.NewApp(make(chan os.Signal, 1),
		mid.Logger(log),
		mid.Metrics(metrics.New(reg)),
		mid.Errors(log),
		mid.Panics(),
	)

	app.Handle(http.MethodGet, "v1", "/trusted", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return errs.BadRequest(errors.New("transaction is not signed"))
	}, mid.Cors("*"))
	app.Handle(http.MethodGet, "v1", "/fields", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return validate.NewFieldsError("account", errors.New("account is a required field"))
	})
	app.Handle(http.MethodGet, "v1", "/internal", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return errors.New("database password is hunter2")
	})
	app.Handle(http.MethodGet, "v1", "/panic", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		panic("boom")
	})

	tt := []struct {
		name   string
		path   string
		status int
		resp   errs.Response
	}{
		{"trusted", "/v1/trusted", http.StatusBadRequest, errs.Response{Error: "transaction is not signed"}},
		{"fields", "/v1/fields", http.StatusBadRequest, errs.Response{Error: "data validation error", Fields: map[string]string{"account": "account is a required field"}}},
		{"internal", "/v1/internal", http.StatusInternalServerError, errs.Response{Error: "Internal Server Error"}},
		{"panic", "/v1/panic", http.StatusInternalServerError, errs.Response{Error: "Internal Server Error"}},
	}

	t.Log("Given the need to respond to errors uniformly.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen calling %s.", testID, tst.path)
				{
					w := httptest.NewRecorder()
					app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tst.path, nil))

					if w.Code != tst.status {
						t.Fatalf("\t%s\tTest %d:\tShould receive status %d, got %d.", failed, testID, tst.status, w.Code)
					}
					t.Logf("\t%s\tTest %d:\tShould receive status %d.", success, testID, tst.status)

					var resp errs.Response
					if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould decode the response: %s", failed, testID, err)
					}
					if resp.Error != tst.resp.Error || len(resp.Fields) != len(tst.resp.Fields) {
						t.Fatalf("\t%s\tTest %d:\tShould get the expected response: %+v", failed, testID, resp)
					}
					for k, v := range tst.resp.Fields {
						if resp.Fields[k] != v {
							t.Fatalf("\t%s\tTest %d:\tShould get field %s: %+v", failed, testID, k, resp)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould get the expected response.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/trusted", nil))
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("Should set the CORS headers.")
	}

	n, err := testutil.GatherAndCount(reg, "powledger_api_requests_total")
	if err != nil || n != 4 {
		t.Fatalf("Should record a series per route and status, got %d: %v", n, err)
	}
}
