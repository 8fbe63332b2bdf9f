package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(calculations.WithLabelValues("Obesity", "true"))
	IncCalculation("Obesity", true)
	after := testutil.ToFloat64(calculations.WithLabelValues("Obesity", "true"))
	if after-before != 1 {
		t.Fatalf("expected +1, got %v", after-before)
	}

	beforeWater := testutil.ToFloat64(waterLogged)
	AddWaterLogged(250)
	if got := testutil.ToFloat64(waterLogged) - beforeWater; got != 250 {
		t.Fatalf("expected +250ml, got %v", got)
	}
}

func TestRegisterIsIdempotentAndServes(t *testing.T) {
	Register()
	Register()

	IncChatQuery("greeting")

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "bmi_planner_chat_queries_total") {
		t.Fatal("expected chat query counter in exposition")
	}
}

func TestMiddlewarePassesThrough(t *testing.T) {
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", w.Code)
	}
}
