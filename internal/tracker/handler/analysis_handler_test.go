package handler

import (
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/javaconnection/furnitrack/internal/config"
	"github.com/javaconnection/furnitrack/internal/tracker/repository"
	"github.com/javaconnection/furnitrack/internal/tracker/service"
	"github.com/javaconnection/furnitrack/internal/tracker/testutil"
)

func setupAnalysisTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	cfg := &config.Config{}
	cfg.App.OnProjectDelete = config.ProjectDeleteDetach
	cfg.JWT.Secret = testutil.JWTSecret

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, nil, cfg, zap.NewNop())
	handlers := NewHandlers(services)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	api.POST("/orders", handlers.Order.Create)
	api.PUT("/orders/:id/tracking/:process", handlers.Order.UpdateTracking)
	api.GET("/orders/:id/analysis", handlers.Analysis.Order)
	api.GET("/analysis/combined", handlers.Analysis.Combined)
	api.GET("/analysis/dashboard", handlers.Analysis.Dashboard)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestOrderAnalysisEndpoint(t *testing.T) {
	env := setupAnalysisTest(t)
	order := createTestOrder(t, env, 10)
	orderID := order["order_id"].(string)

	w := testutil.DoRequest(env.Router, http.MethodGet,
		"/api/v1/orders/"+orderID+"/analysis", nil, testutil.DefaultTestToken())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if _, ok := data["risk"].(map[string]interface{}); !ok {
		t.Fatal("Expected risk assessment in analysis")
	}
	efficiency, ok := data["efficiency"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected per-process efficiency in analysis")
	}
	// Fresh order: nothing started, every catalog process scores 0.
	if efficiency["assembly"].(float64) != 0 {
		t.Errorf("Expected 0 efficiency on untouched process, got %v", efficiency["assembly"])
	}
	recs, ok := data["recommendations"].([]interface{})
	if !ok || len(recs) == 0 {
		t.Fatal("Expected at least one recommendation")
	}
}

func TestCombinedAnalysisCountsOrders(t *testing.T) {
	env := setupAnalysisTest(t)
	createTestOrder(t, env, 10)
	order := createTestOrder(t, env, 5)
	orderID := order["order_id"].(string)

	// Start one order so the fleet splits into pending and in_progress.
	w := testutil.DoRequest(env.Router, http.MethodPut,
		"/api/v1/orders/"+orderID+"/tracking/sanding",
		map[string]interface{}{"quantity_completed": 2},
		testutil.DefaultTestToken())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/analysis/combined", nil, testutil.DefaultTestToken())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["total_orders"].(float64) != 2 {
		t.Errorf("Expected 2 total orders, got %v", data["total_orders"])
	}
	if data["pending_orders"].(float64) != 1 {
		t.Errorf("Expected 1 pending order, got %v", data["pending_orders"])
	}
	if data["in_progress_orders"].(float64) != 1 {
		t.Errorf("Expected 1 in-progress order, got %v", data["in_progress_orders"])
	}
	bottleneck := data["bottleneck"].(map[string]interface{})
	// No finished run anywhere yet, so no workstation stands out.
	if bottleneck["workstation"] != "None" {
		t.Errorf("Expected no bottleneck workstation, got %v", bottleneck["workstation"])
	}
	recs := data["recommendations"].([]interface{})
	if len(recs) == 0 {
		t.Fatal("Expected combined recommendations")
	}
}

func TestCombinedAnalysisEmptyDatabase(t *testing.T) {
	env := setupAnalysisTest(t)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/analysis/combined", nil, testutil.DefaultTestToken())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["total_orders"].(float64) != 0 {
		t.Errorf("Expected 0 total orders, got %v", data["total_orders"])
	}
	if data["avg_progress"].(float64) != 0 {
		t.Errorf("Expected 0 average progress, got %v", data["avg_progress"])
	}
}

func TestCombinedAnalysisAsOfParam(t *testing.T) {
	env := setupAnalysisTest(t)
	createTestOrder(t, env, 10)

	future := time.Now().AddDate(0, 2, 0).Format("2006-01-02")
	w := testutil.DoRequest(env.Router, http.MethodGet,
		"/api/v1/analysis/combined?as_of="+future, nil, testutil.DefaultTestToken())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, http.MethodGet,
		"/api/v1/analysis/combined?as_of=yesterday", nil, testutil.DefaultTestToken())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for malformed as_of, got %d", w.Code)
	}
}

func TestDashboardWithoutCache(t *testing.T) {
	env := setupAnalysisTest(t)
	createTestOrder(t, env, 10)

	// Redis is not wired in tests; the dashboard must fall through to the DB.
	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/analysis/dashboard", nil, testutil.DefaultTestToken())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["total_orders"].(float64) != 1 {
		t.Errorf("Expected 1 total order, got %v", data["total_orders"])
	}
	if data["generated_at"] == nil {
		t.Error("Expected generated_at timestamp")
	}
}
