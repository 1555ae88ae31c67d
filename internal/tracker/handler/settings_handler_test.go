package handler

import (
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/javaconnection/furnitrack/internal/config"
	"github.com/javaconnection/furnitrack/internal/tracker/repository"
	"github.com/javaconnection/furnitrack/internal/tracker/service"
	"github.com/javaconnection/furnitrack/internal/tracker/testutil"
)

func setupSettingsTest(t *testing.T) *testutil.TestEnv {
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
	api.GET("/settings", handlers.Settings.Get)
	api.PUT("/settings", handlers.Settings.Update)
	api.POST("/settings/reset", handlers.Settings.Reset)
	api.GET("/processes", handlers.Settings.Processes)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestGetSettingsSeedsDefaults(t *testing.T) {
	env := setupSettingsTest(t)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/settings", nil, testutil.DefaultTestToken())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["company_name"] != "Java Connection" {
		t.Errorf("Expected default company name, got %v", data["company_name"])
	}
	efficiency := data["efficiency"].(map[string]interface{})
	assembly := efficiency["assembly"].(map[string]interface{})
	if assembly["targetTime"].(float64) != 6 {
		t.Errorf("Expected default assembly target time 6, got %v", assembly["targetTime"])
	}
}

func TestUpdateSettingsMergesTargets(t *testing.T) {
	env := setupSettingsTest(t)

	body := map[string]interface{}{
		"efficiency": map[string]interface{}{
			"assembly": map[string]interface{}{
				"targetTime":    8,
				"targetQuality": 95,
				"targetOutput":  90,
			},
		},
	}
	w := testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/settings", body, testutil.DefaultTestToken())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	efficiency := data["efficiency"].(map[string]interface{})
	assembly := efficiency["assembly"].(map[string]interface{})
	if assembly["targetTime"].(float64) != 8 {
		t.Errorf("Expected updated target time 8, got %v", assembly["targetTime"])
	}
	// Untouched processes keep their defaults.
	sanding := efficiency["sanding"].(map[string]interface{})
	if sanding["targetTime"].(float64) != 4 {
		t.Errorf("Expected sanding target time 4, got %v", sanding["targetTime"])
	}
}

func TestUpdateSettingsRejectsInvalidTarget(t *testing.T) {
	env := setupSettingsTest(t)

	body := map[string]interface{}{
		"efficiency": map[string]interface{}{
			"assembly": map[string]interface{}{
				"targetTime":    -1,
				"targetQuality": 95,
				"targetOutput":  90,
			},
		},
	}
	w := testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/settings", body, testutil.DefaultTestToken())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestResetSettings(t *testing.T) {
	env := setupSettingsTest(t)

	body := map[string]interface{}{"company_name": "Another Co"}
	w := testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/settings", body, testutil.DefaultTestToken())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/settings/reset", nil, testutil.DefaultTestToken())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["company_name"] != "Java Connection" {
		t.Errorf("Expected default company name after reset, got %v", data["company_name"])
	}
}

func TestProcessCatalogEndpoint(t *testing.T) {
	env := setupSettingsTest(t)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/processes", nil, testutil.DefaultTestToken())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	if len(items) != 10 {
		t.Fatalf("Expected 10 catalog processes, got %d", len(items))
	}
	first := items[0].(map[string]interface{})
	if first["id"] != "warehouse_in" {
		t.Errorf("Expected warehouse_in first, got %v", first["id"])
	}
}
