package handler

import (
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/javaconnection/furnitrack/internal/config"
	"github.com/javaconnection/furnitrack/internal/tracker/entity"
	"github.com/javaconnection/furnitrack/internal/tracker/repository"
	"github.com/javaconnection/furnitrack/internal/tracker/service"
	"github.com/javaconnection/furnitrack/internal/tracker/testutil"
)

func setupProjectTest(t *testing.T, onDelete string) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	cfg := &config.Config{}
	cfg.App.OnProjectDelete = onDelete
	cfg.JWT.Secret = testutil.JWTSecret

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, nil, cfg, zap.NewNop())
	handlers := NewHandlers(services)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	api.POST("/projects", handlers.Project.Create)
	api.GET("/projects/:id", handlers.Project.Get)
	api.GET("/projects/:id/orders", handlers.Project.ListOrders)
	api.DELETE("/projects/:id", handlers.Project.Delete)
	api.GET("/projects/:id/risk", handlers.Project.Risk)
	api.POST("/orders", handlers.Order.Create)
	api.GET("/orders/:id", handlers.Order.Get)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func createTestProject(t *testing.T, env *testutil.TestEnv) map[string]interface{} {
	t.Helper()
	body := map[string]interface{}{
		"project_name": "Hotel Ambarrukmo Lobby",
		"client":       "PT Grand Hospitality",
		"start_date":   time.Now().AddDate(0, -1, 0).Format("2006-01-02"),
		"end_date":     time.Now().AddDate(0, 2, 0).Format("2006-01-02"),
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/projects", body, testutil.DefaultTestToken())
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return testutil.ParseResponse(w)["data"].(map[string]interface{})
}

func attachTestOrder(t *testing.T, env *testutil.TestEnv, projectID string) string {
	t.Helper()
	body := map[string]interface{}{
		"customer_name": "PT Grand Hospitality",
		"quantity":      5,
		"order_date":    time.Now().AddDate(0, 0, -5).Format("2006-01-02"),
		"target_date":   time.Now().AddDate(0, 1, 0).Format("2006-01-02"),
		"project_id":    projectID,
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/orders", body, testutil.DefaultTestToken())
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	order := testutil.ParseResponse(w)["data"].(map[string]interface{})
	return order["order_id"].(string)
}

func TestCreateProjectGeneratesID(t *testing.T) {
	env := setupProjectTest(t, config.ProjectDeleteDetach)
	project := createTestProject(t, env)

	if project["project_id"] == "" {
		t.Fatal("Expected generated project id")
	}
	if project["status"] != "planning" {
		t.Errorf("Expected planning status, got %v", project["status"])
	}
}

func TestDeleteProjectDetachesOrders(t *testing.T) {
	env := setupProjectTest(t, config.ProjectDeleteDetach)
	project := createTestProject(t, env)
	projectID := project["project_id"].(string)
	orderID := attachTestOrder(t, env, projectID)

	w := testutil.DoRequest(env.Router, http.MethodDelete,
		"/api/v1/projects/"+projectID, nil, testutil.DefaultTestToken())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Order survives with its project reference cleared.
	var order entity.Order
	if err := env.DB.Where("order_id = ?", orderID).First(&order).Error; err != nil {
		t.Fatalf("Expected order to survive project delete: %v", err)
	}
	if order.ProjectID != nil {
		t.Errorf("Expected detached order, got project_id=%v", *order.ProjectID)
	}
}

func TestDeleteProjectCascadesOrders(t *testing.T) {
	env := setupProjectTest(t, config.ProjectDeleteCascade)
	project := createTestProject(t, env)
	projectID := project["project_id"].(string)
	orderID := attachTestOrder(t, env, projectID)

	w := testutil.DoRequest(env.Router, http.MethodDelete,
		"/api/v1/projects/"+projectID, nil, testutil.DefaultTestToken())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	env.DB.Model(&entity.Order{}).Where("order_id = ?", orderID).Count(&count)
	if count != 0 {
		t.Error("Expected order removed by cascade delete")
	}
	env.DB.Model(&entity.TrackingEntry{}).Where("order_id = ?", orderID).Count(&count)
	if count != 0 {
		t.Error("Expected tracking entries removed by cascade delete")
	}
}

func TestProjectRiskWithoutOrders(t *testing.T) {
	env := setupProjectTest(t, config.ProjectDeleteDetach)
	project := createTestProject(t, env)
	projectID := project["project_id"].(string)

	w := testutil.DoRequest(env.Router, http.MethodGet,
		"/api/v1/projects/"+projectID+"/risk", nil, testutil.DefaultTestToken())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	risk := data["risk"].(map[string]interface{})
	if risk["risk_score"].(float64) != 10 {
		t.Errorf("Expected fixed score 10 for empty project, got %v", risk["risk_score"])
	}
	if risk["risk_level"] != "LOW" {
		t.Errorf("Expected LOW, got %v", risk["risk_level"])
	}
}

func TestCreateOrderWithUnknownProject(t *testing.T) {
	env := setupProjectTest(t, config.ProjectDeleteDetach)
	body := map[string]interface{}{
		"customer_name": "PT Grand Hospitality",
		"quantity":      5,
		"order_date":    time.Now().Format("2006-01-02"),
		"target_date":   time.Now().AddDate(0, 1, 0).Format("2006-01-02"),
		"project_id":    "PRJ-9999",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/orders", body, testutil.DefaultTestToken())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
}
