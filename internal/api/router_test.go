package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/api"
	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/router"
	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/testhelpers"
)

const testPageSize = 6

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.NewSQLiteDB(t)
	auth := service.NewAuthService(db, "test-secret")
	recipes := service.NewRecipeService(db)
	memberships := service.NewMembershipService(db)
	shopping := service.NewShoppingListService(db)
	follows := service.NewFollowService(db)
	catalog := service.NewCatalogService(db, nil)

	engine := router.Setup(
		zap.NewNop(),
		api.NewAuthHandler(auth),
		api.NewUserHandler(auth, follows, testPageSize),
		api.NewRecipeHandler(recipes, memberships, shopping, follows, auth, testPageSize),
		api.NewCatalogHandler(catalog, auth),
	)
	return engine, db
}

func do(t *testing.T, engine *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

type registeredUser struct {
	ID    uuid.UUID
	Token string
}

func register(t *testing.T, engine *gin.Engine, username string) registeredUser {
	t.Helper()
	body := fmt.Sprintf(
		`{"email":%q,"username":%q,"first_name":"Test","last_name":"User","password":"password123"}`,
		username+"@example.com", username)
	w := do(t, engine, http.MethodPost, "/api/auth/register", body, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		User struct {
			ID uuid.UUID `json:"id"`
		} `json:"user"`
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return registeredUser{ID: resp.User.ID, Token: resp.Token}
}

func promoteAdmin(t *testing.T, db *gorm.DB, id uuid.UUID) {
	t.Helper()
	err := db.Model(&models.User{}).Where("id = ?", id).Update("role", models.RoleAdmin).Error
	require.NoError(t, err)
}

func seedCatalogTag(t *testing.T, db *gorm.DB, name, slug string) models.Tag {
	t.Helper()
	tag := models.Tag{Name: name, Color: "#00FF00", Slug: slug}
	require.NoError(t, db.Create(&tag).Error)
	return tag
}

func seedCatalogIngredient(t *testing.T, db *gorm.DB, name, unit string) models.Ingredient {
	t.Helper()
	ing := models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(&ing).Error)
	return ing
}
