package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/service"
)

// CatalogHandler serves the tag and ingredient catalogs. Reads are
// open; writes are admin-gated in the service.
type CatalogHandler struct {
	catalog *service.CatalogService
	auth    *service.AuthService
}

func NewCatalogHandler(catalog *service.CatalogService, auth *service.AuthService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, auth: auth}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	tags := router.Group("/tags")
	{
		tags.GET("", h.ListTags)
		tags.GET("/:id", h.GetTag)
		tags.POST("", middleware.AuthRequired(h.auth), h.CreateTag)
	}
	ingredients := router.Group("/ingredients")
	{
		ingredients.GET("", h.SearchIngredients)
		ingredients.POST("", middleware.AuthRequired(h.auth), h.CreateIngredient)
	}
}

func (h *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := h.catalog.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *CatalogHandler) GetTag(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "tag not found"})
		return
	}
	tag, err := h.catalog.GetTag(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (h *CatalogHandler) CreateTag(c *gin.Context) {
	actor, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req createTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag := models.Tag{Name: req.Name, Color: req.Color, Slug: req.Slug}
	if err := h.catalog.CreateTag(c.Request.Context(), actor, &tag); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func (h *CatalogHandler) SearchIngredients(c *gin.Context) {
	ingredients, err := h.catalog.SearchIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

func (h *CatalogHandler) CreateIngredient(c *gin.Context) {
	actor, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req createIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ing := models.Ingredient{Name: req.Name, MeasurementUnit: req.MeasurementUnit}
	if err := h.catalog.CreateIngredient(c.Request.Context(), actor, &ing); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ing)
}

func (h *CatalogHandler) currentUser(c *gin.Context) (*models.User, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return nil, false
	}
	user, err := h.auth.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return user, true
}
