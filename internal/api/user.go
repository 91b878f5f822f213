package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/service"
)

// UserHandler serves user profiles and subscriptions.
type UserHandler struct {
	auth     *service.AuthService
	follows  *service.FollowService
	pageSize int
}

func NewUserHandler(auth *service.AuthService, follows *service.FollowService, pageSize int) *UserHandler {
	return &UserHandler{auth: auth, follows: follows, pageSize: pageSize}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", middleware.AuthOptional(h.auth), h.List)
		users.GET("/me", middleware.AuthRequired(h.auth), h.Me)
		users.POST("/set_password", middleware.AuthRequired(h.auth), h.SetPassword)
		users.GET("/subscriptions", middleware.AuthRequired(h.auth), h.Subscriptions)
		users.GET("/:id", middleware.AuthOptional(h.auth), h.Get)
		users.POST("/:id/subscribe", middleware.AuthRequired(h.auth), h.Subscribe)
		users.DELETE("/:id/subscribe", middleware.AuthRequired(h.auth), h.Unsubscribe)
	}
}

func (h *UserHandler) List(c *gin.Context) {
	page, limit := pagination(c, h.pageSize)
	users, total, err := h.auth.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	following := map[uuid.UUID]bool{}
	if viewerID, ok := middleware.CurrentUserID(c); ok {
		ids := make([]uuid.UUID, 0, len(users))
		for i := range users {
			ids = append(ids, users[i].ID)
		}
		if following, err = h.follows.FollowingSet(c.Request.Context(), viewerID, ids); err != nil {
			respondError(c, err)
			return
		}
	}

	results := make([]userResponse, 0, len(users))
	for i := range users {
		results = append(results, newUserResponse(&users[i], following[users[i].ID]))
	}
	c.JSON(http.StatusOK, paged{Count: total, Results: results})
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	user, err := h.auth.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user, false))
}

func (h *UserHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	user, err := h.auth.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	subscribed := false
	if viewerID, ok := middleware.CurrentUserID(c); ok {
		set, err := h.follows.FollowingSet(c.Request.Context(), viewerID, []uuid.UUID{user.ID})
		if err != nil {
			respondError(c, err)
			return
		}
		subscribed = set[user.ID]
	}
	c.JSON(http.StatusOK, newUserResponse(user, subscribed))
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req setPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auth.SetPassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if err := h.follows.Subscribe(c.Request.Context(), userID, authorID); err != nil {
		respondError(c, err)
		return
	}

	author, err := h.auth.GetUser(c.Request.Context(), authorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newUserResponse(author, true))
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if err := h.follows.Unsubscribe(c.Request.Context(), userID, authorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscriptions lists the caller's followed authors with their
// recipes truncated to recipes_limit. An invalid limit is ignored.
func (h *UserHandler) Subscriptions(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	recipesLimit := 0
	if v, err := strconv.Atoi(c.Query("recipes_limit")); err == nil && v > 0 {
		recipesLimit = v
	}
	page, limit := pagination(c, h.pageSize)

	entries, total, err := h.follows.Subscriptions(c.Request.Context(), userID, recipesLimit, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]subscriptionResponse, 0, len(entries))
	for _, entry := range entries {
		recipes := make([]subscriptionRecipeResponse, 0, len(entry.Recipes))
		for _, r := range entry.Recipes {
			recipes = append(recipes, subscriptionRecipeResponse{
				ID:          r.ID,
				Name:        r.Name,
				Image:       r.Image,
				CookingTime: r.CookingTime,
			})
		}
		author := entry.Author
		results = append(results, subscriptionResponse{
			Author:       newUserResponse(&author, true),
			Recipes:      recipes,
			RecipesCount: entry.RecipesCount,
		})
	}
	c.JSON(http.StatusOK, paged{Count: total, Results: results})
}
