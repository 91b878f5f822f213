package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/service"
)

// RecipeHandler serves recipe listing, CRUD, the favorite/shopping
// cart toggles and the shopping list download.
type RecipeHandler struct {
	recipes     *service.RecipeService
	memberships *service.MembershipService
	shopping    *service.ShoppingListService
	follows     *service.FollowService
	auth        *service.AuthService
	pageSize    int
}

func NewRecipeHandler(
	recipes *service.RecipeService,
	memberships *service.MembershipService,
	shopping *service.ShoppingListService,
	follows *service.FollowService,
	auth *service.AuthService,
	pageSize int,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:     recipes,
		memberships: memberships,
		shopping:    shopping,
		follows:     follows,
		auth:        auth,
		pageSize:    pageSize,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", middleware.AuthOptional(h.auth), h.List)
		recipes.GET("/:id", middleware.AuthOptional(h.auth), h.Get)
		recipes.POST("", middleware.AuthRequired(h.auth), h.Create)
		recipes.PATCH("/:id", middleware.AuthRequired(h.auth), h.Update)
		recipes.DELETE("/:id", middleware.AuthRequired(h.auth), h.Delete)
		recipes.POST("/:id/favorite", middleware.AuthRequired(h.auth), h.toggle(models.KindFavorite, true))
		recipes.DELETE("/:id/favorite", middleware.AuthRequired(h.auth), h.toggle(models.KindFavorite, false))
		recipes.POST("/:id/shopping_cart", middleware.AuthRequired(h.auth), h.toggle(models.KindShoppingCart, true))
		recipes.DELETE("/:id/shopping_cart", middleware.AuthRequired(h.auth), h.toggle(models.KindShoppingCart, false))
		recipes.GET("/download_shopping_cart", middleware.AuthRequired(h.auth), h.DownloadShoppingCart)
	}
}

// List implements the filtered, paginated recipe listing. The
// membership flags are ignored for anonymous callers; unparseable
// flag values count as absent.
func (h *RecipeHandler) List(c *gin.Context) {
	filter := service.RecipeFilter{
		TagSlugs:  c.QueryArray("tags"),
		Favorited: boolFlag(c, "is_favorited"),
		InCart:    boolFlag(c, "is_in_shopping_cart"),
	}
	if raw := c.Query("author"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filter.AuthorID = &id
		}
	}
	if viewerID, ok := middleware.CurrentUserID(c); ok {
		filter.Viewer = &viewerID
	}

	page, limit := pagination(c, h.pageSize)
	recipes, total, err := h.recipes.List(c.Request.Context(), filter, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	vc, err := h.viewerContext(c, recipes)
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]recipeResponse, 0, len(recipes))
	for i := range recipes {
		results = append(results, newRecipeResponse(&recipes[i], vc))
	}
	c.JSON(http.StatusOK, paged{Count: total, Results: results})
}

func (h *RecipeHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	vc, err := h.viewerContext(c, []models.Recipe{*recipe})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRecipeResponse(recipe, vc))
}

func (h *RecipeHandler) Create(c *gin.Context) {
	actor, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req createRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), actor, service.RecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		Image:       req.Image,
		CookingTime: req.CookingTime,
		TagIDs:      req.Tags,
		Ingredients: toIngredientAmounts(req.Ingredients),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	vc, err := h.viewerContext(c, []models.Recipe{*recipe})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newRecipeResponse(recipe, vc))
}

func (h *RecipeHandler) Update(c *gin.Context) {
	actor, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	var req updateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := service.RecipeUpdate{
		Name:        req.Name,
		Text:        req.Text,
		Image:       req.Image,
		CookingTime: req.CookingTime,
		TagIDs:      req.Tags,
	}
	if req.Ingredients != nil {
		update.Ingredients = toIngredientAmounts(req.Ingredients)
	}

	recipe, err := h.recipes.Update(c.Request.Context(), actor, id, update)
	if err != nil {
		respondError(c, err)
		return
	}

	vc, err := h.viewerContext(c, []models.Recipe{*recipe})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRecipeResponse(recipe, vc))
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	actor, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// toggle returns a handler that adds or removes the recipe in the
// caller's list of the given kind.
func (h *RecipeHandler) toggle(kind models.MembershipKind, add bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, hasUser := middleware.CurrentUserID(c)
		if !hasUser {
			respondError(c, service.ErrUnauthenticated)
			return
		}
		recipeID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}

		if add {
			short, err := h.memberships.Add(c.Request.Context(), kind, userID, recipeID)
			if err != nil {
				respondError(c, err)
				return
			}
			c.JSON(http.StatusCreated, short)
			return
		}

		if err := h.memberships.Remove(c.Request.Context(), kind, userID, recipeID); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// DownloadShoppingCart streams the aggregated shopping list as a
// text attachment; an empty cart yields 204.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	actor, ok := h.currentUser(c)
	if !ok {
		return
	}

	text, err := h.shopping.Build(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+h.shopping.Filename(actor.Username)+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

// currentUser loads the authenticated caller; on failure it writes
// the error response and reports false.
func (h *RecipeHandler) currentUser(c *gin.Context) (*models.User, bool) {
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

// viewerContext resolves the viewer-dependent annotation sets for a
// batch of recipes. Anonymous viewers get empty sets.
func (h *RecipeHandler) viewerContext(c *gin.Context, recipes []models.Recipe) (viewerContext, error) {
	vc := viewerContext{}
	viewerID, ok := middleware.CurrentUserID(c)
	if !ok || len(recipes) == 0 {
		return vc, nil
	}

	recipeIDs := make([]uuid.UUID, 0, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	for i := range recipes {
		recipeIDs = append(recipeIDs, recipes[i].ID)
		authorIDs = append(authorIDs, recipes[i].AuthorID)
	}

	ctx := c.Request.Context()
	var err error
	if vc.favorites, err = h.memberships.Set(ctx, models.KindFavorite, viewerID, recipeIDs); err != nil {
		return vc, err
	}
	if vc.inCart, err = h.memberships.Set(ctx, models.KindShoppingCart, viewerID, recipeIDs); err != nil {
		return vc, err
	}
	if vc.following, err = h.follows.FollowingSet(ctx, viewerID, authorIDs); err != nil {
		return vc, err
	}
	return vc, nil
}

func toIngredientAmounts(reqs []ingredientAmountRequest) []service.IngredientAmount {
	out := make([]service.IngredientAmount, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, service.IngredientAmount{IngredientID: r.ID, Amount: r.Amount})
	}
	return out
}
