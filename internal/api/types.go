package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/platefeed/backend/internal/models"
)

type registerRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150,username"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8,max=150"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type setPasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=150"`
}

type ingredientAmountRequest struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Amount int       `json:"amount" binding:"required,min=1,max=32767"`
}

type createRecipeRequest struct {
	Name        string                    `json:"name" binding:"required,max=200"`
	Text        string                    `json:"text" binding:"required"`
	Image       string                    `json:"image" binding:"omitempty,max=255"`
	CookingTime int                       `json:"cooking_time" binding:"required,min=1,max=32767"`
	Tags        []uuid.UUID               `json:"tags" binding:"required"`
	Ingredients []ingredientAmountRequest `json:"ingredients" binding:"required,dive"`
}

type updateRecipeRequest struct {
	Name        *string                   `json:"name" binding:"omitempty,max=200"`
	Text        *string                   `json:"text" binding:"omitempty"`
	Image       *string                   `json:"image" binding:"omitempty,max=255"`
	CookingTime *int                      `json:"cooking_time" binding:"omitempty,min=1,max=32767"`
	Tags        []uuid.UUID               `json:"tags" binding:"omitempty"`
	Ingredients []ingredientAmountRequest `json:"ingredients" binding:"omitempty,dive"`
}

type createTagRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Color string `json:"color" binding:"required,rgbhex"`
	Slug  string `json:"slug" binding:"required,max=200,slug"`
}

type createIngredientRequest struct {
	Name            string `json:"name" binding:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" binding:"required,max=200"`
}

// userResponse is a user as seen by a viewer.
type userResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

func newUserResponse(u *models.User, subscribed bool) userResponse {
	return userResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

type recipeIngredientResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// recipeResponse is the full recipe projection with viewer-dependent
// membership booleans.
type recipeResponse struct {
	ID               uuid.UUID                  `json:"id"`
	Author           userResponse               `json:"author"`
	Name             string                     `json:"name"`
	Text             string                     `json:"text"`
	Image            string                     `json:"image"`
	CookingTime      int                        `json:"cooking_time"`
	CreatedAt        time.Time                  `json:"created_at"`
	Tags             []models.Tag               `json:"tags"`
	Ingredients      []recipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
}

// viewerContext carries the per-viewer annotation sets resolved in
// one query per kind.
type viewerContext struct {
	favorites map[uuid.UUID]bool
	inCart    map[uuid.UUID]bool
	following map[uuid.UUID]bool
}

func newRecipeResponse(r *models.Recipe, vc viewerContext) recipeResponse {
	ingredients := make([]recipeIngredientResponse, 0, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		ingredients = append(ingredients, recipeIngredientResponse{
			ID:              ri.Ingredient.ID,
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.MeasurementUnit,
			Amount:          ri.Amount,
		})
	}
	tags := r.Tags
	if tags == nil {
		tags = []models.Tag{}
	}
	return recipeResponse{
		ID:               r.ID,
		Author:           newUserResponse(&r.Author, vc.following[r.AuthorID]),
		Name:             r.Name,
		Text:             r.Text,
		Image:            r.Image,
		CookingTime:      r.CookingTime,
		CreatedAt:        r.CreatedAt,
		Tags:             tags,
		Ingredients:      ingredients,
		IsFavorited:      vc.favorites[r.ID],
		IsInShoppingCart: vc.inCart[r.ID],
	}
}

// subscriptionResponse is one followed author with a truncated
// recipe list.
type subscriptionResponse struct {
	Author       userResponse                 `json:"author"`
	Recipes      []subscriptionRecipeResponse `json:"recipes"`
	RecipesCount int64                        `json:"recipes_count"`
}

type subscriptionRecipeResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}
