package dto

import "github.com/shamssarah/Recipe-Recommender/internal/models"

// CreateRecipeRequest represents the request payload for creating a recipe.
// Pointer fields must be present in the body but may hold zero values.
type CreateRecipeRequest struct {
	Title        string              `json:"title" validate:"required,min=5,max=200"`
	Description  *string             `json:"description" validate:"required"`
	PrepTime     *string             `json:"prepTime" validate:"required"`
	CookTime     *string             `json:"cookTime" validate:"required"`
	Servings     *int                `json:"servings" validate:"required"`
	Ingredients  []models.Ingredient `json:"ingredients" validate:"required,min=1,dive"`
	Instructions []string            `json:"instructions" validate:"required"`
	Tags         []string            `json:"tags,omitempty" validate:"omitempty,dive,required,max=50"`
}

// ToRecipe builds the record to store for the given author.
func (req CreateRecipeRequest) ToRecipe(authorID int64) models.Recipe {
	r := models.Recipe{
		Title:        req.Title,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		AuthorID:     authorID,
		Tags:         req.Tags,
	}
	if req.Description != nil {
		r.Description = *req.Description
	}
	if req.PrepTime != nil {
		r.PrepTime = *req.PrepTime
	}
	if req.CookTime != nil {
		r.CookTime = *req.CookTime
	}
	if req.Servings != nil {
		r.Servings = *req.Servings
	}
	return r
}

// UpdateRecipeRequest represents a partial update. Absent or null fields
// are left unchanged.
type UpdateRecipeRequest struct {
	Title        *string              `json:"title,omitempty"`
	Description  *string              `json:"description,omitempty"`
	PrepTime     *string              `json:"prepTime,omitempty"`
	CookTime     *string              `json:"cookTime,omitempty"`
	Servings     *int                 `json:"servings,omitempty"`
	Ingredients  *[]models.Ingredient `json:"ingredients,omitempty"`
	Instructions *[]string            `json:"instructions,omitempty"`
	Tags         *[]string            `json:"tags,omitempty"`
}

func (req UpdateRecipeRequest) ToPatch() models.RecipePatch {
	return models.RecipePatch{
		Title:        req.Title,
		Description:  req.Description,
		PrepTime:     req.PrepTime,
		CookTime:     req.CookTime,
		Servings:     req.Servings,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		Tags:         req.Tags,
	}
}

// DeleteRecipeResponse confirms a delete
type DeleteRecipeResponse struct {
	Deleted int64 `json:"deleted"`
}
