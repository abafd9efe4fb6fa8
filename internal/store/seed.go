package store

import (
	"context"
	"fmt"

	"github.com/shamssarah/Recipe-Recommender/internal/models"
)

// ExampleRecipes are stored on startup when seeding is enabled.
func ExampleRecipes(authorID int64) []models.Recipe {
	return []models.Recipe{
		{
			Title:       "Tomato Pasta",
			Description: "Pasta tossed in a quick tomato sauce.",
			PrepTime:    "5 minutes",
			CookTime:    "15 minutes",
			Servings:    2,
			Ingredients: []models.Ingredient{
				{Item: "tomato", Quantity: "3"},
				{Item: "pasta", Quantity: "200 g"},
				{Item: "olive oil", Quantity: "2 tbsp"},
			},
			Instructions: []string{"Cook pasta.", "Toss with sauce."},
			AuthorID:     authorID,
			Tags:         []string{"pasta", "quick"},
		},
		{
			Title:       "Avocado Toast",
			Description: "Crisp toast with mashed avocado.",
			PrepTime:    "5 minutes",
			CookTime:    "3 minutes",
			Servings:    1,
			Ingredients: []models.Ingredient{
				{Item: "bread", Quantity: "2 slices"},
				{Item: "avocado", Quantity: "1"},
				{Item: "salt", Quantity: "a pinch"},
			},
			Instructions: []string{"Toast bread.", "Mash avocado.", "Season."},
			AuthorID:     authorID,
			Tags:         []string{"breakfast", "quick"},
		},
	}
}

// Seed stores the example recipes and returns how many were created.
func Seed(ctx context.Context, rs RecipeStore, authorID int64) (int, error) {
	n := 0
	for _, r := range ExampleRecipes(authorID) {
		if _, err := rs.Create(ctx, r); err != nil {
			return n, fmt.Errorf("seed %q: %w", r.Title, err)
		}
		n++
	}
	return n, nil
}
