package models

import (
	"slices"
	"strings"
	"time"
)

// Ingredient is one line of a recipe's ingredient list
type Ingredient struct {
	Item     string `json:"item" validate:"required"`
	Quantity string `json:"quantity" validate:"required"`
}

// Recipe represents a stored recipe. The validate tags are the record rules
// applied on create and again after every partial update.
type Recipe struct {
	ID           int64        `json:"id" db:"id"`
	Title        string       `json:"title" db:"title" validate:"min=5,max=200"`
	Description  string       `json:"description" db:"description"`
	PrepTime     string       `json:"prepTime" db:"prep_time"`
	CookTime     string       `json:"cookTime" db:"cook_time"`
	Servings     int          `json:"servings" db:"servings"`
	Ingredients  []Ingredient `json:"ingredients" validate:"min=1,dive"`
	Instructions []string     `json:"instructions" db:"instructions"`
	AuthorID     int64        `json:"author_id" db:"author_id"`
	Tags         []string     `json:"tags" validate:"dive,required,max=50"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// RecipePatch holds the fields of a partial update; nil means "leave as is"
type RecipePatch struct {
	Title        *string
	Description  *string
	PrepTime     *string
	CookTime     *string
	Servings     *int
	Ingredients  *[]Ingredient
	Instructions *[]string
	Tags         *[]string
}

// RecipeFilter narrows List results. Zero value lists everything.
type RecipeFilter struct {
	// Ingredient keeps recipes with an ingredient item containing it, case-insensitively
	Ingredient string
	// AllIngredients keeps recipes whose items include every entry (exact, case-insensitive)
	AllIngredients []string
	// Tag keeps recipes carrying the tag
	Tag string
}

// Apply returns a copy of r with the fields present in p merged over it.
func (r Recipe) Apply(p RecipePatch) Recipe {
	out := r.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.PrepTime != nil {
		out.PrepTime = *p.PrepTime
	}
	if p.CookTime != nil {
		out.CookTime = *p.CookTime
	}
	if p.Servings != nil {
		out.Servings = *p.Servings
	}
	if p.Ingredients != nil {
		out.Ingredients = slices.Clone(*p.Ingredients)
	}
	if p.Instructions != nil {
		out.Instructions = slices.Clone(*p.Instructions)
	}
	if p.Tags != nil {
		out.Tags = NormalizeTags(*p.Tags)
	}
	return out
}

// Clone returns a deep copy so callers never share slices with a store.
func (r Recipe) Clone() Recipe {
	out := r
	out.Ingredients = slices.Clone(r.Ingredients)
	out.Instructions = slices.Clone(r.Instructions)
	out.Tags = slices.Clone(r.Tags)
	if out.Ingredients == nil {
		out.Ingredients = []Ingredient{}
	}
	if out.Instructions == nil {
		out.Instructions = []string{}
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	return out
}

// Matches reports whether r satisfies every criterion set in f.
func (r Recipe) Matches(f RecipeFilter) bool {
	if f.Ingredient != "" && !r.HasIngredientLike(f.Ingredient) {
		return false
	}
	if len(f.AllIngredients) > 0 && !r.HasAllIngredients(f.AllIngredients) {
		return false
	}
	if f.Tag != "" && !slices.Contains(r.Tags, NormalizeTag(f.Tag)) {
		return false
	}
	return true
}

// HasIngredientLike reports whether any ingredient item contains sub,
// ignoring case.
func (r Recipe) HasIngredientLike(sub string) bool {
	sub = strings.ToLower(sub)
	for _, ing := range r.Ingredients {
		if strings.Contains(strings.ToLower(ing.Item), sub) {
			return true
		}
	}
	return false
}

// HasAllIngredients reports whether every wanted name equals some ingredient
// item after trimming and lower-casing both sides.
func (r Recipe) HasAllIngredients(wanted []string) bool {
	have := make(map[string]struct{}, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		have[NormalizeIngredient(ing.Item)] = struct{}{}
	}
	for _, w := range wanted {
		if _, ok := have[NormalizeIngredient(w)]; !ok {
			return false
		}
	}
	return true
}

// ParseIngredientQuery splits a comma-separated ingredient list, dropping
// blanks and duplicates.
func ParseIngredientQuery(q string) []string {
	var out []string
	for _, part := range strings.Split(q, ",") {
		part = NormalizeIngredient(part)
		if part != "" && !slices.Contains(out, part) {
			out = append(out, part)
		}
	}
	return out
}

func NormalizeIngredient(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func NormalizeTag(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeTags trims and lower-cases tags and removes duplicates, keeping
// first-seen order. Blank tags are kept as "" so validation can reject them.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = NormalizeTag(t)
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}
