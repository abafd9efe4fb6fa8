package postgres

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/shamssarah/Recipe-Recommender/internal/common"
	"github.com/shamssarah/Recipe-Recommender/internal/models"
	"github.com/shamssarah/Recipe-Recommender/internal/store"
	"github.com/shamssarah/Recipe-Recommender/internal/validation"
)

const recipeColumns = `r.id, r.title, r.description, r.prep_time, r.cook_time,
	r.servings, r.instructions, r.author_id, r.created_at, r.updated_at`

// RecipeStore keeps recipes in the recipes table with ingredients and tags in
// child tables. Every write runs in one transaction.
type RecipeStore struct {
	db DB
}

var _ store.RecipeStore = (*RecipeStore)(nil)

func NewRecipeStore(db DB) *RecipeStore {
	return &RecipeStore{db: db}
}

func (s *RecipeStore) Create(ctx context.Context, r models.Recipe) (models.Recipe, error) {
	r = r.Clone()
	r.Tags = models.NormalizeTags(r.Tags)
	if err := validation.Struct(r); err != nil {
		return models.Recipe{}, fmt.Errorf("create recipe: %w", err)
	}

	err := withTx(ctx, s.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO recipes (title, description, prep_time, cook_time, servings, instructions, author_id)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id, created_at, updated_at`,
			r.Title, r.Description, r.PrepTime, r.CookTime, r.Servings, r.Instructions, r.AuthorID,
		).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert recipe: %w", mapError(err))
		}
		if err := insertIngredients(ctx, tx, r.ID, r.Ingredients); err != nil {
			return err
		}
		return insertTags(ctx, tx, r.ID, r.Tags)
	})
	if err != nil {
		return models.Recipe{}, err
	}
	return r, nil
}

func (s *RecipeStore) Get(ctx context.Context, id int64) (models.Recipe, error) {
	return getRecipe(ctx, s.db, id, "")
}

func (s *RecipeStore) List(ctx context.Context, f models.RecipeFilter) ([]models.Recipe, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Ingredient != "" {
		where = append(where, `EXISTS (SELECT 1 FROM recipe_ingredients ri
			WHERE ri.recipe_id = r.id AND strpos(lower(ri.item), lower(`+arg(f.Ingredient)+`)) > 0)`)
	}
	if wanted := uniqueIngredients(f.AllIngredients); len(wanted) > 0 {
		where = append(where, `(SELECT count(DISTINCT lower(btrim(ri.item))) FROM recipe_ingredients ri
			WHERE ri.recipe_id = r.id AND lower(btrim(ri.item)) = ANY(`+arg(wanted)+`)) = `+arg(len(wanted)))
	}
	if tag := models.NormalizeTag(f.Tag); tag != "" {
		where = append(where, `EXISTS (SELECT 1 FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id
			WHERE rt.recipe_id = r.id AND t.name = `+arg(tag)+`)`)
	}

	query := `SELECT ` + recipeColumns + ` FROM recipes r`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY r.id`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Recipe, error) {
		return scanRecipe(row)
	})
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	if err := loadChildren(ctx, s.db, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RecipeStore) Update(ctx context.Context, id int64, p models.RecipePatch) (models.Recipe, error) {
	var merged models.Recipe
	err := withTx(ctx, s.db, func(tx pgx.Tx) error {
		cur, err := getRecipe(ctx, tx, id, " FOR UPDATE")
		if err != nil {
			return err
		}

		merged = cur.Apply(p)
		if err := validation.Struct(merged); err != nil {
			return fmt.Errorf("update recipe %d: %w", id, err)
		}

		err = tx.QueryRow(ctx,
			`UPDATE recipes
			 SET title = $2, description = $3, prep_time = $4, cook_time = $5,
			     servings = $6, instructions = $7, updated_at = now()
			 WHERE id = $1
			 RETURNING updated_at`,
			id, merged.Title, merged.Description, merged.PrepTime, merged.CookTime,
			merged.Servings, merged.Instructions,
		).Scan(&merged.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update recipe %d: %w", id, mapError(err))
		}

		if p.Ingredients != nil {
			if _, err := tx.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, id); err != nil {
				return fmt.Errorf("clear ingredients: %w", err)
			}
			if err := insertIngredients(ctx, tx, id, merged.Ingredients); err != nil {
				return err
			}
		}
		if p.Tags != nil {
			if _, err := tx.Exec(ctx, `DELETE FROM recipe_tags WHERE recipe_id = $1`, id); err != nil {
				return fmt.Errorf("clear tags: %w", err)
			}
			if err := insertTags(ctx, tx, id, merged.Tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Recipe{}, err
	}
	return merged, nil
}

func (s *RecipeStore) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete recipe %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return 0, fmt.Errorf("recipe %d: %w", id, common.ErrNotFound)
	}
	return id, nil
}

func (s *RecipeStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func getRecipe(ctx context.Context, q querier, id int64, lock string) (models.Recipe, error) {
	r, err := scanRecipe(q.QueryRow(ctx,
		`SELECT `+recipeColumns+` FROM recipes r WHERE r.id = $1`+lock, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Recipe{}, fmt.Errorf("recipe %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return models.Recipe{}, fmt.Errorf("get recipe %d: %w", id, err)
	}

	out := []models.Recipe{r}
	if err := loadChildren(ctx, q, out); err != nil {
		return models.Recipe{}, err
	}
	return out[0], nil
}

func scanRecipe(row pgx.Row) (models.Recipe, error) {
	var r models.Recipe
	err := row.Scan(&r.ID, &r.Title, &r.Description, &r.PrepTime, &r.CookTime,
		&r.Servings, &r.Instructions, &r.AuthorID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return models.Recipe{}, err
	}
	if r.Instructions == nil {
		r.Instructions = []string{}
	}
	r.Ingredients = []models.Ingredient{}
	r.Tags = []string{}
	return r, nil
}

// loadChildren fills ingredients and tags for every recipe in rs with one
// query per child table.
func loadChildren(ctx context.Context, q querier, rs []models.Recipe) error {
	if len(rs) == 0 {
		return nil
	}
	idx := make(map[int64]int, len(rs))
	ids := make([]int64, 0, len(rs))
	for i, r := range rs {
		idx[r.ID] = i
		ids = append(ids, r.ID)
	}

	rows, err := q.Query(ctx,
		`SELECT recipe_id, item, quantity FROM recipe_ingredients
		 WHERE recipe_id = ANY($1) ORDER BY recipe_id, position`, ids)
	if err != nil {
		return fmt.Errorf("load ingredients: %w", err)
	}
	for rows.Next() {
		var (
			recipeID int64
			ing      models.Ingredient
		)
		if err := rows.Scan(&recipeID, &ing.Item, &ing.Quantity); err != nil {
			rows.Close()
			return fmt.Errorf("scan ingredient: %w", err)
		}
		i := idx[recipeID]
		rs[i].Ingredients = append(rs[i].Ingredients, ing)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load ingredients: %w", err)
	}

	rows, err = q.Query(ctx,
		`SELECT rt.recipe_id, t.name FROM recipe_tags rt
		 JOIN tags t ON t.id = rt.tag_id
		 WHERE rt.recipe_id = ANY($1) ORDER BY rt.recipe_id, rt.position`, ids)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			recipeID int64
			name     string
		)
		if err := rows.Scan(&recipeID, &name); err != nil {
			return fmt.Errorf("scan tag: %w", err)
		}
		i := idx[recipeID]
		rs[i].Tags = append(rs[i].Tags, name)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	return nil
}

func insertIngredients(ctx context.Context, tx pgx.Tx, recipeID int64, ings []models.Ingredient) error {
	for pos, ing := range ings {
		_, err := tx.Exec(ctx,
			`INSERT INTO recipe_ingredients (recipe_id, position, item, quantity)
			 VALUES ($1, $2, $3, $4)`,
			recipeID, pos, ing.Item, ing.Quantity)
		if err != nil {
			return fmt.Errorf("insert ingredient %d: %w", pos, mapError(err))
		}
	}
	return nil
}

// insertTags upserts each tag by name and links it to the recipe.
func insertTags(ctx context.Context, tx pgx.Tx, recipeID int64, tags []string) error {
	for pos, name := range tags {
		var tagID int64
		err := tx.QueryRow(ctx,
			`INSERT INTO tags (name) VALUES ($1)
			 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			 RETURNING id`, name).Scan(&tagID)
		if err != nil {
			return fmt.Errorf("upsert tag %q: %w", name, mapError(err))
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO recipe_tags (recipe_id, tag_id, position) VALUES ($1, $2, $3)`,
			recipeID, tagID, pos)
		if err != nil {
			return fmt.Errorf("link tag %q: %w", name, mapError(err))
		}
	}
	return nil
}

func uniqueIngredients(in []string) []string {
	var out []string
	for _, s := range in {
		if s = models.NormalizeIngredient(s); s != "" && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
