package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shamssarah/Recipe-Recommender/internal/common"
	"github.com/shamssarah/Recipe-Recommender/internal/models"
)

var recipeCols = []string{
	"id", "title", "description", "prep_time", "cook_time",
	"servings", "instructions", "author_id", "created_at", "updated_at",
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func soup() models.Recipe {
	return models.Recipe{
		Title:        "Tomato Soup",
		PrepTime:     "10m",
		CookTime:     "20m",
		Servings:     4,
		Ingredients:  []models.Ingredient{{Item: "tomato", Quantity: "4"}},
		Instructions: []string{"Boil"},
		AuthorID:     101,
		Tags:         []string{"Soup"},
	}
}

func expectChildren(mock pgxmock.PgxPoolIface, ids []int64) {
	mock.ExpectQuery("FROM recipe_ingredients").
		WithArgs(ids).
		WillReturnRows(pgxmock.NewRows([]string{"recipe_id", "item", "quantity"}).
			AddRow(ids[0], "tomato", "4"))
	mock.ExpectQuery("FROM recipe_tags").
		WithArgs(ids).
		WillReturnRows(pgxmock.NewRows([]string{"recipe_id", "name"}).
			AddRow(ids[0], "soup"))
}

func TestMapError(t *testing.T) {
	conflict := mapError(&pgconn.PgError{Code: uniqueViolation, ConstraintName: "users_username_key"})
	assert.True(t, errors.Is(conflict, common.ErrConflict))
	assert.Contains(t, conflict.Error(), "users_username_key")

	invalid := mapError(&pgconn.PgError{Code: stringTooLong, Message: "value too long"})
	assert.True(t, errors.Is(invalid, common.ErrInvalidInput))

	other := errors.New("boom")
	assert.Equal(t, other, mapError(other))
}

func TestUserStore_Create(t *testing.T) {
	mock := newMock(t)
	s := NewUserStore(mock)
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice", "alice@example.com", "hash").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))

	u, err := s.Create(context.Background(), models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, now, u.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStore_CreateDuplicate(t *testing.T) {
	mock := newMock(t)
	s := NewUserStore(mock)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice", "alice@example.com", "hash").
		WillReturnError(&pgconn.PgError{Code: uniqueViolation, ConstraintName: "users_username_key"})

	_, err := s.Create(context.Background(), models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash"})
	assert.True(t, errors.Is(err, common.ErrConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStore_FindByUsername(t *testing.T) {
	mock := newMock(t)
	s := NewUserStore(mock)
	now := time.Now().UTC()

	mock.ExpectQuery("FROM users WHERE username").
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at"}).
			AddRow(int64(3), "alice", "alice@example.com", "hash", now))
	mock.ExpectQuery("FROM users WHERE username").
		WithArgs("bob").
		WillReturnError(pgx.ErrNoRows)

	u, ok, err := s.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(3), u.ID)
	assert.Equal(t, "hash", u.PasswordHash)

	_, ok, err = s.FindByUsername(context.Background(), "bob")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStore_FindByIDMissing(t *testing.T) {
	mock := newMock(t)
	s := NewUserStore(mock)

	mock.ExpectQuery("FROM users WHERE id").
		WithArgs(int64(9)).
		WillReturnError(pgx.ErrNoRows)

	_, err := s.FindByID(context.Background(), 9)
	assert.True(t, errors.Is(err, common.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStore_Count(t *testing.T) {
	mock := newMock(t)
	s := NewUserStore(mock)

	mock.ExpectQuery("SELECT count").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeStore_CreateRunsInOneTransaction(t *testing.T) {
	mock := newMock(t)
	s := NewRecipeStore(mock)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO recipes").
		WithArgs("Tomato Soup", "", "10m", "20m", 4, []string{"Boil"}, int64(101)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(1), now, now))
	mock.ExpectExec("INSERT INTO recipe_ingredients").
		WithArgs(int64(1), 0, "tomato", "4").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("INSERT INTO tags").
		WithArgs("soup").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectExec("INSERT INTO recipe_tags").
		WithArgs(int64(1), int64(7), 0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	r, err := s.Create(context.Background(), soup())
	require.NoError(t, err)
	assert.Equal(t, int64(1), r.ID)
	assert.Equal(t, []string{"soup"}, r.Tags)
	assert.Equal(t, now, r.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeStore_CreateRollsBackOnChildFailure(t *testing.T) {
	mock := newMock(t)
	s := NewRecipeStore(mock)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO recipes").
		WithArgs("Tomato Soup", "", "10m", "20m", 4, []string{"Boil"}, int64(101)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(1), now, now))
	mock.ExpectExec("INSERT INTO recipe_ingredients").
		WithArgs(int64(1), 0, "tomato", "4").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := s.Create(context.Background(), soup())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeStore_CreateInvalidTouchesNothing(t *testing.T) {
	mock := newMock(t)
	s := NewRecipeStore(mock)

	r := soup()
	r.Title = "Soup"
	_, err := s.Create(context.Background(), r)
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeStore_Get(t *testing.T) {
	mock := newMock(t)
	s := NewRecipeStore(mock)
	now := time.Now().UTC()

	mock.ExpectQuery("FROM recipes r WHERE r.id").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(recipeCols).
			AddRow(int64(1), "Tomato Soup", "", "10m", "20m", 4, []string{"Boil"}, int64(101), now, now))
	expectChildren(mock, []int64{1})

	r, err := s.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Tomato Soup", r.Title)
	assert.Equal(t, []models.Ingredient{{Item: "tomato", Quantity: "4"}}, r.Ingredients)
	assert.Equal(t, []string{"soup"}, r.Tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeStore_GetMissing(t *testing.T) {
	mock := newMock(t)
	s := NewRecipeStore(mock)

	mock.ExpectQuery("FROM recipes r WHERE r.id").
		WithArgs(int64(5)).
		WillReturnError(pgx.ErrNoRows)

	_, err := s.Get(context.Background(), 5)
	assert.True(t, errors.Is(err, common.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeStore_ListByIngredient(t *testing.T) {
	mock := newMock(t)
	s := NewRecipeStore(mock)
	now := time.Now().UTC()

	mock.ExpectQuery("strpos").
		WithArgs("tom").
		WillReturnRows(pgxmock.NewRows(recipeCols).
			AddRow(int64(1), "Tomato Soup", "", "10m", "20m", 4, []string{"Boil"}, int64(101), now, now))
	expectChildren(mock, []int64{1})

	out, err := s.List(context.Background(), models.RecipeFilter{Ingredient: "tom"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "tomato", out[0].Ingredients[0].Item)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeStore_ListByAllIngredients(t *testing.T) {
	mock := newMock(t)
	s := NewRecipeStore(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(DISTINCT lower(btrim(ri.item)))`) + `(?s).*` +
		regexp.QuoteMeta(`lower(btrim(ri.item)) = ANY($1)) = $2`) + `.*ORDER BY r\.id`).
		WithArgs([]string{"tomato", "pasta"}, 2).
		WillReturnRows(pgxmock.NewRows(recipeCols).
			AddRow(int64(1), "Tomato Pasta", "", "10m", "20m", 2, []string{"Boil"}, int64(101), now, now))
	expectChildren(mock, []int64{1})

	out, err := s.List(context.Background(), models.RecipeFilter{
		AllIngredients: []string{" Tomato", "pasta", "TOMATO", ""},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Tomato Pasta", out[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeStore_ListByIngredientsAndTag(t *testing.T) {
	mock := newMock(t)
	s := NewRecipeStore(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`= ANY($1)) = $2 AND EXISTS (SELECT 1 FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id`) +
		`(?s).*` + regexp.QuoteMeta(`t.name = $3)`)).
		WithArgs([]string{"tomato"}, 1, "italian").
		WillReturnRows(pgxmock.NewRows(recipeCols))

	out, err := s.List(context.Background(), models.RecipeFilter{
		AllIngredients: []string{"tomato"},
		Tag:            " Italian ",
	})
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeStore_ListEmpty(t *testing.T) {
	mock := newMock(t)
	s := NewRecipeStore(mock)

	mock.ExpectQuery("FROM recipes r ORDER BY r.id").
		WillReturnRows(pgxmock.NewRows(recipeCols))

	out, err := s.List(context.Background(), models.RecipeFilter{})
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeStore_UpdateTitleOnly(t *testing.T) {
	mock := newMock(t)
	s := NewRecipeStore(mock)
	now := time.Now().UTC()
	later := now.Add(time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(recipeCols).
			AddRow(int64(1), "Tomato Soup", "", "10m", "20m", 4, []string{"Boil"}, int64(101), now, now))
	expectChildren(mock, []int64{1})
	mock.ExpectQuery("UPDATE recipes").
		WithArgs(int64(1), "Creamy Tomato Soup", "", "10m", "20m", 4, []string{"Boil"}).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(later))
	mock.ExpectCommit()

	title := "Creamy Tomato Soup"
	r, err := s.Update(context.Background(), 1, models.RecipePatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, r.Title)
	assert.Equal(t, []string{"soup"}, r.Tags)
	assert.Equal(t, later, r.UpdatedAt)
	assert.Equal(t, now, r.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeStore_UpdateInvalidRollsBack(t *testing.T) {
	mock := newMock(t)
	s := NewRecipeStore(mock)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(recipeCols).
			AddRow(int64(1), "Tomato Soup", "", "10m", "20m", 4, []string{"Boil"}, int64(101), now, now))
	expectChildren(mock, []int64{1})
	mock.ExpectRollback()

	short := "Tiny"
	_, err := s.Update(context.Background(), 1, models.RecipePatch{Title: &short})
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeStore_Delete(t *testing.T) {
	mock := newMock(t)
	s := NewRecipeStore(mock)

	mock.ExpectExec("DELETE FROM recipes").
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM recipes").
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	id, err := s.Delete(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	_, err = s.Delete(context.Background(), 1)
	assert.True(t, errors.Is(err, common.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeStore_Ping(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	err = NewRecipeStore(mock).Ping(context.Background())
	assert.EqualError(t, err, "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}
