package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chrisdamba/foodsite/internal/models"
)

type MenuItemRepository struct {
	pool *pgxpool.Pool
}

func NewMenuItemRepository(pool *pgxpool.Pool) *MenuItemRepository {
	return &MenuItemRepository{pool: pool}
}

var menuItemColumns = []string{
	"id", "restaurant_id", "name", "description", "price_cents",
	"category", "sub_category", "calories", "nutrients", "vegetarian",
	"vegan", "gluten_free", "allergens", "ingredients", "tags",
	"pairings", "available", "image",
}

const selectMenuItem = `
    SELECT
        id, restaurant_id, name, description, price_cents,
        category, sub_category, calories, nutrients, vegetarian,
        vegan, gluten_free, allergens, ingredients, tags,
        pairings, available, image
    FROM menu_items
`

func menuItemArgs(mi *models.MenuItem) []any {
	return []any{
		mi.ID,
		mi.RestaurantID,
		mi.Name,
		mi.Description,
		int64(mi.Price),
		mi.Category,
		mi.SubCategory,
		mi.Calories,
		mi.Nutrients,
		mi.Vegetarian,
		mi.Vegan,
		mi.GlutenFree,
		nonNil(mi.Allergens),
		nonNil(mi.Ingredients),
		nonNil(mi.Tags),
		nonNil(mi.Pairings),
		mi.Available,
		mi.Image,
	}
}

func (r *MenuItemRepository) BulkCreate(ctx context.Context, menuItems []*models.MenuItem) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"menu_items"},
		menuItemColumns,
		pgx.CopyFromSlice(len(menuItems), func(i int) ([]interface{}, error) {
			return menuItemArgs(menuItems[i]), nil
		}),
	)
	return err
}

func (r *MenuItemRepository) Create(ctx context.Context, menuItem *models.MenuItem) error {
	query := `
        INSERT INTO menu_items (
            id, restaurant_id, name, description, price_cents,
            category, sub_category, calories, nutrients, vegetarian,
            vegan, gluten_free, allergens, ingredients, tags,
            pairings, available, image
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
        )
    `
	_, err := r.pool.Exec(ctx, query, menuItemArgs(menuItem)...)
	return err
}

func (r *MenuItemRepository) GetAll(ctx context.Context) (map[string]*models.MenuItem, error) {
	items, err := r.query(ctx, selectMenuItem)
	if err != nil {
		return nil, err
	}
	menuItems := make(map[string]*models.MenuItem, len(items))
	for _, mi := range items {
		menuItems[mi.RestaurantID+"/"+mi.ID] = mi
	}
	return menuItems, nil
}

func (r *MenuItemRepository) GetByRestaurantID(ctx context.Context, restaurantID string) ([]*models.MenuItem, error) {
	return r.query(ctx, selectMenuItem+" WHERE restaurant_id = $1 ORDER BY category, name", restaurantID)
}

func (r *MenuItemRepository) query(ctx context.Context, query string, args ...any) ([]*models.MenuItem, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menuItems []*models.MenuItem
	for rows.Next() {
		menuItem := &models.MenuItem{}
		var priceCents int64
		err := rows.Scan(
			&menuItem.ID,
			&menuItem.RestaurantID,
			&menuItem.Name,
			&menuItem.Description,
			&priceCents,
			&menuItem.Category,
			&menuItem.SubCategory,
			&menuItem.Calories,
			&menuItem.Nutrients,
			&menuItem.Vegetarian,
			&menuItem.Vegan,
			&menuItem.GlutenFree,
			&menuItem.Allergens,
			&menuItem.Ingredients,
			&menuItem.Tags,
			&menuItem.Pairings,
			&menuItem.Available,
			&menuItem.Image,
		)
		if err != nil {
			return nil, err
		}
		menuItem.Price = models.Money(priceCents)
		menuItems = append(menuItems, menuItem)
	}
	return menuItems, rows.Err()
}

func (r *MenuItemRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM menu_items").Scan(&count)
	return count, err
}

func (r *MenuItemRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE menu_items CASCADE")
	return err
}

// nonNil keeps NOT NULL array columns from receiving NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
