package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/andreasstove999/costify/internal/pricing"
)

var ErrNotFound = errors.New("not found")

const foreignKeyViolation = "23503"

// missingReference turns a foreign key violation into a ValidationError on field.
func missingReference(err error, field string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return &ValidationError{Problems: []string{field + ": not found"}}
	}
	return err
}

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Repository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, name string) (Category, error)
	ListIngredients(ctx context.Context) ([]Ingredient, error)
	CreateIngredient(ctx context.Context, in NewIngredient) (Ingredient, error)
	UpdateIngredientPrice(ctx context.Context, id string, price pricing.Cents) (Ingredient, error)
	ListRecipes(ctx context.Context) ([]Recipe, error)
	GetRecipe(ctx context.Context, id string) (RecipeDetail, error)
	CreateRecipe(ctx context.Context, in NewRecipe) (RecipeDetail, error)
	ListPackets(ctx context.Context) ([]Packet, error)
	GetPacket(ctx context.Context, id string) (PacketDetail, error)
	CreatePacket(ctx context.Context, in NewPacket) (PacketDetail, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const (
	recipeSelect = `
		SELECT r.id::text, r.name, COALESCE(r.category_id::text, ''), COALESCE(c.name, ''),
		       COALESCE(rc.total_cents, 0)::bigint
		FROM recipes r
		LEFT JOIN categories c ON c.id = r.category_id
		LEFT JOIN recipe_cost_cents rc ON rc.id = r.id`

	packetSelect = `
		SELECT p.id::text, p.name, COALESCE(p.description, ''), COALESCE(pc.total_cents, 0)::bigint
		FROM packets p
		LEFT JOIN packet_cost_cents pc ON pc.id = p.id`
)

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) CreateCategory(ctx context.Context, name string) (Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id::text, name`, name,
	).Scan(&c.ID, &c.Name)
	if err != nil {
		return Category{}, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) ListIngredients(ctx context.Context) ([]Ingredient, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text, name, price_cents FROM ingredients ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()

	out := []Ingredient{}
	for rows.Next() {
		var (
			in    Ingredient
			price int64
		)
		if err := rows.Scan(&in.ID, &in.Name, &price); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		in.PriceCents = pricing.Cents(price)
		out = append(out, in)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) CreateIngredient(ctx context.Context, in NewIngredient) (Ingredient, error) {
	var (
		out   Ingredient
		price int64
	)
	err := r.pool.QueryRow(ctx,
		`INSERT INTO ingredients (name, price_cents) VALUES ($1, $2) RETURNING id::text, name, price_cents`,
		in.Name, int64(in.PriceCents),
	).Scan(&out.ID, &out.Name, &price)
	if err != nil {
		return Ingredient{}, fmt.Errorf("insert ingredient: %w", err)
	}
	out.PriceCents = pricing.Cents(price)
	return out, nil
}

// UpdateIngredientPrice changes the unit price; recipe and packet costs follow through the views.
func (r *PostgresRepository) UpdateIngredientPrice(ctx context.Context, id string, price pricing.Cents) (Ingredient, error) {
	var (
		out   Ingredient
		saved int64
	)
	err := r.pool.QueryRow(ctx, `
		UPDATE ingredients SET price_cents = $2, updated_at = now()
		WHERE id = $1
		RETURNING id::text, name, price_cents
	`, id, int64(price)).Scan(&out.ID, &out.Name, &saved)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Ingredient{}, ErrNotFound
		}
		return Ingredient{}, fmt.Errorf("update ingredient price: %w", err)
	}
	out.PriceCents = pricing.Cents(saved)
	return out, nil
}

func (r *PostgresRepository) ListRecipes(ctx context.Context) ([]Recipe, error) {
	rows, err := r.pool.Query(ctx, recipeSelect+` ORDER BY r.name`)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	out := []Recipe{}
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetRecipe(ctx context.Context, id string) (RecipeDetail, error) {
	rec, err := scanRecipe(r.pool.QueryRow(ctx, recipeSelect+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RecipeDetail{}, ErrNotFound
		}
		return RecipeDetail{}, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT i.id::text, i.name, ri.qty, i.price_cents
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = $1
		ORDER BY i.name
	`, id)
	if err != nil {
		return RecipeDetail{}, fmt.Errorf("list recipe ingredients: %w", err)
	}
	defer rows.Close()

	detail := RecipeDetail{Recipe: rec, Ingredients: []RecipeIngredientLine{}}
	for rows.Next() {
		var (
			line  RecipeIngredientLine
			price int64
		)
		if err := rows.Scan(&line.IngredientID, &line.Name, &line.Qty, &price); err != nil {
			return RecipeDetail{}, fmt.Errorf("scan recipe ingredient: %w", err)
		}
		line.PriceCents = pricing.Cents(price)
		detail.Ingredients = append(detail.Ingredients, line)
	}
	return detail, rows.Err()
}

// CreateRecipe inserts the recipe and its ingredient links in one transaction.
func (r *PostgresRepository) CreateRecipe(ctx context.Context, in NewRecipe) (RecipeDetail, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return RecipeDetail{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var category any
	if in.CategoryID != nil {
		category = *in.CategoryID
	}

	var id string
	if err := tx.QueryRow(ctx,
		`INSERT INTO recipes (name, category_id) VALUES ($1, $2) RETURNING id::text`,
		in.Name, category,
	).Scan(&id); err != nil {
		return RecipeDetail{}, fmt.Errorf("insert recipe: %w", missingReference(err, "categoryId"))
	}

	for i, ing := range in.Ingredients {
		if _, err := tx.Exec(ctx,
			`INSERT INTO recipe_ingredients (recipe_id, ingredient_id, qty) VALUES ($1, $2, $3)`,
			id, ing.IngredientID, ing.Qty,
		); err != nil {
			err = missingReference(err, fmt.Sprintf("ingredients[%d].ingredientId", i))
			return RecipeDetail{}, fmt.Errorf("insert recipe ingredient: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return RecipeDetail{}, fmt.Errorf("commit: %w", err)
	}
	return r.GetRecipe(ctx, id)
}

func (r *PostgresRepository) ListPackets(ctx context.Context) ([]Packet, error) {
	rows, err := r.pool.Query(ctx, packetSelect+` ORDER BY p.name`)
	if err != nil {
		return nil, fmt.Errorf("list packets: %w", err)
	}
	defer rows.Close()

	out := []Packet{}
	for rows.Next() {
		p, err := scanPacket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetPacket(ctx context.Context, id string) (PacketDetail, error) {
	p, err := scanPacket(r.pool.QueryRow(ctx, packetSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PacketDetail{}, ErrNotFound
		}
		return PacketDetail{}, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT r.id::text, r.name, pr.qty, COALESCE(rc.total_cents, 0)::bigint
		FROM packet_recipes pr
		JOIN recipes r ON r.id = pr.recipe_id
		LEFT JOIN recipe_cost_cents rc ON rc.id = r.id
		WHERE pr.packet_id = $1
		ORDER BY r.name
	`, id)
	if err != nil {
		return PacketDetail{}, fmt.Errorf("list packet recipes: %w", err)
	}
	defer rows.Close()

	detail := PacketDetail{Packet: p, Recipes: []PacketRecipeLine{}}
	for rows.Next() {
		var (
			line PacketRecipeLine
			cost int64
		)
		if err := rows.Scan(&line.RecipeID, &line.Name, &line.Qty, &cost); err != nil {
			return PacketDetail{}, fmt.Errorf("scan packet recipe: %w", err)
		}
		line.CostCents = pricing.Cents(cost)
		detail.Recipes = append(detail.Recipes, line)
	}
	return detail, rows.Err()
}

// CreatePacket inserts the packet and its recipe links in one transaction.
func (r *PostgresRepository) CreatePacket(ctx context.Context, in NewPacket) (PacketDetail, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return PacketDetail{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var description any
	if in.Description != nil {
		description = *in.Description
	}

	var id string
	if err := tx.QueryRow(ctx,
		`INSERT INTO packets (name, description) VALUES ($1, $2) RETURNING id::text`,
		in.Name, description,
	).Scan(&id); err != nil {
		return PacketDetail{}, fmt.Errorf("insert packet: %w", err)
	}

	for i, pr := range in.Recipes {
		if _, err := tx.Exec(ctx,
			`INSERT INTO packet_recipes (packet_id, recipe_id, qty) VALUES ($1, $2, $3)`,
			id, pr.RecipeID, pr.Qty,
		); err != nil {
			err = missingReference(err, fmt.Sprintf("recipes[%d].recipeId", i))
			return PacketDetail{}, fmt.Errorf("insert packet recipe: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return PacketDetail{}, fmt.Errorf("commit: %w", err)
	}
	return r.GetPacket(ctx, id)
}

func scanRecipe(row pgx.Row) (Recipe, error) {
	var (
		rec                  Recipe
		categoryID, category string
		total                int64
	)
	if err := row.Scan(&rec.ID, &rec.Name, &categoryID, &category, &total); err != nil {
		return Recipe{}, fmt.Errorf("scan recipe: %w", err)
	}
	rec.CategoryID = optional(categoryID)
	rec.CategoryName = optional(category)
	rec.TotalCents = pricing.Cents(total)
	return rec, nil
}

func scanPacket(row pgx.Row) (Packet, error) {
	var (
		p           Packet
		description string
		total       int64
	)
	if err := row.Scan(&p.ID, &p.Name, &description, &total); err != nil {
		return Packet{}, fmt.Errorf("scan packet: %w", err)
	}
	p.Description = optional(description)
	p.TotalCents = pricing.Cents(total)
	return p, nil
}
