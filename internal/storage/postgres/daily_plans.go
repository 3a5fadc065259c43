package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresDailyPlansStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresDailyPlansStorage(pool *pgxpool.Pool) *PostgresDailyPlansStorage {
	return &PostgresDailyPlansStorage{pool: pool}
}

func (s *PostgresDailyPlansStorage) GetDailyPlan(ctx context.Context, handle, date string) (storage.DailyPlan, bool, error) {
	const query = `
		SELECT handle, plan_date::text, meals, created_at, updated_at
		FROM daily_plans
		WHERE handle = $1 AND plan_date = $2::date
	`

	plan, err := scanPlan(s.pool.QueryRow(ctx, query, handle, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.DailyPlan{}, false, nil
		}
		return storage.DailyPlan{}, false, err
	}
	return plan, true, nil
}

func (s *PostgresDailyPlansStorage) ListDailyPlans(ctx context.Context, handle, from, to string) ([]storage.DailyPlan, error) {
	const query = `
		SELECT handle, plan_date::text, meals, created_at, updated_at
		FROM daily_plans
		WHERE handle = $1 AND plan_date BETWEEN $2::date AND $3::date
		ORDER BY plan_date ASC
	`

	rows, err := s.pool.Query(ctx, query, handle, from, to)
	if err != nil {
		return nil, fmt.Errorf("list daily plans: %w", err)
	}
	defer rows.Close()

	plans := []storage.DailyPlan{}
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

func (s *PostgresDailyPlansStorage) SaveDailyPlan(ctx context.Context, plan storage.DailyPlan) (storage.DailyPlan, error) {
	meals := plan.Meals
	if meals == nil {
		meals = map[string][]storage.LoggedFood{}
	}
	mealsJSON, err := json.Marshal(meals)
	if err != nil {
		return storage.DailyPlan{}, err
	}

	const query = `
		INSERT INTO daily_plans (handle, plan_date, meals, created_at, updated_at)
		VALUES ($1, $2::date, $3, NOW(), NOW())
		ON CONFLICT (handle, plan_date) DO UPDATE SET
			meals = EXCLUDED.meals,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	if err := s.pool.QueryRow(ctx, query, plan.Handle, plan.Date, mealsJSON).Scan(&plan.CreatedAt, &plan.UpdatedAt); err != nil {
		return storage.DailyPlan{}, fmt.Errorf("save daily plan: %w", err)
	}
	plan.Meals = meals
	return plan, nil
}

func (s *PostgresDailyPlansStorage) DeleteMealField(ctx context.Context, handle, date, mealKey string) error {
	const query = `
		UPDATE daily_plans
		SET meals = meals - $3::text, updated_at = NOW()
		WHERE handle = $1 AND plan_date = $2::date
	`

	result, err := s.pool.Exec(ctx, query, handle, date, mealKey)
	if err != nil {
		return fmt.Errorf("delete meal field: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanPlan(row pgx.Row) (storage.DailyPlan, error) {
	var (
		plan      storage.DailyPlan
		mealsJSON []byte
	)
	if err := row.Scan(&plan.Handle, &plan.Date, &mealsJSON, &plan.CreatedAt, &plan.UpdatedAt); err != nil {
		return storage.DailyPlan{}, err
	}

	plan.Meals = map[string][]storage.LoggedFood{}
	if err := decodeJSON(mealsJSON, &plan.Meals); err != nil {
		return storage.DailyPlan{}, fmt.Errorf("decode meals: %w", err)
	}
	return plan, nil
}
