package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage — Postgres реализация Storage. Documents are stored as JSONB
// columns keyed by handle (and date for daily plans).
type PostgresStorage struct {
	pool       *pgxpool.Pool
	dailyPlans *PostgresDailyPlansStorage
	reports    *PostgresReportsStorage
}

// New создаёт PostgresStorage и проверяет соединение
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStorage{
		pool:       pool,
		dailyPlans: NewPostgresDailyPlansStorage(pool),
		reports:    NewPostgresReportsStorage(pool),
	}, nil
}

func (p *PostgresStorage) GetProfileDocument(ctx context.Context, handle string) (storage.ProfileDocument, bool, error) {
	const query = `
		SELECT handle, user_profile, nutrition_goals, meal_types, created_at, updated_at
		FROM profiles
		WHERE handle = $1
	`

	var (
		doc                               storage.ProfileDocument
		profileJSON, goalsJSON, typesJSON []byte
	)
	err := p.pool.QueryRow(ctx, query, strings.TrimSpace(handle)).Scan(
		&doc.Handle,
		&profileJSON,
		&goalsJSON,
		&typesJSON,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.ProfileDocument{}, false, nil
		}
		return storage.ProfileDocument{}, false, err
	}

	if err := decodeJSON(profileJSON, &doc.Profile); err != nil {
		return storage.ProfileDocument{}, false, fmt.Errorf("decode user_profile: %w", err)
	}
	if err := decodeJSON(goalsJSON, &doc.Goals); err != nil {
		return storage.ProfileDocument{}, false, fmt.Errorf("decode nutrition_goals: %w", err)
	}
	if err := decodeJSON(typesJSON, &doc.MealTypes); err != nil {
		return storage.ProfileDocument{}, false, fmt.Errorf("decode meal_types: %w", err)
	}

	return doc, true, nil
}

func (p *PostgresStorage) UpsertProfileDocument(ctx context.Context, doc storage.ProfileDocument) (storage.ProfileDocument, error) {
	profileJSON, err := json.Marshal(doc.Profile)
	if err != nil {
		return storage.ProfileDocument{}, err
	}
	goalsJSON, err := json.Marshal(doc.Goals)
	if err != nil {
		return storage.ProfileDocument{}, err
	}
	mealTypes := doc.MealTypes
	if mealTypes == nil {
		mealTypes = []storage.MealType{}
	}
	typesJSON, err := json.Marshal(mealTypes)
	if err != nil {
		return storage.ProfileDocument{}, err
	}

	const query = `
		INSERT INTO profiles (handle, user_profile, nutrition_goals, meal_types, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (handle) DO UPDATE SET
			user_profile = EXCLUDED.user_profile,
			nutrition_goals = EXCLUDED.nutrition_goals,
			meal_types = EXCLUDED.meal_types,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	doc.Handle = strings.TrimSpace(doc.Handle)
	err = p.pool.QueryRow(ctx, query, doc.Handle, profileJSON, goalsJSON, typesJSON).Scan(&doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return storage.ProfileDocument{}, fmt.Errorf("upsert profile document: %w", err)
	}

	return doc, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// GetDailyPlansStorage returns the daily plans storage
func (p *PostgresStorage) GetDailyPlansStorage() *PostgresDailyPlansStorage {
	return p.dailyPlans
}

// GetReportsStorage returns the reports storage
func (p *PostgresStorage) GetReportsStorage() *PostgresReportsStorage {
	return p.reports
}

func decodeJSON(raw []byte, v interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}
