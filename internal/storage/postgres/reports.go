package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresReportsStorage — Postgres storage для отчётов
type PostgresReportsStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresReportsStorage создаёт новое Postgres хранилище
func NewPostgresReportsStorage(pool *pgxpool.Pool) *PostgresReportsStorage {
	return &PostgresReportsStorage{pool: pool}
}

// CreateReport создаёт новый отчёт. Inline data is kept in the data column
// when the report was not uploaded to object storage.
func (s *PostgresReportsStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	query := `
		INSERT INTO reports (id, handle, format, from_date, to_date, object_key, size_bytes, status, error, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4::date, $5::date, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}

	var data []byte
	if report.ObjectKey == nil {
		data = report.Data
	}

	err := s.pool.QueryRow(ctx, query,
		report.ID,
		report.Handle,
		report.Format,
		report.FromDate,
		report.ToDate,
		report.ObjectKey,
		report.SizeBytes,
		report.Status,
		report.Error,
		data,
	).Scan(&report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	return nil
}

// GetReport возвращает отчёт по ID вместе с inline data
func (s *PostgresReportsStorage) GetReport(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	query := `
		SELECT id, handle, format, from_date::text, to_date::text, object_key, size_bytes, status, error, data, created_at, updated_at
		FROM reports
		WHERE id = $1
	`

	var report storage.ReportMeta
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&report.ID,
		&report.Handle,
		&report.Format,
		&report.FromDate,
		&report.ToDate,
		&report.ObjectKey,
		&report.SizeBytes,
		&report.Status,
		&report.Error,
		&report.Data,
		&report.CreatedAt,
		&report.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get report: %w", err)
	}

	return &report, nil
}

// ListReports возвращает список отчётов с пагинацией (без data)
func (s *PostgresReportsStorage) ListReports(ctx context.Context, handle string, limit, offset int) ([]storage.ReportMeta, error) {
	query := `
		SELECT id, handle, format, from_date::text, to_date::text, object_key, size_bytes, status, error, created_at, updated_at
		FROM reports
		WHERE handle = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.pool.Query(ctx, query, handle, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := []storage.ReportMeta{}
	for rows.Next() {
		var r storage.ReportMeta
		err := rows.Scan(
			&r.ID,
			&r.Handle,
			&r.Format,
			&r.FromDate,
			&r.ToDate,
			&r.ObjectKey,
			&r.SizeBytes,
			&r.Status,
			&r.Error,
			&r.CreatedAt,
			&r.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, r)
	}

	return reports, rows.Err()
}

// DeleteReport удаляет отчёт
func (s *PostgresReportsStorage) DeleteReport(ctx context.Context, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}
