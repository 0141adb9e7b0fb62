package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS companies (
		id TEXT PRIMARY KEY,
		name TEXT,
		name_variations JSONB,
		industry TEXT,
		size TEXT,
		is_foreign BOOLEAN,
		location_city TEXT,
		location_radius_km INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS benefits (
		id TEXT PRIMARY KEY,
		health_insurance BOOLEAN,
		fuel_compensation BOOLEAN,
		mobile_compensation BOOLEAN,
		free_meals BOOLEAN,
		other_benefits JSONB,
		new_column BOOLEAN
	)`,
	`CREATE TABLE IF NOT EXISTS compensations (
		id TEXT PRIMARY KEY,
		salary_min NUMERIC,
		salary_max NUMERIC,
		salary_median NUMERIC,
		salary_avg NUMERIC,
		salary_net BOOLEAN,
		currency TEXT,
		bonuses TEXT,
		payment_frequency TEXT,
		payment_type TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS vacancies (
		external_id TEXT PRIMARY KEY,
		title TEXT,
		description TEXT,
		requirements TEXT,
		work_format TEXT,
		employment_type TEXT,
		schedule TEXT,
		experience_required TEXT,
		source_url TEXT,
		source_name TEXT,
		publication_date DATE,
		is_relevant BOOLEAN,
		company_id TEXT REFERENCES companies(id),
		compensation_id TEXT,
		benefits_id TEXT REFERENCES benefits(id),
		created_at TIMESTAMP,
		similar_titles JSONB,
		exclude_keywords JSONB,
		experience_years INTEGER[]
	)`,
}

// Migrate creates the four pipeline tables when they do not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
