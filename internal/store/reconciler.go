package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Qwertymart/cdek/internal/normalize"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Reconciler writes normalized records into the four related tables as
// one atomic unit per message. Company, benefits and compensation rows
// are content-keyed and deduplicated with DO NOTHING; the vacancy row is
// upserted by external_id.
type Reconciler struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewReconciler(pool *pgxpool.Pool, logger *zap.Logger) *Reconciler {
	return &Reconciler{pool: pool, logger: logger}
}

// Reconcile persists all records inside a single transaction. Any
// failure rolls the whole batch back: a vacancy and its sub-records
// either all persist or none do.
func (r *Reconciler) Reconcile(ctx context.Context, records []*normalize.Record) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, rec := range records {
		if err := insertRecord(ctx, tx, rec); err != nil {
			return fmt.Errorf("vacancy %s: %w", rec.Vacancy.ExternalID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// insertRecord applies the four inserts in dependency order: the
// vacancy row references companies and benefits, so they must exist
// inside the same transaction before it.
func insertRecord(ctx context.Context, tx pgx.Tx, rec *normalize.Record) error {
	c := rec.Company
	variations, err := jsonArg(c.NameVariations)
	if err != nil {
		return fmt.Errorf("company name_variations: %w", err)
	}

	// First sighting wins for all non-key company fields, later
	// name_variations are dropped. Merging variations needs product
	// confirmation before changing the conflict clause.
	_, err = tx.Exec(ctx,
		`INSERT INTO companies (id, name, name_variations, industry, size, is_foreign, location_city, location_radius_km)
		 VALUES ($1, $2, $3::jsonb, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO NOTHING`,
		c.ID, c.Name, variations, c.Industry, c.Size, c.IsForeign, c.LocationCity, c.LocationRadiusKM,
	)
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}

	b := rec.Benefits
	otherBenefits, err := jsonArg(b.OtherBenefits)
	if err != nil {
		return fmt.Errorf("benefits other_benefits: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO benefits (id, health_insurance, fuel_compensation, mobile_compensation, free_meals, other_benefits, new_column)
		 VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7)
		 ON CONFLICT (id) DO NOTHING`,
		b.ID, b.HealthInsurance, b.FuelCompensation, b.MobileCompensation, b.FreeMeals, otherBenefits, b.NewColumn,
	)
	if err != nil {
		return fmt.Errorf("insert benefits: %w", err)
	}

	if comp := rec.Compensation; comp.ID != "" {
		_, err = tx.Exec(ctx,
			`INSERT INTO compensations (id, salary_min, salary_max, salary_median, salary_avg, salary_net, currency, bonuses, payment_frequency, payment_type)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 ON CONFLICT (id) DO NOTHING`,
			comp.ID, comp.SalaryMin, comp.SalaryMax, comp.SalaryMedian, comp.SalaryAvg,
			comp.SalaryNet, comp.Currency, comp.Bonuses, comp.PaymentFrequency, comp.PaymentType,
		)
		if err != nil {
			return fmt.Errorf("insert compensation: %w", err)
		}
	}

	v := rec.Vacancy
	similarTitles, err := jsonArg(v.SimilarTitles)
	if err != nil {
		return fmt.Errorf("vacancy similar_titles: %w", err)
	}
	excludeKeywords, err := jsonArg(v.ExcludeKeywords)
	if err != nil {
		return fmt.Errorf("vacancy exclude_keywords: %w", err)
	}

	// Re-ingestion only refreshes the reconciliation outputs; the
	// descriptive fields are immutable after the first insert.
	_, err = tx.Exec(ctx,
		`INSERT INTO vacancies (external_id, title, description, requirements, work_format,
		                        employment_type, schedule, experience_required, source_url,
		                        source_name, publication_date, is_relevant, company_id,
		                        compensation_id, benefits_id, created_at, similar_titles,
		                        exclude_keywords, experience_years)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::date, $12, $13, $14, $15, $16::timestamptz, $17::jsonb, $18::jsonb, $19)
		 ON CONFLICT (external_id) DO UPDATE SET
		    title = EXCLUDED.title,
		    similar_titles = EXCLUDED.similar_titles,
		    exclude_keywords = EXCLUDED.exclude_keywords,
		    experience_years = EXCLUDED.experience_years`,
		v.ExternalID, v.Title, v.Description, v.Requirements, v.WorkFormat,
		v.EmploymentType, v.Schedule, v.ExperienceRequired, v.SourceURL,
		v.SourceName, nullString(v.PublicationDate), v.IsRelevant, v.CompanyID,
		nullString(v.CompensationID), v.BenefitsID, nullString(v.CreatedAt), similarTitles,
		excludeKeywords, v.ExperienceYears,
	)
	if err != nil {
		return fmt.Errorf("upsert vacancy: %w", err)
	}

	return nil
}

// DistinctTitles lists every distinct vacancy title currently stored,
// the input universe for a synonym-map rebuild.
func DistinctTitles(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	rows, err := pool.Query(ctx, `SELECT DISTINCT title FROM vacancies WHERE title IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("query titles: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scan title: %w", err)
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// jsonArg encodes a slice for a jsonb column, never as SQL NULL.
func jsonArg(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
