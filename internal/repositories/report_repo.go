package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Tushar365/reportappmedghor/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type ReportRepository interface {
	Save(ctx context.Context, report *models.SavedReport) (int64, error)
	List(ctx context.Context, ownerID *uuid.UUID) ([]*models.SavedReport, error)
	Get(ctx context.Context, id int64) (*models.SavedReport, error)
	Delete(ctx context.Context, id int64) error
}

type reportRepo struct {
	db Database
}

func NewReportRepo(db Database) ReportRepository {
	return &reportRepo{db: db}
}

const (
	insertReportQuery = `
		INSERT INTO reports (start_date, end_date, brand_name, products, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	upsertUsageQuery = `
		INSERT INTO product_usage (product_name, last_rate, usage_count, last_used)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (product_name) DO UPDATE
		SET last_rate = EXCLUDED.last_rate,
			usage_count = product_usage.usage_count + 1,
			last_used = EXCLUDED.last_used
	`
	selectReportColumns = `SELECT id, start_date, end_date, brand_name, products, owner_id, created_at FROM reports`
)

// Save inserts the report and bumps the usage tally of every named line in
// one transaction. On success report.ID and report.CreatedAt are set.
func (r *reportRepo) Save(ctx context.Context, report *models.SavedReport) (int64, error) {
	products, err := json.Marshal(report.Lines)
	if err != nil {
		return 0, &StoreWriteError{Op: "encode products", Err: err}
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, &StoreWriteError{Op: "begin", Err: err}
	}

	fail := func(op string, err error) (int64, error) {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			zerolog.Ctx(ctx).Warn().Err(rbErr).Msg("rollback failed")
		}
		return 0, &StoreWriteError{Op: op, Err: err}
	}

	err = tx.QueryRow(ctx, insertReportQuery,
		report.StartDate, report.EndDate, report.BrandName, products, report.OwnerID,
	).Scan(&report.ID, &report.CreatedAt)
	if err != nil {
		return fail("insert report", err)
	}

	for _, line := range report.Lines {
		if strings.TrimSpace(line.Name) == "" {
			continue
		}
		if _, err := tx.Exec(ctx, upsertUsageQuery, line.Name, line.Rate, report.CreatedAt); err != nil {
			return fail("upsert usage", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, &StoreWriteError{Op: "commit", Err: err}
	}
	return report.ID, nil
}

func (r *reportRepo) List(ctx context.Context, ownerID *uuid.UUID) ([]*models.SavedReport, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if ownerID != nil {
		rows, err = r.db.Query(ctx, selectReportColumns+` WHERE owner_id = $1 ORDER BY created_at DESC, id DESC`, *ownerID)
	} else {
		rows, err = r.db.Query(ctx, selectReportColumns+` ORDER BY created_at DESC, id DESC`)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.SavedReport
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

func (r *reportRepo) Get(ctx context.Context, id int64) (*models.SavedReport, error) {
	report, err := scanReport(r.db.QueryRow(ctx, selectReportColumns+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Delete removes the report only; usage tallies are left as they are.
func (r *reportRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return &StoreWriteError{Op: "delete report", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanReport(row pgx.Row) (*models.SavedReport, error) {
	report := &models.SavedReport{}
	var products []byte
	err := row.Scan(&report.ID, &report.StartDate, &report.EndDate, &report.BrandName, &products, &report.OwnerID, &report.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(products, &report.Lines); err != nil {
		return nil, fmt.Errorf("report %d has malformed products: %w", report.ID, err)
	}
	return report, nil
}
