package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/SebastinST/tms-backend/internal/domain"
	"github.com/SebastinST/tms-backend/internal/store"
)

// GetPlan retrieves a plan by its composite identity.
func (b *Backend) GetPlan(ctx context.Context, acronym, name string) (*domain.Plan, error) {
	var plan domain.Plan
	var startDate, endDate, colour sql.NullString

	err := b.db.QueryRowContext(ctx, `
		SELECT app_acronym, name, start_date, end_date, colour
		FROM plan WHERE app_acronym = ? AND name = ?
	`, acronym, name).Scan(&plan.AppAcronym, &plan.Name, &startDate, &endDate, &colour)
	if err == sql.ErrNoRows {
		return nil, store.NewNotFoundError("plan", acronym+"/"+name)
	}
	if err != nil {
		return nil, err
	}

	plan.StartDate = startDate.String
	plan.EndDate = endDate.String
	plan.Colour = colour.String

	return &plan, nil
}

// PlanExists reports whether the plan exists without loading it.
func (b *Backend) PlanExists(ctx context.Context, acronym, name string) (bool, error) {
	var count int
	err := b.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM plan WHERE app_acronym = ? AND name = ?
	`, acronym, name).Scan(&count)
	return count > 0, err
}

// ListPlans retrieves all plans of an application.
func (b *Backend) ListPlans(ctx context.Context, acronym string) ([]*domain.Plan, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT app_acronym, name, start_date, end_date, colour
		FROM plan WHERE app_acronym = ? ORDER BY name
	`, acronym)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*domain.Plan
	for rows.Next() {
		var plan domain.Plan
		var startDate, endDate, colour sql.NullString
		if err := rows.Scan(&plan.AppAcronym, &plan.Name, &startDate, &endDate, &colour); err != nil {
			return nil, err
		}
		plan.StartDate = startDate.String
		plan.EndDate = endDate.String
		plan.Colour = colour.String
		plans = append(plans, &plan)
	}
	return plans, rows.Err()
}

// CreatePlan inserts a new plan.
func (b *Backend) CreatePlan(ctx context.Context, plan *domain.Plan) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO plan (app_acronym, name, start_date, end_date, colour)
		VALUES (?, ?, ?, ?, ?)
	`, plan.AppAcronym, plan.Name, nullable(plan.StartDate), nullable(plan.EndDate), nullable(plan.Colour))
	if err != nil {
		if isConstraint(err) && !isForeignKey(err) {
			return fmt.Errorf("plan %s/%s: %w", plan.AppAcronym, plan.Name, store.ErrAlreadyExists)
		}
		if isForeignKey(err) {
			return store.NewNotFoundError("application", plan.AppAcronym)
		}
	}
	return err
}
