package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/SebastinST/tms-backend/internal/domain"
	"github.com/SebastinST/tms-backend/internal/store"
)

const appColumns = `acronym, description, rnumber, start_date, end_date, permit_create, permit_open, permit_todo, permit_doing, permit_done`

// GetApplication retrieves an application by acronym.
func (b *Backend) GetApplication(ctx context.Context, acronym string) (*domain.Application, error) {
	row := b.db.QueryRowContext(ctx, `
		SELECT `+appColumns+` FROM application WHERE acronym = ?
	`, acronym)

	app, err := scanApplication(row)
	if err == sql.ErrNoRows {
		return nil, store.NewNotFoundError("application", acronym)
	}
	return app, err
}

// ListApplications retrieves all applications.
func (b *Backend) ListApplications(ctx context.Context) ([]*domain.Application, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT `+appColumns+` FROM application ORDER BY acronym
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []*domain.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

// CreateApplication inserts a new application.
func (b *Backend) CreateApplication(ctx context.Context, app *domain.Application) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO application (acronym, description, rnumber, start_date, end_date, permit_create, permit_open, permit_todo, permit_doing, permit_done)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, app.Acronym, nullable(app.Description), app.RNumber,
		nullTime(app.StartDate), nullTime(app.EndDate),
		nullable(app.PermitCreate), nullable(app.PermitOpen), nullable(app.PermitToDo),
		nullable(app.PermitDoing), nullable(app.PermitDone))
	if err != nil && isConstraint(err) {
		return fmt.Errorf("application %s: %w", app.Acronym, store.ErrAlreadyExists)
	}
	return err
}

// UpdateApplication updates description, dates and permits. The acronym
// and running number are immutable through this path.
func (b *Backend) UpdateApplication(ctx context.Context, app *domain.Application) error {
	res, err := b.db.ExecContext(ctx, `
		UPDATE application
		SET description = ?, start_date = ?, end_date = ?,
		    permit_create = ?, permit_open = ?, permit_todo = ?, permit_doing = ?, permit_done = ?
		WHERE acronym = ?
	`, nullable(app.Description), nullTime(app.StartDate), nullTime(app.EndDate),
		nullable(app.PermitCreate), nullable(app.PermitOpen), nullable(app.PermitToDo),
		nullable(app.PermitDoing), nullable(app.PermitDone), app.Acronym)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.NewNotFoundError("application", app.Acronym)
	}
	return nil
}

func scanApplication(s scanner) (*domain.Application, error) {
	var app domain.Application
	var description sql.NullString
	var startDate, endDate sql.NullTime
	var pc, po, pt, pdg, pdn sql.NullString

	err := s.Scan(&app.Acronym, &description, &app.RNumber, &startDate, &endDate,
		&pc, &po, &pt, &pdg, &pdn)
	if err != nil {
		return nil, err
	}

	app.Description = description.String
	app.StartDate = startDate.Time
	app.EndDate = endDate.Time
	app.PermitCreate = pc.String
	app.PermitOpen = po.String
	app.PermitToDo = pt.String
	app.PermitDoing = pdg.String
	app.PermitDone = pdn.String

	return &app, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
