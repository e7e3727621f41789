// internal/repository/applications.go

// Package repository persists completed loan applications. Only finished
// records reach this layer; in-progress interviews live solely in the
// session store.
package repository

import (
	"context"
	"database/sql"

	apperrors "ana-voicebot/internal/common/errors"
	"ana-voicebot/internal/common/logger"
	"ana-voicebot/internal/models"
)

const insertApplication = `
	INSERT INTO loan_applications (
		application_id, created_at, full_name, dpi, date_of_birth, address,
		phone, email, employment_status, company_name, business_type,
		loan_amount, loan_purpose, age, monthly_income, qualified, consent_given
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

// Applications writes completed applications to Postgres.
type Applications struct {
	db  *sql.DB
	log logger.Logger
}

func NewApplications(db *sql.DB, log logger.Logger) *Applications {
	return &Applications{db: db, log: log}
}

// Save inserts one completed application. The nullable numeric captures go in
// as NULL when they were never stated out loud.
func (r *Applications) Save(ctx context.Context, app *models.ApplicationRecord) error {
	_, err := r.db.ExecContext(ctx, insertApplication,
		app.ApplicationID,
		app.CreatedAt,
		app.FullName,
		app.DPI,
		app.DateOfBirth,
		app.Address,
		app.Phone,
		app.Email,
		string(app.EmploymentStatus),
		app.CompanyName,
		app.BusinessType,
		app.LoanAmount,
		app.LoanPurpose,
		app.Age,
		app.MonthlyIncome,
		app.Qualified,
		app.ConsentGiven,
	)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeApplicationSaveFailed, "insert application", err).
			WithMetadata("applicationId", app.ApplicationID)
	}
	r.log.Info("application persisted", map[string]interface{}{
		"applicationId": app.ApplicationID,
	})
	return nil
}
