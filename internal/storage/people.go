package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/saarthi-app/saarthi/internal/common"
	"github.com/saarthi-app/saarthi/internal/model"
)

// personColumns is the canonical column order shared by every person query.
const personColumns = `id, no, name, state, salary,
	vehicle_loan, vehicle_emi, home_loan, home_emi,
	personal_loan, personal_loan_emi, land_loan, land_loan_emi,
	education_loan, education_loan_emi, chitti, chitti_emi,
	gold_loan, gold_loan_emi, agif_loan, agif_loan_emi,
	other_loans, other_emis_online, other_emis_offline,
	investment_stock_market, investment_mutual_fund,
	investment_fixed_deposits, investment_gold_emi,
	saving, cibil_score_image, created_at, updated_at, sync_status`

// AddPerson persists a new person record. A fresh id and timestamps are
// minted only when the caller did not supply them, so backup restores keep
// their original identity. Duplicate `no` or `id` fails with
// common.ErrDuplicateEntry and leaves the store unchanged.
func (s *SQLiteStorage) AddPerson(ctx context.Context, person *model.Person) (*model.Person, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	stored := *person
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = now
	}
	if stored.SyncStatus == "" {
		stored.SyncStatus = model.SyncStatusPending
	}

	if err := validatePerson(&stored); err != nil {
		return nil, err
	}

	query := `INSERT INTO people (` + personColumns + `) VALUES (` + placeholders(33) + `)`

	err := common.WithRetry(ctx, func() error {
		_, execErr := s.db.ExecContext(ctx, query, personArgs(&stored)...)
		return mapSQLiteError(execErr)
	}, common.RetryOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to insert person: %w", err)
	}

	return &stored, nil
}

// UpdatePerson merges the partial update over the stored record. The id and
// createdAt are preserved; updatedAt is bumped and the record is marked
// pending. Fails with common.ErrNotFound when the id is absent.
func (s *SQLiteStorage) UpdatePerson(ctx context.Context, id string, update model.PersonUpdate) (*model.Person, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	existing, err := s.GetPerson(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: person %s", common.ErrNotFound, id)
	}

	merged := *existing
	update.ApplyTo(&merged)
	merged.ID = existing.ID
	merged.CreatedAt = existing.CreatedAt
	merged.UpdatedAt = time.Now().UTC()
	merged.SyncStatus = model.SyncStatusPending

	if err := validatePerson(&merged); err != nil {
		return nil, err
	}

	query := `UPDATE people SET
		no = ?, name = ?, state = ?, salary = ?,
		vehicle_loan = ?, vehicle_emi = ?, home_loan = ?, home_emi = ?,
		personal_loan = ?, personal_loan_emi = ?, land_loan = ?, land_loan_emi = ?,
		education_loan = ?, education_loan_emi = ?, chitti = ?, chitti_emi = ?,
		gold_loan = ?, gold_loan_emi = ?, agif_loan = ?, agif_loan_emi = ?,
		other_loans = ?, other_emis_online = ?, other_emis_offline = ?,
		investment_stock_market = ?, investment_mutual_fund = ?,
		investment_fixed_deposits = ?, investment_gold_emi = ?,
		saving = ?, cibil_score_image = ?, updated_at = ?, sync_status = ?
		WHERE id = ?`

	args := []any{
		merged.No, merged.Name, merged.State, merged.Salary,
		merged.VehicleLoan, merged.VehicleEMI, merged.HomeLoan, merged.HomeEMI,
		merged.PersonalLoan, merged.PersonalLoanEMI, merged.LandLoan, merged.LandLoanEMI,
		merged.EducationLoan, merged.EducationLoanEMI, merged.Chitti, merged.ChittiEMI,
		merged.GoldLoan, merged.GoldLoanEMI, merged.AgifLoan, merged.AgifLoanEMI,
		merged.OtherLoans, merged.OtherEMIsOnline, merged.OtherEMIsOffline,
		merged.InvestmentStockMarket, merged.InvestmentMutualFund,
		merged.InvestmentFixedDeposits, merged.InvestmentGoldEMI,
		merged.Saving, nullIfEmpty(merged.CibilScoreImage), merged.UpdatedAt, string(merged.SyncStatus),
		merged.ID,
	}

	err = common.WithRetry(ctx, func() error {
		_, execErr := s.db.ExecContext(ctx, query, args...)
		return mapSQLiteError(execErr)
	}, common.RetryOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to update person %s: %w", id, err)
	}

	return &merged, nil
}

// DeletePerson removes a person. Deleting an absent id is a no-op; delete
// is set-membership removal, not a lookup.
func (s *SQLiteStorage) DeletePerson(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM people WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete person %s: %w", id, mapSQLiteError(err))
	}
	return nil
}

// GetPerson looks up a person by id. Absence is an expected outcome, so a
// missing id returns (nil, nil) rather than an error.
func (s *SQLiteStorage) GetPerson(ctx context.Context, id string) (*model.Person, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+personColumns+` FROM people WHERE id = ?`, id)

	person, err := scanPerson(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person %s: %w", id, err)
	}
	return person, nil
}

// GetAllPeople returns the full collection in insertion order. Callers that
// need a different ordering must sort explicitly.
func (s *SQLiteStorage) GetAllPeople(ctx context.Context) ([]model.Person, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+personColumns+` FROM people ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query people: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var people []model.Person
	for rows.Next() {
		person, scanErr := scanPerson(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan person: %w", scanErr)
		}
		people = append(people, *person)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate people: %w", err)
	}

	return people, nil
}

// CountPeople returns the number of stored person records.
func (s *SQLiteStorage) CountPeople(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM people`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count people: %w", err)
	}
	return count, nil
}

// ClearAllPeople empties the people collection. Settings are untouched.
func (s *SQLiteStorage) ClearAllPeople(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM people`); err != nil {
		return fmt.Errorf("failed to clear people: %w", mapSQLiteError(err))
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPerson(row scanner) (*model.Person, error) {
	var p model.Person
	var cibil sql.NullString
	var syncStatus string

	err := row.Scan(
		&p.ID, &p.No, &p.Name, &p.State, &p.Salary,
		&p.VehicleLoan, &p.VehicleEMI, &p.HomeLoan, &p.HomeEMI,
		&p.PersonalLoan, &p.PersonalLoanEMI, &p.LandLoan, &p.LandLoanEMI,
		&p.EducationLoan, &p.EducationLoanEMI, &p.Chitti, &p.ChittiEMI,
		&p.GoldLoan, &p.GoldLoanEMI, &p.AgifLoan, &p.AgifLoanEMI,
		&p.OtherLoans, &p.OtherEMIsOnline, &p.OtherEMIsOffline,
		&p.InvestmentStockMarket, &p.InvestmentMutualFund,
		&p.InvestmentFixedDeposits, &p.InvestmentGoldEMI,
		&p.Saving, &cibil, &p.CreatedAt, &p.UpdatedAt, &syncStatus,
	)
	if err != nil {
		return nil, err
	}

	if cibil.Valid {
		p.CibilScoreImage = cibil.String
	}
	p.SyncStatus = model.SyncStatus(syncStatus)

	return &p, nil
}

func personArgs(p *model.Person) []any {
	return []any{
		p.ID, p.No, p.Name, p.State, p.Salary,
		p.VehicleLoan, p.VehicleEMI, p.HomeLoan, p.HomeEMI,
		p.PersonalLoan, p.PersonalLoanEMI, p.LandLoan, p.LandLoanEMI,
		p.EducationLoan, p.EducationLoanEMI, p.Chitti, p.ChittiEMI,
		p.GoldLoan, p.GoldLoanEMI, p.AgifLoan, p.AgifLoanEMI,
		p.OtherLoans, p.OtherEMIsOnline, p.OtherEMIsOffline,
		p.InvestmentStockMarket, p.InvestmentMutualFund,
		p.InvestmentFixedDeposits, p.InvestmentGoldEMI,
		p.Saving, nullIfEmpty(p.CibilScoreImage), p.CreatedAt, p.UpdatedAt, string(p.SyncStatus),
	}
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func placeholders(n int) string {
	out := make([]byte, 0, n*3)
	for i := 0; i < n; i++ {
		if i > 0 {
			out = append(out, ", "...)
		}
		out = append(out, '?')
	}
	return string(out)
}
