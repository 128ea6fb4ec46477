package sqlite

import (
	"context"
	"database/sql"

	"github.com/mmynk/salonbook/internal/models"
	"github.com/mmynk/salonbook/internal/storage"
)

const companyColumns = "id, nameCompany, mainColor, logoUrl"

type companyRow struct {
	ID          int64          `db:"id"`
	NameCompany sql.NullString `db:"nameCompany"`
	MainColor   sql.NullString `db:"mainColor"`
	LogoURL     sql.NullString `db:"logoUrl"`
}

func (r companyRow) toModel() *models.Company {
	return &models.Company{
		ID:          r.ID,
		NameCompany: r.NameCompany.String,
		MainColor:   r.MainColor.String,
		LogoURL:     r.LogoURL.String,
	}
}

// CreateCompany inserts a company profile and sets company.ID.
func (s *SQLiteStore) CreateCompany(ctx context.Context, company *models.Company) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO company (nameCompany, mainColor, logoUrl) VALUES (?, ?, ?)",
		nullString(company.NameCompany), nullString(company.MainColor), nullString(company.LogoURL),
	)
	if err != nil {
		return storage.NewError("insert company", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return storage.NewError("insert company", err)
	}
	company.ID = id

	return nil
}

// ListCompanies retrieves every company ordered by ID.
func (s *SQLiteStore) ListCompanies(ctx context.Context) ([]*models.Company, error) {
	var rows []companyRow
	err := s.db.SelectContext(ctx, &rows, "SELECT "+companyColumns+" FROM company ORDER BY id ASC")
	if err != nil {
		return nil, storage.NewError("list companies", err)
	}

	companies := make([]*models.Company, len(rows))
	for i, r := range rows {
		companies[i] = r.toModel()
	}
	return companies, nil
}

// GetCompany retrieves a company by ID. Returns nil, nil if it does not exist.
func (s *SQLiteStore) GetCompany(ctx context.Context, id int64) (*models.Company, error) {
	var row companyRow
	err := s.db.GetContext(ctx, &row, "SELECT "+companyColumns+" FROM company WHERE id = ?", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storage.NewError("get company", err)
	}
	return row.toModel(), nil
}

// UpdateCompany replaces every field of an existing company.
func (s *SQLiteStore) UpdateCompany(ctx context.Context, company *models.Company) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE company SET nameCompany = ?, mainColor = ?, logoUrl = ? WHERE id = ?",
		nullString(company.NameCompany), nullString(company.MainColor), nullString(company.LogoURL), company.ID,
	)
	if err != nil {
		return storage.NewError("update company", err)
	}
	return storage.NewError("update company", requireAffected(res))
}

// DeleteCompany removes a company profile.
func (s *SQLiteStore) DeleteCompany(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM company WHERE id = ?", id)
	if err != nil {
		return storage.NewError("delete company", err)
	}
	return storage.NewError("delete company", requireAffected(res))
}
