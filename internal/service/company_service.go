package service

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/mmynk/salonbook/internal/models"
	"github.com/mmynk/salonbook/internal/storage"
)

// DefaultColor is used when a company is saved without a color.
const DefaultColor = "#f9a8d4"

var (
	// ErrAlreadyRegistered is returned by Register when a company exists.
	ErrAlreadyRegistered = errors.New("company already registered")

	// ErrNotRegistered is returned by Save before any company exists.
	ErrNotRegistered = errors.New("company not registered")

	hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// Profile is the branding of the active company. It is an explicit value
// handed to whatever needs it, loaded at startup and refreshed on every save.
type Profile struct {
	CompanyID int64
	Name      string
	Color     string
	LogoURL   string

	// Registered is false until a company has been saved.
	Registered bool
}

// DefaultProfile is the branding used before a company is registered.
func DefaultProfile() Profile {
	return Profile{Color: DefaultColor}
}

func profileOf(c *models.Company) Profile {
	p := Profile{
		CompanyID:  c.ID,
		Name:       c.NameCompany,
		Color:      c.MainColor,
		LogoURL:    c.LogoURL,
		Registered: true,
	}
	if p.Color == "" {
		p.Color = DefaultColor
	}
	return p
}

// CompanyService manages the company profile.
type CompanyService struct {
	store   storage.CompanyStore
	profile Profile
}

// NewCompanyService creates a new CompanyService with the given storage backend.
// Call Load before reading Profile.
func NewCompanyService(store storage.CompanyStore) *CompanyService {
	return &CompanyService{store: store, profile: DefaultProfile()}
}

// Load resolves the active company (the first by ID) into the profile.
func (s *CompanyService) Load(ctx context.Context) (Profile, error) {
	companies, err := s.store.ListCompanies(ctx)
	if err != nil {
		return s.profile, err
	}

	if len(companies) == 0 {
		s.profile = DefaultProfile()
	} else {
		s.profile = profileOf(companies[0])
	}
	return s.profile, nil
}

// Profile returns the branding resolved by the last Load, Register or Save.
func (s *CompanyService) Profile() Profile {
	return s.profile
}

func validateCompany(c *models.Company) error {
	c.NameCompany = strings.TrimSpace(c.NameCompany)
	c.MainColor = strings.TrimSpace(c.MainColor)
	c.LogoURL = strings.TrimSpace(c.LogoURL)

	if c.NameCompany == "" {
		return invalid("name", "required")
	}
	if c.MainColor == "" {
		c.MainColor = DefaultColor
	}
	if !hexColor.MatchString(c.MainColor) {
		return invalid("color", "must be a hex color like #f9a8d4")
	}
	if c.LogoURL != "" {
		if u, err := url.Parse(c.LogoURL); err != nil || u.Scheme == "" {
			return invalid("logo", "must be an absolute URI")
		}
	}
	return nil
}

// Register creates the company profile. Only one may be registered.
func (s *CompanyService) Register(ctx context.Context, company *models.Company) error {
	if err := validateCompany(company); err != nil {
		return err
	}

	existing, err := s.store.ListCompanies(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return ErrAlreadyRegistered
	}

	if err := s.store.CreateCompany(ctx, company); err != nil {
		slog.Error("CreateCompany failed", "error", err)
		return err
	}

	s.profile = profileOf(company)
	slog.Info("Company registered", "company_id", company.ID, "name", company.NameCompany)
	return nil
}

// Save updates the active company and refreshes the profile.
func (s *CompanyService) Save(ctx context.Context, company *models.Company) error {
	if err := validateCompany(company); err != nil {
		return err
	}

	if _, err := s.Load(ctx); err != nil {
		return err
	}
	if !s.profile.Registered {
		return ErrNotRegistered
	}
	company.ID = s.profile.CompanyID

	if err := s.store.UpdateCompany(ctx, company); err != nil {
		slog.Error("UpdateCompany failed", "company_id", company.ID, "error", err)
		return err
	}

	s.profile = profileOf(company)
	slog.Info("Company saved", "company_id", company.ID)
	return nil
}
