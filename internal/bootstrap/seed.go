package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/vbbs/blood-bank-api/internal/models"
	"github.com/vbbs/blood-bank-api/pkg/config"
)

type seedAdminRepository interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, admin *models.Admin) error
}

type seedInventoryRepository interface {
	EnsureGroup(ctx context.Context, group models.BloodGroup, units int) error
}

type seedDonorRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Donor, error)
	Create(ctx context.Context, donor *models.Donor) error
}

// initialStock is the starting inventory seeded on a fresh database.
var initialStock = map[models.BloodGroup]int{
	models.GroupAPositive:  50,
	models.GroupANegative:  20,
	models.GroupBPositive:  45,
	models.GroupBNegative:  15,
	models.GroupOPositive:  100,
	models.GroupONegative:  30,
	models.GroupABPositive: 25,
	models.GroupABNegative: 10,
}

type sampleDonor struct {
	name  string
	email string
	phone string
	group models.BloodGroup
	city  string
}

var sampleDonors = []sampleDonor{
	{"John Doe", "john@example.com", "1234567890", models.GroupAPositive, "New York"},
	{"Jane Smith", "jane@example.com", "0987654321", models.GroupONegative, "London"},
	{"Alice Johnson", "alice@example.com", "1122334455", models.GroupBPositive, "Paris"},
}

// Seeder creates the bootstrap admin, the initial inventory rows, and a few
// sample donors on first start. Every step is idempotent so restarts are
// safe.
type Seeder struct {
	admins    seedAdminRepository
	inventory seedInventoryRepository
	donors    seedDonorRepository
	cfg       config.SeedConfig
	logger    *zap.Logger
}

// NewSeeder constructs a Seeder.
func NewSeeder(admins seedAdminRepository, inventory seedInventoryRepository, donors seedDonorRepository, cfg config.SeedConfig, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{admins: admins, inventory: inventory, donors: donors, cfg: cfg, logger: logger}
}

// Run executes the seed. A no-op when seeding is disabled.
func (s *Seeder) Run(ctx context.Context) error {
	if !s.cfg.Enabled {
		return nil
	}

	if err := s.seedAdmin(ctx); err != nil {
		return err
	}
	if err := s.seedInventory(ctx); err != nil {
		return err
	}
	return s.seedDonors(ctx)
}

func (s *Seeder) seedAdmin(ctx context.Context) error {
	exists, err := s.admins.ExistsByUsername(ctx, s.cfg.AdminUsername)
	if err != nil {
		return fmt.Errorf("check admin: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := s.admins.Create(ctx, &models.Admin{
		Username:     s.cfg.AdminUsername,
		PasswordHash: string(hash),
	}); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	s.logger.Info("bootstrap admin created", zap.String("username", s.cfg.AdminUsername))
	return nil
}

func (s *Seeder) seedInventory(ctx context.Context) error {
	for _, group := range models.BloodGroups {
		if err := s.inventory.EnsureGroup(ctx, group, initialStock[group]); err != nil {
			return fmt.Errorf("seed inventory: %w", err)
		}
	}
	s.logger.Info("inventory rows ensured", zap.Int("groups", len(models.BloodGroups)))
	return nil
}

func (s *Seeder) seedDonors(ctx context.Context) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash donor password: %w", err)
	}

	created := 0
	for _, d := range sampleDonors {
		_, err := s.donors.FindByEmail(ctx, d.email)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check sample donor: %w", err)
		}

		donor := &models.Donor{
			Name:         d.name,
			Email:        d.email,
			PasswordHash: string(hash),
			Phone:        d.phone,
			BloodGroup:   d.group,
			City:         d.city,
			Available:    true,
			CreatedAt:    time.Now().UTC(),
		}
		if err := s.donors.Create(ctx, donor); err != nil {
			return fmt.Errorf("create sample donor: %w", err)
		}
		created++
	}
	if created > 0 {
		s.logger.Info("sample donors created", zap.Int("count", created))
	}
	return nil
}
