package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"foodhub/config"
	"foodhub/food-svc/internal/domain"
	"foodhub/food-svc/internal/storage"
	"foodhub/logger"

	"github.com/jaswdr/faker"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var (
	seedValue     int64
	itemsPerGroup int
	adminEmail    string
	adminPassword string
)

var seedCatalog = []struct {
	en, es string
}{
	{"Burgers", "Hamburguesas"},
	{"Pizzas", "Pizzas"},
	{"Salads", "Ensaladas"},
	{"Desserts", "Postres"},
	{"Drinks", "Bebidas"},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with demo categories, items, offers and an admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		log := logger.New("food-svc").Action("seed")

		db := config.MustInitPostgres(cfg.Database)
		defer db.Close()

		ctx := cmd.Context()
		if err := storage.Migrate(ctx, db); err != nil {
			return err
		}

		s := seeder{
			fake:    faker.NewWithSeed(rand.NewSource(seedValue)),
			catalog: storage.NewCatalogRepository(db),
			offers:  storage.NewOfferRepository(db),
			users:   storage.NewUserRepository(db),
			now:     time.Now(),
		}
		if err := s.admin(ctx, cfg.Auth.BcryptCost); err != nil {
			return err
		}
		itemIDs, err := s.menu(ctx)
		if err != nil {
			return err
		}
		if err := s.promotions(ctx, itemIDs); err != nil {
			return err
		}
		log.Info("demo data ready", "items", len(itemIDs), "admin", adminEmail)
		return nil
	},
}

func init() {
	seedCmd.Flags().Int64Var(&seedValue, "seed", 42, "random seed for generated data")
	seedCmd.Flags().IntVar(&itemsPerGroup, "items", 8, "food items per category")
	seedCmd.Flags().StringVar(&adminEmail, "admin-email", "admin@foodhub.local", "email of the seeded admin")
	seedCmd.Flags().StringVar(&adminPassword, "admin-password", "admin12345", "password of the seeded admin")
}

type seeder struct {
	fake    faker.Faker
	catalog *storage.CatalogRepository
	offers  *storage.OfferRepository
	users   *storage.UserRepository
	now     time.Time
}

func (s seeder) admin(ctx context.Context, cost int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), cost)
	if err != nil {
		return err
	}
	err = s.users.Create(ctx, &domain.User{
		Name:              "Admin",
		Email:             domain.NormalizeEmail(adminEmail),
		PasswordHash:      string(hash),
		Role:              domain.RoleAdmin,
		IsVerified:        true,
		PreferredLanguage: domain.DefaultLanguage,
	})
	if err != nil && !errors.Is(err, domain.ErrEmailTaken) {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}

func (s seeder) menu(ctx context.Context) ([]int64, error) {
	bar := progressbar.Default(int64(len(seedCatalog)*itemsPerGroup), "seeding menu")
	var ids []int64
	for i, group := range seedCatalog {
		c := &domain.Category{
			Name:        domain.LocalizedText{"en": group.en, "es": group.es},
			Description: domain.LocalizedText{"en": s.fake.Lorem().Sentence(8)},
			SortOrder:   i,
			IsActive:    true,
		}
		if err := s.catalog.CreateCategory(ctx, c); err != nil {
			return nil, fmt.Errorf("seed category %s: %w", group.en, err)
		}
		for j := 0; j < itemsPerGroup; j++ {
			item := s.item(c.ID, group.en)
			if err := s.catalog.CreateItem(ctx, item); err != nil {
				return nil, fmt.Errorf("seed item: %w", err)
			}
			ids = append(ids, item.ID)
			bar.Add(1)
		}
	}
	return ids, nil
}

func (s seeder) item(categoryID int64, group string) *domain.FoodItem {
	word := s.fake.Lorem().Word()
	name := strings.ToUpper(word[:1]) + word[1:] + " " + strings.TrimSuffix(group, "s")
	return &domain.FoodItem{
		Name:        domain.LocalizedText{"en": name},
		Description: domain.LocalizedText{"en": s.fake.Lorem().Sentence(10)},
		Price:       s.fake.Float64(2, 4, 18),
		CategoryID:  categoryID,
		Sizes: []domain.SizeOption{
			{Name: "Regular"},
			{Name: "Large", AdditionalPrice: s.fake.Float64(2, 1, 3)},
		},
		Extras:            []domain.Extra{{Name: "Extra sauce", Price: 0.50}},
		StockQuantity:     s.fake.IntBetween(5, 120),
		LowStockThreshold: 10,
		IsActive:          true,
		IsAvailable:       true,
	}
}

func (s seeder) promotions(ctx context.Context, itemIDs []int64) error {
	maxDiscount := 15.0
	offers := []*domain.Offer{
		{
			Title:             domain.LocalizedText{"en": "Welcome 10%", "es": "Bienvenida 10%"},
			DiscountType:      domain.DiscountPercentage,
			Value:             10,
			CouponCode:        "WELCOME10",
			MaxDiscountAmount: &maxDiscount,
			UsageLimitPerUser: 1,
			IsFeatured:        true,
		},
		{
			Title:          domain.LocalizedText{"en": "Free delivery over 25", "es": "Envío gratis desde 25"},
			DiscountType:   domain.DiscountFreeDelivery,
			MinOrderAmount: 25,
			Priority:       1,
		},
	}
	if len(itemIDs) >= 2 {
		offers = append(offers, &domain.Offer{
			Title:           domain.LocalizedText{"en": "Combo deal"},
			DiscountType:    domain.DiscountCombo,
			Value:           3,
			ApplicableItems: itemIDs[:2],
		})
	}
	for _, o := range offers {
		o.StartDate = s.now.Add(-time.Hour)
		o.EndDate = s.now.AddDate(0, 3, 0)
		o.IsActive = true
		if err := s.offers.Create(ctx, o); err != nil {
			return fmt.Errorf("seed offer %s: %w", o.Title.Resolve("en"), err)
		}
	}
	return nil
}
