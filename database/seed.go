package database

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"
	"gorm.io/gorm"

	"github.com/mytheresa/go-catalog-mappings/models"
)

type seedProduct struct {
	name        string
	description string
	price       string
	category    string
}

var seedCategories = []string{"Clothing", "Shoes", "Accessories"}

var seedProducts = []seedProduct{
	{name: "Linen Shirt", description: "Relaxed fit", price: "89.90", category: "Clothing"},
	{name: "Wool Coat", description: "Double breasted", price: "349.00", category: "Clothing"},
	{name: "Leather Sneakers", description: "White", price: "179.50", category: "Shoes"},
	{name: "Suede Loafers", description: "Tan", price: "229.00", category: "Shoes"},
	{name: "Silk Scarf", description: "Printed", price: "120.00", category: "Accessories"},
	{name: "Gift Card", description: "Uncategorized", price: "50.00"},
}

// Seed inserts sample categories and products through the ORM repositories.
// Rows that already exist are skipped.
func Seed(ctx context.Context, db *gorm.DB, scope tally.Scope) error {
	categories := models.NewCategoriesRepository(db, scope)
	products := models.NewProductsRepository(db, scope)

	ids := make(map[string]uint, len(seedCategories))
	for _, name := range seedCategories {
		c := &models.Category{Name: name}
		err := categories.Persist(ctx, c)
		if models.IsAlreadyExists(err) {
			existing, findErr := categories.FindByName(ctx, name)
			if findErr != nil {
				return findErr
			}
			c, err = existing, nil
		}
		if err != nil {
			return errors.Wrapf(err, "seed category %s", name)
		}
		ids[name] = c.ID
	}

	created := 0
	for _, sp := range seedProducts {
		p := &models.Product{
			Name:        sp.name,
			Description: sp.description,
			Price:       decimal.RequireFromString(sp.price),
		}
		if id, ok := ids[sp.category]; ok {
			p.CategoryID = &id
		}
		err := products.Persist(ctx, p)
		if models.IsAlreadyExists(err) {
			continue
		}
		if err != nil {
			return errors.Wrapf(err, "seed product %s", sp.name)
		}
		created++
	}

	log.WithFields(log.Fields{
		"categories": len(ids),
		"products":   created,
	}).Info("database seeded")
	return nil
}
