package native

import (
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/mytheresa/go-catalog-mappings/models"
)

type categoryRow struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

func (r categoryRow) toModel() models.Category {
	return models.Category{
		ID:   uint(r.ID),
		Name: r.Name,
	}
}

type productRow struct {
	ID          int64               `db:"id"`
	Name        string              `db:"name"`
	Description sql.NullString      `db:"description"`
	Price       decimal.NullDecimal `db:"price"`
	CategoryID  sql.NullInt64       `db:"category_id"`
}

func (r productRow) toModel() models.Product {
	p := models.Product{
		ID:          uint(r.ID),
		Name:        r.Name,
		Description: r.Description.String,
	}
	if r.Price.Valid {
		p.Price = r.Price.Decimal
	}
	if r.CategoryID.Valid {
		id := uint(r.CategoryID.Int64)
		p.CategoryID = &id
	}
	return p
}

func categoriesFromRows(rows []categoryRow) []models.Category {
	categories := make([]models.Category, len(rows))
	for i, row := range rows {
		categories[i] = row.toModel()
	}
	return categories
}

func productsFromRows(rows []productRow) []models.Product {
	products := make([]models.Product, len(rows))
	for i, row := range rows {
		products[i] = row.toModel()
	}
	return products
}

// productArgs returns the insert/update values of p in column order.
func productArgs(p *models.Product) []interface{} {
	var categoryID interface{}
	if p.CategoryID != nil {
		categoryID = int64(*p.CategoryID)
	}
	return []interface{}{p.Name, p.Description, p.Price, categoryID}
}
