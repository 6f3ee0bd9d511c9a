package models

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/uber-go/tally/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductsRepository implements ProductDAO with gorm's entity methods.
type ProductsRepository struct {
	db  *gorm.DB
	rec *Recorder
}

type ProductFilters struct {
	CategoryName  string
	PriceLessThan *float64
}

func NewProductsRepository(db *gorm.DB, scope tally.Scope) *ProductsRepository {
	return &ProductsRepository{
		db:  db,
		rec: NewRecorder(scope, "product", "orm"),
	}
}

func (r *ProductsRepository) ListAll(ctx context.Context) (products []Product, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpList, "ListAll", start, err) }()

	if err := r.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return products, nil
}

func (r *ProductsRepository) GetFilteredProducts(ctx context.Context, offset, limit int, filters ProductFilters) (products []Product, total int64, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpList, "GetFilteredProducts", start, err) }()

	query := r.db.WithContext(ctx).Model(&Product{}).
		Joins("LEFT JOIN categories ON categories.id = products.category_id")

	// Filter
	if filters.CategoryName != "" {
		query = query.Where("categories.name = ?", filters.CategoryName)
	}
	if filters.PriceLessThan != nil {
		query = query.Where("products.price < ?", *filters.PriceLessThan)
	}
	query = query.Session(&gorm.Session{})

	// Count total after filtering
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count filtered products")
	}

	// Apply pagination
	if err := query.Select("products.*").
		Preload("Category").
		Order("products.id").
		Offset(offset).
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, 0, errors.Wrap(err, "list filtered products")
	}

	return products, total, nil
}

func (r *ProductsRepository) FindByID(ctx context.Context, id uint) (product *Product, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpFind, "FindByID", start, err) }()

	if err := ValidateID(id); err != nil {
		return nil, err
	}
	var p Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translateGormError(err, ErrProductNotFound, ErrProductAlreadyExists, "find product by id")
	}
	return &p, nil
}

func (r *ProductsRepository) FindByName(ctx context.Context, name string) (product *Product, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpFind, "FindByName", start, err) }()

	if err := ValidateName(name); err != nil {
		return nil, err
	}
	var p Product
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&p).Error; err != nil {
		return nil, translateGormError(err, ErrProductNotFound, ErrProductAlreadyExists, "find product by name")
	}
	return &p, nil
}

func (r *ProductsRepository) GetByIDEager(ctx context.Context, id uint) (product *Product, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpFind, "GetByIDEager", start, err) }()

	if err := ValidateID(id); err != nil {
		return nil, err
	}
	var p Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&p, id).Error; err != nil {
		return nil, translateGormError(err, ErrProductNotFound, ErrProductAlreadyExists, "get product eagerly")
	}
	return &p, nil
}

// Persist inserts p. A referenced category must already exist; p.Category is
// not cascaded.
func (r *ProductsRepository) Persist(ctx context.Context, p *Product) (err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpPersist, "Persist", start, err) }()

	if err := ValidateNewProduct(p); err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&Product{}).Where("name = ?", p.Name).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrProductAlreadyExists
		}
		if p.CategoryID != nil {
			if err := tx.Select("id").First(&Category{}, *p.CategoryID).Error; err != nil {
				return translateGormError(err, ErrCategoryNotFound, ErrCategoryAlreadyExists, "check product category")
			}
		}
		return tx.Omit(clause.Associations).Create(p).Error
	})
	if err != nil {
		p.ID = 0
		return translateGormError(err, ErrProductNotFound, ErrProductAlreadyExists, "persist product")
	}
	return nil
}

func (r *ProductsRepository) Merge(ctx context.Context, p *Product) (merged bool, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpMerge, "Merge", start, err) }()

	if err := ValidateProductUpdate(p); err != nil {
		return false, err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stored Product
		if err := tx.First(&stored, p.ID).Error; err != nil {
			return err
		}
		if p.CategoryID != nil {
			if err := tx.Select("id").First(&Category{}, *p.CategoryID).Error; err != nil {
				return translateGormError(err, ErrCategoryNotFound, ErrCategoryAlreadyExists, "check product category")
			}
		}
		stored.Name = p.Name
		stored.Description = p.Description
		stored.Price = p.Price
		stored.CategoryID = p.CategoryID
		return tx.Omit(clause.Associations).Save(&stored).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, translateGormError(err, ErrProductNotFound, ErrProductAlreadyExists, "merge product")
	}
	return true, nil
}

func (r *ProductsRepository) DeleteByID(ctx context.Context, id uint) (deleted bool, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpDelete, "DeleteByID", start, err) }()

	if err := ValidateID(id); err != nil {
		return false, err
	}
	var affected int64
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&Product{}, id)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return false, errors.Wrap(err, "delete product")
	}
	return affected > 0, nil
}
