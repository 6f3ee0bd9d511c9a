package models

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/uber-go/tally/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoriesRepository implements CategoryDAO with gorm's entity methods.
type CategoriesRepository struct {
	db  *gorm.DB
	rec *Recorder
}

func NewCategoriesRepository(db *gorm.DB, scope tally.Scope) *CategoriesRepository {
	return &CategoriesRepository{
		db:  db,
		rec: NewRecorder(scope, "category", "orm"),
	}
}

func (r *CategoriesRepository) FindByID(ctx context.Context, id uint) (category *Category, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpFind, "FindByID", start, err) }()

	if err := ValidateID(id); err != nil {
		return nil, err
	}
	var c Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translateGormError(err, ErrCategoryNotFound, ErrCategoryAlreadyExists, "find category by id")
	}
	return &c, nil
}

func (r *CategoriesRepository) FindByName(ctx context.Context, name string) (category *Category, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpFind, "FindByName", start, err) }()

	if err := ValidateName(name); err != nil {
		return nil, err
	}
	var c Category
	if err := r.db.WithContext(ctx).Where(&Category{Name: name}).First(&c).Error; err != nil {
		return nil, translateGormError(err, ErrCategoryNotFound, ErrCategoryAlreadyExists, "find category by name")
	}
	return &c, nil
}

func (r *CategoriesRepository) ListAll(ctx context.Context) (categories []Category, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpList, "ListAll", start, err) }()

	if err := r.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	return categories, nil
}

func (r *CategoriesRepository) GetByIDEager(ctx context.Context, id uint) (category *Category, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpFind, "GetByIDEager", start, err) }()

	if err := ValidateID(id); err != nil {
		return nil, err
	}
	var c Category
	if err := r.db.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&c, id).Error; err != nil {
		return nil, translateGormError(err, ErrCategoryNotFound, ErrCategoryAlreadyExists, "get category eagerly")
	}
	return &c, nil
}

func (r *CategoriesRepository) Persist(ctx context.Context, c *Category) (err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpPersist, "Persist", start, err) }()

	if err := ValidateNewCategory(c); err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(c).Error
	})
	if err != nil {
		c.ID = 0
		return translateGormError(err, ErrCategoryNotFound, ErrCategoryAlreadyExists, "persist category")
	}
	return nil
}

func (r *CategoriesRepository) Merge(ctx context.Context, c *Category) (merged bool, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpMerge, "Merge", start, err) }()

	if err := ValidateCategoryUpdate(c); err != nil {
		return false, err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stored Category
		if err := tx.First(&stored, c.ID).Error; err != nil {
			return err
		}
		stored.Name = c.Name
		return tx.Omit(clause.Associations).Save(&stored).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, translateGormError(err, ErrCategoryNotFound, ErrCategoryAlreadyExists, "merge category")
	}
	return true, nil
}

func (r *CategoriesRepository) DeleteByID(ctx context.Context, id uint) (deleted bool, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpDelete, "DeleteByID", start, err) }()

	if err := ValidateID(id); err != nil {
		return false, err
	}
	var affected int64
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&Category{}, id)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return false, errors.Wrap(err, "delete category")
	}
	return affected > 0, nil
}

func (r *CategoriesRepository) ListAllWithEmptyRows(ctx context.Context) (categories []Category, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpList, "ListAllWithEmptyRows", start, err) }()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Category{}).Error; err != nil {
			return err
		}
		if err := tx.Order("id").Find(&categories).Error; err != nil {
			return err
		}
		return errRollback
	})
	if err != nil && !errors.Is(err, errRollback) {
		return nil, errors.Wrap(err, "list categories on emptied table")
	}
	return categories, nil
}

func (r *CategoriesRepository) Count(ctx context.Context) (total int64, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpCount, "Count", start, err) }()

	if err := r.db.WithContext(ctx).Model(&Category{}).Count(&total).Error; err != nil {
		return 0, errors.Wrap(err, "count categories")
	}
	return total, nil
}

func (r *CategoriesRepository) CountPages(ctx context.Context, resultsPerPage int) (int, error) {
	if err := ValidatePage(1, resultsPerPage); err != nil {
		return 0, err
	}
	total, err := r.Count(ctx)
	if err != nil {
		return 0, err
	}
	return PageCount(total, resultsPerPage), nil
}

func (r *CategoriesRepository) ListPage(ctx context.Context, pageNum, resultsPerPage int) (categories []Category, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpList, "ListPage", start, err) }()

	if err := ValidatePage(pageNum, resultsPerPage); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Order("id").
		Offset(PageOffset(pageNum, resultsPerPage)).
		Limit(resultsPerPage).
		Find(&categories).Error; err != nil {
		return nil, errors.Wrap(err, "list categories page")
	}
	return categories, nil
}
