package models

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/uber-go/tally/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	categoryColumnID   = "id"
	categoryColumnName = "name"
)

// CategoriesCriteriaRepository implements CategoryDAO by composing gorm
// clause expressions instead of calling the model shortcuts.
type CategoriesCriteriaRepository struct {
	db  *gorm.DB
	rec *Recorder
}

func NewCategoriesCriteriaRepository(db *gorm.DB, scope tally.Scope) *CategoriesCriteriaRepository {
	return &CategoriesCriteriaRepository{
		db:  db,
		rec: NewRecorder(scope, "category", "criteria"),
	}
}

func whereEq(column string, value interface{}) clause.Where {
	return clause.Where{Exprs: []clause.Expression{
		clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: column}, Value: value},
	}}
}

func orderByID() clause.OrderBy {
	return clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Table: clause.CurrentTable, Name: categoryColumnID}},
	}}
}

// uniqueCategory runs query and expects at most one row.
func (r *CategoriesCriteriaRepository) uniqueCategory(tx *gorm.DB, where clause.Where) (*Category, error) {
	var found []Category
	if err := tx.Model(&Category{}).Clauses(where, clause.Limit{Limit: intPtr(2)}).Find(&found).Error; err != nil {
		return nil, err
	}
	switch len(found) {
	case 0:
		return nil, ErrCategoryNotFound
	case 1:
		return &found[0], nil
	}
	return nil, errors.New("query returned more than one category")
}

func intPtr(v int) *int {
	return &v
}

func (r *CategoriesCriteriaRepository) FindByID(ctx context.Context, id uint) (category *Category, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpFind, "FindByID", start, err) }()

	if err := ValidateID(id); err != nil {
		return nil, err
	}
	category, err = r.uniqueCategory(r.db.WithContext(ctx), whereEq(categoryColumnID, id))
	if err != nil {
		return nil, translateGormError(err, ErrCategoryNotFound, ErrCategoryAlreadyExists, "find category by id")
	}
	return category, nil
}

func (r *CategoriesCriteriaRepository) FindByName(ctx context.Context, name string) (category *Category, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpFind, "FindByName", start, err) }()

	if err := ValidateName(name); err != nil {
		return nil, err
	}
	category, err = r.uniqueCategory(r.db.WithContext(ctx), whereEq(categoryColumnName, name))
	if err != nil {
		return nil, translateGormError(err, ErrCategoryNotFound, ErrCategoryAlreadyExists, "find category by name")
	}
	return category, nil
}

func (r *CategoriesCriteriaRepository) ListAll(ctx context.Context) (categories []Category, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpList, "ListAll", start, err) }()

	if err := r.db.WithContext(ctx).Model(&Category{}).Clauses(orderByID()).Find(&categories).Error; err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	return categories, nil
}

// GetByIDEager loads the category and fetches its products with a second
// clause-built query keyed on the foreign key.
func (r *CategoriesCriteriaRepository) GetByIDEager(ctx context.Context, id uint) (category *Category, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpFind, "GetByIDEager", start, err) }()

	if err := ValidateID(id); err != nil {
		return nil, err
	}
	db := r.db.WithContext(ctx)
	category, err = r.uniqueCategory(db, whereEq(categoryColumnID, id))
	if err != nil {
		return nil, translateGormError(err, ErrCategoryNotFound, ErrCategoryAlreadyExists, "get category eagerly")
	}
	products := []Product{}
	if err := db.Model(&Product{}).
		Clauses(whereEq("category_id", id), orderByID()).
		Find(&products).Error; err != nil {
		return nil, errors.Wrap(err, "fetch category products")
	}
	category.Products = products
	return category, nil
}

func (r *CategoriesCriteriaRepository) Persist(ctx context.Context, c *Category) (err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpPersist, "Persist", start, err) }()

	if err := ValidateNewCategory(c); err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&Category{}).Clauses(whereEq(categoryColumnName, c.Name)).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrCategoryAlreadyExists
		}
		return tx.Omit(clause.Associations).Create(c).Error
	})
	if err != nil {
		c.ID = 0
		return translateGormError(err, ErrCategoryNotFound, ErrCategoryAlreadyExists, "persist category")
	}
	return nil
}

func (r *CategoriesCriteriaRepository) Merge(ctx context.Context, c *Category) (merged bool, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpMerge, "Merge", start, err) }()

	if err := ValidateCategoryUpdate(c); err != nil {
		return false, err
	}
	var affected int64
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Category{}).
			Clauses(whereEq(categoryColumnID, c.ID)).
			Update(categoryColumnName, c.Name)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return false, translateGormError(err, ErrCategoryNotFound, ErrCategoryAlreadyExists, "merge category")
	}
	return affected > 0, nil
}

func (r *CategoriesCriteriaRepository) DeleteByID(ctx context.Context, id uint) (deleted bool, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpDelete, "DeleteByID", start, err) }()

	if err := ValidateID(id); err != nil {
		return false, err
	}
	var affected int64
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(whereEq(categoryColumnID, id)).Delete(&Category{})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return false, errors.Wrap(err, "delete category")
	}
	return affected > 0, nil
}

func (r *CategoriesCriteriaRepository) ListAllWithEmptyRows(ctx context.Context) (categories []Category, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpList, "ListAllWithEmptyRows", start, err) }()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Category{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&Category{}).Clauses(orderByID()).Find(&categories).Error; err != nil {
			return err
		}
		return errRollback
	})
	if err != nil && !errors.Is(err, errRollback) {
		return nil, errors.Wrap(err, "list categories on emptied table")
	}
	return categories, nil
}

func (r *CategoriesCriteriaRepository) Count(ctx context.Context) (total int64, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpCount, "Count", start, err) }()

	if err := r.db.WithContext(ctx).Model(&Category{}).Count(&total).Error; err != nil {
		return 0, errors.Wrap(err, "count categories")
	}
	return total, nil
}

func (r *CategoriesCriteriaRepository) CountPages(ctx context.Context, resultsPerPage int) (int, error) {
	if err := ValidatePage(1, resultsPerPage); err != nil {
		return 0, err
	}
	total, err := r.Count(ctx)
	if err != nil {
		return 0, err
	}
	return PageCount(total, resultsPerPage), nil
}

func (r *CategoriesCriteriaRepository) ListPage(ctx context.Context, pageNum, resultsPerPage int) (categories []Category, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpList, "ListPage", start, err) }()

	if err := ValidatePage(pageNum, resultsPerPage); err != nil {
		return nil, err
	}
	limit := clause.Limit{Limit: intPtr(resultsPerPage), Offset: PageOffset(pageNum, resultsPerPage)}
	if err := r.db.WithContext(ctx).Model(&Category{}).Clauses(orderByID(), limit).Find(&categories).Error; err != nil {
		return nil, errors.Wrap(err, "list categories page")
	}
	return categories, nil
}
