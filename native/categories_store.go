package native

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/uber-go/tally/v4"

	"github.com/mytheresa/go-catalog-mappings/models"
)

// CategoryStore implements models.CategoryDAO with hand-written SQL.
type CategoryStore struct {
	db  *sqlx.DB
	rec *models.Recorder
}

func NewCategoryStore(db *sqlx.DB, scope tally.Scope) *CategoryStore {
	return &CategoryStore{
		db:  db,
		rec: models.NewRecorder(scope, "category", "native"),
	}
}

func (s *CategoryStore) getCategory(ctx context.Context, q sqlx.QueryerContext, stmt string, arg interface{}) (*models.Category, error) {
	var row categoryRow
	if err := sqlx.GetContext(ctx, q, &row, s.db.Rebind(stmt), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrCategoryNotFound
		}
		return nil, errors.Wrap(err, "select category")
	}
	c := row.toModel()
	return &c, nil
}

func (s *CategoryStore) FindByID(ctx context.Context, id uint) (category *models.Category, err error) {
	start := time.Now()
	defer func() { s.rec.Observe(models.OpFind, "FindByID", start, err) }()

	if err := models.ValidateID(id); err != nil {
		return nil, err
	}
	return s.getCategory(ctx, s.db, selectCategoryByIDStmt, int64(id))
}

func (s *CategoryStore) FindByName(ctx context.Context, name string) (category *models.Category, err error) {
	start := time.Now()
	defer func() { s.rec.Observe(models.OpFind, "FindByName", start, err) }()

	if err := models.ValidateName(name); err != nil {
		return nil, err
	}
	return s.getCategory(ctx, s.db, selectCategoryByNameStmt, name)
}

func (s *CategoryStore) ListAll(ctx context.Context) (categories []models.Category, err error) {
	start := time.Now()
	defer func() { s.rec.Observe(models.OpList, "ListAll", start, err) }()

	var rows []categoryRow
	if err := s.db.SelectContext(ctx, &rows, selectCategoriesStmt); err != nil {
		return nil, errors.Wrap(err, "select categories")
	}
	return categoriesFromRows(rows), nil
}

// GetByIDEager issues one query for the category and one for its products.
func (s *CategoryStore) GetByIDEager(ctx context.Context, id uint) (category *models.Category, err error) {
	start := time.Now()
	defer func() { s.rec.Observe(models.OpFind, "GetByIDEager", start, err) }()

	if err := models.ValidateID(id); err != nil {
		return nil, err
	}
	category, err = s.getCategory(ctx, s.db, selectCategoryByIDStmt, int64(id))
	if err != nil {
		return nil, err
	}
	var rows []productRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(selectProductsByCategoryStmt), int64(id)); err != nil {
		return nil, errors.Wrap(err, "select category products")
	}
	category.Products = productsFromRows(rows)
	return category, nil
}

func (s *CategoryStore) Persist(ctx context.Context, c *models.Category) (err error) {
	start := time.Now()
	defer func() { s.rec.Observe(models.OpPersist, "Persist", start, err) }()

	if err := models.ValidateNewCategory(c); err != nil {
		return err
	}
	var id int64
	err = inTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var existing int64
		if err := tx.GetContext(ctx, &existing, tx.Rebind(countCategoriesByNameStmt), c.Name); err != nil {
			return errors.Wrap(err, "count categories by name")
		}
		if existing > 0 {
			return models.ErrCategoryAlreadyExists
		}
		if err := tx.QueryRowxContext(ctx, tx.Rebind(insertCategoryStmt), c.Name).Scan(&id); err != nil {
			if isUniqueViolation(err) {
				return models.ErrCategoryAlreadyExists
			}
			return errors.Wrap(err, "insert category")
		}
		return nil
	})
	if err != nil {
		return err
	}
	c.ID = uint(id)
	return nil
}

func (s *CategoryStore) Merge(ctx context.Context, c *models.Category) (merged bool, err error) {
	start := time.Now()
	defer func() { s.rec.Observe(models.OpMerge, "Merge", start, err) }()

	if err := models.ValidateCategoryUpdate(c); err != nil {
		return false, err
	}
	var affected int64
	err = inTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var existing int64
		if err := tx.GetContext(ctx, &existing, tx.Rebind(countCategoriesByIDStmt), int64(c.ID)); err != nil {
			return errors.Wrap(err, "count categories by id")
		}
		if existing == 0 {
			return nil
		}
		var clashes int64
		if err := tx.GetContext(ctx, &clashes, tx.Rebind(countCategoriesByNameExceptStmt), c.Name, int64(c.ID)); err != nil {
			return errors.Wrap(err, "count categories by name")
		}
		if clashes > 0 {
			return models.ErrCategoryAlreadyExists
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(updateCategoryStmt), c.Name, int64(c.ID))
		if err != nil {
			if isUniqueViolation(err) {
				return models.ErrCategoryAlreadyExists
			}
			return errors.Wrap(err, "update category")
		}
		affected, err = res.RowsAffected()
		return errors.Wrap(err, "rows affected")
	})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DeleteByID unlinks the category's products before deleting it.
func (s *CategoryStore) DeleteByID(ctx context.Context, id uint) (deleted bool, err error) {
	start := time.Now()
	defer func() { s.rec.Observe(models.OpDelete, "DeleteByID", start, err) }()

	if err := models.ValidateID(id); err != nil {
		return false, err
	}
	var affected int64
	err = inTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(detachCategoryProductsStmt), int64(id)); err != nil {
			return errors.Wrap(err, "detach category products")
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(deleteCategoryStmt), int64(id))
		if err != nil {
			return errors.Wrap(err, "delete category")
		}
		affected, err = res.RowsAffected()
		return errors.Wrap(err, "rows affected")
	})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *CategoryStore) ListAllWithEmptyRows(ctx context.Context) (categories []models.Category, err error) {
	start := time.Now()
	defer func() { s.rec.Observe(models.OpList, "ListAllWithEmptyRows", start, err) }()

	var rows []categoryRow
	err = inTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, detachAllCategoriesProducts); err != nil {
			return errors.Wrap(err, "detach products")
		}
		if _, err := tx.ExecContext(ctx, deleteAllCategoriesStmt); err != nil {
			return errors.Wrap(err, "delete categories")
		}
		if err := tx.SelectContext(ctx, &rows, selectCategoriesStmt); err != nil {
			return errors.Wrap(err, "select categories")
		}
		return errRollback
	})
	if err != nil && !errors.Is(err, errRollback) {
		return nil, err
	}
	return categoriesFromRows(rows), nil
}

func (s *CategoryStore) Count(ctx context.Context) (total int64, err error) {
	start := time.Now()
	defer func() { s.rec.Observe(models.OpCount, "Count", start, err) }()

	if err := s.db.GetContext(ctx, &total, countCategoriesStmt); err != nil {
		return 0, errors.Wrap(err, "count categories")
	}
	return total, nil
}

func (s *CategoryStore) CountPages(ctx context.Context, resultsPerPage int) (int, error) {
	if err := models.ValidatePage(1, resultsPerPage); err != nil {
		return 0, err
	}
	total, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	return models.PageCount(total, resultsPerPage), nil
}

func (s *CategoryStore) ListPage(ctx context.Context, pageNum, resultsPerPage int) (categories []models.Category, err error) {
	start := time.Now()
	defer func() { s.rec.Observe(models.OpList, "ListPage", start, err) }()

	if err := models.ValidatePage(pageNum, resultsPerPage); err != nil {
		return nil, err
	}
	var rows []categoryRow
	offset := models.PageOffset(pageNum, resultsPerPage)
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(selectCategoriesPageStmt), resultsPerPage, offset); err != nil {
		return nil, errors.Wrap(err, "select categories page")
	}
	return categoriesFromRows(rows), nil
}
