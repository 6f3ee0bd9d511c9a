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

// ProductStore implements models.ProductDAO with hand-written SQL.
type ProductStore struct {
	db  *sqlx.DB
	rec *models.Recorder
}

func NewProductStore(db *sqlx.DB, scope tally.Scope) *ProductStore {
	return &ProductStore{
		db:  db,
		rec: models.NewRecorder(scope, "product", "native"),
	}
}

func (s *ProductStore) getProduct(ctx context.Context, stmt string, arg interface{}) (*models.Product, error) {
	var row productRow
	if err := s.db.GetContext(ctx, &row, s.db.Rebind(stmt), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrProductNotFound
		}
		return nil, errors.Wrap(err, "select product")
	}
	p := row.toModel()
	return &p, nil
}

func (s *ProductStore) FindByID(ctx context.Context, id uint) (product *models.Product, err error) {
	start := time.Now()
	defer func() { s.rec.Observe(models.OpFind, "FindByID", start, err) }()

	if err := models.ValidateID(id); err != nil {
		return nil, err
	}
	return s.getProduct(ctx, selectProductByIDStmt, int64(id))
}

func (s *ProductStore) FindByName(ctx context.Context, name string) (product *models.Product, err error) {
	start := time.Now()
	defer func() { s.rec.Observe(models.OpFind, "FindByName", start, err) }()

	if err := models.ValidateName(name); err != nil {
		return nil, err
	}
	return s.getProduct(ctx, selectProductByNameStmt, name)
}

func (s *ProductStore) ListAll(ctx context.Context) (products []models.Product, err error) {
	start := time.Now()
	defer func() { s.rec.Observe(models.OpList, "ListAll", start, err) }()

	var rows []productRow
	if err := s.db.SelectContext(ctx, &rows, selectProductsStmt); err != nil {
		return nil, errors.Wrap(err, "select products")
	}
	return productsFromRows(rows), nil
}

func (s *ProductStore) GetByIDEager(ctx context.Context, id uint) (product *models.Product, err error) {
	start := time.Now()
	defer func() { s.rec.Observe(models.OpFind, "GetByIDEager", start, err) }()

	if err := models.ValidateID(id); err != nil {
		return nil, err
	}
	product, err = s.getProduct(ctx, selectProductByIDStmt, int64(id))
	if err != nil {
		return nil, err
	}
	if product.CategoryID == nil {
		return product, nil
	}
	var row categoryRow
	if err := s.db.GetContext(ctx, &row, s.db.Rebind(selectCategoryByIDStmt), int64(*product.CategoryID)); err != nil {
		return nil, errors.Wrap(err, "select product category")
	}
	c := row.toModel()
	product.Category = &c
	return product, nil
}

func checkCategory(ctx context.Context, tx *sqlx.Tx, categoryID *uint) error {
	if categoryID == nil {
		return nil
	}
	var n int64
	if err := tx.GetContext(ctx, &n, tx.Rebind(countCategoriesByIDStmt), int64(*categoryID)); err != nil {
		return errors.Wrap(err, "check product category")
	}
	if n == 0 {
		return models.ErrCategoryNotFound
	}
	return nil
}

func (s *ProductStore) Persist(ctx context.Context, p *models.Product) (err error) {
	start := time.Now()
	defer func() { s.rec.Observe(models.OpPersist, "Persist", start, err) }()

	if err := models.ValidateNewProduct(p); err != nil {
		return err
	}
	var id int64
	err = inTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var existing int64
		if err := tx.GetContext(ctx, &existing, tx.Rebind(countProductsByNameStmt), p.Name); err != nil {
			return errors.Wrap(err, "count products by name")
		}
		if existing > 0 {
			return models.ErrProductAlreadyExists
		}
		if err := checkCategory(ctx, tx, p.CategoryID); err != nil {
			return err
		}
		if err := tx.QueryRowxContext(ctx, tx.Rebind(insertProductStmt), productArgs(p)...).Scan(&id); err != nil {
			if isUniqueViolation(err) {
				return models.ErrProductAlreadyExists
			}
			return errors.Wrap(err, "insert product")
		}
		return nil
	})
	if err != nil {
		return err
	}
	p.ID = uint(id)
	return nil
}

func (s *ProductStore) Merge(ctx context.Context, p *models.Product) (merged bool, err error) {
	start := time.Now()
	defer func() { s.rec.Observe(models.OpMerge, "Merge", start, err) }()

	if err := models.ValidateProductUpdate(p); err != nil {
		return false, err
	}
	var affected int64
	err = inTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var existing int64
		if err := tx.GetContext(ctx, &existing, tx.Rebind(countProductsByIDStmt), int64(p.ID)); err != nil {
			return errors.Wrap(err, "count products by id")
		}
		if existing == 0 {
			return nil
		}
		var clashes int64
		if err := tx.GetContext(ctx, &clashes, tx.Rebind(countProductsByNameExceptStmt), p.Name, int64(p.ID)); err != nil {
			return errors.Wrap(err, "count products by name")
		}
		if clashes > 0 {
			return models.ErrProductAlreadyExists
		}
		if err := checkCategory(ctx, tx, p.CategoryID); err != nil {
			return err
		}
		args := append(productArgs(p), int64(p.ID))
		res, err := tx.ExecContext(ctx, tx.Rebind(updateProductStmt), args...)
		if err != nil {
			if isUniqueViolation(err) {
				return models.ErrProductAlreadyExists
			}
			return errors.Wrap(err, "update product")
		}
		affected, err = res.RowsAffected()
		return errors.Wrap(err, "rows affected")
	})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *ProductStore) DeleteByID(ctx context.Context, id uint) (deleted bool, err error) {
	start := time.Now()
	defer func() { s.rec.Observe(models.OpDelete, "DeleteByID", start, err) }()

	if err := models.ValidateID(id); err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx, s.db.Rebind(deleteProductStmt), int64(id))
	if err != nil {
		return false, errors.Wrap(err, "delete product")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "rows affected")
	}
	return affected > 0, nil
}
