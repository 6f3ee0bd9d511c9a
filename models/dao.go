package models

import (
	"context"
)

// CategoryDAO is implemented once per persistence style: GORM entity methods,
// GORM clause building and hand-written SQL.
type CategoryDAO interface {
	FindByID(ctx context.Context, id uint) (*Category, error)
	FindByName(ctx context.Context, name string) (*Category, error)
	// ListAll returns every category ordered by id, without products.
	ListAll(ctx context.Context) ([]Category, error)
	// GetByIDEager returns the category with its Products loaded.
	GetByIDEager(ctx context.Context, id uint) (*Category, error)
	// Persist inserts c and assigns c.ID.
	Persist(ctx context.Context, c *Category) error
	// Merge updates the name of the stored category with c.ID. It reports
	// false when no such category exists.
	Merge(ctx context.Context, c *Category) (bool, error)
	DeleteByID(ctx context.Context, id uint) (bool, error)
	// ListAllWithEmptyRows deletes every category and lists the table inside
	// a transaction that is always rolled back.
	ListAllWithEmptyRows(ctx context.Context) ([]Category, error)

	Count(ctx context.Context) (int64, error)
	CountPages(ctx context.Context, resultsPerPage int) (int, error)
	ListPage(ctx context.Context, pageNum, resultsPerPage int) ([]Category, error)
}

type ProductDAO interface {
	FindByID(ctx context.Context, id uint) (*Product, error)
	FindByName(ctx context.Context, name string) (*Product, error)
	ListAll(ctx context.Context) ([]Product, error)
	// GetByIDEager returns the product with its Category loaded.
	GetByIDEager(ctx context.Context, id uint) (*Product, error)
	Persist(ctx context.Context, p *Product) error
	Merge(ctx context.Context, p *Product) (bool, error)
	DeleteByID(ctx context.Context, id uint) (bool, error)
}

type UserDAO interface {
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByIDEager(ctx context.Context, id uint) (*User, error)
	Persist(ctx context.Context, u *User) error
	Merge(ctx context.Context, u *User) error
	Refresh(ctx context.Context, u *User) error
	RemoveByID(ctx context.Context, id uint) (bool, error)
}

type AddressDAO interface {
	GetByID(ctx context.Context, id uint) (*Address, error)
	GetByIDEager(ctx context.Context, id uint) (*Address, error)
	Persist(ctx context.Context, a *Address) error
	Merge(ctx context.Context, a *Address) error
	Refresh(ctx context.Context, a *Address) error
	RemoveByID(ctx context.Context, id uint) (bool, error)
}
