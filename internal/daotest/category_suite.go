package daotest

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/mytheresa/go-catalog-mappings/models"
)

// CategoryDAOSuite checks the behaviour every CategoryDAO must share. NewDAO
// builds the implementation under test on top of a fresh database.
type CategoryDAOSuite struct {
	suite.Suite
	NewDAO func(t *testing.T, db *gorm.DB) models.CategoryDAO

	ctx context.Context
	db  *gorm.DB
	dao models.CategoryDAO
}

func (s *CategoryDAOSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = OpenDB(s.T())
	s.dao = s.NewDAO(s.T(), s.db)
}

func (s *CategoryDAOSuite) persist(names ...string) []*models.Category {
	out := make([]*models.Category, len(names))
	for i, name := range names {
		c := &models.Category{Name: name}
		s.Require().NoError(s.dao.Persist(s.ctx, c))
		out[i] = c
	}
	return out
}

func (s *CategoryDAOSuite) insertProduct(name string, categoryID *uint) *models.Product {
	p := &models.Product{Name: name, Price: decimal.RequireFromString("10.50"), CategoryID: categoryID}
	s.Require().NoError(s.db.Create(p).Error)
	return p
}

func (s *CategoryDAOSuite) TestPersistAssignsID() {
	c := &models.Category{Name: "Clothing"}
	s.Require().NoError(s.dao.Persist(s.ctx, c))
	s.NotZero(c.ID)

	found, err := s.dao.FindByName(s.ctx, "Clothing")
	s.Require().NoError(err)
	s.Equal(c.ID, found.ID)
	s.Equal("Clothing", found.Name)
}

func (s *CategoryDAOSuite) TestPersistDuplicateName() {
	s.persist("Shoes")

	dup := &models.Category{Name: "Shoes"}
	err := s.dao.Persist(s.ctx, dup)
	s.ErrorIs(err, models.ErrCategoryAlreadyExists)
	s.Zero(dup.ID)

	total, err := s.dao.Count(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(1, total)
}

func (s *CategoryDAOSuite) TestPersistRejectsInvalidInput() {
	s.ErrorIs(s.dao.Persist(s.ctx, nil), models.ErrNilEntity)
	s.ErrorIs(s.dao.Persist(s.ctx, &models.Category{Name: "  "}), models.ErrInvalidName)
	s.ErrorIs(s.dao.Persist(s.ctx, &models.Category{ID: 7, Name: "Bags"}), models.ErrIDAssigned)
}

func (s *CategoryDAOSuite) TestFindByID() {
	created := s.persist("Clothing", "Shoes")

	found, err := s.dao.FindByID(s.ctx, created[1].ID)
	s.Require().NoError(err)
	s.Equal("Shoes", found.Name)

	_, err = s.dao.FindByID(s.ctx, created[1].ID+100)
	s.ErrorIs(err, models.ErrCategoryNotFound)

	_, err = s.dao.FindByID(s.ctx, 0)
	s.ErrorIs(err, models.ErrInvalidID)
}

func (s *CategoryDAOSuite) TestFindByNameMissing() {
	_, err := s.dao.FindByName(s.ctx, "Nothing")
	s.ErrorIs(err, models.ErrCategoryNotFound)

	_, err = s.dao.FindByName(s.ctx, "")
	s.ErrorIs(err, models.ErrInvalidName)
}

func (s *CategoryDAOSuite) TestListAllOrderedByID() {
	s.persist("Shoes", "Accessories", "Clothing")

	all, err := s.dao.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("Shoes", all[0].Name)
	s.Equal("Accessories", all[1].Name)
	s.Equal("Clothing", all[2].Name)
}

func (s *CategoryDAOSuite) TestMerge() {
	c := s.persist("Clothing")[0]

	merged, err := s.dao.Merge(s.ctx, &models.Category{ID: c.ID, Name: "Apparel"})
	s.Require().NoError(err)
	s.True(merged)

	found, err := s.dao.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal("Apparel", found.Name)

	merged, err = s.dao.Merge(s.ctx, &models.Category{ID: c.ID + 100, Name: "Ghost"})
	s.Require().NoError(err)
	s.False(merged)

	// a missing row wins over a taken name
	merged, err = s.dao.Merge(s.ctx, &models.Category{ID: c.ID + 100, Name: "Apparel"})
	s.Require().NoError(err)
	s.False(merged)
}

func (s *CategoryDAOSuite) TestMergeDuplicateName() {
	created := s.persist("Clothing", "Shoes")

	_, err := s.dao.Merge(s.ctx, &models.Category{ID: created[1].ID, Name: "Clothing"})
	s.ErrorIs(err, models.ErrCategoryAlreadyExists)

	_, err = s.dao.Merge(s.ctx, &models.Category{Name: "Clothing"})
	s.ErrorIs(err, models.ErrInvalidID)
}

func (s *CategoryDAOSuite) TestDeleteByID() {
	c := s.persist("Clothing")[0]

	deleted, err := s.dao.DeleteByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.True(deleted)

	_, err = s.dao.FindByID(s.ctx, c.ID)
	s.ErrorIs(err, models.ErrCategoryNotFound)

	deleted, err = s.dao.DeleteByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.False(deleted)
}

func (s *CategoryDAOSuite) TestDeleteLeavesProductsUncategorized() {
	c := s.persist("Clothing")[0]
	p := s.insertProduct("Linen Shirt", &c.ID)

	deleted, err := s.dao.DeleteByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.True(deleted)

	var stored models.Product
	s.Require().NoError(s.db.First(&stored, p.ID).Error)
	s.Nil(stored.CategoryID)
}

func (s *CategoryDAOSuite) TestGetByIDEager() {
	created := s.persist("Clothing", "Shoes")
	s.insertProduct("Linen Shirt", &created[0].ID)
	s.insertProduct("Sneakers", &created[1].ID)
	s.insertProduct("Wool Coat", &created[0].ID)

	c, err := s.dao.GetByIDEager(s.ctx, created[0].ID)
	s.Require().NoError(err)
	s.Equal("Clothing", c.Name)
	s.Require().Len(c.Products, 2)
	s.Equal("Linen Shirt", c.Products[0].Name)
	s.Equal("Wool Coat", c.Products[1].Name)
	s.True(decimal.RequireFromString("10.50").Equal(c.Products[0].Price))

	empty := s.persist("Bags")[0]
	c, err = s.dao.GetByIDEager(s.ctx, empty.ID)
	s.Require().NoError(err)
	s.Empty(c.Products)

	_, err = s.dao.GetByIDEager(s.ctx, empty.ID+100)
	s.ErrorIs(err, models.ErrCategoryNotFound)
}

func (s *CategoryDAOSuite) TestListAllWithEmptyRowsRollsBack() {
	created := s.persist("Clothing", "Shoes", "Bags")
	s.insertProduct("Linen Shirt", &created[0].ID)

	listed, err := s.dao.ListAllWithEmptyRows(s.ctx)
	s.Require().NoError(err)
	s.Empty(listed)

	total, err := s.dao.Count(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(3, total)

	c, err := s.dao.GetByIDEager(s.ctx, created[0].ID)
	s.Require().NoError(err)
	s.Len(c.Products, 1)
}

func (s *CategoryDAOSuite) TestPagination() {
	s.persist("A", "B", "C", "D", "E")

	total, err := s.dao.Count(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(5, total)

	pages, err := s.dao.CountPages(s.ctx, 2)
	s.Require().NoError(err)
	s.Equal(3, pages)

	page, err := s.dao.ListPage(s.ctx, 2, 2)
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Equal("C", page[0].Name)
	s.Equal("D", page[1].Name)

	page, err = s.dao.ListPage(s.ctx, 3, 2)
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Equal("E", page[0].Name)

	page, err = s.dao.ListPage(s.ctx, 4, 2)
	s.Require().NoError(err)
	s.Empty(page)
}

func (s *CategoryDAOSuite) TestPaginationRejectsInvalidArguments() {
	_, err := s.dao.CountPages(s.ctx, 0)
	s.ErrorIs(err, models.ErrInvalidPageSize)

	_, err = s.dao.ListPage(s.ctx, 0, 10)
	s.ErrorIs(err, models.ErrInvalidPage)

	_, err = s.dao.ListPage(s.ctx, 1, -1)
	s.ErrorIs(err, models.ErrInvalidPageSize)
}
