package daotest

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/mytheresa/go-catalog-mappings/models"
)

// ProductDAOSuite checks the behaviour every ProductDAO must share.
type ProductDAOSuite struct {
	suite.Suite
	NewDAO func(t *testing.T, db *gorm.DB) models.ProductDAO

	ctx      context.Context
	db       *gorm.DB
	dao      models.ProductDAO
	clothing *models.Category
}

func (s *ProductDAOSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = OpenDB(s.T())
	s.dao = s.NewDAO(s.T(), s.db)

	s.clothing = &models.Category{Name: "Clothing"}
	s.Require().NoError(s.db.Create(s.clothing).Error)
}

func (s *ProductDAOSuite) newProduct(name, price string) *models.Product {
	return &models.Product{
		Name:        name,
		Description: "sample",
		Price:       decimal.RequireFromString(price),
		CategoryID:  &s.clothing.ID,
	}
}

func (s *ProductDAOSuite) TestPersistAndFind() {
	p := s.newProduct("Linen Shirt", "89.90")
	s.Require().NoError(s.dao.Persist(s.ctx, p))
	s.NotZero(p.ID)

	found, err := s.dao.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Linen Shirt", found.Name)
	s.Equal("sample", found.Description)
	s.True(decimal.RequireFromString("89.90").Equal(found.Price))
	s.Require().NotNil(found.CategoryID)
	s.Equal(s.clothing.ID, *found.CategoryID)
	s.Nil(found.Category)

	byName, err := s.dao.FindByName(s.ctx, "Linen Shirt")
	s.Require().NoError(err)
	s.Equal(p.ID, byName.ID)
}

func (s *ProductDAOSuite) TestPersistWithoutCategory() {
	p := &models.Product{Name: "Gift Card", Price: decimal.NewFromInt(50)}
	s.Require().NoError(s.dao.Persist(s.ctx, p))

	found, err := s.dao.GetByIDEager(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Nil(found.CategoryID)
	s.Nil(found.Category)
}

func (s *ProductDAOSuite) TestPersistRejects() {
	s.Require().NoError(s.dao.Persist(s.ctx, s.newProduct("Linen Shirt", "89.90")))

	dup := s.newProduct("Linen Shirt", "10.00")
	s.ErrorIs(s.dao.Persist(s.ctx, dup), models.ErrProductAlreadyExists)
	s.Zero(dup.ID)

	orphan := s.newProduct("Wool Coat", "349.00")
	missing := s.clothing.ID + 100
	orphan.CategoryID = &missing
	s.ErrorIs(s.dao.Persist(s.ctx, orphan), models.ErrCategoryNotFound)

	s.ErrorIs(s.dao.Persist(s.ctx, nil), models.ErrNilEntity)
	s.ErrorIs(s.dao.Persist(s.ctx, &models.Product{Name: ""}), models.ErrInvalidName)
}

func (s *ProductDAOSuite) TestGetByIDEager() {
	p := s.newProduct("Linen Shirt", "89.90")
	s.Require().NoError(s.dao.Persist(s.ctx, p))

	found, err := s.dao.GetByIDEager(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Require().NotNil(found.Category)
	s.Equal("Clothing", found.Category.Name)

	_, err = s.dao.GetByIDEager(s.ctx, p.ID+100)
	s.ErrorIs(err, models.ErrProductNotFound)
}

func (s *ProductDAOSuite) TestListAll() {
	s.Require().NoError(s.dao.Persist(s.ctx, s.newProduct("B", "1.00")))
	s.Require().NoError(s.dao.Persist(s.ctx, s.newProduct("A", "2.00")))

	all, err := s.dao.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("B", all[0].Name)
	s.Equal("A", all[1].Name)
}

func (s *ProductDAOSuite) TestMerge() {
	p := s.newProduct("Linen Shirt", "89.90")
	s.Require().NoError(s.dao.Persist(s.ctx, p))

	merged, err := s.dao.Merge(s.ctx, &models.Product{
		ID:          p.ID,
		Name:        "Linen Shirt Blue",
		Description: "updated",
		Price:       decimal.RequireFromString("79.90"),
	})
	s.Require().NoError(err)
	s.True(merged)

	found, err := s.dao.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Linen Shirt Blue", found.Name)
	s.Equal("updated", found.Description)
	s.True(decimal.RequireFromString("79.90").Equal(found.Price))
	s.Nil(found.CategoryID)

	merged, err = s.dao.Merge(s.ctx, &models.Product{ID: p.ID + 100, Name: "Ghost"})
	s.Require().NoError(err)
	s.False(merged)

	// a missing row wins over a taken name or an unknown category
	merged, err = s.dao.Merge(s.ctx, &models.Product{ID: p.ID + 100, Name: found.Name})
	s.Require().NoError(err)
	s.False(merged)

	missing := s.clothing.ID + 100
	merged, err = s.dao.Merge(s.ctx, &models.Product{ID: p.ID + 100, Name: "Ghost", CategoryID: &missing})
	s.Require().NoError(err)
	s.False(merged)
}

func (s *ProductDAOSuite) TestMergeDuplicateName() {
	s.Require().NoError(s.dao.Persist(s.ctx, s.newProduct("A", "1.00")))
	b := s.newProduct("B", "2.00")
	s.Require().NoError(s.dao.Persist(s.ctx, b))

	_, err := s.dao.Merge(s.ctx, &models.Product{ID: b.ID, Name: "A"})
	s.ErrorIs(err, models.ErrProductAlreadyExists)
}

func (s *ProductDAOSuite) TestDeleteByID() {
	p := s.newProduct("Linen Shirt", "89.90")
	s.Require().NoError(s.dao.Persist(s.ctx, p))

	deleted, err := s.dao.DeleteByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.True(deleted)

	_, err = s.dao.FindByID(s.ctx, p.ID)
	s.ErrorIs(err, models.ErrProductNotFound)

	deleted, err = s.dao.DeleteByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.False(deleted)

	_, err = s.dao.DeleteByID(s.ctx, 0)
	s.ErrorIs(err, models.ErrInvalidID)
}
