package native

// Statements use '?' placeholders and are rebound to the driver's bind style
// before execution.
const (
	categoriesTable = "categories"
	productsTable   = "products"

	categoryColumns = `id, name`
	productColumns  = `id, name, description, price, category_id`

	selectCategoryByIDStmt      = `SELECT ` + categoryColumns + ` FROM ` + categoriesTable + ` WHERE id = ?`
	selectCategoryByNameStmt    = `SELECT ` + categoryColumns + ` FROM ` + categoriesTable + ` WHERE name = ?`
	selectCategoriesStmt        = `SELECT ` + categoryColumns + ` FROM ` + categoriesTable + ` ORDER BY id`
	selectCategoriesPageStmt    = `SELECT ` + categoryColumns + ` FROM ` + categoriesTable + ` ORDER BY id LIMIT ? OFFSET ?`
	countCategoriesStmt         = `SELECT COUNT(*) FROM ` + categoriesTable
	countCategoriesByNameStmt   = `SELECT COUNT(*) FROM ` + categoriesTable + ` WHERE name = ?`
	insertCategoryStmt          = `INSERT INTO ` + categoriesTable + ` (name) VALUES (?) RETURNING id`
	updateCategoryStmt          = `UPDATE ` + categoriesTable + ` SET name = ? WHERE id = ?`
	deleteCategoryStmt          = `DELETE FROM ` + categoriesTable + ` WHERE id = ?`
	deleteAllCategoriesStmt     = `DELETE FROM ` + categoriesTable
	detachCategoryProductsStmt  = `UPDATE ` + productsTable + ` SET category_id = NULL WHERE category_id = ?`
	detachAllCategoriesProducts = `UPDATE ` + productsTable + ` SET category_id = NULL WHERE category_id IS NOT NULL`

	selectProductByIDStmt         = `SELECT ` + productColumns + ` FROM ` + productsTable + ` WHERE id = ?`
	selectProductByNameStmt       = `SELECT ` + productColumns + ` FROM ` + productsTable + ` WHERE name = ?`
	selectProductsStmt            = `SELECT ` + productColumns + ` FROM ` + productsTable + ` ORDER BY id`
	selectProductsByCategoryStmt  = `SELECT ` + productColumns + ` FROM ` + productsTable + ` WHERE category_id = ? ORDER BY id`
	countProductsByNameStmt       = `SELECT COUNT(*) FROM ` + productsTable + ` WHERE name = ?`
	countProductsByNameExceptStmt = `SELECT COUNT(*) FROM ` + productsTable + ` WHERE name = ? AND id <> ?`
	countProductsByIDStmt         = `SELECT COUNT(*) FROM ` + productsTable + ` WHERE id = ?`
	insertProductStmt             = `INSERT INTO ` + productsTable + ` (name, description, price, category_id) VALUES (?, ?, ?, ?) RETURNING id`
	updateProductStmt             = `UPDATE ` + productsTable + ` SET name = ?, description = ?, price = ?, category_id = ? WHERE id = ?`
	deleteProductStmt             = `DELETE FROM ` + productsTable + ` WHERE id = ?`

	countCategoriesByNameExceptStmt = `SELECT COUNT(*) FROM ` + categoriesTable + ` WHERE name = ? AND id <> ?`
	countCategoriesByIDStmt         = `SELECT COUNT(*) FROM ` + categoriesTable + ` WHERE id = ?`
)
