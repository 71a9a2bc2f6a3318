package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Maksimell/shop_backend/internal/models"
)

func TestAddProduct(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/products/add", map[string]interface{}{
		"name":        "keyboard",
		"price":       49.99,
		"description": "mechanical",
	})
	require.NoError(t, env.P.AddProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Product added successfully", messageOf(t, rec))

	var product models.Product
	require.NoError(t, env.DB.First(&product, 1).Error)
	require.Equal(t, "keyboard", product.Name)
	require.Equal(t, 49.99, product.Price)
	require.Equal(t, "mechanical", product.Description)
}

func TestAddProductDescriptionDefaultsToEmpty(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/products/add", map[string]interface{}{
		"name":  "mouse",
		"price": 19.99,
	})
	require.NoError(t, env.P.AddProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var product models.Product
	require.NoError(t, env.DB.First(&product, 1).Error)
	require.Equal(t, "", product.Description)
}

func TestAddProductMissingFields(t *testing.T) {
	env := newTestEnv(t)

	// Missing price.
	rec, c := env.doJSONRequest(http.MethodPost, "/api/products/add", map[string]interface{}{
		"name": "keyboard",
	})
	require.NoError(t, env.P.AddProduct(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Failed to add the product", messageOf(t, rec))

	// Missing name.
	rec, c = env.doJSONRequest(http.MethodPost, "/api/products/add", map[string]interface{}{
		"price": 49.99,
	})
	require.NoError(t, env.P.AddProduct(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.Product{}).Count(&count).Error)
	require.Zero(t, count, "rejected requests must not create rows")
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.DB.Create(&models.Product{
		Name:        "keyboard",
		Price:       49.99,
		Description: "mechanical",
	}).Error)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/products/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.P.GetProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, uint(1), resp.ID)
	require.Equal(t, "keyboard", resp.Name)
	require.Equal(t, 49.99, resp.Price)
	require.Equal(t, "mechanical", resp.Description)
}

func TestGetProductNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/products/42", nil)
	c.SetParamNames("id")
	c.SetParamValues("42")
	require.NoError(t, env.P.GetProduct(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Not Found. Product not available", messageOf(t, rec))
}

// Regression test: a partial update must leave absent fields untouched. The
// original implementation fell back to the price value for a missing
// description; here each field falls back to its own previous value.
func TestUpdateProductPartial(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.DB.Create(&models.Product{
		Name:        "keyboard",
		Price:       49.99,
		Description: "mechanical",
	}).Error)

	rec, c := env.doJSONRequest(http.MethodPut, "/api/products/update/1", map[string]interface{}{
		"name": "keyboard v2",
	})
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.P.UpdateProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Product updated successfully", messageOf(t, rec))

	var product models.Product
	require.NoError(t, env.DB.First(&product, 1).Error)
	require.Equal(t, "keyboard v2", product.Name)
	require.Equal(t, 49.99, product.Price)
	require.Equal(t, "mechanical", product.Description)
}

func TestUpdateProductAllFields(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.DB.Create(&models.Product{
		Name:  "keyboard",
		Price: 49.99,
	}).Error)

	rec, c := env.doJSONRequest(http.MethodPut, "/api/products/update/1", map[string]interface{}{
		"name":        "keyboard v2",
		"price":       59.99,
		"description": "wireless",
	})
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.P.UpdateProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var product models.Product
	require.NoError(t, env.DB.First(&product, 1).Error)
	require.Equal(t, "keyboard v2", product.Name)
	require.Equal(t, 59.99, product.Price)
	require.Equal(t, "wireless", product.Description)
}

func TestUpdateProductNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPut, "/api/products/update/42", map[string]interface{}{
		"name": "ghost",
	})
	c.SetParamNames("id")
	c.SetParamValues("42")
	require.NoError(t, env.P.UpdateProduct(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProduct(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.DB.Create(&models.Product{Name: "keyboard", Price: 49.99}).Error)

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/products/delete/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.P.DeleteProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Product deleted successfully", messageOf(t, rec))

	recGet, c := env.doJSONRequest(http.MethodGet, "/api/products/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.P.GetProduct(c))
	require.Equal(t, http.StatusNotFound, recGet.Code)
}

func TestDeleteProductNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/products/delete/42", nil)
	c.SetParamNames("id")
	c.SetParamValues("42")
	require.NoError(t, env.P.DeleteProduct(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProductsEmptyCatalogIsNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/products", nil)
	require.NoError(t, env.P.GetProducts(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Not Found. No products available.", messageOf(t, rec))
}

func TestGetProducts(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.DB.Create(&models.Product{Name: "keyboard", Price: 49.99}).Error)
	require.NoError(t, env.DB.Create(&models.Product{Name: "mouse", Price: 19.99}).Error)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/products", nil)
	require.NoError(t, env.P.GetProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	require.Equal(t, "keyboard", resp[0].Name)
	require.Equal(t, "mouse", resp[1].Name)
}
