package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bakery-app/services"
	"github.com/yeremiapane/bakery-app/utils"
)

type ProductController struct {
	Catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{Catalog: catalog}
}

// GetAllProducts is the admin list, including unavailable products.
func (pc *ProductController) GetAllProducts(c *gin.Context) {
	products, err := pc.Catalog.ListProducts(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of products", products)
}

// GetAvailableProducts is the public list.
func (pc *ProductController) GetAvailableProducts(c *gin.Context) {
	products, err := pc.Catalog.ListAvailable(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Available products", products)
}

func (pc *ProductController) GetProductByID(c *gin.Context) {
	product, err := pc.Catalog.GetProduct(c.Request.Context(), c.Param("product_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product found", product)
}

func (pc *ProductController) CreateProduct(c *gin.Context) {
	var body services.ProductInput
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	product, err := pc.Catalog.CreateProduct(c.Request.Context(), body)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Product created", product)
}

func (pc *ProductController) UpdateProduct(c *gin.Context) {
	var body services.ProductInput
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	product, err := pc.Catalog.UpdateProduct(c.Request.Context(), c.Param("product_id"), body)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product updated", product)
}

func (pc *ProductController) DeleteProduct(c *gin.Context) {
	if err := pc.Catalog.DeleteProduct(c.Request.Context(), c.Param("product_id")); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product deleted", nil)
}
