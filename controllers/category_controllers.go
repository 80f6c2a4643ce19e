package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bakery-app/services"
	"github.com/yeremiapane/bakery-app/utils"
)

type CategoryController struct {
	Catalog *services.CatalogService
}

func NewCategoryController(catalog *services.CatalogService) *CategoryController {
	return &CategoryController{Catalog: catalog}
}

// GetAllCategories lists every category, active or not.
func (cc *CategoryController) GetAllCategories(c *gin.Context) {
	categories, err := cc.Catalog.ListCategories(c.Request.Context(), false)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All categories", categories)
}

// GetActiveCategories is the public list.
func (cc *CategoryController) GetActiveCategories(c *gin.Context) {
	categories, err := cc.Catalog.ListCategories(c.Request.Context(), true)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active categories", categories)
}

func (cc *CategoryController) CreateCategory(c *gin.Context) {
	var body services.CategoryInput
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category, err := cc.Catalog.CreateCategory(c.Request.Context(), body)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

func (cc *CategoryController) UpdateCategory(c *gin.Context) {
	var body services.CategoryInput
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category, err := cc.Catalog.UpdateCategory(c.Request.Context(), c.Param("cat_id"), body)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	if err := cc.Catalog.DeleteCategory(c.Request.Context(), c.Param("cat_id")); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category deleted", nil)
}
