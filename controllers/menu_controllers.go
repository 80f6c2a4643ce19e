package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bakery-app/services"
	"github.com/yeremiapane/bakery-app/utils"
)

type MenuController struct {
	Catalog   *services.CatalogService
	StoreName string
}

func NewMenuController(catalog *services.CatalogService, storeName string) *MenuController {
	return &MenuController{Catalog: catalog, StoreName: storeName}
}

// GetMenu returns the public digital menu grouped by category.
func (mc *MenuController) GetMenu(c *gin.Context) {
	sections, err := mc.Catalog.Menu(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cardápio", gin.H{
		"loja":   mc.StoreName,
		"secoes": sections,
	})
}
