package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bakery-app/cart"
	"github.com/yeremiapane/bakery-app/services"
	"github.com/yeremiapane/bakery-app/utils"
)

type CartController struct {
	Store   cart.Store
	Catalog *services.CatalogService
}

func NewCartController(store cart.Store, catalog *services.CatalogService) *CartController {
	return &CartController{Store: store, Catalog: catalog}
}

type cartView struct {
	Itens []cart.Item `json:"itens"`
	Total float64     `json:"total"`
}

func viewOf(cr *cart.Cart) cartView {
	return cartView{Itens: cr.Items(), Total: cr.Total()}
}

func (cc *CartController) GetCart(c *gin.Context) {
	cr, err := cc.Store.Load(c.Request.Context(), cartSessionID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Carrinho", viewOf(cr))
}

// AddItem adds a product to the session cart, capped by the product stock.
func (cc *CartController) AddItem(c *gin.Context) {
	var body struct {
		ProdutoID  string `json:"produto_id" binding:"required"`
		Quantidade int    `json:"quantidade"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if body.Quantidade == 0 {
		body.Quantidade = 1
	}

	ctx := c.Request.Context()
	product, err := cc.Catalog.GetProduct(ctx, body.ProdutoID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !product.Orderable() {
		utils.RespondError(c, http.StatusConflict, errors.New("Produto indisponível"))
		return
	}

	sessionID := cartSessionID(c)
	cr, err := cc.Store.Load(ctx, sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := cr.Add(product.ID, product.Nome, product.Valor, body.Quantidade, product.Estoque); err != nil {
		respondServiceError(c, err)
		return
	}
	if err := cc.Store.Save(ctx, sessionID, cr); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, product.Nome+" adicionado ao carrinho!", viewOf(cr))
}

func (cc *CartController) RemoveItem(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := cartSessionID(c)

	cr, err := cc.Store.Load(ctx, sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	cr.RemoveItem(c.Param("product_id"))
	if err := cc.Store.Save(ctx, sessionID, cr); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item removido", viewOf(cr))
}

func (cc *CartController) ClearCart(c *gin.Context) {
	if err := cc.Store.Delete(c.Request.Context(), cartSessionID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Carrinho limpo", viewOf(cart.New()))
}
