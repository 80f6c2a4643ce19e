package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bakery-app/cart"
	"github.com/yeremiapane/bakery-app/services"
	"github.com/yeremiapane/bakery-app/utils"
)

type OrderController struct {
	Orders *services.OrderService
	Carts  cart.Store
}

func NewOrderController(orders *services.OrderService, carts cart.Store) *OrderController {
	return &OrderController{Orders: orders, Carts: carts}
}

// Checkout turns the session cart into an order. The cart is cleared only
// when the order was stored.
func (oc *OrderController) Checkout(c *gin.Context) {
	var draft services.OrderDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ctx := c.Request.Context()
	sessionID := cartSessionID(c)
	cr, err := oc.Carts.Load(ctx, sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result, err := oc.Orders.Submit(ctx, draft, cr)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := oc.Carts.Delete(ctx, sessionID); err != nil {
		utils.ErrorLogger.Errorf("Error clearing cart %s after order %s: %v", sessionID, result.Order.ID, err)
	}

	utils.RespondJSON(c, http.StatusCreated, "Obrigada "+result.Order.NomeCliente+"! Seu pedido foi enviado pelo WhatsApp.", result)
}

// GetAllOrders lists orders newest first, optionally filtered by ?status=.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.Orders.List(c.Request.Context(), services.OrderFilter{Status: c.Query("status")})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	order, err := oc.Orders.Get(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order found", order)
}

func (oc *OrderController) UpdateStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := oc.Orders.UpdateStatus(c.Request.Context(), c.Param("order_id"), body.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Pedido de "+result.Order.NomeCliente+" agora está: "+result.Order.Status, result)
}

func (oc *OrderController) DeleteOrder(c *gin.Context) {
	if err := oc.Orders.Delete(c.Request.Context(), c.Param("order_id")); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order deleted", nil)
}
