package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bakery-app/services"
	"github.com/yeremiapane/bakery-app/utils"
)

type NotificationController struct {
	Orders *services.OrderService
}

func NewNotificationController(orders *services.OrderService) *NotificationController {
	return &NotificationController{Orders: orders}
}

// GetAllNotifications lists the message links handed out, newest first.
// ?limit= defaults to 50.
func (nc *NotificationController) GetAllNotifications(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 0 {
		limit = 50
	}

	notifications, err := nc.Orders.Notifications(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All notifications", notifications)
}
