package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/bakery-app/hub"
	"github.com/yeremiapane/bakery-app/middlewares"
	"github.com/yeremiapane/bakery-app/utils"
)

type WSController struct {
	Hub      *hub.Hub
	upgrader websocket.Upgrader
}

// NewWSController accepts upgrades from allowedOrigin only. An empty or "*"
// origin accepts any browser; requests without an Origin header always pass.
func NewWSController(h *hub.Hub, allowedOrigin string) *WSController {
	allowedOrigin = strings.TrimSuffix(allowedOrigin, "/")
	return &WSController{
		Hub: h,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" || allowedOrigin == "*" {
					return true
				}
				origin := r.Header.Get("Origin")
				return origin == "" || strings.EqualFold(strings.TrimSuffix(origin, "/"), allowedOrigin)
			},
		},
	}
}

// OrderBoard upgrades to a WebSocket that receives order events until the
// client disconnects.
func (wc *WSController) OrderBoard(c *gin.Context) {
	role := c.GetString(middlewares.ContextRole)

	ws, err := wc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Warnf("WebSocket upgrade failed: %v", err)
		return
	}

	wc.Hub.Register(ws, role)
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	wc.Hub.Unregister(ws)
}
