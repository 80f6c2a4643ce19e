package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bakery-app/middlewares"
	"github.com/yeremiapane/bakery-app/services"
	"github.com/yeremiapane/bakery-app/utils"
)

type UserController struct {
	Admin *services.AdminService
}

func NewUserController(admin *services.AdminService) *UserController {
	return &UserController{Admin: admin}
}

// Login -> return JWT
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	token, user, err := uc.Admin.Authenticate(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":     token,
		"user_role": strings.ToLower(user.Role),
	})
}

// Logout revokes the current token until it would have expired anyway.
func (uc *UserController) Logout(c *gin.Context) {
	token := c.GetString(middlewares.ContextToken)
	if token == "" {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("token not found"))
		return
	}

	until := time.Now().Add(24 * time.Hour)
	if exp, ok := c.Get(middlewares.ContextTokenExp); ok {
		if t, ok := exp.(time.Time); ok {
			until = t
		}
	}
	utils.BlacklistToken(token, until)

	utils.RespondJSON(c, http.StatusOK, "Logout successful", nil)
}
