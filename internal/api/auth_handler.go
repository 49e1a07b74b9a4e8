package api

import (
	"net/http"
	"time"

	"restopos-be/internal/auth"

	"github.com/gin-gonic/gin"
)

const sessionTTL = 24 * time.Hour

// POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "correo y contraseña son obligatorios")
		return
	}

	res, err := h.staff.Login(c.Request.Context(), req.Correo, req.Contrasena)
	if err != nil {
		writeError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, res.Token, int(sessionTTL.Seconds()), "/", "", c.Request.TLS != nil, true)

	ok(c, gin.H{"usuario": res})
}

// POST /auth/logout
func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, "", -1, "/", "", c.Request.TLS != nil, true)
	ok(c, nil)
}
