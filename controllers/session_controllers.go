package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-guest/client"
	"github.com/yeremiapane/restaurant-guest/utils"
)

// SessionController mengekspos state sesi meja ke rendering layer.
type SessionController struct {
	Client *client.Client
}

func NewSessionController(c *client.Client) *SessionController {
	return &SessionController{Client: c}
}

// GetSession -> snapshot sesi + cart + notice untuk di-render.
func (sc *SessionController) GetSession(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Session snapshot", sc.Client.Snapshot())
}

// RequestOpen -> kirim open-request ke staff untuk meja yang sedang di-join.
func (sc *SessionController) RequestOpen(c *gin.Context) {
	if err := sc.Client.RequestOpenTable(c.Request.Context()); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	utils.RespondJSON(c, http.StatusAccepted, "Open request sent, waiting for staff", nil)
}

// ClearSession -> akhiri sesi dari sisi device (kembali ke pre-session).
func (sc *SessionController) ClearSession(c *gin.Context) {
	if err := sc.Client.ClearSession(); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Session cleared", nil)
}
