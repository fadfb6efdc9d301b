package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/hellodine/kds"
	"github.com/yeremiapane/hellodine/utils"
)

// KDSController streams kitchen events to a branch's screens.
type KDSController struct {
	Hub      *kds.Hub
	Upgrader websocket.Upgrader
}

func NewKDSController(hub *kds.Hub) *KDSController {
	return &KDSController{
		Hub: hub,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // token di query sudah divalidasi middleware
			},
		},
	}
}

// KitchenSocket -> GET /ws/kitchen/:branch_id?token=
func (kc *KDSController) KitchenSocket(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("branch_id"), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid branch_id"))
		return
	}
	branchID := uint(id)

	switch c.GetString(utils.CtxRole) {
	case utils.RoleChef, utils.RoleStaff, utils.RoleAdmin:
	default:
		utils.RespondError(c, http.StatusForbidden, errors.New("kitchen access required"))
		return
	}
	if !canAccessBranch(c, branchID) {
		utils.RespondError(c, http.StatusForbidden, errors.New("no access to this branch"))
		return
	}

	ws, err := kc.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.WithField("branch_id", branchID).Warnf("websocket upgrade failed: %v", err)
		return
	}

	conn := kds.NewSocket(ws)
	kc.Hub.Connect(branchID, conn)
	utils.InfoLogger.WithFields(logrus.Fields{
		"branch_id": branchID,
		"user_id":   c.GetUint(utils.CtxUserID),
	}).Info("kitchen screen connected")

	// Baca sampai client menutup koneksi
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	kc.Hub.Disconnect(branchID, conn)
}
