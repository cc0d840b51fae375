package handlers

import (
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// @Summary      当前用户信息
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]interface{}
// @Failure      401 {object} map[string]string
// @Router       /api/me [get]
func (h *Handler) me(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	u, err := h.userSvc.FindByID(c, uid)
	if err != nil {
		c.JSON(401, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(200, gin.H{"id": u.ID, "username": u.Username, "email": u.Email})
}

// @Summary      注销账号
// @Description  删除当前用户及其全部评论，并吊销其令牌
// @Tags         auth
// @Security     BearerAuth
// @Success      204 {string} string "No Content"
// @Failure      401 {object} map[string]string
// @Router       /api/me [delete]
func (h *Handler) deleteMe(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.userSvc.Delete(c, uid); err != nil {
		writeError(c, err, false)
		return
	}
	if err := h.tokenSvc.Revoke(c, uid); err != nil {
		log.WithError(err).WithField("user_id", uid).Warn("token revoke failed")
	}
	h.logSvc.Write(c, "INFO", "USER_DELETED", &uid, "account deleted", c.ClientIP())
	c.Status(204)
}
