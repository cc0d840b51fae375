package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"beautycenter/internal/metrics"
	"beautycenter/internal/storage"
)

// @Summary      注册用户
// @Description  username、password、email 均必填；email 需合法且 username 唯一
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body registerRequest true "{username,password,email}"
// @Success      201 {object} map[string]string
// @Failure      400 {object} map[string]string
// @Failure      429 {object} map[string]string
// @Router       /api/register [post]
func (h *Handler) registerUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, registrationError(err), true)
		return
	}
	u, err := h.userSvc.Create(c, req.Username, req.Password, req.Email)
	if err != nil {
		writeError(c, err, true)
		return
	}
	metrics.UsersRegistered.Inc()
	h.logSvc.Write(c, "INFO", "USER_REGISTERED", &u.ID, "user registered: "+u.Username, c.ClientIP())
	c.JSON(201, gin.H{"message": "User registered successfully!"})
}

// registrationError 使用注册端点固定的提示文案。
func registrationError(err error) error {
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		fe := fields[0]
		if fe.Tag() == "email" {
			return storage.InvalidFormat(fe.Field(), "Invalid email format.")
		}
		return &storage.ValidationError{Field: fe.Field(), Kind: storage.ErrRequiredField, Message: "All fields are required."}
	}
	return bindingError(err)
}

// @Summary      获取 API 令牌
// @Description  以用户名与口令换取不透明令牌；有效期内重复调用返回同一令牌
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body credentials true "{username,password}"
// @Success      200 {object} map[string]string "{\"token\":\"...\"}"
// @Failure      400 {object} map[string]string
// @Failure      429 {object} map[string]string
// @Router       /api/api-token-auth [post]
func (h *Handler) obtainToken(c *gin.Context) {
	var req credentials
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.userSvc.Authenticate(c, req.Username, req.Password)
	if err != nil {
		metrics.Logins.WithLabelValues("failure").Inc()
		h.logSvc.Write(c, "WARN", "USER_LOGIN_FAILED", nil, "login failed for "+req.Username, c.ClientIP())
		writeError(c, err, false)
		return
	}
	tok, err := h.tokenSvc.Issue(c, u.ID)
	if err != nil {
		writeError(c, err, false)
		return
	}
	metrics.Logins.WithLabelValues("success").Inc()
	h.logSvc.Write(c, "INFO", "USER_LOGIN", &u.ID, "token issued", c.ClientIP())
	c.JSON(200, gin.H{"token": tok})
}
