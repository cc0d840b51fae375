package handlers

import (
	"github.com/gin-gonic/gin"

	"beautycenter/internal/metrics"
)

// @Summary      地址列表
// @Tags         addresses
// @Produce      json
// @Param        limit  query int false "最多返回条数（默认且上限 500）"
// @Param        offset query int false "跳过条数"
// @Success      200 {array} addressDTO
// @Router       /api/addresses [get]
func (h *Handler) listAddresses(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	list, err := h.addresses.List(c, page)
	if err != nil {
		writeError(c, err, false)
		return
	}
	out := make([]addressDTO, 0, len(list))
	for i := range list {
		out = append(out, toAddressDTO(&list[i]))
	}
	c.JSON(200, out)
}

// @Summary      创建地址
// @Tags         addresses
// @Accept       json
// @Produce      json
// @Param        body body addressInput true "{street,city,state,number}"
// @Success      201 {object} addressDTO
// @Failure      400 {object} map[string]string
// @Router       /api/addresses [post]
func (h *Handler) createAddress(c *gin.Context) {
	var in addressInput
	if !bindJSON(c, &in) {
		return
	}
	a, err := in.record()
	if err != nil {
		writeError(c, err, true)
		return
	}
	if err := h.addresses.Create(c, a); err != nil {
		writeError(c, err, true)
		return
	}
	metrics.RecordsWritten.WithLabelValues("address", "create").Inc()
	c.JSON(201, toAddressDTO(a))
}

// @Summary      地址详情
// @Tags         addresses
// @Produce      json
// @Param        id path string true "地址 ID"
// @Success      200 {object} addressDTO
// @Failure      404 {object} map[string]string
// @Router       /api/addresses/{id} [get]
func (h *Handler) getAddress(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	a, err := h.addresses.Get(c, id)
	if err != nil {
		writeError(c, err, false)
		return
	}
	c.JSON(200, toAddressDTO(a))
}

// @Summary      更新地址
// @Tags         addresses
// @Accept       json
// @Produce      json
// @Param        id   path string       true "地址 ID"
// @Param        body body addressInput true "{street,city,state,number}"
// @Success      200 {object} addressDTO
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /api/addresses/{id} [put]
func (h *Handler) updateAddress(c *gin.Context) {
	id, ok := parseID(c)
	if !ok || !ensureExists(c, id, h.addresses.Get) {
		return
	}
	var in addressInput
	if !bindJSON(c, &in) {
		return
	}
	a, err := in.record()
	if err != nil {
		writeError(c, err, false)
		return
	}
	a.ID = id
	if err := h.addresses.Update(c, a); err != nil {
		writeError(c, err, false)
		return
	}
	metrics.RecordsWritten.WithLabelValues("address", "update").Inc()
	c.JSON(200, toAddressDTO(a))
}

// @Summary      删除地址
// @Description  同时删除占用该地址的中心
// @Tags         addresses
// @Param        id path string true "地址 ID"
// @Success      204 {string} string "No Content"
// @Failure      404 {object} map[string]string
// @Router       /api/addresses/{id} [delete]
func (h *Handler) deleteAddress(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.addresses.Delete(c, id); err != nil {
		writeError(c, err, false)
		return
	}
	metrics.RecordsWritten.WithLabelValues("address", "delete").Inc()
	c.Status(204)
}
