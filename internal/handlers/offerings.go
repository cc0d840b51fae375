package handlers

import (
	"github.com/gin-gonic/gin"

	"beautycenter/internal/metrics"
	"beautycenter/internal/storage"
)

func (h *Handler) writeOfferings(c *gin.Context, list []storage.CenterService) {
	centersBySvc, err := h.offeringCenters(c, list)
	if err != nil {
		writeError(c, err, false)
		return
	}
	out := make([]offeringDTO, 0, len(list))
	for i := range list {
		out = append(out, toOfferingDTO(&list[i], centersBySvc))
	}
	c.JSON(200, out)
}

func (h *Handler) writeOffering(c *gin.Context, status int, cs *storage.CenterService) {
	centersBySvc, err := h.offeringCenters(c, []storage.CenterService{*cs})
	if err != nil {
		writeError(c, err, false)
		return
	}
	c.JSON(status, toOfferingDTO(cs, centersBySvc))
}

// @Summary      中心服务关联列表
// @Tags         center-services
// @Produce      json
// @Param        limit  query int false "最多返回条数（默认且上限 500）"
// @Param        offset query int false "跳过条数"
// @Success      200 {array} offeringDTO
// @Router       /api/center-services [get]
func (h *Handler) listOfferings(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	list, err := h.offerings.List(c, page)
	if err != nil {
		writeError(c, err, false)
		return
	}
	h.writeOfferings(c, list)
}

// @Summary      创建中心服务关联
// @Description  service 可为服务 ID，或携带 id 的服务对象
// @Tags         center-services
// @Accept       json
// @Produce      json
// @Param        body body offeringInput true "{center,service,description}"
// @Success      201 {object} offeringDTO
// @Failure      400 {object} map[string]string
// @Router       /api/center-services [post]
func (h *Handler) createOffering(c *gin.Context) {
	var in offeringInput
	if !bindJSON(c, &in) {
		return
	}
	cs := in.record()
	if err := h.offerings.Create(c, cs); err != nil {
		writeError(c, err, true)
		return
	}
	metrics.RecordsWritten.WithLabelValues("center_service", "create").Inc()
	h.writeOffering(c, 201, cs)
}

// @Summary      中心服务关联详情
// @Tags         center-services
// @Produce      json
// @Param        id path string true "关联 ID"
// @Success      200 {object} offeringDTO
// @Failure      404 {object} map[string]string
// @Router       /api/center-services/{id} [get]
func (h *Handler) getOffering(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	cs, err := h.offerings.Get(c, id)
	if err != nil {
		writeError(c, err, false)
		return
	}
	h.writeOffering(c, 200, cs)
}

// @Summary      更新中心服务关联
// @Tags         center-services
// @Accept       json
// @Produce      json
// @Param        id   path string        true "关联 ID"
// @Param        body body offeringInput true "{center,service,description}"
// @Success      200 {object} offeringDTO
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /api/center-services/{id} [put]
func (h *Handler) updateOffering(c *gin.Context) {
	id, ok := parseID(c)
	if !ok || !ensureExists(c, id, h.offerings.Get) {
		return
	}
	var in offeringInput
	if !bindJSON(c, &in) {
		return
	}
	cs := in.record()
	cs.ID = id
	if err := h.offerings.Update(c, cs); err != nil {
		writeError(c, err, false)
		return
	}
	metrics.RecordsWritten.WithLabelValues("center_service", "update").Inc()
	h.writeOffering(c, 200, cs)
}

// @Summary      删除中心服务关联
// @Tags         center-services
// @Param        id path string true "关联 ID"
// @Success      204 {string} string "No Content"
// @Failure      404 {object} map[string]string
// @Router       /api/center-services/{id} [delete]
func (h *Handler) deleteOffering(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.offerings.Delete(c, id); err != nil {
		writeError(c, err, false)
		return
	}
	metrics.RecordsWritten.WithLabelValues("center_service", "delete").Inc()
	c.Status(204)
}
