package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"beautycenter/internal/metrics"
	"beautycenter/internal/storage"
)

// offeringCenters 查询一批连接记录所涉服务各自的中心 ID 列表。
func (h *Handler) offeringCenters(c *gin.Context, list []storage.CenterService) (map[uuid.UUID][]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(list))
	ids := make([]uuid.UUID, 0, len(list))
	for i := range list {
		if _, ok := seen[list[i].ServiceID]; !ok {
			seen[list[i].ServiceID] = struct{}{}
			ids = append(ids, list[i].ServiceID)
		}
	}
	return h.catalog.CenterIDs(c, ids...)
}

func (h *Handler) serviceView(c *gin.Context, s *storage.Service) (serviceDTO, error) {
	byService, err := h.catalog.CenterIDs(c, s.ID)
	if err != nil {
		return serviceDTO{}, err
	}
	return toServiceDTO(s, byService[s.ID]), nil
}

// @Summary      服务列表
// @Description  按名称排序；centers 为提供该服务的中心 ID
// @Tags         services
// @Produce      json
// @Param        limit  query int false "最多返回条数（默认且上限 500）"
// @Param        offset query int false "跳过条数"
// @Success      200 {array} serviceDTO
// @Router       /api/services [get]
func (h *Handler) listServices(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	list, err := h.catalog.List(c, page)
	if err != nil {
		writeError(c, err, false)
		return
	}
	ids := make([]uuid.UUID, 0, len(list))
	for i := range list {
		ids = append(ids, list[i].ID)
	}
	byService, err := h.catalog.CenterIDs(c, ids...)
	if err != nil {
		writeError(c, err, false)
		return
	}
	out := make([]serviceDTO, 0, len(list))
	for i := range list {
		out = append(out, toServiceDTO(&list[i], byService[list[i].ID]))
	}
	c.JSON(200, out)
}

// @Summary      创建服务
// @Tags         services
// @Accept       json
// @Produce      json
// @Param        body body serviceInput true "{name,category}"
// @Success      201 {object} serviceDTO
// @Failure      400 {object} map[string]string
// @Router       /api/services [post]
func (h *Handler) createService(c *gin.Context) {
	var in serviceInput
	if !bindJSON(c, &in) {
		return
	}
	s := &storage.Service{Name: in.Name, Category: in.Category}
	if err := h.catalog.Create(c, s); err != nil {
		writeError(c, err, true)
		return
	}
	metrics.RecordsWritten.WithLabelValues("service", "create").Inc()
	c.JSON(201, toServiceDTO(s, nil))
}

// @Summary      服务详情
// @Tags         services
// @Produce      json
// @Param        id path string true "服务 ID"
// @Success      200 {object} serviceDTO
// @Failure      404 {object} map[string]string
// @Router       /api/services/{id} [get]
func (h *Handler) getService(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	s, err := h.catalog.Get(c, id)
	if err != nil {
		writeError(c, err, false)
		return
	}
	v, err := h.serviceView(c, s)
	if err != nil {
		writeError(c, err, false)
		return
	}
	c.JSON(200, v)
}

// @Summary      更新服务
// @Tags         services
// @Accept       json
// @Produce      json
// @Param        id   path string       true "服务 ID"
// @Param        body body serviceInput true "{name,category}"
// @Success      200 {object} serviceDTO
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /api/services/{id} [put]
func (h *Handler) updateService(c *gin.Context) {
	id, ok := parseID(c)
	if !ok || !ensureExists(c, id, h.catalog.Get) {
		return
	}
	var in serviceInput
	if !bindJSON(c, &in) {
		return
	}
	s := &storage.Service{Record: storage.Record{ID: id}, Name: in.Name, Category: in.Category}
	if err := h.catalog.Update(c, s); err != nil {
		writeError(c, err, false)
		return
	}
	metrics.RecordsWritten.WithLabelValues("service", "update").Inc()
	v, err := h.serviceView(c, s)
	if err != nil {
		writeError(c, err, false)
		return
	}
	c.JSON(200, v)
}

// @Summary      删除服务
// @Description  同时删除该服务的全部中心关联
// @Tags         services
// @Param        id path string true "服务 ID"
// @Success      204 {string} string "No Content"
// @Failure      404 {object} map[string]string
// @Router       /api/services/{id} [delete]
func (h *Handler) deleteService(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.catalog.Delete(c, id); err != nil {
		writeError(c, err, false)
		return
	}
	metrics.RecordsWritten.WithLabelValues("service", "delete").Inc()
	c.Status(204)
}
