package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"beautycenter/internal/metrics"
	"beautycenter/internal/services"
	"beautycenter/internal/storage"
)

// centerViews 为一批中心组装输出：内嵌地址，并按连接表汇总各中心的服务。
func (h *Handler) centerViews(c *gin.Context, list []storage.Center) ([]centerDTO, error) {
	ids := make([]uuid.UUID, 0, len(list))
	for i := range list {
		ids = append(ids, list[i].ID)
	}
	byCenter, err := h.centers.Offerings(c, ids...)
	if err != nil {
		return nil, err
	}
	offerings := make([]storage.CenterService, 0)
	for _, rows := range byCenter {
		offerings = append(offerings, rows...)
	}
	centersBySvc, err := h.offeringCenters(c, offerings)
	if err != nil {
		return nil, err
	}
	out := make([]centerDTO, 0, len(list))
	for i := range list {
		ctr := &list[i]
		v := centerDTO{ID: ctr.ID, Name: ctr.Name, Phone: ctr.Phone, Services: []offeringDTO{}}
		if ctr.Address != nil {
			a := toAddressDTO(ctr.Address)
			v.Address = &a
		}
		for j := range byCenter[ctr.ID] {
			v.Services = append(v.Services, toOfferingDTO(&byCenter[ctr.ID][j], centersBySvc))
		}
		out = append(out, v)
	}
	return out, nil
}

func (h *Handler) centerView(c *gin.Context, id uuid.UUID) (*centerDTO, error) {
	ctr, err := h.centers.Get(c, id)
	if err != nil {
		return nil, err
	}
	views, err := h.centerViews(c, []storage.Center{*ctr})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// @Summary      中心列表
// @Description  每个中心内嵌地址与服务列表，按名称排序
// @Tags         centers
// @Produce      json
// @Param        limit  query int false "最多返回条数（默认且上限 500）"
// @Param        offset query int false "跳过条数"
// @Success      200 {array} centerDTO
// @Router       /api/centers [get]
func (h *Handler) listCenters(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	list, err := h.centers.List(c, page)
	if err != nil {
		writeError(c, err, false)
		return
	}
	out, err := h.centerViews(c, list)
	if err != nil {
		writeError(c, err, false)
		return
	}
	c.JSON(200, out)
}

// @Summary      创建中心
// @Description  address 可为嵌套地址对象（与中心在同一事务内创建），或未被占用的已有地址 ID
// @Tags         centers
// @Accept       json
// @Produce      json
// @Param        body body centerInput true "{name,phone,address}"
// @Success      201 {object} centerDTO
// @Failure      400 {object} map[string]string
// @Router       /api/centers [post]
func (h *Handler) createCenter(c *gin.Context) {
	var in centerInput
	if !bindJSON(c, &in) {
		return
	}
	ctr := &storage.Center{Name: in.Name, Phone: in.Phone}
	var err error
	switch {
	case in.Address == nil || (in.Address.ID == nil && in.Address.Nested == nil):
		err = storage.RequiredField("address")
	case in.Address.ID != nil:
		err = h.centers.CreateWithAddressID(c, ctr, *in.Address.ID)
	default:
		var addr *storage.Address
		if addr, err = in.Address.Nested.record(); err == nil {
			err = h.centers.Create(c, ctr, addr)
		}
	}
	if err != nil {
		writeError(c, err, true)
		return
	}
	metrics.RecordsWritten.WithLabelValues("center", "create").Inc()
	v, err := h.centerView(c, ctr.ID)
	if err != nil {
		writeError(c, err, false)
		return
	}
	c.JSON(201, v)
}

// @Summary      中心详情
// @Tags         centers
// @Produce      json
// @Param        id path string true "中心 ID"
// @Success      200 {object} centerDTO
// @Failure      404 {object} map[string]string
// @Router       /api/centers/{id} [get]
func (h *Handler) getCenter(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	v, err := h.centerView(c, id)
	if err != nil {
		writeError(c, err, false)
		return
	}
	c.JSON(200, v)
}

// @Summary      更新中心
// @Description  携带嵌套 address 时原地覆盖已有地址的对应字段；省略时地址保持不变
// @Tags         centers
// @Accept       json
// @Produce      json
// @Param        id   path string      true "中心 ID"
// @Param        body body centerInput true "{name,phone,address?}"
// @Success      200 {object} centerDTO
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /api/centers/{id} [put]
func (h *Handler) updateCenter(c *gin.Context) {
	id, ok := parseID(c)
	if !ok || !ensureExists(c, id, h.centers.Get) {
		return
	}
	var in centerInput
	if !bindJSON(c, &in) {
		return
	}
	p := services.CenterPatch{Name: in.Name, Phone: in.Phone}
	if in.Address != nil {
		if in.Address.Nested == nil {
			writeError(c, storage.InvalidField("address", "Expected a nested address object."), false)
			return
		}
		p.Address = in.Address.Nested.patch()
	}
	if _, err := h.centers.Update(c, id, p); err != nil {
		writeError(c, err, false)
		return
	}
	metrics.RecordsWritten.WithLabelValues("center", "update").Inc()
	v, err := h.centerView(c, id)
	if err != nil {
		writeError(c, err, false)
		return
	}
	c.JSON(200, v)
}

// @Summary      删除中心
// @Description  级联删除其地址、评论与服务关联
// @Tags         centers
// @Param        id path string true "中心 ID"
// @Success      204 {string} string "No Content"
// @Failure      404 {object} map[string]string
// @Router       /api/centers/{id} [delete]
func (h *Handler) deleteCenter(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.centers.Delete(c, id); err != nil {
		writeError(c, err, false)
		return
	}
	metrics.RecordsWritten.WithLabelValues("center", "delete").Inc()
	c.Status(204)
}

// @Summary      中心的服务列表
// @Tags         centers
// @Produce      json
// @Param        id path string true "中心 ID"
// @Success      200 {array} offeringDTO
// @Failure      404 {object} map[string]string
// @Router       /api/centers/{id}/services [get]
func (h *Handler) listCenterOfferings(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	list, err := h.offerings.ListByCenter(c, id)
	if err != nil {
		writeError(c, err, false)
		return
	}
	h.writeOfferings(c, list)
}

// @Summary      中心的评论列表
// @Tags         centers
// @Produce      json
// @Param        id     path  string true  "中心 ID"
// @Param        limit  query int    false "最多返回条数"
// @Param        offset query int    false "跳过条数"
// @Success      200 {array} commentDTO
// @Failure      404 {object} map[string]string
// @Router       /api/centers/{id}/comments [get]
func (h *Handler) listCenterComments(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	page, ok := parsePage(c)
	if !ok {
		return
	}
	list, err := h.comments.ListByCenter(c, id, page)
	if err != nil {
		writeError(c, err, false)
		return
	}
	writeComments(c, list)
}
