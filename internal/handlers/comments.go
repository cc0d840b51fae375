package handlers

import (
	"github.com/gin-gonic/gin"

	"beautycenter/internal/metrics"
	"beautycenter/internal/storage"
)

func writeComments(c *gin.Context, list []storage.Comment) {
	out := make([]commentDTO, 0, len(list))
	for i := range list {
		out = append(out, toCommentDTO(&list[i]))
	}
	c.JSON(200, out)
}

// @Summary      评论列表
// @Description  按评分升序
// @Tags         comments
// @Produce      json
// @Param        limit  query int false "最多返回条数（默认且上限 500）"
// @Param        offset query int false "跳过条数"
// @Success      200 {array} commentDTO
// @Router       /api/comments [get]
func (h *Handler) listComments(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	list, err := h.comments.List(c, page)
	if err != nil {
		writeError(c, err, false)
		return
	}
	writeComments(c, list)
}

// @Summary      发表评论
// @Description  作者为当前令牌对应的用户；center_id 必填
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body commentInput true "{content,mark,center_id}"
// @Success      201 {object} commentDTO
// @Failure      400 {object} map[string]string
// @Failure      401 {object} map[string]string
// @Router       /api/comments [post]
func (h *Handler) createComment(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var in commentInput
	if !bindJSON(c, &in) {
		return
	}
	if err := in.check(); err != nil {
		writeError(c, err, true)
		return
	}
	cm := &storage.Comment{Content: in.Content, Mark: *in.Mark}
	if err := h.comments.Create(c, uid, cm, in.CenterID); err != nil {
		writeError(c, err, true)
		return
	}
	metrics.CommentsCreated.Inc()
	metrics.RecordsWritten.WithLabelValues("comment", "create").Inc()
	h.logSvc.Write(c, "INFO", "COMMENT_CREATED", &uid, "comment "+cm.ID.String()+" on center "+cm.CenterID.String(), c.ClientIP())
	c.JSON(201, toCommentDTO(cm))
}

// @Summary      评论详情
// @Tags         comments
// @Produce      json
// @Param        id path string true "评论 ID"
// @Success      200 {object} commentDTO
// @Failure      404 {object} map[string]string
// @Router       /api/comments/{id} [get]
func (h *Handler) getComment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	cm, err := h.comments.Get(c, id)
	if err != nil {
		writeError(c, err, false)
		return
	}
	c.JSON(200, toCommentDTO(cm))
}

// @Summary      更新评论
// @Description  省略 center_id 时保持原有中心
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id   path string       true "评论 ID"
// @Param        body body commentInput true "{content,mark,center_id?}"
// @Success      200 {object} commentDTO
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /api/comments/{id} [put]
func (h *Handler) updateComment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok || !ensureExists(c, id, h.comments.Get) {
		return
	}
	var in commentInput
	if !bindJSON(c, &in) {
		return
	}
	if err := in.check(); err != nil {
		writeError(c, err, false)
		return
	}
	cm, err := h.comments.Update(c, id, in.Content, *in.Mark, in.CenterID)
	if err != nil {
		writeError(c, err, false)
		return
	}
	metrics.RecordsWritten.WithLabelValues("comment", "update").Inc()
	c.JSON(200, toCommentDTO(cm))
}

// @Summary      删除评论
// @Tags         comments
// @Param        id path string true "评论 ID"
// @Success      204 {string} string "No Content"
// @Failure      404 {object} map[string]string
// @Router       /api/comments/{id} [delete]
func (h *Handler) deleteComment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.comments.Delete(c, id); err != nil {
		writeError(c, err, false)
		return
	}
	metrics.RecordsWritten.WithLabelValues("comment", "delete").Inc()
	c.Status(204)
}
