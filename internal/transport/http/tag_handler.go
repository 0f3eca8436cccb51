package httptransport

import (
	"github.com/gin-gonic/gin"

	"chattflow/backend/internal/service"
)

// ========== Tag Handlers ==========

// createTag godoc
// @Summary 创建标签
// @Description 创建一个新的联系人标签
// @Tags Tags
// @Accept json
// @Produce json
// @Param tag body service.CreateTagInput true "标签信息"
// @Success 201 {object} Response{data=domain.Tag}
// @Failure 400 {object} Response
// @Failure 409 {object} Response
// @Router /v1/tags [post]
func (h *Handler) createTag(c *gin.Context) {
	var input service.CreateTagInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	tag, err := h.tags.Create(input)
	if err != nil {
		RespondError(c, err)
		return
	}

	h.metrics.RecordTagCreated()
	Created(c, tag)
}

// listTags godoc
// @Summary 列出标签
// @Description 列出全部标签及其持有联系人数量（计数实时派生）
// @Tags Tags
// @Produce json
// @Success 200 {object} Response{data=[]domain.TagWithCount}
// @Failure 500 {object} Response
// @Router /v1/tags [get]
func (h *Handler) listTags(c *gin.Context) {
	tags, err := h.tags.List()
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, tags)
}

// getTag godoc
// @Summary 获取标签
// @Description 获取指定标签的详细信息
// @Tags Tags
// @Produce json
// @Param id path string true "标签ID"
// @Success 200 {object} Response{data=domain.Tag}
// @Failure 404 {object} Response
// @Router /v1/tags/{id} [get]
func (h *Handler) getTag(c *gin.Context) {
	tag, err := h.tags.Get(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, tag)
}

// updateTag godoc
// @Summary 更新标签
// @Description 更新标签名称或类型
// @Tags Tags
// @Accept json
// @Produce json
// @Param id path string true "标签ID"
// @Param tag body service.UpdateTagInput true "更新信息"
// @Success 200 {object} Response{data=domain.Tag}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /v1/tags/{id} [patch]
func (h *Handler) updateTag(c *gin.Context) {
	var input service.UpdateTagInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	tag, err := h.tags.Update(c.Param("id"), input)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, tag)
}

// deleteTag godoc
// @Summary 删除标签
// @Description 删除指定标签；仍有联系人持有该标签时拒绝删除
// @Tags Tags
// @Produce json
// @Param id path string true "标签ID"
// @Success 204 {object} Response
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /v1/tags/{id} [delete]
func (h *Handler) deleteTag(c *gin.Context) {
	if err := h.tags.Delete(c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}

	h.metrics.RecordTagDeleted()
	NoContent(c)
}
