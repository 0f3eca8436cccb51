package httptransport

import (
	"github.com/gin-gonic/gin"

	"chattflow/backend/internal/service"
)

// ========== Template Handlers ==========

// createTemplate godoc
// @Summary 创建邮件模板
// @Description 创建邮件模板；HTML 为空时由正文派生段落包装
// @Tags Templates
// @Accept json
// @Produce json
// @Param template body service.CreateTemplateInput true "模板信息"
// @Success 201 {object} Response{data=domain.EmailTemplate}
// @Failure 400 {object} Response
// @Router /v1/templates [post]
func (h *Handler) createTemplate(c *gin.Context) {
	var input service.CreateTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	template, err := h.templates.Create(input)
	if err != nil {
		RespondError(c, err)
		return
	}

	h.metrics.RecordTemplateCreated()
	Created(c, template)
}

// listTemplates godoc
// @Summary 列出邮件模板
// @Description 列出全部邮件模板
// @Tags Templates
// @Produce json
// @Success 200 {object} Response{data=[]domain.EmailTemplate}
// @Router /v1/templates [get]
func (h *Handler) listTemplates(c *gin.Context) {
	Success(c, h.templates.List())
}

// getTemplate godoc
// @Summary 获取邮件模板
// @Description 获取指定模板的详细信息
// @Tags Templates
// @Produce json
// @Param id path string true "模板ID"
// @Success 200 {object} Response{data=domain.EmailTemplate}
// @Failure 404 {object} Response
// @Router /v1/templates/{id} [get]
func (h *Handler) getTemplate(c *gin.Context) {
	template, err := h.templates.Get(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, template)
}

// updateTemplate godoc
// @Summary 更新邮件模板
// @Description 更新模板信息，未提供的字段保持不变
// @Tags Templates
// @Accept json
// @Produce json
// @Param id path string true "模板ID"
// @Param template body service.UpdateTemplateInput true "更新信息"
// @Success 200 {object} Response{data=domain.EmailTemplate}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /v1/templates/{id} [patch]
func (h *Handler) updateTemplate(c *gin.Context) {
	var input service.UpdateTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	template, err := h.templates.Update(c.Param("id"), input)
	if err != nil {
		RespondError(c, err)
		return
	}

	h.metrics.RecordTemplateUpdated()
	Success(c, template)
}

// deleteTemplate godoc
// @Summary 删除邮件模板
// @Description 删除指定模板；已发送广播中的快照不受影响
// @Tags Templates
// @Produce json
// @Param id path string true "模板ID"
// @Success 204 {object} Response
// @Failure 404 {object} Response
// @Router /v1/templates/{id} [delete]
func (h *Handler) deleteTemplate(c *gin.Context) {
	if err := h.templates.Delete(c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}

	h.metrics.RecordTemplateDeleted()
	NoContent(c)
}
