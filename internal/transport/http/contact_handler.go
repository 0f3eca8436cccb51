package httptransport

import (
	"github.com/gin-gonic/gin"

	"chattflow/backend/internal/service"
)

// ========== Contact Handlers ==========

// createContact godoc
// @Summary 创建联系人
// @Description 创建一个新的营销联系人
// @Tags Contacts
// @Accept json
// @Produce json
// @Param contact body service.CreateContactInput true "联系人信息"
// @Success 201 {object} Response{data=domain.Contact}
// @Failure 400 {object} Response
// @Failure 500 {object} Response
// @Router /v1/contacts [post]
func (h *Handler) createContact(c *gin.Context) {
	var input service.CreateContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	contact, err := h.contacts.Create(input)
	if err != nil {
		RespondError(c, err)
		return
	}

	h.metrics.RecordContactCreated()
	Created(c, contact)
}

// listContacts godoc
// @Summary 列出联系人
// @Description 按创建顺序列出全部联系人
// @Tags Contacts
// @Produce json
// @Success 200 {object} Response{data=[]domain.Contact}
// @Failure 500 {object} Response
// @Router /v1/contacts [get]
func (h *Handler) listContacts(c *gin.Context) {
	Success(c, h.contacts.List())
}

// getContact godoc
// @Summary 获取联系人
// @Description 获取指定联系人的详细信息
// @Tags Contacts
// @Produce json
// @Param id path string true "联系人ID"
// @Success 200 {object} Response{data=domain.Contact}
// @Failure 404 {object} Response
// @Router /v1/contacts/{id} [get]
func (h *Handler) getContact(c *gin.Context) {
	contact, err := h.contacts.Get(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, contact)
}

// updateContact godoc
// @Summary 更新联系人
// @Description 更新联系人信息，未提供的字段保持不变
// @Tags Contacts
// @Accept json
// @Produce json
// @Param id path string true "联系人ID"
// @Param contact body service.UpdateContactInput true "更新信息"
// @Success 200 {object} Response{data=domain.Contact}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /v1/contacts/{id} [patch]
func (h *Handler) updateContact(c *gin.Context) {
	var input service.UpdateContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	contact, err := h.contacts.Update(c.Param("id"), input)
	if err != nil {
		RespondError(c, err)
		return
	}

	h.metrics.RecordContactUpdated()
	Success(c, contact)
}

// deleteContact godoc
// @Summary 删除联系人
// @Description 删除指定联系人
// @Tags Contacts
// @Produce json
// @Param id path string true "联系人ID"
// @Success 204 {object} Response
// @Failure 404 {object} Response
// @Router /v1/contacts/{id} [delete]
func (h *Handler) deleteContact(c *gin.Context) {
	if err := h.contacts.Delete(c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}

	h.metrics.RecordContactDeleted()
	NoContent(c)
}
