package httptransport

import (
	"errors"

	"github.com/gin-gonic/gin"

	"chattflow/backend/internal/domain"
	"chattflow/backend/internal/mailer"
)

// ========== Broadcast Handlers ==========

// RecipientInput 收件人圈选规则入参
type RecipientInput struct {
	Type string   `json:"type" binding:"required,oneof=all tags custom"`
	Tags []string `json:"tags"`
}

// SendBroadcastInput 广播发送入参
type SendBroadcastInput struct {
	TemplateID string         `json:"template_id" binding:"required"`
	Recipients RecipientInput `json:"recipients" binding:"required"`
}

// SendDirectInput 直发入参
type SendDirectInput struct {
	TemplateID string   `json:"template_id" binding:"required"`
	ContactIDs []string `json:"contact_ids" binding:"required,min=1"`
}

// sendBroadcast godoc
// @Summary 发送广播
// @Description 按收件人规则圈选联系人并经邮件网关发送模板邮件
// @Tags Broadcasts
// @Accept json
// @Produce json
// @Param broadcast body SendBroadcastInput true "广播请求"
// @Success 201 {object} Response{data=domain.Broadcast}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Failure 422 {object} Response
// @Failure 502 {object} Response
// @Router /v1/broadcasts/send [post]
func (h *Handler) sendBroadcast(c *gin.Context) {
	var input SendBroadcastInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	rule := domain.RecipientRule{
		Type: domain.RecipientType(input.Recipients.Type),
		Tags: input.Recipients.Tags,
	}

	broadcast, err := h.broadcasts.SendBroadcast(c.Request.Context(), input.TemplateID, rule)
	if err != nil {
		// 部分失败时记录已落库，连同失败详情一起返回
		if broadcast != nil && errors.Is(err, mailer.ErrGatewaySend) {
			BadGateway(c, GetErrorMessage(err), broadcast)
			return
		}
		RespondError(c, err)
		return
	}

	Created(c, broadcast)
}

// sendDirect godoc
// @Summary 向指定联系人直发
// @Description 向显式给出的联系人列表发送模板邮件，未知 ID 静默跳过
// @Tags Broadcasts
// @Accept json
// @Produce json
// @Param request body SendDirectInput true "直发请求"
// @Success 201 {object} Response{data=domain.Broadcast}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Failure 422 {object} Response
// @Failure 502 {object} Response
// @Router /v1/broadcasts/send-direct [post]
func (h *Handler) sendDirect(c *gin.Context) {
	var input SendDirectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	broadcast, err := h.broadcasts.SendToContacts(c.Request.Context(), input.TemplateID, input.ContactIDs)
	if err != nil {
		if broadcast != nil && errors.Is(err, mailer.ErrGatewaySend) {
			BadGateway(c, GetErrorMessage(err), broadcast)
			return
		}
		RespondError(c, err)
		return
	}

	Created(c, broadcast)
}

// listBroadcasts godoc
// @Summary 列出广播记录
// @Description 按发送时间倒序列出全部广播记录
// @Tags Broadcasts
// @Produce json
// @Success 200 {object} Response{data=[]domain.Broadcast}
// @Router /v1/broadcasts [get]
func (h *Handler) listBroadcasts(c *gin.Context) {
	Success(c, h.broadcasts.List())
}

// getBroadcast godoc
// @Summary 获取广播记录
// @Description 获取指定广播的快照与统计
// @Tags Broadcasts
// @Produce json
// @Param id path string true "广播ID"
// @Success 200 {object} Response{data=domain.Broadcast}
// @Failure 404 {object} Response
// @Router /v1/broadcasts/{id} [get]
func (h *Handler) getBroadcast(c *gin.Context) {
	broadcast, err := h.broadcasts.Get(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, broadcast)
}

// recordBroadcastEvent godoc
// @Summary 记录广播互动事件
// @Description 外部追踪回调，递增指定广播的打开或点击计数
// @Tags Broadcasts
// @Produce json
// @Param id path string true "广播ID"
// @Param kind path string true "事件类型" Enums(open, click)
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /v1/broadcasts/{id}/events/{kind} [post]
func (h *Handler) recordBroadcastEvent(c *gin.Context) {
	stat := domain.BroadcastStat(c.Param("kind"))

	if err := h.broadcasts.RecordEvent(c.Param("id"), stat); err != nil {
		RespondError(c, err)
		return
	}

	SuccessWithMsg(c, "已记录", nil)
}
