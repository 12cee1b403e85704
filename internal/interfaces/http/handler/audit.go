package handler

import (
	"github.com/gin-gonic/gin"
	auditapp "github.com/shopapi/backend/internal/application/audit"
)

// AuditHandler exposes the audit log to administrators
type AuditHandler struct {
	BaseHandler
	auditService *auditapp.Service
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService *auditapp.Service) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List godoc
// @Summary      List audit entries
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        action query string false "Action"
// @Param        target_type query string false "user or order"
// @Param        target_id query string false "Target ID"
// @Param        actor_id query string false "Actor ID"
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]auditapp.EntryResponse}
// @Router       /admin/audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	var query auditapp.ListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	var ok bool
	if query.TargetID, ok = h.QueryUUID(c, "target_id"); !ok {
		return
	}
	if query.ActorID, ok = h.QueryUUID(c, "actor_id"); !ok {
		return
	}

	entries, total, err := h.auditService.List(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, entries, total, query.Page, query.PageSize)
}
