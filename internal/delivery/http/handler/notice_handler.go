package handler

import (
	"net/http"

	"cameroonmark/internal/domain/notice"
)

// NoticeSource hands out pending notices exactly once
type NoticeSource interface {
	Drain() []notice.Notice
}

type NoticeHandler struct {
	source NoticeSource
}

func NewNoticeHandler(source NoticeSource) *NoticeHandler {
	return &NoticeHandler{source: source}
}

// List handles GET /api/notices
func (h *NoticeHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		SendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	SendSuccess(w, "", h.source.Drain())
}
