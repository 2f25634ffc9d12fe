package handler

import (
	"net/http"
)

// Page describes a storefront view the UI should render
type Page struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Data any    `json:"data,omitempty"`
}

// PageHandler answers guarded view requests once the guard has let them through
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// View returns a handler for the named page. The session placed in context by the guard is attached.
func (h *PageHandler) View(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			SendError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		page := Page{Name: name, Path: r.URL.Path}
		if s, ok := GetSessionFromContext(r.Context()); ok {
			page.Data = s.User
		}
		SendSuccess(w, "", page)
	}
}
