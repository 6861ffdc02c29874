package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codenest/codenest/pkg/models"
	"github.com/codenest/codenest/pkg/service"
)

type SessionHandler struct {
	svc    *service.SessionService
	Logger *slog.Logger
}

func NewSessionHandler(svc *service.SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{svc: svc, Logger: logger}
}

// GetPanels returns the persisted panel session in order, with resolved tab
// titles for editor panels.
func (h *SessionHandler) GetPanels(c *gin.Context) {
	panels, err := h.svc.LoadPanels(c.Request.Context())
	if err != nil {
		h.Logger.Error("Failed to load panel session", "error", err)
		c.JSON(http.StatusInternalServerError, models.Response{Code: 500, Message: err.Error()})
		return
	}

	type panelWithTitle struct {
		models.PanelRecord
		Title string `json:"title,omitempty"`
	}
	out := make([]panelWithTitle, 0, len(panels))
	for _, p := range panels {
		pt := panelWithTitle{PanelRecord: p}
		if p.Type == models.PanelTypeEditor {
			pt.Title = service.UniqueTabTitle(p, panels)
		}
		out = append(out, pt)
	}
	c.JSON(http.StatusOK, models.Response{Code: 0, Message: "ok", Data: out})
}

// PutPanels replaces the persisted panel session.
func (h *SessionHandler) PutPanels(c *gin.Context) {
	var panels []models.PanelRecord
	if err := c.ShouldBindJSON(&panels); err != nil {
		c.JSON(http.StatusBadRequest, models.Response{Code: 400, Message: err.Error()})
		return
	}
	if err := h.svc.SavePanels(c.Request.Context(), panels); err != nil {
		h.Logger.Error("Failed to save panel session", "error", err)
		c.JSON(http.StatusInternalServerError, models.Response{Code: 500, Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: 0, Message: "ok"})
}
