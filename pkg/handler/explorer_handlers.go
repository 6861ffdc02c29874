package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/codenest/codenest/pkg/models"
	"github.com/codenest/codenest/pkg/service"
)

type ExplorerHandler struct {
	svc *service.ExplorerService
}

func NewExplorerHandler(svc *service.ExplorerService) *ExplorerHandler {
	return &ExplorerHandler{svc: svc}
}

// List loads (and caches) the listing for ?path=. Defaults to the workspace
// root when the path is empty.
func (h *ExplorerHandler) List(c *gin.Context) {
	p := strings.TrimSpace(c.Query("path"))
	if p == "" {
		p = h.svc.Workspace()
	}
	resp, err := h.svc.LoadFileList(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Response{Code: 400, Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: 0, Message: "ok", Data: resp})
}

// Cached returns the cached listing for ?path= without any I/O.
func (h *ExplorerHandler) Cached(c *gin.Context) {
	p := strings.TrimSpace(c.Query("path"))
	if p == "" {
		c.JSON(http.StatusBadRequest, models.Response{Code: 400, Message: "path is required"})
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: 0, Message: "ok", Data: h.svc.CachedFileList(p)})
}

func (h *ExplorerHandler) Read(c *gin.Context) {
	p := strings.TrimSpace(c.Query("path"))
	if p == "" {
		c.JSON(http.StatusBadRequest, models.Response{Code: 400, Message: "path is required"})
		return
	}
	content, err := h.svc.ReadFile(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Response{Code: 400, Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: 0, Message: "ok", Data: gin.H{"content": content}})
}

type writeRequest struct {
	Path    string `json:"path" binding:"required"`
	Content string `json:"content"`
}

func (h *ExplorerHandler) Write(c *gin.Context) {
	var req writeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Response{Code: 400, Message: err.Error()})
		return
	}
	if err := h.svc.WriteFile(c.Request.Context(), req.Path, req.Content); err != nil {
		c.JSON(http.StatusBadRequest, models.Response{Code: 400, Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: 0, Message: "ok"})
}

type createRequest struct {
	Parent string `json:"parent" binding:"required"`
	Name   string `json:"name" binding:"required"`
}

func (h *ExplorerHandler) CreateFile(c *gin.Context) {
	h.create(c, false)
}

func (h *ExplorerHandler) CreateDirectory(c *gin.Context) {
	h.create(c, true)
}

func (h *ExplorerHandler) create(c *gin.Context, dir bool) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Response{Code: 400, Message: err.Error()})
		return
	}
	var (
		info *models.FileInfo
		err  error
	)
	if dir {
		info, err = h.svc.CreateDirectory(c.Request.Context(), req.Parent, req.Name)
	} else {
		info, err = h.svc.CreateFile(c.Request.Context(), req.Parent, req.Name)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Response{Code: 400, Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: 0, Message: "ok", Data: info})
}

type renameRequest struct {
	Path    string `json:"path" binding:"required"`
	NewName string `json:"new_name" binding:"required"`
}

func (h *ExplorerHandler) Rename(c *gin.Context) {
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Response{Code: 400, Message: err.Error()})
		return
	}
	info, err := h.svc.Rename(c.Request.Context(), req.Path, req.NewName)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Response{Code: 400, Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: 0, Message: "ok", Data: info})
}

func (h *ExplorerHandler) Delete(c *gin.Context) {
	p := strings.TrimSpace(c.Query("path"))
	if p == "" {
		c.JSON(http.StatusBadRequest, models.Response{Code: 400, Message: "path is required"})
		return
	}
	if err := h.svc.Delete(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusBadRequest, models.Response{Code: 400, Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: 0, Message: "ok"})
}

// ShareURI resolves ?path= to a content URI under the configured authority.
func (h *ExplorerHandler) ShareURI(c *gin.Context) {
	p := strings.TrimSpace(c.Query("path"))
	if p == "" {
		c.JSON(http.StatusBadRequest, models.Response{Code: 400, Message: "path is required"})
		return
	}
	uri, err := h.svc.ShareURI(p)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Response{Code: 400, Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: 0, Message: "ok", Data: gin.H{"uri": uri}})
}

func (h *ExplorerHandler) Breadcrumbs(c *gin.Context) {
	p := strings.TrimSpace(c.Query("path"))
	if p == "" {
		c.JSON(http.StatusBadRequest, models.Response{Code: 400, Message: "path is required"})
		return
	}
	trail, err := h.svc.Breadcrumbs(p)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Response{Code: 400, Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: 0, Message: "ok", Data: trail})
}
