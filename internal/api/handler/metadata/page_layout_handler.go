package metadata

import (
	"net/http"

	"github.com/fisker/crm-backend/internal/model"
	metadataService "github.com/fisker/crm-backend/internal/service/metadata"
	"github.com/gin-gonic/gin"
)

type PageLayoutHandler struct {
	service *metadataService.SchemaService
}

func NewPageLayoutHandler(service *metadataService.SchemaService) *PageLayoutHandler {
	return &PageLayoutHandler{service: service}
}

// FindPageLayout 已保存的布局，未保存时返回 null
func (h *PageLayoutHandler) FindPageLayout(c *gin.Context) {
	layout, err := h.service.FindLayout(c.Request.Context(), c.Query("objectType"))
	if err != nil {
		model.HandleError(c, err)
		return
	}
	if layout == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, layout)
}

// GetPageLayout 已保存的布局，或由字段生成的默认布局（persisted=false）
func (h *PageLayoutHandler) GetPageLayout(c *gin.Context) {
	view, err := h.service.Layout(c.Request.Context(), c.Param("objectType"))
	if err != nil {
		model.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *PageLayoutHandler) UpsertPageLayout(c *gin.Context) {
	var req model.UpsertPageLayoutRequest
	if !bindJSON(c, &req) {
		return
	}
	layout, err := h.service.UpsertLayout(c.Request.Context(), c.Param("objectType"), req)
	if err != nil {
		model.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, layout)
}
