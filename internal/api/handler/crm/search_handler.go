package crm

import (
	"net/http"

	"github.com/fisker/crm-backend/internal/model"
	crmService "github.com/fisker/crm-backend/internal/service/crm"
	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	service *crmService.SearchService
}

func NewSearchHandler(service *crmService.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

// Search 跨实体搜索：q 为空时返回空结果
func (h *SearchHandler) Search(c *gin.Context) {
	limit := model.ParseSearchLimit(c.Query("limit"))
	resp, err := h.service.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		model.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type DashboardHandler struct {
	service *crmService.DashboardService
}

func NewDashboardHandler(service *crmService.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		model.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
