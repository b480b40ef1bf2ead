package metadata

import (
	"net/http"

	"github.com/fisker/crm-backend/internal/model"
	metadataService "github.com/fisker/crm-backend/internal/service/metadata"
	"github.com/gin-gonic/gin"
)

// ValidateFormRequest 表单提交的原始值
type ValidateFormRequest struct {
	Values map[string]interface{} `json:"values"`
}

type FormHandler struct {
	service *metadataService.FormService
}

func NewFormHandler(service *metadataService.FormService) *FormHandler {
	return &FormHandler{service: service}
}

// GetForm ?id= 为空时渲染新建表单；mode 默认 edit
func (h *FormHandler) GetForm(c *gin.Context) {
	view, err := h.service.Render(c.Request.Context(), c.Param("objectType"), c.Query("id"), c.DefaultQuery("mode", "edit"))
	if err != nil {
		model.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ValidateForm 只做转换和必填校验，不保存
func (h *FormHandler) ValidateForm(c *gin.Context) {
	var req ValidateFormRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Values == nil {
		req.Values = map[string]interface{}{}
	}
	result, err := h.service.Validate(c.Request.Context(), c.Param("objectType"), req.Values)
	if err != nil {
		model.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetTable 列表视图，q 过滤当前页的可见单元格
func (h *FormHandler) GetTable(c *gin.Context) {
	page := model.ParsePagination(c.Query("page"), c.Query("limit"))
	view, err := h.service.Table(c.Request.Context(), c.Param("objectType"), c.Query("q"), page)
	if err != nil {
		model.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
