// Package metadata 字段定义、页面布局以及表单/表格渲染接口
package metadata

import (
	"net/http"

	"github.com/fisker/crm-backend/internal/model"
	metadataService "github.com/fisker/crm-backend/internal/service/metadata"
	"github.com/gin-gonic/gin"
)

func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		model.HandleError(c, model.BindJSONError(err))
		return false
	}
	return true
}

type FieldDefinitionHandler struct {
	service *metadataService.SchemaService
}

func NewFieldDefinitionHandler(service *metadataService.SchemaService) *FieldDefinitionHandler {
	return &FieldDefinitionHandler{service: service}
}

// ListFieldDefinitions objectType 为空时返回所有对象的字段
func (h *FieldDefinitionHandler) ListFieldDefinitions(c *gin.Context) {
	fields, err := h.service.ListFields(c.Request.Context(), c.Query("objectType"))
	if err != nil {
		model.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, fields)
}

// GetResolvedFields 内置字段加自定义字段，即表单实际使用的字段列表
func (h *FieldDefinitionHandler) GetResolvedFields(c *gin.Context) {
	fields, err := h.service.ResolvedFields(c.Request.Context(), c.Param("objectType"))
	if err != nil {
		model.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, fields)
}

func (h *FieldDefinitionHandler) CreateFieldDefinition(c *gin.Context) {
	var req model.CreateFieldDefinitionRequest
	if !bindJSON(c, &req) {
		return
	}
	field, err := h.service.CreateField(c.Request.Context(), req)
	if err != nil {
		model.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, field)
}

func (h *FieldDefinitionHandler) UpdateFieldDefinition(c *gin.Context) {
	var req model.UpdateFieldDefinitionRequest
	if !bindJSON(c, &req) {
		return
	}
	field, err := h.service.UpdateField(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		model.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, field)
}

func (h *FieldDefinitionHandler) DeleteFieldDefinition(c *gin.Context) {
	if err := h.service.DeleteField(c.Request.Context(), c.Param("id")); err != nil {
		model.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.SuccessResponse{Success: true})
}
