// Package crm 客户、联系人、商机、搜索和首页统计接口
package crm

import (
	"github.com/fisker/crm-backend/internal/model"
	"github.com/gin-gonic/gin"
)

func pagination(c *gin.Context) model.Pagination {
	return model.ParsePagination(c.Query("page"), c.Query("limit"))
}

// bindJSON 解析请求体，失败时直接写 400 响应
func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		model.HandleError(c, model.BindJSONError(err))
		return false
	}
	return true
}
