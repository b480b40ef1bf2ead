package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/fisker/crm-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ErrorResponse 错误响应，error 为字符串或 ValidationError
type ErrorResponse struct {
	Error interface{} `json:"error"`
}

// SuccessResponse 删除等操作的成功响应
type SuccessResponse struct {
	Success bool `json:"success"`
}

// PaginatedResponse 分页响应
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"totalPages"`
}

// NewPaginatedResponse totalPages = ceil(total/limit)
func NewPaginatedResponse(data interface{}, total int64, page, limit int) PaginatedResponse {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return PaginatedResponse{Data: data, Total: total, Page: page, Limit: limit, TotalPages: totalPages}
}

// SearchBucket 单个实体的搜索结果
type SearchBucket[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
}

// SearchResponse 跨实体搜索结果
type SearchResponse struct {
	Accounts      SearchBucket[Account]                `json:"accounts"`
	Contacts      SearchBucket[ContactWithAccount]     `json:"contacts"`
	Opportunities SearchBucket[OpportunityWithAccount] `json:"opportunities"`
}

// EmptySearchResponse 空查询的结果
func EmptySearchResponse() SearchResponse {
	return SearchResponse{
		Accounts:      SearchBucket[Account]{Data: []Account{}},
		Contacts:      SearchBucket[ContactWithAccount]{Data: []ContactWithAccount{}},
		Opportunities: SearchBucket[OpportunityWithAccount]{Data: []OpportunityWithAccount{}},
	}
}

// DashboardStats 首页统计
type DashboardStats struct {
	Accounts          int64           `json:"accounts"`
	Contacts          int64           `json:"contacts"`
	Opportunities     int64           `json:"opportunities"`
	OpenOpportunities int64           `json:"openOpportunities"`
	PipelineAmount    decimal.Decimal `json:"pipelineAmount"`
	WonAmount         decimal.Decimal `json:"wonAmount"`
}

// TestDataStats 生成/清空统计
type TestDataStats struct {
	Accounts        int64 `json:"accounts"`
	Contacts        int64 `json:"contacts"`
	Opportunities   int64 `json:"opportunities"`
	DurationSeconds int64 `json:"durationSeconds"`
}

// TestDataResponse 生成/清空响应
type TestDataResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Stats   TestDataStats `json:"stats"`
}

// GenerateTestDataRequest 生成测试数据
type GenerateTestDataRequest struct {
	Password      string `json:"password"`
	Accounts      int    `json:"accounts"`
	Contacts      int    `json:"contacts"`
	Opportunities int    `json:"opportunities"`
}

// WipeTestDataRequest 清空测试数据
type WipeTestDataRequest struct {
	Password string `json:"password"`
}

// BindJSONError 把请求体解析错误转换为校验错误
func BindJSONError(err error) *ValidationError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return FieldError(typeErr.Field, fmt.Sprintf("Expected %s, received %s", typeErr.Type.String(), typeErr.Value))
	}
	return FormError(fmt.Sprintf("Invalid request body: %v", err))
}

// HandleError 统一错误处理函数：领域错误映射为对应状态码，其余记录日志并返回 500
func HandleError(c *gin.Context, err error) {
	var validationErr *ValidationError
	var notFoundErr *NotFoundError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: validationErr})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: notFoundErr.Error()})
	case errors.Is(err, ErrInvalidObjectType):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrBuiltInField):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Cannot delete built-in fields"})
	case errors.Is(err, ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid password"})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Test data generation is disabled"})
	case errors.Is(err, ErrBusy):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "A test data job is already running"})
	default:
		logRequestError(c, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

// logRequestError 打印详细的错误日志
func logRequestError(c *gin.Context, err error) {
	fullURL := c.Request.URL.Path
	if c.Request.URL.RawQuery != "" {
		fullURL = fmt.Sprintf("%s?%s", fullURL, c.Request.URL.RawQuery)
	}

	logger.Errorf(
		"Request error: %v\n"+
			"  Request: %s %s\n"+
			"  Client IP: %s\n"+
			"  User-Agent: %s",
		err,
		c.Request.Method,
		fullURL,
		c.ClientIP(),
		c.Request.UserAgent(),
	)
}
