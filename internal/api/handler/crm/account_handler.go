package crm

import (
	"net/http"

	"github.com/fisker/crm-backend/internal/model"
	crmService "github.com/fisker/crm-backend/internal/service/crm"
	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	service *crmService.AccountService
}

func NewAccountHandler(service *crmService.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// ListAccounts 分页查询，支持 industry、country 过滤
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	filter := model.AccountFilter{
		Industry: c.Query("industry"),
		Country:  c.Query("country"),
	}
	resp, err := h.service.List(c.Request.Context(), filter, pagination(c))
	if err != nil {
		model.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	account, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		model.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var input model.AccountInput
	if !bindJSON(c, &input) {
		return
	}
	account, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		model.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	var input model.AccountInput
	if !bindJSON(c, &input) {
		return
	}
	account, err := h.service.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		model.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// DeleteAccount 删除客户，关联联系人的 accountId 置空
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		model.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.SuccessResponse{Success: true})
}

// GetDistinctValues 过滤下拉框的候选值
func (h *AccountHandler) GetDistinctValues(c *gin.Context) {
	values, err := h.service.DistinctValues(c.Request.Context())
	if err != nil {
		model.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, values)
}
