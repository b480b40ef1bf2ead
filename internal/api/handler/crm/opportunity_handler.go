package crm

import (
	"net/http"
	"strings"

	"github.com/fisker/crm-backend/internal/model"
	crmService "github.com/fisker/crm-backend/internal/service/crm"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

var closeDateRanges = []string{
	string(model.CloseDateThisWeek),
	string(model.CloseDateThisMonth),
	string(model.CloseDateThisQuarter),
	string(model.CloseDateThisYear),
	string(model.CloseDateOverdue),
}

type OpportunityHandler struct {
	service *crmService.OpportunityService
}

func NewOpportunityHandler(service *crmService.OpportunityService) *OpportunityHandler {
	return &OpportunityHandler{service: service}
}

// parseOpportunityFilter 金额为闭区间；未知的日期区间返回 400
func parseOpportunityFilter(c *gin.Context) (model.OpportunityFilter, error) {
	filter := model.OpportunityFilter{
		AccountID: c.Query("accountId"),
		Stage:     c.Query("stage"),
	}
	verr := model.NewValidationError()
	for _, bound := range []struct {
		param string
		dest  **decimal.Decimal
	}{
		{"amountMin", &filter.AmountMin},
		{"amountMax", &filter.AmountMax},
	} {
		raw := strings.TrimSpace(c.Query(bound.param))
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			verr.Add(bound.param, "Must be a number")
			continue
		}
		*bound.dest = &d
	}
	if r := c.Query("closeDateRange"); r != "" {
		filter.CloseDateRange = model.CloseDateRange(r)
		if !filter.CloseDateRange.Valid() {
			verr.Add("closeDateRange", "Must be one of: "+strings.Join(closeDateRanges, ", "))
		}
	}
	return filter, verr.OrNil()
}

func (h *OpportunityHandler) ListOpportunities(c *gin.Context) {
	filter, err := parseOpportunityFilter(c)
	if err != nil {
		model.HandleError(c, err)
		return
	}
	resp, err := h.service.List(c.Request.Context(), filter, pagination(c))
	if err != nil {
		model.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OpportunityHandler) GetOpportunity(c *gin.Context) {
	opp, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		model.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, opp)
}

func (h *OpportunityHandler) CreateOpportunity(c *gin.Context) {
	var input model.OpportunityInput
	if !bindJSON(c, &input) {
		return
	}
	opp, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		model.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, opp)
}

func (h *OpportunityHandler) UpdateOpportunity(c *gin.Context) {
	var input model.OpportunityInput
	if !bindJSON(c, &input) {
		return
	}
	opp, err := h.service.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		model.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, opp)
}

func (h *OpportunityHandler) DeleteOpportunity(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		model.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.SuccessResponse{Success: true})
}
