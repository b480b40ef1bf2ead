package crm

import (
	"net/http"

	"github.com/fisker/crm-backend/internal/model"
	crmService "github.com/fisker/crm-backend/internal/service/crm"
	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	service *crmService.ContactService
}

func NewContactHandler(service *crmService.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

func (h *ContactHandler) ListContacts(c *gin.Context) {
	filter := model.ContactFilter{AccountID: c.Query("accountId")}
	resp, err := h.service.List(c.Request.Context(), filter, pagination(c))
	if err != nil {
		model.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ContactHandler) GetContact(c *gin.Context) {
	contact, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		model.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) CreateContact(c *gin.Context) {
	var input model.ContactInput
	if !bindJSON(c, &input) {
		return
	}
	contact, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		model.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

func (h *ContactHandler) UpdateContact(c *gin.Context) {
	var input model.ContactInput
	if !bindJSON(c, &input) {
		return
	}
	contact, err := h.service.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		model.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) DeleteContact(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		model.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.SuccessResponse{Success: true})
}
