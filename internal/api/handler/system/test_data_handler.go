package system

import (
	"errors"
	"net/http"

	"github.com/fisker/crm-backend/internal/model"
	testDataService "github.com/fisker/crm-backend/internal/service/testdata"
	"github.com/gin-gonic/gin"
)

type TestDataHandler struct {
	generator *testDataService.Generator
}

func NewTestDataHandler(generator *testDataService.Generator) *TestDataHandler {
	return &TestDataHandler{generator: generator}
}

// GenerateTestData 同步执行，大数据量时请求会持续较长时间
func (h *TestDataHandler) GenerateTestData(c *gin.Context) {
	var req model.GenerateTestDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, model.BindJSONError(err))
		return
	}

	resp, err := h.generator.Generate(c.Request.Context(), req)
	if err != nil {
		var partial *testDataService.PartialError
		if errors.As(err, &partial) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to generate test data",
				"details": partial.Err.Error(),
				"stats":   partial.Stats,
			})
			return
		}
		model.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TestDataHandler) WipeTestData(c *gin.Context) {
	var req model.WipeTestDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, model.BindJSONError(err))
		return
	}

	resp, err := h.generator.Wipe(c.Request.Context(), req)
	if err != nil {
		model.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
