package router

import (
	"net/http"

	"github.com/fisker/crm-backend/internal/api/handler"
	"github.com/fisker/crm-backend/internal/api/middleware"
	"github.com/fisker/crm-backend/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Setup(
	accountHandler *handler.AccountHandler,
	contactHandler *handler.ContactHandler,
	opportunityHandler *handler.OpportunityHandler,
	searchHandler *handler.SearchHandler,
	dashboardHandler *handler.DashboardHandler,
	fieldDefinitionHandler *handler.FieldDefinitionHandler,
	pageLayoutHandler *handler.PageLayoutHandler,
	formHandler *handler.FormHandler,
	healthHandler *handler.HealthHandler,
	testDataHandler *handler.TestDataHandler,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	// 使用自定义的 recovery 中间件（打印详细错误信息）
	r.Use(middleware.RecoveryMiddleware())
	// 访问日志 + Prometheus 请求指标
	r.Use(middleware.AccessLogMiddleware())
	r.Use(middleware.CORS(allowedOrigins...))

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.Health)
		api.GET("/ready", healthHandler.Ready)

		// 客户
		accounts := api.Group("/accounts")
		{
			accounts.GET("", accountHandler.ListAccounts)
			accounts.GET("/distinct-values", accountHandler.GetDistinctValues) // 过滤下拉框
			accounts.GET("/:id", accountHandler.GetAccount)
			accounts.POST("", accountHandler.CreateAccount)
			accounts.PUT("/:id", accountHandler.UpdateAccount)
			accounts.DELETE("/:id", accountHandler.DeleteAccount)
		}

		// 联系人
		contacts := api.Group("/contacts")
		{
			contacts.GET("", contactHandler.ListContacts)
			contacts.GET("/:id", contactHandler.GetContact)
			contacts.POST("", contactHandler.CreateContact)
			contacts.PUT("/:id", contactHandler.UpdateContact)
			contacts.DELETE("/:id", contactHandler.DeleteContact)
		}

		// 商机
		opportunities := api.Group("/opportunities")
		{
			opportunities.GET("", opportunityHandler.ListOpportunities)
			opportunities.GET("/:id", opportunityHandler.GetOpportunity)
			opportunities.POST("", opportunityHandler.CreateOpportunity)
			opportunities.PUT("/:id", opportunityHandler.UpdateOpportunity)
			opportunities.DELETE("/:id", opportunityHandler.DeleteOpportunity)
		}

		api.GET("/search", searchHandler.Search)
		api.GET("/dashboard/stats", dashboardHandler.GetStats)

		// 字段定义
		fields := api.Group("/field-definitions")
		{
			fields.GET("", fieldDefinitionHandler.ListFieldDefinitions)
			fields.GET("/resolved/:objectType", fieldDefinitionHandler.GetResolvedFields)
			fields.POST("", fieldDefinitionHandler.CreateFieldDefinition)
			fields.PUT("/:id", fieldDefinitionHandler.UpdateFieldDefinition)
			fields.DELETE("/:id", fieldDefinitionHandler.DeleteFieldDefinition)
		}

		// 页面布局
		layouts := api.Group("/page-layouts")
		{
			layouts.GET("", pageLayoutHandler.FindPageLayout)
			layouts.GET("/:objectType", pageLayoutHandler.GetPageLayout)
			layouts.PUT("/:objectType", pageLayoutHandler.UpsertPageLayout)
		}

		// 表单与列表视图
		api.GET("/forms/:objectType", formHandler.GetForm)
		api.POST("/forms/:objectType/validate", formHandler.ValidateForm)
		api.GET("/tables/:objectType", formHandler.GetTable)

		// 测试数据（口令保护）
		testData := api.Group("/test-data")
		{
			testData.POST("/generate", testDataHandler.GenerateTestData)
			testData.DELETE("/all", testDataHandler.WipeTestData)
		}
	}

	// Prometheus Metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check (支持 GET 和 HEAD 方法)
	r.GET("/health", healthHandler.Health)
	r.HEAD("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "Not found"})
	})

	return r
}
