package http

import (
	"net/http"

	"flowsync/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupExecutions(base *echo.Group) {
	v1 := base.Group("/v1/executions")
	{
		v1.GET("/:id/timeline", h.GetExecutionTimeline)
		v1.POST("/:id/retry", h.RetryExecution)
		v1.GET("/order/:orderNumber", h.GetExecutionsByOrderNumber)
	}
	base.GET("/v1/workflows", h.ListActiveWorkflows)
}

func (h *HttpAPIHandler) GetExecutionTimeline(c echo.Context) error {
	executionID := c.Param("id")

	timeline, err := h.service.ExecutionService.GetTimeline(c.Request().Context(), executionID)
	if err != nil {
		return c.JSON(http.StatusBadGateway, dto.NewBaseResponse(http.StatusBadGateway, err.Error(), nil))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Execution timeline", timeline))
}

type retryExecutionRequest struct {
	LoadWorkflow bool `json:"load_workflow"`
}

func (h *HttpAPIHandler) RetryExecution(c echo.Context) error {
	executionID := c.Param("id")

	var req retryExecutionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	if err := h.service.ExecutionService.Retry(c.Request().Context(), executionID, req.LoadWorkflow); err != nil {
		return c.JSON(http.StatusBadGateway, dto.NewBaseResponse(http.StatusBadGateway, err.Error(), nil))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Execution retry requested", nil))
}

func (h *HttpAPIHandler) GetExecutionsByOrderNumber(c echo.Context) error {
	orderNumber := c.Param("orderNumber")

	executions, err := h.service.ExecutionService.FindByOrderNumber(c.Request().Context(), orderNumber)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Cached executions", executions))
}

func (h *HttpAPIHandler) ListActiveWorkflows(c echo.Context) error {
	workflows, err := h.service.ExecutionService.ListActiveWorkflows(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusBadGateway, dto.NewBaseResponse(http.StatusBadGateway, err.Error(), nil))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Active workflows", workflows))
}
