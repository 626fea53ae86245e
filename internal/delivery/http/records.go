package http

import (
	"net/http"

	"flowsync/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupRecords(base *echo.Group) {
	v1 := base.Group("/v1/records")
	{
		v1.GET("/search", h.SearchRecords)
		v1.DELETE("/:tableId/:recordId", h.DeleteRecord)
	}
}

type searchRecordsRequest struct {
	Query string `query:"q" validate:"required"`
}

func (h *HttpAPIHandler) SearchRecords(c echo.Context) error {
	var req searchRecordsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	groups, err := h.service.RecordSearchService.Search(c.Request().Context(), req.Query)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Search results", groups))
}

func (h *HttpAPIHandler) DeleteRecord(c echo.Context) error {
	tableID := c.Param("tableId")
	recordID := c.Param("recordId")

	if err := h.service.RecordSearchService.DeleteRecord(c.Request().Context(), tableID, recordID); err != nil {
		return c.JSON(http.StatusBadGateway, dto.NewBaseResponse(http.StatusBadGateway, err.Error(), nil))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Record deleted", nil))
}
