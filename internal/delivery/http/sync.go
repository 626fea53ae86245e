package http

import (
	"context"
	"net/http"

	"flowsync/internal/dto"
	"flowsync/pkg/utils"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupSync(base *echo.Group) {
	v1 := base.Group("/v1/sync")
	{
		v1.POST("/executions", h.TriggerExecutionSync)
		v1.POST("/tables", h.RunTableSync)
	}
}

// TriggerExecutionSync kicks off a sync pass in the background. The engine's
// own guard and cooldown decide whether the pass actually runs.
func (h *HttpAPIHandler) TriggerExecutionSync(c echo.Context) error {
	utils.GoSafe(func() {
		h.service.ExecutionSyncService.Sync(context.Background())
	})
	return c.JSON(http.StatusAccepted, dto.NewBaseResponse(http.StatusAccepted, "Execution sync triggered", nil))
}

func (h *HttpAPIHandler) RunTableSync(c echo.Context) error {
	count, err := h.service.TableSyncService.Sync(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Table sync completed", map[string]int{"tables_synced": count}))
}
