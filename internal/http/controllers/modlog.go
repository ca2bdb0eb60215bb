package controllers

import (
	"net/http"

	httperrors "github.com/dropDatabas3/aegis/internal/http/errors"
	"github.com/dropDatabas3/aegis/internal/http/dto"
	"github.com/dropDatabas3/aegis/internal/http/helpers"
	"github.com/dropDatabas3/aegis/internal/moderation"
)

// LogController maneja las rutas del moderation log.
type LogController struct {
	log *moderation.Log
}

// NewLogController crea el controller del moderation log.
func NewLogController(log *moderation.Log) *LogController {
	return &LogController{log: log}
}

// Query maneja GET /v1/moderation-log
// El scope del query viene por community_id / hub_id / space_id; sin
// ninguno, la consulta es global (todo el log).
func (c *LogController) Query(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sc, err := scopeFromQuery(r)
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidScope.WithCause(err))
		return
	}

	page, err := c.log.Query(ctx, sc,
		helpers.QueryInt(r, "offset", 0), helpers.QueryInt(r, "page_size", 0))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	items := make([]dto.LogEntryResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, dto.NewLogEntryResponse(&page.Items[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, dto.LogPageResponse{
		Items:    items,
		Offset:   page.Offset,
		PageSize: page.PageSize,
	})
}
