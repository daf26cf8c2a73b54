package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Export downloads a rendered summary.
func (h *Handler) Export(c *gin.Context) {
	userID, id, ok := h.ownedRecord(c)
	if !ok {
		return
	}
	payload, err := h.exportSvc.Export(c.Request.Context(), userID, id, c.Query("format"))
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", payload.Filename))
	c.Data(http.StatusOK, payload.ContentType, payload.Data)
}

// ExportFormats lists the supported export formats.
func (h *Handler) ExportFormats(c *gin.Context) {
	c.JSON(http.StatusOK, h.exportSvc.Formats())
}
