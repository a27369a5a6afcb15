package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/urbanpros/booking-backend/internal/http/response"
	"github.com/urbanpros/booking-backend/internal/services"
)

type AdminHandler struct {
	consolidator services.Consolidator
}

func NewAdminHandler(consolidator services.Consolidator) *AdminHandler {
	return &AdminHandler{consolidator: consolidator}
}

// Consolidate triggers a synchronous merge run and returns the full report.
// The run is restart-safe, so an impatient repeat click is harmless.
func (ad *AdminHandler) Consolidate(c *gin.Context) {
	report, err := ad.consolidator.Run(c.Request.Context())
	if err != nil {
		response.RespondEngineError(c, err)
		return
	}
	response.RespondOK(c, report)
}
