package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/urbanpros/booking-backend/internal/http/response"
	"github.com/urbanpros/booking-backend/internal/services"
)

type RegistrationHandler struct {
	reg services.RegistrationService
}

func NewRegistrationHandler(reg services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{reg: reg}
}

func (rh *RegistrationHandler) RequestOTP(c *gin.Context) {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := rh.reg.RequestOTP(c.Request.Context(), req.Phone); err != nil {
		response.RespondEngineError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (rh *RegistrationHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		Phone string `json:"phone"`
		Code  string `json:"code"`
		Name  string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	token, customer, err := rh.reg.VerifyOTP(c.Request.Context(), req.Phone, req.Code, req.Name)
	if err != nil {
		response.RespondEngineError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"token": token,
		"customer": gin.H{
			"id":           customer.ID.String(),
			"phone":        customer.Phone,
			"display_name": customer.DisplayName,
			"verified":     customer.Verified,
		},
	})
}
