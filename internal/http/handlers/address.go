package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/urbanpros/booking-backend/internal/domain"
	"github.com/urbanpros/booking-backend/internal/http/response"
	"github.com/urbanpros/booking-backend/internal/services"
)

type AddressHandler struct {
	addresses services.AddressService
}

func NewAddressHandler(addresses services.AddressService) *AddressHandler {
	return &AddressHandler{addresses: addresses}
}

func (ah *AddressHandler) Create(c *gin.Context) {
	var req struct {
		Customer string `json:"customer"`
		Name     string `json:"name"`
		Line1    string `json:"line1"`
		Line2    string `json:"line2"`
		City     string `json:"city"`
		Pincode  string `json:"pincode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	a, err := ah.addresses.Create(c.Request.Context(),
		requesterToken(c, req.Customer),
		services.ResolveSeed{Name: req.Name},
		&types.Address{
			Line1:   req.Line1,
			Line2:   req.Line2,
			City:    req.City,
			Pincode: req.Pincode,
		})
	if err != nil {
		response.RespondEngineError(c, err)
		return
	}
	response.RespondOK(c, a)
}

func (ah *AddressHandler) List(c *gin.Context) {
	out, err := ah.addresses.ListForToken(c.Request.Context(), requesterToken(c, c.Query("customer")))
	if err != nil {
		response.RespondEngineError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"addresses": out})
}
