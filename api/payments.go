package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/securespot/internal/service/reservation"
)

type PaymentHandler struct {
	service reservation.ReservationUseCase
}

func NewPaymentHandler(service reservation.ReservationUseCase) *PaymentHandler {
	return &PaymentHandler{service: service}
}

type paymentSetupRequest struct {
	ReservationID int64  `json:"reservation_id"`
	Email         string `json:"email"`
}

func (h *PaymentHandler) Register(router *gin.RouterGroup) {
	router.POST("/setup", h.setup)
	router.POST("/confirm", h.confirm)
}

func (h *PaymentHandler) setup(c *gin.Context) {
	var req paymentSetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	intent, err := h.service.CreatePaymentSetup(c.Request.Context(), req.ReservationID, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"client_secret": intent.ClientSecret})
}

func (h *PaymentHandler) confirm(c *gin.Context) {
	var req paymentSetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.ConfirmPaymentSetup(c.Request.Context(), req.ReservationID, req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "confirmed"})
}
