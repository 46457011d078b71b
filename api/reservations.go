package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/securespot/internal/apperrors"
	"github.com/zvrva/securespot/internal/domain"
	"github.com/zvrva/securespot/internal/fee"
	"github.com/zvrva/securespot/internal/service/reservation"
)

type ReservationHandler struct {
	service reservation.ReservationUseCase
}

func NewReservationHandler(service reservation.ReservationUseCase) *ReservationHandler {
	return &ReservationHandler{service: service}
}

type createReservationRequest struct {
	ReservationLength int `json:"reservation_length"`
}

type createGuestReservationRequest struct {
	Email             string `json:"email"`
	ReservationLength int    `json:"reservation_length"`
}

type amendReservationRequest struct {
	EndTime time.Time `json:"end_time"`
}

type reservationResponse struct {
	ID            int64  `json:"id"`
	UserID        *int64 `json:"user_id,omitempty"`
	Email         string `json:"email"`
	ParkingSpotID int64  `json:"parking_spot_id"`
	Rate          string `json:"rate"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Paid          bool   `json:"paid"`
}

func toReservationResponse(r *domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:            r.ID,
		UserID:        r.UserID,
		Email:         r.Email,
		ParkingSpotID: r.ParkingSpotID,
		Rate:          fee.FormatCents(r.RateCents),
		StartTime:     r.StartTime.Format(time.RFC3339),
		EndTime:       r.EndTime.Format(time.RFC3339),
		Paid:          r.Paid,
	}
}

func toReservationResponses(reservations []domain.Reservation) []reservationResponse {
	out := make([]reservationResponse, 0, len(reservations))
	for i := range reservations {
		out = append(out, toReservationResponse(&reservations[i]))
	}
	return out
}

// RegisterAuth mounts the endpoints that require a signed-in user.
func (h *ReservationHandler) RegisterAuth(router *gin.RouterGroup) {
	router.POST("/spot/:spotID", h.create)
	router.GET("/", h.listActive)
	router.GET("/expired", h.listSettled)
	router.PATCH("/:id", h.amend)
	router.DELETE("/:id", h.cancel)
}

// RegisterGuest mounts the guest endpoints, which identify the owner by the
// (reservation id, email) pair on every call.
func (h *ReservationHandler) RegisterGuest(router *gin.RouterGroup) {
	router.POST("/spot/:spotID", h.createGuest)
	router.GET("/:id/:email", h.getGuest)
	router.PATCH("/:id/:email", h.amendGuest)
	router.DELETE("/:id/:email", h.cancelGuest)
}

func (h *ReservationHandler) create(c *gin.Context) {
	spotID, ok := pathID(c, "spotID")
	if !ok {
		return
	}

	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)
	res, err := h.service.Create(c.Request.Context(), reservation.CreateReservationInput{
		ParkingSpotID:   spotID,
		Requester:       domain.Account{UserID: user.ID, Email: user.Email},
		DurationMinutes: req.ReservationLength,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toReservationResponse(res))
}

func (h *ReservationHandler) createGuest(c *gin.Context) {
	spotID, ok := pathID(c, "spotID")
	if !ok {
		return
	}

	var req createGuestReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Email == "" {
		respondError(c, apperrors.NewValidation("email", "is required"))
		return
	}

	res, err := h.service.Create(c.Request.Context(), reservation.CreateReservationInput{
		ParkingSpotID:   spotID,
		Requester:       domain.Guest{Email: req.Email},
		DurationMinutes: req.ReservationLength,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toReservationResponse(res))
}

func (h *ReservationHandler) getGuest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	res, err := h.service.Get(c.Request.Context(), id, domain.Guest{Email: c.Param("email")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(res))
}

func (h *ReservationHandler) listActive(c *gin.Context) {
	user := currentUser(c)
	reservations, err := h.service.ListActive(c.Request.Context(), domain.Account{UserID: user.ID, Email: user.Email})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReservationResponses(reservations))
}

func (h *ReservationHandler) listSettled(c *gin.Context) {
	user := currentUser(c)
	reservations, err := h.service.ListSettled(c.Request.Context(), domain.Account{UserID: user.ID, Email: user.Email})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReservationResponses(reservations))
}

func (h *ReservationHandler) amend(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req amendReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)
	res, err := h.service.Amend(c.Request.Context(), id, domain.Account{UserID: user.ID, Email: user.Email}, req.EndTime)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(res))
}

func (h *ReservationHandler) amendGuest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req amendReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.service.Amend(c.Request.Context(), id, domain.Guest{Email: c.Param("email")}, req.EndTime)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(res))
}

func (h *ReservationHandler) cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user := currentUser(c)
	if err := h.service.Cancel(c.Request.Context(), id, domain.Account{UserID: user.ID, Email: user.Email}); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ReservationHandler) cancelGuest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Cancel(c.Request.Context(), id, domain.Guest{Email: c.Param("email")}); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
