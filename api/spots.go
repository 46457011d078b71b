package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/securespot/internal/apperrors"
	"github.com/zvrva/securespot/internal/domain"
	"github.com/zvrva/securespot/internal/fee"
	"github.com/zvrva/securespot/internal/geo"
	"github.com/zvrva/securespot/internal/service/spots"
)

type SpotHandler struct {
	service spots.SpotUseCase
}

func NewSpotHandler(service spots.SpotUseCase) *SpotHandler {
	return &SpotHandler{service: service}
}

type spotResponse struct {
	ID     int64   `json:"id"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Rate   string  `json:"rate"`
	Status string  `json:"status"`
}

func toSpotResponses(list []domain.ParkingSpot) []spotResponse {
	out := make([]spotResponse, 0, len(list))
	for i := range list {
		s := &list[i]
		out = append(out, spotResponse{
			ID:     s.ID,
			Lat:    s.Lat,
			Lng:    s.Lng,
			Rate:   fee.FormatCents(s.RateCents),
			Status: s.Status(),
		})
	}
	return out
}

func (h *SpotHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/filter", h.filter)
}

func (h *SpotHandler) list(c *gin.Context) {
	available, err := h.service.ListAvailable(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSpotResponses(available))
}

func (h *SpotHandler) filter(c *gin.Context) {
	lat, ok := queryFloat(c, "lat")
	if !ok {
		return
	}
	lng, ok := queryFloat(c, "lng")
	if !ok {
		return
	}
	dist, ok := queryFloat(c, "dist")
	if !ok {
		return
	}
	unit, err := geo.ParseUnit(c.Query("unit"))
	if err != nil {
		respondError(c, apperrors.NewValidation("unit", "must be km or miles"))
		return
	}

	within, err := h.service.ListAvailableWithin(c.Request.Context(), lat, lng, dist, unit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSpotResponses(within))
}

func queryFloat(c *gin.Context, name string) (float64, bool) {
	value, err := strconv.ParseFloat(c.Query(name), 64)
	if err != nil {
		respondError(c, apperrors.NewValidation(name, "must be a number"))
		return 0, false
	}
	return value, true
}
