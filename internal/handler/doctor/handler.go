package doctor

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/healthmate/healthmate-api/internal/geo"
	"github.com/healthmate/healthmate-api/internal/handler"
	"github.com/healthmate/healthmate-api/internal/middleware"
	"github.com/healthmate/healthmate-api/internal/model"
	"github.com/healthmate/healthmate-api/internal/service/directory"
	apperrors "github.com/healthmate/healthmate-api/pkg/errors"
)

type Handler struct {
	service  *directory.Service
	resolver *geo.Resolver
}

func NewHandler(service *directory.Service, resolver *geo.Resolver) *Handler {
	return &Handler{service: service, resolver: resolver}
}

// ListDoctors serves the directory search. The reference point for distance
// ranking comes from lat/lng query params, or from geocoding the `near`
// place name when coordinates are absent.
func (h *Handler) ListDoctors(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	filter := model.DoctorFilter{
		SearchTerm: c.Query("search"),
	}

	reference, err := h.resolveReference(c)
	if err != nil {
		handler.Error(c, err)
		return
	}
	filter.Reference = reference

	doctors, err := h.service.ListDoctors(c.Request.Context(), userID, filter)
	if err != nil {
		handler.Error(c, err)
		return
	}

	for _, d := range doctors {
		if d.DistanceKm != nil {
			rounded := geo.RoundKm(*d.DistanceKm)
			d.DistanceKm = &rounded
		}
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

func (h *Handler) resolveReference(c *gin.Context) (*model.Coordinate, error) {
	latRaw := c.Query("lat")
	lngRaw := c.Query("lng")

	if latRaw != "" && lngRaw != "" {
		lat, err := strconv.ParseFloat(latRaw, 64)
		if err != nil {
			return nil, invalidParam("lat")
		}
		lng, err := strconv.ParseFloat(lngRaw, 64)
		if err != nil {
			return nil, invalidParam("lng")
		}
		return &model.Coordinate{Latitude: lat, Longitude: lng}, nil
	}

	if near := c.Query("near"); near != "" {
		coord, err := h.resolver.ResolveByName(c.Request.Context(), near)
		if err != nil {
			return nil, err
		}
		return &coord, nil
	}

	return nil, nil
}

func invalidParam(name string) error {
	return apperrors.Validation("invalid "+name+" parameter", nil)
}
