package outbreak

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/healthmate/healthmate-api/internal/handler"
	"github.com/healthmate/healthmate-api/internal/model"
	"github.com/healthmate/healthmate-api/internal/service/outbreak"
	apperrors "github.com/healthmate/healthmate-api/pkg/errors"
	"github.com/healthmate/healthmate-api/pkg/messaging"
)

type Handler struct {
	service *outbreak.Service
	broker  messaging.Broker
}

func NewHandler(service *outbreak.Service, broker messaging.Broker) *Handler {
	return &Handler{service: service, broker: broker}
}

func (h *Handler) ListOutbreaks(c *gin.Context) {
	reference, err := parseReference(c)
	if err != nil {
		handler.Error(c, err)
		return
	}

	outbreaks, err := h.service.ListActive(c.Request.Context(), reference)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(outbreaks))
}

func (h *Handler) ReportOutbreak(c *gin.Context) {
	var req model.ReportOutbreakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	record := &model.DiseaseOutbreak{
		DiseaseName: req.DiseaseName,
		Location:    req.Location,
		Severity:    req.Severity,
		Description: req.Description,
		Precautions: req.Precautions,
		Source:      req.Source,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		ReportedAt:  time.Now(),
	}
	if err := h.service.Report(c.Request.Context(), record); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(record))
}

// StreamAlerts serves realtime outbreak alerts over server-sent events. The
// connection stays open until the client disconnects.
func (h *Handler) StreamAlerts(c *gin.Context) {
	messages, err := h.broker.Subscribe(c.Request.Context(), outbreak.AlertChannel)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case payload, ok := <-messages:
			if !ok {
				return false
			}
			var alert model.OutbreakAlert
			if err := json.Unmarshal(payload, &alert); err != nil {
				log.Warn().Err(err).Msg("discarding malformed outbreak alert")
				return true
			}
			c.SSEvent("outbreak", alert)
			return true
		case <-heartbeat.C:
			c.SSEvent("heartbeat", time.Now().Unix())
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func parseReference(c *gin.Context) (*model.Coordinate, error) {
	latRaw := c.Query("lat")
	lngRaw := c.Query("lng")
	if latRaw == "" || lngRaw == "" {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return nil, apperrors.Validation("invalid lat parameter", nil)
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return nil, apperrors.Validation("invalid lng parameter", nil)
	}
	return &model.Coordinate{Latitude: lat, Longitude: lng}, nil
}
