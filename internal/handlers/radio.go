package handlers

import (
	"errors"
	"net/http"

	"cardputer_radio/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK       = "ok"
	statusDegraded = "degraded"
	statusStarted  = "started"
	statusStopped  = "stopped"
	statusJoined   = "joined"
	statusLeft     = "left"

	errRadioFailed     = "radio command failed"
	errGetStatus       = "failed to load status"
	errLoopUnavailable = "radio loop is not running"
	errInvalidBodyPref = "invalid body: "
)

// SSIDRequest is the body of fake AP and portal start calls.
type SSIDRequest struct {
	// Network name, 1-32 bytes after trimming.
	SSID string `json:"ssid" binding:"required" example:"Free WiFi"`
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// radioError maps service errors to HTTP codes.
func (h *Handler) radioError(c *gin.Context, logKey string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidSSID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotConnected), errors.Is(err, service.ErrRadioBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrJoinFailed):
		h.logAndJSONError(c, http.StatusBadGateway, err.Error(), logKey, err)
	case errors.Is(err, service.ErrNoStation):
		c.JSON(http.StatusNotImplemented, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrLoopStopped):
		h.logAndJSONError(c, http.StatusServiceUnavailable, errLoopUnavailable, logKey, err)
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errRadioFailed, logKey, err)
	}
}

// Respond with a status and include the current snapshot if available (best-effort).
func (h *Handler) respondWithStatusAndState(c *gin.Context, status string) {
	resp := gin.H{"status": status}
	if st, err := h.services.Monitoring.GetStatus(c.Request.Context()); err == nil {
		resp["state"] = st
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) bindSSID(c *gin.Context) (string, bool) {
	var req SSIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return "", false
	}
	return req.SSID, true
}

// @Summary      Health check
// @Description  Reports "degraded" once the radio loop has stopped.
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	resp := gin.H{"status": statusOK}
	if h.services.Monitoring != nil {
		active, err := h.services.Monitoring.IsAnyRunning(c.Request.Context())
		if err != nil {
			resp["status"] = statusDegraded
		} else {
			resp["radio_active"] = active
		}
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Radio status
// @Tags         radio
// @Produce      json
// @Success      200  {object}  models.ServiceStatus
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/radio/status [get]
// @Security     BearerAuth
func (h *Handler) getStatus(c *gin.Context) {
	st, err := h.services.Monitoring.GetStatus(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrLoopStopped) {
			h.logAndJSONError(c, http.StatusServiceUnavailable, errLoopUnavailable, "radio_get_status_failed", err)
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errGetStatus, "radio_get_status_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Start fake AP
// @Description  Advertises an open network with no services behind it.
// @Tags         radio
// @Accept       json
// @Produce      json
// @Param        body  body   SSIDRequest  true  "SSID payload"
// @Success      200   {object}  map[string]interface{}  "status, state"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/radio/fake-ap/start [post]
// @Security     BearerAuth
func (h *Handler) startFakeAP(c *gin.Context) {
	ssid, ok := h.bindSSID(c)
	if !ok {
		return
	}
	if err := h.services.Radio.StartFakeAP(c.Request.Context(), ssid); err != nil {
		h.radioError(c, "fake_ap_start_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusStarted)
}

// @Summary      Stop fake AP
// @Tags         radio
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/radio/fake-ap/stop [post]
// @Security     BearerAuth
func (h *Handler) stopFakeAP(c *gin.Context) {
	if err := h.services.Radio.StopFakeAP(c.Request.Context()); err != nil {
		h.radioError(c, "fake_ap_stop_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusStopped)
}

// @Summary      Start captive portal
// @Tags         radio
// @Accept       json
// @Produce      json
// @Param        body  body   SSIDRequest  true  "SSID payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/radio/portal/start [post]
// @Security     BearerAuth
func (h *Handler) startPortal(c *gin.Context) {
	ssid, ok := h.bindSSID(c)
	if !ok {
		return
	}
	if err := h.services.Radio.StartPortal(c.Request.Context(), ssid); err != nil {
		h.radioError(c, "portal_start_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusStarted)
}

// @Summary      Stop captive portal
// @Tags         radio
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/radio/portal/stop [post]
// @Security     BearerAuth
func (h *Handler) stopPortal(c *gin.Context) {
	if err := h.services.Radio.StopPortal(c.Request.Context()); err != nil {
		h.radioError(c, "portal_stop_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusStopped)
}

// @Summary      Start transfer server
// @Description  Requires the radio to be joined to a network in station mode.
// @Tags         radio
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/radio/transfer/start [post]
// @Security     BearerAuth
func (h *Handler) startTransfer(c *gin.Context) {
	if err := h.services.Radio.StartTransfer(c.Request.Context()); err != nil {
		h.radioError(c, "transfer_start_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusStarted)
}

// @Summary      Stop transfer server
// @Tags         radio
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/radio/transfer/stop [post]
// @Security     BearerAuth
func (h *Handler) stopTransfer(c *gin.Context) {
	if err := h.services.Radio.StopTransfer(c.Request.Context()); err != nil {
		h.radioError(c, "transfer_stop_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusStopped)
}

// @Summary      Transfer counters
// @Tags         radio
// @Produce      json
// @Success      200  {object}  models.TransferStats
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/radio/transfer/stats [get]
// @Security     BearerAuth
func (h *Handler) transferStats(c *gin.Context) {
	if h.services.FileStats == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, h.services.FileStats.Stats())
}

// @Summary      Stop every mode
// @Tags         radio
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/radio/stop-all [post]
// @Security     BearerAuth
func (h *Handler) stopAll(c *gin.Context) {
	if err := h.services.Radio.StopAll(c.Request.Context()); err != nil {
		h.radioError(c, "stop_all_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusStopped)
}

// @Summary      Join upstream network
// @Description  Puts the radio in station mode so the transfer server can start.
// @Description  Refused while fake AP or portal hold the radio.
// @Tags         radio
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/radio/station/join [post]
// @Security     BearerAuth
func (h *Handler) joinStation(c *gin.Context) {
	if err := h.services.Radio.JoinNetwork(c.Request.Context()); err != nil {
		h.radioError(c, "station_join_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusJoined)
}

// @Summary      Leave upstream network
// @Description  Stops the transfer server and powers the radio off.
// @Tags         radio
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/radio/station/leave [post]
// @Security     BearerAuth
func (h *Handler) leaveStation(c *gin.Context) {
	if err := h.services.Radio.LeaveNetwork(c.Request.Context()); err != nil {
		h.radioError(c, "station_leave_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusLeft)
}
