package delivery

import (
	"errors"
	"net/http"
	"strconv"

	emaildomain "jobtrail-backend/internal/email/domain"
	"jobtrail-backend/internal/email/repository"
	"jobtrail-backend/internal/email/usecase"

	"github.com/gin-gonic/gin"
)

type MonitorHandler struct {
	monitorUsecase usecase.MonitorUsecase
}

func NewMonitorHandler(monitorUsecase usecase.MonitorUsecase) *MonitorHandler {
	return &MonitorHandler{monitorUsecase: monitorUsecase}
}

type startMonitoringRequest struct {
	IntervalMinutes int `json:"interval_minutes"`
}

func (h *MonitorHandler) StartMonitoring(c *gin.Context) {
	userID := c.GetString("userID")

	var req startMonitoringRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := h.monitorUsecase.StartMonitoring(userID, req.IntervalMinutes); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "monitoring started"})
}

func (h *MonitorHandler) StopMonitoring(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.monitorUsecase.StopMonitoring(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "monitoring stopped"})
}

func (h *MonitorHandler) CheckNow(c *gin.Context) {
	userID := c.GetString("userID")

	summary, err := h.monitorUsecase.CheckNow(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAlreadyRunning):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, usecase.ErrNoMailbox):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, emaildomain.ErrMailboxUnavailable):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *MonitorHandler) GetStatus(c *gin.Context) {
	userID := c.GetString("userID")

	state, err := h.monitorUsecase.GetMonitoringStatus(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, state)
}

func (h *MonitorHandler) ListEmailEvents(c *gin.Context) {
	userID := c.GetString("userID")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filters := repository.EventFilters{
		Type:        c.Query("type"),
		JobID:       c.Query("job_id"),
		MatchedOnly: c.Query("matched") == "true",
		Query:       c.Query("q"),
	}

	events, total, err := h.monitorUsecase.ListEmailEvents(userID, filters, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *MonitorHandler) DeleteEmailEvent(c *gin.Context) {
	userID := c.GetString("userID")
	eventID := c.Param("id")

	if err := h.monitorUsecase.DeleteEmailEvent(userID, eventID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "event deleted"})
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

func (h *MonitorHandler) BulkDeleteEmailEvents(c *gin.Context) {
	userID := c.GetString("userID")

	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deleted, err := h.monitorUsecase.BulkDeleteEmailEvents(userID, req.IDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func (h *MonitorHandler) ReloadRules(c *gin.Context) {
	if err := h.monitorUsecase.ReloadClassifierRules(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "classifier rules reloaded"})
}
