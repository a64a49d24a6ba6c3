package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/onegreenvn/keyword-article-proxy/internal/models"
	"github.com/onegreenvn/keyword-article-proxy/internal/services"
	"github.com/onegreenvn/keyword-article-proxy/internal/services/settings"
	"github.com/sirupsen/logrus"
)

type SettingsHandler struct {
	store settings.Store
}

func NewSettingsHandler(store settings.Store) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// GetSettings godoc
// @Summary Get settings
// @Description Return the current prompt, upstream and WordPress settings
// @Tags settings
// @Produce json
// @Success 200 {object} models.Settings
// @Failure 500 {object} map[string]interface{}
// @Router /settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	current, err := h.store.Get(c.Request.Context())
	if err != nil {
		logrus.Errorf("Failed to load settings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, current)
}

// SaveSettings godoc
// @Summary Save settings
// @Description Replace all settings. Missing keys are stored as empty strings.
// @Tags settings
// @Accept json
// @Produce json
// @Param request body models.Settings true "Settings"
// @Success 200 {object} models.SettingsResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /settings [post]
func (h *SettingsHandler) SaveSettings(c *gin.Context) {
	var req models.Settings
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	if err := h.store.Save(c.Request.Context(), req); err != nil {
		logrus.Errorf("%v: %v", services.ErrSettingsPersist, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	logrus.Info("Settings updated")
	c.JSON(http.StatusOK, models.SettingsResponse{Message: "Settings updated successfully"})
}
