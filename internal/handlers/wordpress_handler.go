package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/onegreenvn/keyword-article-proxy/internal/models"
	"github.com/onegreenvn/keyword-article-proxy/internal/services/wordpress"
	"github.com/sirupsen/logrus"
)

type WordPressHandler struct {
	client *wordpress.Client
}

func NewWordPressHandler(client *wordpress.Client) *WordPressHandler {
	return &WordPressHandler{client: client}
}

// PostToWordPress godoc
// @Summary Publish an article to WordPress
// @Description Converts Markdown content to HTML and creates a post through the WordPress REST API
// @Tags wordpress
// @Accept json
// @Produce json
// @Param request body models.PostToWordPressRequest true "Post"
// @Success 201 {object} models.PostToWordPressResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/post-to-wordpress [post]
func (h *WordPressHandler) PostToWordPress(c *gin.Context) {
	var req models.PostToWordPressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	logrus.WithFields(logrus.Fields{
		"title":   req.Title,
		"siteurl": req.SiteURL,
		"status":  req.Status,
	}).Info("Posting article to WordPress")

	data, err := h.client.CreatePost(c.Request.Context(),
		wordpress.Credentials{
			Username:            req.WordpressUsername,
			ApplicationPassword: req.ApplicationPassword,
			SiteURL:             req.SiteURL,
		},
		wordpress.Post{
			Title:   req.Title,
			Content: req.Content,
			Status:  req.Status,
		},
	)
	if err != nil {
		logrus.Errorf("Failed to post to WordPress: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post to WordPress"})
		return
	}

	c.JSON(http.StatusCreated, models.PostToWordPressResponse{
		Message: "Post created successfully",
		Data:    data,
	})
}
