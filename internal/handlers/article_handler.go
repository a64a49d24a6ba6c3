package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/onegreenvn/keyword-article-proxy/internal/database/repository"
	"github.com/onegreenvn/keyword-article-proxy/internal/models"
	"github.com/onegreenvn/keyword-article-proxy/internal/services/excel"
	"github.com/onegreenvn/keyword-article-proxy/internal/utils"
	"github.com/sirupsen/logrus"
)

const maxExportRows = 10000

type ArticleHandler struct {
	articles     repository.ArticleRepository
	excelService *excel.Service
}

func NewArticleHandler(articles repository.ArticleRepository, excelService *excel.Service) *ArticleHandler {
	return &ArticleHandler{
		articles:     articles,
		excelService: excelService,
	}
}

// ListArticles godoc
// @Summary List generated articles
// @Description Paginated history of every article relayed to a client, newest first
// @Tags articles
// @Produce json
// @Param page query int false "Page" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/articles [get]
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	page, pageSize := utils.ParsePaginationFromQuery(c.Query("page"), c.Query("page_size"))

	total, err := h.articles.Count()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count articles", "details": err.Error()})
		return
	}

	records, err := h.articles.List(pageSize, utils.CalculateOffset(page, pageSize))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get articles", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles":   records,
		"pagination": utils.CalculatePaginationInfo(int(total), page, pageSize),
	})
}

// ExportArticles godoc
// @Summary Export generated articles to Excel
// @Description Download the article history, optionally limited to one generation call
// @Tags articles
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param generation_id query string false "Generation ID"
// @Success 200 {file} binary "Excel file"
// @Failure 500 {object} map[string]interface{}
// @Router /api/articles/export [get]
func (h *ArticleHandler) ExportArticles(c *gin.Context) {
	var (
		records []*models.ArticleRecord
		err     error
	)
	if generationID := c.Query("generation_id"); generationID != "" {
		records, err = h.articles.ListByGeneration(generationID)
	} else {
		records, err = h.articles.List(maxExportRows, 0)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get articles", "details": err.Error()})
		return
	}

	result, err := h.excelService.ExportArticles(records)
	if err != nil {
		logrus.Errorf("Failed to export articles: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export articles", "details": err.Error()})
		return
	}

	// Set headers for file download
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", result.Filename))
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Cache-Control", "must-revalidate")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", result.Content)
}
