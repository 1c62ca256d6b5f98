package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"contactly-be/internal/models"
	"contactly-be/internal/repository"
	"contactly-be/internal/service"

	"github.com/gin-gonic/gin"
)

type QuoteController struct {
	quoteService service.QuoteService
}

func NewQuoteController(quoteService service.QuoteService) *QuoteController {
	return &QuoteController{
		quoteService: quoteService,
	}
}

// ListQuotes handles GET /api/v1/quotes?tag_name=...&page=...
func (qc *QuoteController) ListQuotes(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	response, err := qc.quoteService.ListQuotes(c.Request.Context(), c.Query("tag_name"), page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// TopTags handles GET /api/v1/tags/top?n=...
func (qc *QuoteController) TopTags(c *gin.Context) {
	n, _ := strconv.Atoi(c.DefaultQuery("n", "10"))

	tags, err := qc.quoteService.TopTags(c.Request.Context(), n)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.TopTagsResponse{Tags: tags})
}

// GetAuthor handles GET /api/v1/authors/:id
func (qc *QuoteController) GetAuthor(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Author id must be a positive integer",
		})
		return
	}

	author, err := qc.quoteService.GetAuthor(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Author not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, author)
}

// CreateAuthor handles POST /api/v1/authors
func (qc *QuoteController) CreateAuthor(c *gin.Context) {
	var req models.AuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	author, err := qc.quoteService.CreateAuthor(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Author with this fullname already exists",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, author)
}

// CreateQuote handles POST /api/v1/quotes
func (qc *QuoteController) CreateQuote(c *gin.Context) {
	var req models.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	quote, err := qc.quoteService.CreateQuote(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Author not found",
			})
		case errors.Is(err, repository.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Quote with this text already exists",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusCreated, quote)
}
