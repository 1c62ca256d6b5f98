package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"contactly-be/internal/middleware"
	"contactly-be/internal/models"
	"contactly-be/internal/repository"
	"contactly-be/internal/service"

	"github.com/gin-gonic/gin"
)

type ContactController struct {
	contactService service.ContactService
}

func NewContactController(contactService service.ContactService) *ContactController {
	return &ContactController{
		contactService: contactService,
	}
}

func contactID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Contact id must be a positive integer",
		})
		return 0, false
	}
	return id, true
}

// writeContactError maps service errors onto HTTP statuses
func writeContactError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
	case errors.Is(err, repository.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Contact with this email or phone already exists",
		})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Contact not found",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
	}
}

// List handles GET /api/v1/contacts
func (cc *ContactController) List(c *gin.Context) {
	contacts, err := cc.contactService.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewContactListResponse(contacts))
}

// Get handles GET /api/v1/contacts/:id
func (cc *ContactController) Get(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}

	contact, err := cc.contactService.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		writeContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewContactResponse(contact))
}

// Create handles POST /api/v1/contacts
func (cc *ContactController) Create(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	contact, err := cc.contactService.Create(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		writeContactError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.NewContactResponse(contact))
}

// Update handles PUT /api/v1/contacts/:id - a full replacement of the contact
func (cc *ContactController) Update(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}

	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	contact, err := cc.contactService.Update(c.Request.Context(), middleware.UserID(c), id, &req)
	if err != nil {
		writeContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewContactResponse(contact))
}

// Remove handles DELETE /api/v1/contacts/:id and returns the deleted record
func (cc *ContactController) Remove(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}

	contact, err := cc.contactService.Remove(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		writeContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewContactResponse(contact))
}

// Search handles GET /api/v1/contacts/search?q=...
func (cc *ContactController) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Query parameter 'q' is required",
		})
		return
	}

	contacts, err := cc.contactService.Search(c.Request.Context(), middleware.UserID(c), query)
	if err != nil {
		writeContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewContactListResponse(contacts))
}

// UpcomingBirthdays handles GET /api/v1/contacts/birthdays
func (cc *ContactController) UpcomingBirthdays(c *gin.Context) {
	contacts, err := cc.contactService.UpcomingBirthdays(c.Request.Context(), middleware.UserID(c), time.Now())
	if err != nil {
		writeContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewContactListResponse(contacts))
}
