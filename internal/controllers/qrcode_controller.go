package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"contactly-be/internal/entities"
	"contactly-be/internal/middleware"
	"contactly-be/internal/models"
	"contactly-be/internal/repository"
	"contactly-be/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
)

type QRCodeController struct {
	contactService service.ContactService
}

func NewQRCodeController(contactService service.ContactService) *QRCodeController {
	return &QRCodeController{
		contactService: contactService,
	}
}

// ContactQRCode handles GET /api/v1/contacts/:id/qrcode - renders an owned
// contact as a vCard QR code
func (qc *QRCodeController) ContactQRCode(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Contact id must be a positive integer",
		})
		return
	}

	contact, err := qc.contactService.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Contact not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	// Generate QR code (256x256 pixels, medium error recovery)
	qrCode, err := qrcode.New(vCard(contact), qrcode.Medium)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate QR code",
		})
		return
	}

	pngData, err := qrCode.PNG(256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate QR code image",
		})
		return
	}

	c.Header("Content-Disposition", "inline; filename=contact.png")
	c.Data(http.StatusOK, "image/png", pngData)
}

// vCard renders the contact as a minimal vCard 3.0 record
func vCard(contact *entities.Contact) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCARD\r\nVERSION:3.0\r\n")
	fmt.Fprintf(&b, "N:%s;%s;;;\r\n", contact.Surname, contact.Name)
	fmt.Fprintf(&b, "FN:%s %s\r\n", contact.Name, contact.Surname)
	fmt.Fprintf(&b, "EMAIL:%s\r\n", contact.Email)
	fmt.Fprintf(&b, "TEL:%s\r\n", contact.Phone)
	fmt.Fprintf(&b, "BDAY:%s\r\n", contact.Birthday.Format(models.DateFormat))
	if contact.Description != nil {
		fmt.Fprintf(&b, "NOTE:%s\r\n", *contact.Description)
	}
	b.WriteString("END:VCARD\r\n")
	return b.String()
}
