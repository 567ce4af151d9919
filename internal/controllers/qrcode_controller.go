package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"shortlink-be/internal/models"
	"shortlink-be/internal/service"
)

// QRCodeSize is the edge length of generated images in pixels
const QRCodeSize = 256

type QRCodeController struct {
	linkService service.LinkService
	baseURL     string
}

func NewQRCodeController(linkService service.LinkService, baseURL string) *QRCodeController {
	return &QRCodeController{
		linkService: linkService,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

// GenerateQRCode handles GET /qrcode/:short_code - PNG of the short URL.
// Looking the link up does not count as a click.
func (qc *QRCodeController) GenerateQRCode(c *gin.Context) {
	shortCode := c.Param("short_code")

	link, err := qc.linkService.Lookup(c.Request.Context(), shortCode)
	if err != nil {
		internalError(c, "failed to look up short link", err)
		return
	}
	if link == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: msgLinkNotFound})
		return
	}

	pngData, err := qrcode.Encode(qc.baseURL+"/"+link.ShortCode, qrcode.Medium, QRCodeSize)
	if err != nil {
		internalError(c, "failed to generate QR code", err)
		return
	}

	c.Header("Content-Disposition", "inline; filename="+link.ShortCode+".png")
	c.Data(http.StatusOK, "image/png", pngData)
}
