package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shortlink-be/internal/middleware"
	"shortlink-be/internal/models"
	"shortlink-be/internal/service"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

const (
	msgMissingURL    = "Body must include 'url' (target URL)"
	msgLinkNotFound  = "Short link not found"
	msgInternalError = "Internal server error"
)

type LinkController struct {
	linkService service.LinkService
}

func NewLinkController(linkService service.LinkService) *LinkController {
	return &LinkController{
		linkService: linkService,
	}
}

// CreateLink handles POST /links
func (lc *LinkController) CreateLink(c *gin.Context) {
	var req models.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msgMissingURL})
		return
	}

	target := strings.TrimSpace(req.Target())
	if target == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msgMissingURL})
		return
	}

	response, err := lc.linkService.CreateShortLink(c.Request.Context(), target)
	if err != nil {
		if service.IsInvalidArgument(err) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
			return
		}
		internalError(c, "failed to create short link", err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// GetStats handles GET /stats?page=&limit=
func (lc *LinkController) GetStats(c *gin.Context) {
	page := queryInt(c, "page", defaultPage)
	limit := queryInt(c, "limit", defaultLimit)

	stats, err := lc.linkService.GetStats(c.Request.Context(), page, limit)
	if err != nil {
		internalError(c, "failed to get stats", err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Redirect handles GET /:short_code - records the click and redirects to the target
func (lc *LinkController) Redirect(c *gin.Context) {
	shortCode := c.Param("short_code")

	result, err := lc.linkService.ResolveAndRecordClick(c.Request.Context(), shortCode)
	if err != nil {
		internalError(c, "failed to resolve short link", err)
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: msgLinkNotFound})
		return
	}

	c.Redirect(http.StatusFound, result.RedirectURL)
}

// queryInt parses a query parameter, using def when it is absent, unparsable or zero
func queryInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil || n == 0 {
		return def
	}
	return n
}

func internalError(c *gin.Context, msg string, err error) {
	middleware.Logger(c).Error(msg, zap.Error(err))
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: msgInternalError})
}
