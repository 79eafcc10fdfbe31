package api

import (
	"errors"
	"log"
	"net/http"
	"net/url"

	apperrors "github.com/athomax/shorturl/internal/errors"
	"github.com/athomax/shorturl/internal/middleware"
	"github.com/athomax/shorturl/internal/services"
	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every HTTP endpoint onto the router. The slug wildcard
// lives at the root so short links stay as short as possible; the static
// paths (/health, /url) take precedence over it.
func SetupRoutes(router *gin.Engine, allocator *services.SlugAllocator, resolver *services.RedirectResolver) {
	router.Use(middleware.RequestID(), middleware.SecurityHeaders(), middleware.CORS())

	router.GET("/health", HealthCheckHandler)

	// Creation and stats, mirroring the public API shape.
	router.POST("/url", CreateMappingHandler(allocator))
	router.GET("/url/:slug", MappingStatsHandler(resolver))

	// Redirection route.
	router.GET("/:slug", RedirectHandler(resolver))
}

// HealthCheckHandler reports service liveness.
func HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CreateMappingRequest is the JSON body for POST /url. Slug is optional;
// when empty a slug is generated.
type CreateMappingRequest struct {
	URL  string `json:"url"`
	Slug string `json:"slug"`
}

// CreateMappingHandler handles POST /url: it allocates a slug for the given
// target URL and returns the created mapping as {slug, url, clicks}.
func CreateMappingHandler(allocator *services.SlugAllocator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateMappingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
			return
		}

		mapping, err := allocator.Allocate(req.Slug, req.URL)
		if err != nil {
			var validationErr *apperrors.ValidationError
			switch {
			case errors.As(err, &validationErr):
				c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid " + validationErr.Field + "."})
			case errors.Is(err, apperrors.ErrSlugTaken):
				c.JSON(http.StatusConflict, gin.H{"message": "Slug in use."})
			case errors.Is(err, apperrors.ErrSlugExhausted):
				c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Unable to generate a unique slug. Please try again later."})
			default:
				log.Printf("Error creating mapping: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
			}
			return
		}

		c.JSON(http.StatusOK, mapping)
	}
}

// RedirectHandler handles GET /:slug. A hit is a 302 to the stored target;
// a miss is a 302 back to the UI with an inline error message rather than
// an HTTP error page.
func RedirectHandler(resolver *services.RedirectResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("slug")

		target, err := resolver.Resolve(c.Request.Context(), slug, c.GetHeader("User-Agent"), c.ClientIP())
		if err != nil {
			var notFound *apperrors.NotFoundError
			if errors.As(err, &notFound) {
				c.Redirect(http.StatusFound, "/?error="+url.QueryEscape(notFound.Slug+" not found"))
				return
			}
			log.Printf("Error resolving %q: %v", slug, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
			return
		}

		c.Redirect(http.StatusFound, target)
	}
}

// MappingStatsHandler handles GET /url/:slug, returning the stored mapping
// with its click count.
func MappingStatsHandler(resolver *services.RedirectResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("slug")

		mapping, err := resolver.Lookup(slug)
		if err != nil {
			if errors.Is(err, apperrors.ErrSlugNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Slug not found."})
				return
			}
			log.Printf("Error fetching stats for %q: %v", slug, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
			return
		}

		c.JSON(http.StatusOK, mapping)
	}
}
