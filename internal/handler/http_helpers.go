package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/notekeeper/internal/metrics"
	"github.com/notekeeper/internal/service"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// noteFieldError maps a validation error to the form field it belongs to.
func noteFieldError(err error) (string, string, bool) {
	switch {
	case errors.Is(err, service.ErrSlugConflict):
		return "slug", err.Error(), true
	case errors.Is(err, service.ErrSlugInvalid):
		return "slug", service.ErrSlugInvalid.Error(), true
	case errors.Is(err, service.ErrTitleRequired), errors.Is(err, service.ErrTitleTooLong):
		return "title", err.Error(), true
	case errors.Is(err, service.ErrTextRequired):
		return "text", err.Error(), true
	}
	return "", "", false
}

func noteOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, service.ErrSlugConflict):
		return metrics.OutcomeConflict
	case errors.Is(err, service.ErrNoteNotFound):
		return metrics.OutcomeNotFound
	}
	if _, _, ok := noteFieldError(err); ok {
		return metrics.OutcomeInvalid
	}
	return metrics.OutcomeError
}

// safeRedirectTarget accepts only local absolute paths.
func safeRedirectTarget(next, fallback string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return fallback
	}
	return next
}
