package handlers

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"taskpilot/internal/middleware"
	"taskpilot/internal/services"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding rules used by request models.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
}

// messages are the client-facing texts of one operation.
type messages struct {
	invalid string // 400
	failed  string // 500
}

func currentUserID(c *gin.Context) (string, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return id, true
}

// respondError maps service errors onto status codes. Details only go to the log.
func respondError(c *gin.Context, log logrus.FieldLogger, op string, msg messages, err error, fields logrus.Fields) {
	entry := log.WithFields(fields).WithFields(logrus.Fields{"op": op, "error": err})
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, services.ErrValidation):
		entry.Info("[" + op + "][invalid]")
		c.JSON(http.StatusBadRequest, gin.H{"error": msg.invalid})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	default:
		entry.Error("[" + op + "][err]")
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg.failed})
	}
}
