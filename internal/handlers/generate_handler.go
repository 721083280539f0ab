package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"taskpilot/internal/models"
	"taskpilot/internal/services"
)

// DraftGenerator is satisfied by *services.TaskGenerator.
type DraftGenerator interface {
	Generate(ctx context.Context, topic string) (services.GenerationResult, error)
}

type GenerateHandler struct {
	generator DraftGenerator
	log       logrus.FieldLogger
}

func NewGenerateHandler(generator DraftGenerator, log logrus.FieldLogger) *GenerateHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &GenerateHandler{generator: generator, log: log}
}

type generateRequest struct {
	Topic string `json:"topic" binding:"required,notblank"`
}

type draftsResponse struct {
	Tasks []models.GeneratedTaskDraft `json:"tasks"`
}

var generateMessages = messages{invalid: "Topic is required", failed: "Failed to generate tasks"}

// Generate godoc
// @Summary      Generate task drafts
// @Description  Asks the model for five tasks about a topic. Drafts are not saved.
// @Tags         Generate
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      generateRequest  true  "Topic"
// @Success      200   {object}  draftsResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /generate [post]
func (h *GenerateHandler) Generate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": generateMessages.invalid})
		return
	}

	fields := logrus.Fields{"user_id": userID, "topic": req.Topic}
	result, err := h.generator.Generate(c.Request.Context(), req.Topic)
	if err != nil {
		respondError(c, h.log, "generate", generateMessages, err, fields)
		return
	}
	h.log.WithFields(fields).WithField("fallback", result.Fallback()).Debug("[generate][ok]")
	c.JSON(http.StatusOK, draftsResponse{Tasks: result.Drafts})
}
