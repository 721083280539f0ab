package handlers

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"taskpilot/internal/pdf"
	"taskpilot/internal/services"
)

type ReportRenderer interface {
	Render(w io.Writer, report pdf.ProgressReport) error
}

type ReportHandler struct {
	service  services.TaskService
	renderer ReportRenderer
	log      logrus.FieldLogger
}

func NewReportHandler(service services.TaskService, renderer ReportRenderer, log logrus.FieldLogger) *ReportHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ReportHandler{service: service, renderer: renderer, log: log}
}

var reportMessages = messages{failed: "Failed to build report"}

// Progress godoc
// @Summary      Progress report
// @Description  PDF with the caller's statistics, per-category progress and task list
// @Tags         Tasks
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200  {file}    file
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /tasks/stats/report [get]
func (h *ReportHandler) Progress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	fields := logrus.Fields{"user_id": userID}

	stats, err := h.service.Stats(ctx, userID)
	if err != nil {
		respondError(c, h.log, "report", reportMessages, err, fields)
		return
	}
	tasks, err := h.service.List(ctx, userID)
	if err != nil {
		respondError(c, h.log, "report", reportMessages, err, fields)
		return
	}

	var buf bytes.Buffer
	err = h.renderer.Render(&buf, pdf.ProgressReport{
		UserID:      userID,
		GeneratedAt: time.Now(),
		Stats:       *stats,
		Tasks:       tasks,
	})
	if err != nil {
		respondError(c, h.log, "report", reportMessages, err, fields)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="task-progress.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
