package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"taskpilot/internal/models"
	"taskpilot/internal/services"
)

type TaskHandler struct {
	service services.TaskService
	log     logrus.FieldLogger
}

func NewTaskHandler(service services.TaskService, log logrus.FieldLogger) *TaskHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &TaskHandler{service: service, log: log}
}

type saveTasksRequest struct {
	Tasks []models.NewTask `json:"tasks" binding:"required,min=1,dive"`
}

type tasksResponse struct {
	Tasks []models.Task `json:"tasks"`
}

type taskResponse struct {
	Task *models.Task `json:"task"`
}

var (
	listMessages   = messages{failed: "Failed to fetch tasks"}
	saveMessages   = messages{invalid: "Tasks array is required", failed: "Failed to create tasks"}
	updateMessages = messages{invalid: "Invalid request body", failed: "Failed to update task"}
	deleteMessages = messages{failed: "Failed to delete task"}
	statsMessages  = messages{failed: "Failed to fetch task statistics"}
)

// List godoc
// @Summary      List tasks
// @Description  Returns the caller's tasks, oldest first
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  tasksResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	tasks, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, "task.list", listMessages, err, logrus.Fields{"user_id": userID})
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	c.JSON(http.StatusOK, tasksResponse{Tasks: tasks})
}

// Create godoc
// @Summary      Save tasks
// @Description  Persists one or more tasks, typically drafts chosen from /generate
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      saveTasksRequest  true  "Tasks to save"
// @Success      200   {object}  tasksResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req saveTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.WithFields(logrus.Fields{"user_id": userID, "error": err}).Info("[task.create][bind]")
		c.JSON(http.StatusBadRequest, gin.H{"error": saveMessages.invalid})
		return
	}

	tasks, err := h.service.Create(c.Request.Context(), userID, req.Tasks)
	if err != nil {
		respondError(c, h.log, "task.create", saveMessages, err, logrus.Fields{"user_id": userID})
		return
	}
	h.log.WithFields(logrus.Fields{"user_id": userID, "count": len(tasks)}).Debug("[task.create][ok]")
	c.JSON(http.StatusOK, tasksResponse{Tasks: tasks})
}

// Update godoc
// @Summary      Update task
// @Description  Applies the fields present in the body; updatedAt is always refreshed
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Task ID"
// @Param        body  body      models.TaskPatch  true  "Fields to change"
// @Success      200   {object}  taskResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /tasks/{id} [patch]
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID := c.Param("id")
	fields := logrus.Fields{"user_id": userID, "task_id": taskID}

	var patch models.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.log.WithFields(fields).WithError(err).Info("[task.update][bind]")
		c.JSON(http.StatusBadRequest, gin.H{"error": updateMessages.invalid})
		return
	}

	task, err := h.service.Update(c.Request.Context(), userID, taskID, patch)
	if err != nil {
		respondError(c, h.log, "task.update", updateMessages, err, fields)
		return
	}
	c.JSON(http.StatusOK, taskResponse{Task: task})
}

// Delete godoc
// @Summary      Delete task
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), userID, taskID); err != nil {
		respondError(c, h.log, "task.delete", deleteMessages, err, logrus.Fields{"user_id": userID, "task_id": taskID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// Stats godoc
// @Summary      Task statistics
// @Description  Totals and per-category progress for the caller
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.TaskStatistics
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /tasks/stats [get]
func (h *TaskHandler) Stats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	stats, err := h.service.Stats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, "task.stats", statsMessages, err, logrus.Fields{"user_id": userID})
		return
	}
	c.JSON(http.StatusOK, stats)
}
