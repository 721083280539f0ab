package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"taskpilot/internal/realtime"
)

type EventsHandler struct {
	hub *realtime.Hub
	log logrus.FieldLogger
}

func NewEventsHandler(hub *realtime.Hub, log logrus.FieldLogger) *EventsHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &EventsHandler{hub: hub, log: log}
}

// Stream godoc
// @Summary      Task change stream
// @Description  Websocket of {type, taskIds, at} events for the caller's tasks
// @Tags         Tasks
// @Security     BearerAuth
// @Router       /tasks/events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	conn, err := realtime.Upgrade(c.Writer, c.Request)
	if err != nil {
		// the upgrader has already written the error response
		h.log.WithFields(logrus.Fields{"user_id": userID, "error": err}).Info("[events][upgrade]")
		return
	}

	h.hub.Register(userID, conn)
	defer h.hub.Unregister(userID, conn)
	conn.Serve(c.Request.Context().Done())
}
