package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tlou-esports/te-suggestions/src/reminders"
)

type Reminders struct {
	src ReminderSource
}

// List serves GET /v1/reminders/:guild.
func (r Reminders) List(c *gin.Context) {
	if r.src == nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "reminders are disabled"})
		return
	}
	list, err := r.src.List(c.Request.Context(), c.Param("guild"))
	if err != nil {
		internalError(c, err)
		return
	}
	if list == nil {
		list = []reminders.Reminder{}
	}
	writeCached(c, list)
}
