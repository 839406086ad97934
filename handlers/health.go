package handlers

import (
	"net/http"

	"astrobook/utils"

	"github.com/gin-gonic/gin"
)

// Health reports the last dependency probe. It always answers 200 so load
// balancers keep routing reads while a backend recovers.
func Health(c *gin.Context) {
	status := utils.GetHealthStatus()
	healthy := status.Mongo == nil || *status.Mongo
	for _, ok := range status.Redis {
		healthy = healthy && ok
	}
	state := "ok"
	if !healthy {
		state = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{"status": state, "dependencies": status})
}
