package handlers

import (
	"log"
	"net/http"

	"quizparty/game"
	"quizparty/services"

	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	registry *game.Registry
	cache    *services.SnapshotCache
}

func NewRoomHandler(registry *game.Registry, cache *services.SnapshotCache) *RoomHandler {
	return &RoomHandler{
		registry: registry,
		cache:    cache,
	}
}

// GetRoomByCode serves the latest public snapshot, cache-first with the
// live room as fallback.
func (h *RoomHandler) GetRoomByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Room code required"})
		return
	}

	if h.cache != nil {
		snap, err := h.cache.Get(c.Request.Context(), code)
		if err != nil {
			log.Printf("Snapshot cache lookup failed for room %s: %v", code, err)
		} else if snap != nil {
			c.JSON(http.StatusOK, snap)
			return
		}
	}

	room := h.registry.Get(code)
	if room == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}

	c.JSON(http.StatusOK, room.PublicState())
}
