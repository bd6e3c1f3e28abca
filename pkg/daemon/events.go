package daemon

import (
	"io"

	"github.com/gin-gonic/gin"
)

// streamEvents sends daemon events to the client as server-sent events until
// it disconnects.
func streamEvents(c *gin.Context) {
	ch, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Stream(func(_ io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, string(ev.Data))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
