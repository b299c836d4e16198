package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"ygo-duel-bot/internal/integrations/line"
	"ygo-duel-bot/internal/usecase"
)

// RegisterRoutes mounts the webhook and a health check for the local server.
func RegisterRoutes(r gin.IRouter, h *Handler) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/callback", h.callback)
}

func (h *Handler) callback(c *gin.Context) {
	cid := c.GetHeader(correlationHeader)
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes+1))
	var res response
	if err != nil {
		res = errorResult(cid, usecase.NewError(usecase.ErrorInvalidInput, "read_body_error", err))
	} else {
		res = h.serve(c.Request.Context(), body, c.GetHeader(line.SignatureHeader), cid)
	}
	if res.correlationID != "" {
		c.Header(correlationHeader, res.correlationID)
	}
	c.Data(res.status, res.contentType, []byte(res.body))
}
