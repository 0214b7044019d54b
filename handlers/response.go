package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// RegisterRoutes mounts the portal API on r
func RegisterRoutes(r *gin.Engine, analysis *AnalysisHandler, memos *MemoHandler) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	api := r.Group("/api")
	{
		// Analysis endpoints
		api.POST("/analyze", analysis.Analyze)
		api.GET("/runs/:id", analysis.GetRun)

		// Memo endpoints
		api.POST("/memos/parse", memos.Parse)
	}
}
