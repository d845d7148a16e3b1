package http

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the form pages and the JSON API. rateLimit guards the
// endpoints that call the completion service.
func (h *PlannerHandler) RegisterRoutes(r *gin.Engine, rateLimit gin.HandlerFunc) {
	r.SetHTMLTemplate(Templates())

	r.GET("/", h.IndexHandler)
	r.POST("/plan", rateLimit, h.SubmitFormHandler)
	r.GET("/plan/download", h.DownloadHandler)

	api := r.Group("/api/plan")
	{
		api.GET("", h.GetPlanHandler)
		api.POST("", rateLimit, h.GeneratePlanHandler)
		api.GET("/download", h.DownloadHandler)
	}
}
