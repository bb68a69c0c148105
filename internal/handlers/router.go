package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soma-study/exam-service/internal/config"
	"github.com/soma-study/exam-service/internal/services"
	"github.com/soma-study/exam-service/internal/utils"
)

// HandlerManager wires all HTTP handlers together.
type HandlerManager struct {
	Exam     *ExamHandler
	Practice *PracticeHandler
	History  *HistoryHandler
}

func NewHandlerManager(manager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		Exam:     NewExamHandler(manager.Exam(), logger),
		Practice: NewPracticeHandler(manager.Practice(), logger),
		History:  NewHistoryHandler(manager.History(), logger),
	}
}

// SetupRoutes registers all routes. Everything under /api/v1 requires a
// valid Casdoor token.
func SetupRoutes(router *gin.Engine, hm *HandlerManager, cfg *config.Config, logger utils.Logger) {
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "exam-service"})
	})

	v1 := router.Group("/api/v1")
	v1.Use(NewCasdoorAuth(cfg.Casdoor, logger))
	{
		exams := v1.Group("/exams")
		{
			exams.POST("/generate", hm.Exam.GenerateExam)
		}

		sessions := v1.Group("/sessions")
		{
			sessions.GET("/:id", hm.Exam.GetSession)
			sessions.POST("/:id/answer", hm.Exam.SubmitAnswer)
			sessions.POST("/:id/next", hm.Exam.NextQuestion)
			sessions.POST("/:id/previous", hm.Exam.PreviousQuestion)
			sessions.POST("/:id/submit", hm.Exam.SubmitExam)
		}

		practice := v1.Group("/practice")
		{
			practice.POST("/generate", hm.Practice.GeneratePractice)
			practice.GET("/:id", hm.Practice.GetSession)
			practice.POST("/:id/answer", hm.Practice.SubmitAnswer)
			practice.POST("/:id/check", hm.Practice.CheckAnswer)
			practice.POST("/:id/next", hm.Practice.NextQuestion)
		}

		history := v1.Group("/history")
		{
			history.GET("", hm.History.ListResults)
			history.GET("/:id", hm.History.GetResult)
			history.GET("/:id/report", hm.History.GetReport)
			history.GET("/:id/export", hm.History.ExportResult)
		}
	}
}
