package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"github.com/ignatzorin/skillbridge-backend/internal/config"
	"github.com/ignatzorin/skillbridge-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillbridge-backend/internal/http/middleware"
	"github.com/ignatzorin/skillbridge-backend/internal/interface/http/handler"
)

// Handlers собирает обработчики, которые регистрирует роутер.
type Handlers struct {
	Requests *handler.RequestHandler
	Payments *handler.PaymentHandler
	Follows  *handler.FollowHandler
	Health   *handler.HealthHandler
}

func SetupRouter(
	cfg *config.Config,
	h Handlers,
	tokens middleware.TokenParser,
	limitStore limiter.Store,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)

	api := r.Group("/api")
	api.GET("/health", h.Health.Health)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(tokens))

	// Мутации и платежи ограничены по частоте на пользователя.
	limited := middleware.RateLimitMiddleware(limitStore, cfg.RateLimitLimit, cfg.RateLimitPeriod)

	hiring := protected.Group("/hiring")
	{
		hiring.POST("/create", limited, h.Requests.CreateHiring)
		hiring.PATCH("/accept/:id", middleware.UUIDValidator("id"), limited,
			h.Requests.Transition(valueobject.KindHiring, valueobject.RequestStatusAccepted))
		hiring.PATCH("/reject/:id", middleware.UUIDValidator("id"), limited,
			h.Requests.Transition(valueobject.KindHiring, valueobject.RequestStatusRejected))
		hiring.PATCH("/complete/:id", middleware.UUIDValidator("id"), limited,
			h.Requests.Transition(valueobject.KindHiring, valueobject.RequestStatusCompleted))
		hiring.GET("/received", h.Requests.List(valueobject.KindHiring, valueobject.DirectionReceived))
		hiring.GET("/sent", h.Requests.List(valueobject.KindHiring, valueobject.DirectionSent))
		hiring.GET("/check/:candidateId", middleware.UUIDValidator("candidateId"),
			h.Requests.CheckPending(valueobject.KindHiring, "candidateId"))
	}

	mentor := protected.Group("/mentor-requests")
	{
		mentor.POST("/send", limited, h.Requests.CreateMentor)
		mentor.PATCH("/accept/:id", middleware.UUIDValidator("id"), limited,
			h.Requests.Transition(valueobject.KindMentor, valueobject.RequestStatusAccepted))
		mentor.PATCH("/reject/:id", middleware.UUIDValidator("id"), limited,
			h.Requests.Transition(valueobject.KindMentor, valueobject.RequestStatusRejected))
		mentor.PATCH("/complete/:id", middleware.UUIDValidator("id"), limited,
			h.Requests.Transition(valueobject.KindMentor, valueobject.RequestStatusCompleted))
		mentor.GET("/received", h.Requests.List(valueobject.KindMentor, valueobject.DirectionReceived))
		mentor.GET("/sent", h.Requests.List(valueobject.KindMentor, valueobject.DirectionSent))
		mentor.GET("/check/:mentorId", middleware.UUIDValidator("mentorId"),
			h.Requests.CheckPending(valueobject.KindMentor, "mentorId"))
	}

	exchange := protected.Group("/skill-exchange")
	{
		exchange.POST("/request", limited, h.Requests.CreateSkillExchange)
		exchange.PATCH("/:id/respond", middleware.UUIDValidator("id"), limited, h.Requests.RespondSkillExchange)
		exchange.GET("/get-skills", h.Requests.List(valueobject.KindSkillExchange, valueobject.DirectionAll))
		exchange.GET("/sent", h.Requests.List(valueobject.KindSkillExchange, valueobject.DirectionSent))
		exchange.GET("/received", h.Requests.List(valueobject.KindSkillExchange, valueobject.DirectionReceived))
	}

	payments := protected.Group("/payments")
	{
		payments.POST("/create-order", limited, h.Payments.CreateOrder)
		payments.POST("/verify-payment", limited, h.Payments.VerifyPayment)
		payments.POST("/mark-failed", limited, h.Payments.MarkFailed)
		payments.GET("/transactions", h.Payments.Transactions)
	}

	users := protected.Group("/users")
	{
		users.POST("/follow/:id", middleware.UUIDValidator("id"), limited, h.Follows.Toggle)
		users.GET("/:id/followers", middleware.UUIDValidator("id"), h.Follows.Followers)
		users.GET("/:id/following", middleware.UUIDValidator("id"), h.Follows.Following)
	}

	return r
}
