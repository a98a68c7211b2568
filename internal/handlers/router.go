package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/mentorlink/mentorship-service/internal/auth"
	"github.com/mentorlink/mentorship-service/internal/models"
	"github.com/mentorlink/mentorship-service/internal/repositories"
	"github.com/mentorlink/mentorship-service/internal/services"
	"github.com/mentorlink/mentorship-service/internal/utils"
	"github.com/mentorlink/mentorship-service/internal/validator"
)

type HandlerManager struct {
	authHandler    *AuthHandler
	profileHandler *ProfileHandler
	mentorHandler  *MentorHandler
	requestHandler *RequestHandler
	messageHandler *MessageHandler
	authGuard      *AuthGuard
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	provider *auth.Provider,
	validator *validator.Validator,
	logger utils.Logger,
	authRepo repositories.AuthRepository,
	profiles auth.ProfileStore,
) *HandlerManager {
	return &HandlerManager{
		authHandler:    NewAuthHandler(provider, validator, logger),
		profileHandler: NewProfileHandler(serviceManager.Profile(), validator, logger),
		mentorHandler:  NewMentorHandler(serviceManager.Marketplace(), serviceManager.Export(), logger),
		requestHandler: NewRequestHandler(serviceManager.Request(), validator, logger),
		messageHandler: NewMessageHandler(serviceManager.Message(), validator, logger),
		authGuard:      NewAuthGuard(authRepo, profiles, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		// Auth routes - no token required
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/signin", hm.authHandler.SignIn)
			authRoutes.POST("/signup", hm.authHandler.SignUp)
			authRoutes.POST("/signout", hm.authHandler.SignOut)
			authRoutes.GET("/session", hm.authHandler.GetSession)
		}

		// Marketplace routes - public browsing
		mentors := v1.Group("/mentors")
		{
			mentors.GET("", hm.mentorHandler.ListMentors)
			mentors.GET("/:user_id", hm.mentorHandler.GetMentor)
		}

		// Everything below requires a valid token
		authed := v1.Group("")
		authed.Use(hm.authGuard.AuthMiddleware())
		{
			// Profile routes - onboarding and self management
			profiles := authed.Group("/profiles")
			{
				profiles.POST("", hm.profileHandler.CreateProfile)
				profiles.GET("/me", hm.profileHandler.GetMyProfile)
				profiles.PUT("/me", hm.authGuard.RequireProfileMiddleware(), hm.profileHandler.UpdateMyProfile)

				// Verification pipeline - Admins only
				profiles.PUT("/:user_id/status", hm.authGuard.RequireRoleMiddleware(models.RoleAdmin), hm.profileHandler.UpdateProfileStatus)
			}

			// Admin export of the mentor directory
			authed.GET("/mentors/export", hm.authGuard.RequireRoleMiddleware(models.RoleAdmin), hm.mentorHandler.ExportMentors)

			// Mentorship request routes - onboarded users only
			requests := authed.Group("/requests")
			requests.Use(hm.authGuard.RequireProfileMiddleware())
			{
				requests.POST("", hm.requestHandler.CreateRequest)
				requests.GET("", hm.requestHandler.ListRequests)
				requests.POST("/:id/respond", hm.requestHandler.RespondToRequest)

				// Conversation routes keyed by the accepted request
				requests.POST("/:id/messages", hm.messageHandler.SendMessage)
				requests.GET("/:id/messages", hm.messageHandler.ListMessages)
				requests.POST("/:id/messages/read", hm.messageHandler.MarkMessagesRead)
			}
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "mentorship-service",
		})
	})
}
