package routes

import (
	"context"
	"log"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HarshithaLikitha/student-connect/internal/ai"
	"github.com/HarshithaLikitha/student-connect/internal/config"
	"github.com/HarshithaLikitha/student-connect/internal/handlers"
	"github.com/HarshithaLikitha/student-connect/internal/middleware"
	"github.com/HarshithaLikitha/student-connect/internal/repository"
	"github.com/HarshithaLikitha/student-connect/internal/services"
	chatws "github.com/HarshithaLikitha/student-connect/internal/websocket"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) {
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewUserProfileRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	participantRepo := repository.NewParticipantRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	communityRepo := repository.NewCommunityRepository(db)
	eventRepo := repository.NewEventRepository(db)
	assistantRepo := repository.NewAssistantRepository(db)

	var storageService services.StorageService
	if cfg.SupabaseURL != "" && cfg.SupabaseBucket != "" && cfg.SupabaseServiceKey != "" {
		storageService = services.NewSupabaseStorageService(cfg.SupabaseURL, cfg.SupabaseBucket, cfg.SupabaseServiceKey)
	}

	var completer services.TextCompleter
	if cfg.GeminiAPIKey != "" {
		gemini, err := ai.NewGeminiCompleter(context.Background(), cfg.GeminiAPIKey)
		if err != nil {
			log.Printf("gemini client unavailable, assistant disabled: %v", err)
		} else {
			completer = gemini
		}
	}

	authHandler := handlers.NewAuthHandler(db, userRepo, profileRepo, cfg.JWTSecret)
	profileService := services.NewProfileService(profileRepo)
	profileHandler := handlers.NewProfileHandler(profileService, storageService)

	notificationService := services.NewNotificationService(notificationRepo)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	chatHub := chatws.NewHub()
	go chatHub.Run()
	chatService := services.NewChatService(conversationRepo, participantRepo, messageRepo)
	chatHandler := handlers.NewChatHandler(chatService, chatHub, cfg.JWTSecret)

	communityService := services.NewCommunityService(communityRepo, notificationService)
	communityHandler := handlers.NewCommunityHandler(communityService)

	eventService := services.NewEventService(eventRepo, notificationService)
	eventHandler := handlers.NewEventHandler(eventService)

	assistantService := services.NewAssistantService(assistantRepo, completer)
	assistantHandler := handlers.NewAssistantHandler(assistantService)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	v1 := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	users := v1.Group("/users")
	users.Get("/profile", profileHandler.Get)
	users.Put("/profile", profileHandler.Update)
	users.Post("/profile/avatar", profileHandler.UploadAvatar)

	conversations := v1.Group("/conversations")
	conversations.Get("", chatHandler.ListConversations)
	conversations.Post("", chatHandler.CreateConversation)
	conversations.Get("/:id", chatHandler.GetConversation)
	conversations.Get("/:id/messages", chatHandler.GetMessages)
	conversations.Post("/:id/messages", chatHandler.SendMessage)
	conversations.Post("/:id/participants", chatHandler.AddParticipant)
	conversations.Delete("/:id/participants/me", chatHandler.LeaveConversation)

	notifications := v1.Group("/notifications")
	notifications.Get("", notificationHandler.List)
	notifications.Put("/read-all", notificationHandler.MarkAllRead)
	notifications.Put("/:id/read", notificationHandler.MarkRead)

	communities := v1.Group("/communities")
	communities.Get("", communityHandler.List)
	communities.Post("", communityHandler.Create)
	communities.Get("/:id", communityHandler.Get)
	communities.Post("/:id/join", communityHandler.Join)
	communities.Post("/:id/leave", communityHandler.Leave)

	events := v1.Group("/events")
	events.Get("", eventHandler.List)
	events.Post("", eventHandler.Create)
	events.Get("/:id", eventHandler.Get)
	events.Post("/:id/register", eventHandler.Register)
	events.Post("/:id/unregister", eventHandler.Unregister)

	assistant := v1.Group("/assistant/sessions")
	assistant.Get("", assistantHandler.ListSessions)
	assistant.Post("", assistantHandler.CreateSession)
	assistant.Get("/:id/messages", assistantHandler.GetMessages)
	assistant.Post("/:id/messages", assistantHandler.SendMessage)

	api.Use("/v1/ws", chatHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(chatHandler.HandleWebSocket))
}
