// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/jvidalgz/go-gympulse/internal/config"
	"github.com/jvidalgz/go-gympulse/internal/domain"
	"github.com/jvidalgz/go-gympulse/internal/handlers"
	"github.com/jvidalgz/go-gympulse/internal/middleware"
	"github.com/jvidalgz/go-gympulse/internal/realtime"
	"github.com/jvidalgz/go-gympulse/internal/repository/chatmessage"
	"github.com/jvidalgz/go-gympulse/internal/repository/conversation"
	"github.com/jvidalgz/go-gympulse/internal/repository/privatemessage"
	"github.com/jvidalgz/go-gympulse/internal/repository/user"
	"github.com/jvidalgz/go-gympulse/internal/services"
	"github.com/jvidalgz/go-gympulse/internal/services/user_services"
)

func main() {
	cfg := config.Load()

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.ChatMessage{},
		&domain.Conversation{},
		&domain.ConversationCounter{},
		&domain.PrivateMessage{},
	); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	userRepo := user.NewGormUserRepository(db)
	chatMessageRepo := chatmessage.NewChatMessageRepository(db)
	conversationRepo := conversation.NewConversationRepository(db)
	privateMessageRepo := privatemessage.NewPrivateMessageRepository(db)

	// --- Push transport ---
	hub := realtime.NewHub(services.NewLogger("realtime"))
	go hub.Run()

	// --- Services ---
	authService := user_services.NewAuthService(userRepo, cfg.JWTSecretKey, services.NewLogger("auth"))

	chatService, err := services.NewChatService(chatMessageRepo, hub, cfg.ChatRetentionDays, services.NewLogger("chat"))
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Chat Service: %v", err)
	}

	privateMessageService, err := services.NewPrivateMessageService(
		userRepo, conversationRepo, privateMessageRepo, services.NewLogger("private_messages"))
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Private Message Service: %v", err)
	}

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	chatHandler := handlers.NewChatHandler(chatService)
	privateMessageHandler := handlers.NewPrivateMessageHandler(privateMessageService)
	wsHandler := handlers.NewWSHandler(hub, chatService, cfg.AllowedOrigin)

	// --- Router Setup ---
	r := mux.NewRouter()
	authMiddleware := middleware.NewJWTMiddleware(authService)

	r.Use(middleware.CORS(cfg.AllowedOrigin))
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	// --- Public Routes ---
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/chat/messages", chatHandler.GetMessages).Methods("GET")
	r.HandleFunc("/api/chat/messages/{id:[0-9]+}", chatHandler.GetMessage).Methods("GET")
	r.HandleFunc("/ws/chat", wsHandler.ServeWS)

	// --- Protected chat moderation ---
	chat := r.PathPrefix("/api/chat").Subrouter()
	chat.Use(authMiddleware)
	chat.HandleFunc("/messages/{id:[0-9]+}", chatHandler.UpdateMessage).Methods("PUT")
	chat.HandleFunc("/messages/{id:[0-9]+}", chatHandler.DeleteMessage).Methods("DELETE")

	chatAdmin := r.PathPrefix("/api/chat").Subrouter()
	chatAdmin.Use(authMiddleware)
	chatAdmin.Use(middleware.RequireAdmin)
	chatAdmin.HandleFunc("/messages", chatHandler.DeleteAllMessages).Methods("DELETE")

	// --- Private messaging ---
	pm := r.PathPrefix("/api/private-messages").Subrouter()
	pm.Use(authMiddleware)
	pm.HandleFunc("", privateMessageHandler.ListConversations).Methods("GET")
	pm.HandleFunc("", privateMessageHandler.SendMessage).Methods("POST")
	pm.HandleFunc("/conversation/{conversationId:[0-9]+}", privateMessageHandler.GetConversationMessages).Methods("GET")
	pm.HandleFunc("/user/{otherUserId:[0-9]+}", privateMessageHandler.ResolveConversationWithUser).Methods("GET")
	pm.HandleFunc("/marcar-leidos/{conversationId:[0-9]+}", privateMessageHandler.MarkRead).Methods("PUT")
	pm.HandleFunc("/no-leidos", privateMessageHandler.UnreadCount).Methods("GET")
	pm.HandleFunc("/{messageId:[0-9]+}", privateMessageHandler.DeleteMessage).Methods("DELETE")

	// --- Server Configuration ---
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("GymPulse messaging backend starting on port %s", cfg.ServerPort)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
