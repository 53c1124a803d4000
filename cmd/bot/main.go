package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"adalchemy-bot/internal/bootstrap"
	"adalchemy-bot/internal/config"
	"adalchemy-bot/internal/server"
	"adalchemy-bot/internal/tracer"
	"adalchemy-bot/pkg/database"

	"github.com/bwmarrin/discordgo"
	"github.com/fatih/color"
)

func main() {
	color.Cyan("AdAlchemyAI bot starting...")

	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()
	if cfg.Discord.Token == "" {
		log.Fatal("DISCORD_TOKEN is required")
	}

	// 2. Initialize Database
	mongo, err := database.NewMongo(context.Background(), cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongo.Disconnect(context.Background()); err != nil {
			log.Printf("MongoDB disconnect error: %v", err)
		}
	}()

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(mongo, cfg)
	defer container.Logger.Sync()

	// 4. Start Background Services
	if err := container.NotificationService.Consume(context.Background()); err != nil {
		log.Printf("Background Notification Consumer Error: %v", err)
	}

	// 5. Open the Discord gateway
	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		log.Panicf("Unable to create Discord session: %v", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	container.DiscordHandler.Register(session)

	if err := session.Open(); err != nil {
		log.Panicf("Unable to open Discord gateway: %v", err)
	}
	defer session.Close()

	if err := container.DiscordHandler.RegisterCommands(session); err != nil {
		log.Printf("Failed to register slash commands: %v", err)
	}
	color.Green("✅ Connected to Discord as %s", session.State.User.Username)

	// 6. Run the HTTP sidecar until interrupted
	srv := server.New(cfg, container)
	go func() {
		if err := srv.Run(); err != nil {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	color.Yellow("Shutting down...")
	if err := srv.Shutdown(); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}
}
