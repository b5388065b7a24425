package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"

	"drawtogether-server/hub"
	"drawtogether-server/protocol"
	ws "drawtogether-server/websocket"
)

const defaultPort = "8080"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}
	setupLogger()

	port := resolvePort(os.Args[1:])

	router := hub.New()
	handler := protocol.NewHandler(router)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET("/ws", wsHandler(handler))
	engine.GET("/health", healthHandler)
	engine.GET("/stats", statsHandler(router))

	server := &http.Server{
		Addr:    ":" + port,
		Handler: engine,
	}

	go func() {
		slog.Info("server starting", "port", port)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func setupLogger() {
	level := slog.LevelInfo
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

// resolvePort picks the listen port from the PORT environment variable, then
// from the single positional argument, falling back to the default on invalid
// input.
func resolvePort(args []string) string {
	if env := os.Getenv("PORT"); env != "" {
		if _, err := strconv.Atoi(env); err == nil {
			return env
		}
		slog.Warn("invalid PORT environment variable, using default", "port", defaultPort)
		return defaultPort
	}
	if len(args) > 0 {
		if _, err := strconv.Atoi(args[0]); err == nil {
			return args[0]
		}
		slog.Warn("invalid port argument, using default", "port", defaultPort)
	}
	return defaultPort
}

func wsHandler(handler *protocol.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Error("upgrade error", "error", err)
			return
		}
		ws.NewConn(uuid.New().String(), conn, handler).Start()
	}
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func statsHandler(router *hub.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		rooms, clients := router.Stats()
		c.JSON(http.StatusOK, gin.H{"rooms": rooms, "clients": clients})
	}
}
