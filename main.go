package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"activities-server-go/config"
	"activities-server-go/handlers"
	"activities-server-go/store"
)

const configFile = "./config.yaml"

func main() {
	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// The credential roster is mandatory; refuse to start without it
	teachers, err := store.LoadTeacherStore(cfg.Auth.TeachersFile)
	if err != nil {
		log.Fatalf("Failed to load teacher credentials: %v", err)
	}

	sessionTTL := time.Duration(cfg.Auth.SessionTTL)
	sessions := store.NewSessionRegistry(sessionTTL)
	activities := store.NewActivityRegistry(store.DefaultActivities())

	apiHandler := handlers.NewAPIHandler(teachers, sessions, activities, sessionTTL)

	router := gin.Default()
	router.Static("/static", cfg.Static.Dir)
	apiHandler.RegisterRoutes(router)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
