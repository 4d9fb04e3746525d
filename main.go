package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	log.SetPrefix("hf/fitness-xai-go-api: ")
	log.SetFlags(0)

	// .env is optional — in deployed environments the vars come from the host.
	if err := godotenv.Load(); err != nil {
		log.Printf("[main] no .env file loaded: %v", err)
	}

	pool := getDBPool()
	defer pool.Close()

	h := &Handler{
		db:        pool,
		foods:     newFoodStore(),
		exercises: newExerciseStore(),
		explainer: newCalorieExplainer(),
		advice:    newAdviceService(context.Background()),
	}

	fmt.Println("Starting gin app...")

	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	router.Run(":" + port)
}
