package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/night-scheduler-api/internal/config"
	"github.com/arnavshah/night-scheduler-api/pkg/server"
)

var r *gin.Engine

func init() {
	gin.SetMode(gin.ReleaseMode)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	app, err := server.Bootstrap(cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	r = app.Engine
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
