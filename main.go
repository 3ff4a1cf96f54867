package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cafepos/api"
	"cafepos/internal/config"
	"cafepos/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Errorf("error loading config: %v", err))
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	bridge, err := store.OpenBolt(cfg.DataFile)
	if err != nil {
		panic(fmt.Errorf("error opening data file: %v", err))
	}
	defer bridge.Close()

	r := gin.Default()
	if err := api.InitRoutes(r, bridge, logger); err != nil {
		panic(fmt.Errorf("error initializing routes: %v", err))
	}

	if err := r.Run(cfg.ListenAddr); err != nil {
		panic(fmt.Errorf("error trying to start server: %v", err))
	}
}
