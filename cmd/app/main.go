package main

import (
	"innkeep/config"
	"innkeep/di"
	"innkeep/shared/logger"

	_ "innkeep/docs"
)

// @title Innkeep API
// @version 1.0
// @description Hotel operations service with rooms, guests, bookings and a WhatsApp command channel.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
