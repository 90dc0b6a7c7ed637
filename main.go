package main

import (
	"os"

	"event-checkin/core/logger"
	"event-checkin/core/server"
)

// @title Event Check-in API
// @version 1.0
// @description Guest directory, check-in ledger, lucky draw and event assets

// @contact.name API Support

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Admin bearer token from /admin/login. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
		os.Exit(1)
	}
}
