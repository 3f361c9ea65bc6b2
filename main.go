package main

import (
	"github.com/hackernest/hackernest/config"
	"github.com/hackernest/hackernest/models"
	"github.com/hackernest/hackernest/routes"
	"github.com/hackernest/hackernest/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Story{},
		&models.Comment{},
		&models.Like{},
		&models.Report{},
		&models.BlockedEmail{},
	)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
