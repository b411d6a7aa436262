package main

import (
	"log"

	"portal/config"
	"portal/database"
	"portal/server"
	"portal/services/notify"
	"portal/utils"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()
	notify.Init(config.AppConfig)

	scheduler := utils.InitializeAuthScheduler(database.Database.Db)
	defer scheduler.Stop()

	app := server.New()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
