package main

import (
	"backend/config"
	"backend/routes"
)

func main() {
	settings := config.Load()
	config.InitDB()
	r := routes.SetupRouter(settings)
	r.Run(":" + settings.Port)
}
