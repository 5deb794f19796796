package main

import (
	stdLog "log"

	"github.com/joho/godotenv"

	"github.com/readar/marketplace-service/app"
	"github.com/readar/marketplace-service/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		stdLog.Println("load envs from .env ", err)
	}
	cfg := config.NewConfig()

	if err := app.Run(cfg); err != nil {
		stdLog.Fatal(err)
	}
}
