package main

import (
	"log"

	"github.com/m3rciful/skeddybot/bot/app"
	corecmd "github.com/m3rciful/skeddybot/core/cmd"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig:        app.LoadConfig,
		Bootstrap:         app.Bootstrap,
	})
	if err != nil {
		log.Fatalf("skeddybot: %v", err)
	}
}
