package main

import (
	"log"

	"github.com/grand-thief-cash/todolist/infra/application"
	_ "github.com/grand-thief-cash/todolist/internal/api"
	bizConfig "github.com/grand-thief-cash/todolist/internal/config"
	_ "github.com/grand-thief-cash/todolist/internal/registry_ext"
)

// go run ./cmd/todolist-server -env development -config config/config.yaml
func main() {
	app := application.GetApp()
	app.SetBizConfig(bizConfig.GetBizConfig())
	if err := app.Run(); err != nil {
		log.Fatalf("todolist-server: %v", err)
	}
}
