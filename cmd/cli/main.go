package main

import (
	"context"
	"fmt"
	"os"

	"taskManager/internal/app"
	"taskManager/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ошибка конфигурации: %s\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	a := app.New(cfg)
	if err := a.Init(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ошибка запуска: %s\n", err)
		os.Exit(1)
	}
	defer a.Shutdown()

	if err := a.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ошибка: %s\n", err)
		os.Exit(1)
	}
}
