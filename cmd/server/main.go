// @title Prep Server API
// @version 1.0
// @description API движка стандартизации клинических данных: названия клиник и выделенные микроорганизмы. Кластеризация почти-дубликатов, решения оператора, экспорт стандартизированных таблиц.

// @host localhost:8080
// @BasePath /api
// @schemes http

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prepserver/internal/config"
	"prepserver/server"
)

func main() {
	log.Println("Запуск сервера стандартизации...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}
	log.Printf("База данных сессий: %s", cfg.DatabasePath)

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Ошибка создания сервера: %v", err)
	}

	// Запускаем сервер в отдельной горутине, чтобы ждать сигнал остановки
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Ошибка сервера: %v", err)
		}
	case sig := <-sigChan:
		log.Printf("Получен сигнал %v, останавливаем сервер...", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Fatalf("Ошибка остановки сервера: %v", err)
		}
	}
}
