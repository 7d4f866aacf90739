package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"euringserver/database"
	"euringserver/recognition"
	"euringserver/scheme"
	"euringserver/server"
)

func main() {
	log.Println("Запуск EURING Recognition Server...")

	// Загружаем конфигурацию
	config, err := server.LoadConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Репозиторий дескрипторов версий; при первом запуске
	// наполняется встроенными версиями
	repo, err := scheme.NewRepository(config.SchemesDir)
	if err != nil {
		log.Fatalf("Ошибка создания репозитория версий: %v", err)
	}
	if err := repo.Seed(scheme.BuiltinVersions()); err != nil {
		log.Fatalf("Ошибка начального наполнения репозитория: %v", err)
	}

	// Движок распознавания поверх валидирующего загрузчика
	loader := scheme.NewLoader(repo)
	engine := recognition.NewEngine(recognition.VersionSourceFunc(func() ([]*scheme.Version, error) {
		versions, reports, err := loader.LoadValidated()
		if err != nil {
			return nil, err
		}
		for _, report := range reports {
			if !report.Valid() {
				log.Printf("Дескриптор %s отклонен: %v", report.VersionID, report.Errors)
			}
			for _, warning := range report.Warnings {
				log.Printf("Дескриптор %s: %s", report.VersionID, warning)
			}
		}
		return versions, nil
	}))

	// Создаем конфигурацию для БД
	dbConfig := database.DBConfig{
		MaxOpenConns:    config.MaxOpenConns,
		MaxIdleConns:    config.MaxIdleConns,
		ConnMaxLifetime: config.ConnMaxLifetime,
	}

	// Создаем базу данных квот и истории
	db, err := database.NewDBWithConfig(config.DatabasePath, dbConfig)
	if err != nil {
		log.Fatalf("Ошибка создания базы данных: %v", err)
	}
	defer db.Close()

	// Создаем сервер
	srv, err := server.NewServer(db, engine, config)
	if err != nil {
		log.Fatalf("Ошибка создания сервера: %v", err)
	}

	// Запускаем сервер в горутине
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("Ошибка запуска сервера: %v", err)
		}
	}()

	log.Printf("Сервер запущен на порту %s", config.Port)
	log.Println("Для остановки нажмите Ctrl+C")

	// Ожидаем сигнал завершения
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Получен сигнал завершения, останавливаем сервер...")

	// Останавливаем сервер с таймаутом
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}
