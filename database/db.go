package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DBConfig конфигурация пула соединений
type DBConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DB обертка для работы с базой данных сервиса:
// квоты пользователей, биллинг и история операций
type DB struct {
	conn *sql.DB
}

// NewDB создает новое подключение к базе данных
func NewDB(dbPath string) (*DB, error) {
	return NewDBWithConfig(dbPath, DBConfig{})
}

// NewDBWithConfig создает новое подключение к базе данных с конфигурацией
func NewDBWithConfig(dbPath string, config DBConfig) (*DB, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настройка connection pooling
	if config.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(config.MaxOpenConns)
	} else {
		conn.SetMaxOpenConns(25) // Значение по умолчанию
	}

	if config.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(config.MaxIdleConns)
	} else {
		conn.SetMaxIdleConns(5) // Значение по умолчанию
	}

	if config.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(config.ConnMaxLifetime)
	} else {
		conn.SetConnMaxLifetime(5 * time.Minute) // Значение по умолчанию
	}

	// Проверяем подключение
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{conn: conn}

	// Инициализируем схему
	if err := InitSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// Close закрывает подключение к базе данных
func (db *DB) Close() error {
	return db.conn.Close()
}

// GetDB возвращает указатель на sql.DB для прямого доступа
func (db *DB) GetDB() *sql.DB {
	return db.conn
}

// GetStats получает сводную статистику сервиса
func (db *DB) GetStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var totalUsers int
	err := db.conn.QueryRow("SELECT COUNT(DISTINCT user_id) FROM user_quotas").Scan(&totalUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to get total users: %w", err)
	}
	stats["total_users"] = totalUsers

	var totalRecognitions int
	err = db.conn.QueryRow("SELECT COUNT(*) FROM recognition_history").Scan(&totalRecognitions)
	if err != nil {
		return nil, fmt.Errorf("failed to get total recognitions: %w", err)
	}
	stats["total_recognitions"] = totalRecognitions

	var totalConversions int
	err = db.conn.QueryRow("SELECT COUNT(*) FROM conversion_history").Scan(&totalConversions)
	if err != nil {
		return nil, fmt.Errorf("failed to get total conversions: %w", err)
	}
	stats["total_conversions"] = totalConversions

	var billedCents sql.NullInt64
	err = db.conn.QueryRow("SELECT SUM(amount_cents) FROM billing_history").Scan(&billedCents)
	if err != nil {
		return nil, fmt.Errorf("failed to get billed total: %w", err)
	}
	stats["billed_cents_total"] = billedCents.Int64
	stats["currency"] = Currency

	var avgConfidence sql.NullFloat64
	err = db.conn.QueryRow("SELECT AVG(confidence) FROM recognition_history").Scan(&avgConfidence)
	if err != nil {
		return nil, fmt.Errorf("failed to get average confidence: %w", err)
	}
	stats["average_confidence"] = avgConfidence.Float64

	return stats, nil
}
