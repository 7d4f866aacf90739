package database

import (
	"database/sql"
	"fmt"
)

// InitSchema создает все необходимые таблицы в SQLite базе данных
func InitSchema(db *sql.DB) error {
	schema := `
	-- Квоты пользователей по расчетным месяцам
	CREATE TABLE IF NOT EXISTS user_quotas (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		period TEXT NOT NULL, -- расчетный месяц YYYY-MM
		free_used INTEGER DEFAULT 0,
		paid_used INTEGER DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(user_id, period)
	);

	-- История списаний
	CREATE TABLE IF NOT EXISTS billing_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		transaction_uuid TEXT UNIQUE NOT NULL,
		user_id TEXT NOT NULL,
		operation TEXT NOT NULL, -- recognition, conversion
		strings_count INTEGER NOT NULL,
		amount_cents INTEGER NOT NULL,
		currency TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- История распознаваний
	CREATE TABLE IF NOT EXISTS recognition_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT,
		input_string TEXT NOT NULL,
		detected_version TEXT,
		confidence REAL,
		uncertainty_level TEXT,
		processing_time_ms REAL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- История конвертаций
	CREATE TABLE IF NOT EXISTS conversion_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT,
		input_string TEXT NOT NULL,
		output_string TEXT,
		from_version TEXT NOT NULL,
		to_version TEXT NOT NULL,
		success INTEGER NOT NULL,
		error TEXT,
		processing_time_ms REAL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Индексы для оптимизации запросов
	CREATE INDEX IF NOT EXISTS idx_user_quotas_user_period ON user_quotas(user_id, period);
	CREATE INDEX IF NOT EXISTS idx_billing_user_id ON billing_history(user_id);
	CREATE INDEX IF NOT EXISTS idx_recognition_user_id ON recognition_history(user_id);
	CREATE INDEX IF NOT EXISTS idx_recognition_version ON recognition_history(detected_version);
	CREATE INDEX IF NOT EXISTS idx_conversion_user_id ON conversion_history(user_id);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
