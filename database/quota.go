package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Тарифная политика сервиса
const (
	// FreeStringsPerMonth бесплатных строк на пользователя в расчетный месяц
	FreeStringsPerMonth = 19
	// PricePerStringCents цена одной строки сверх бесплатной квоты, в центах
	PricePerStringCents = 10
	// Currency валюта списаний
	Currency = "EUR"
)

// QuotaStatus текущее состояние квоты пользователя
type QuotaStatus struct {
	UserID         string `json:"user_id"`
	Period         string `json:"period"` // расчетный месяц YYYY-MM
	FreeUsed       int    `json:"free_used"`
	FreeRemaining  int    `json:"free_remaining"`
	PaidUsed       int    `json:"paid_used"`
	PricePerString int    `json:"price_per_string_cents"`
	Currency       string `json:"currency"`
}

// ChargeReceipt итог списания за пакет строк
type ChargeReceipt struct {
	TransactionUUID string `json:"transaction_uuid,omitempty"`
	StringsTotal    int    `json:"strings_total"`
	FreeCharged     int    `json:"free_charged"`
	PaidCharged     int    `json:"paid_charged"`
	AmountCents     int    `json:"amount_cents"`
	Currency        string `json:"currency"`
}

// currentPeriod расчетный месяц в формате YYYY-MM
func currentPeriod() string {
	return time.Now().UTC().Format("2006-01")
}

// GetQuota возвращает состояние квоты пользователя за текущий месяц.
// Пользователь без записей получает нетронутую квоту.
func (db *DB) GetQuota(userID string) (*QuotaStatus, error) {
	period := currentPeriod()
	status := &QuotaStatus{
		UserID:         userID,
		Period:         period,
		FreeRemaining:  FreeStringsPerMonth,
		PricePerString: PricePerStringCents,
		Currency:       Currency,
	}

	query := `SELECT free_used, paid_used FROM user_quotas WHERE user_id = ? AND period = ?`
	err := db.conn.QueryRow(query, userID, period).Scan(&status.FreeUsed, &status.PaidUsed)
	if err == sql.ErrNoRows {
		return status, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quota: %w", err)
	}

	status.FreeRemaining = FreeStringsPerMonth - status.FreeUsed
	if status.FreeRemaining < 0 {
		status.FreeRemaining = 0
	}
	return status, nil
}

// EstimateCharge считает стоимость пакета строк без списания
func (db *DB) EstimateCharge(userID string, stringsCount int) (*ChargeReceipt, error) {
	status, err := db.GetQuota(userID)
	if err != nil {
		return nil, err
	}

	free := status.FreeRemaining
	if free > stringsCount {
		free = stringsCount
	}
	paid := stringsCount - free

	return &ChargeReceipt{
		StringsTotal: stringsCount,
		FreeCharged:  free,
		PaidCharged:  paid,
		AmountCents:  paid * PricePerStringCents,
		Currency:     Currency,
	}, nil
}

// ConsumeQuota списывает пакет строк: сначала остаток бесплатной квоты,
// затем платные строки с записью в billing_history. Обновление квоты
// и биллинговая запись идут в одной транзакции.
func (db *DB) ConsumeQuota(userID, operation string, stringsCount int) (*ChargeReceipt, error) {
	if stringsCount <= 0 {
		return nil, fmt.Errorf("strings count must be positive, got %d", stringsCount)
	}

	period := currentPeriod()

	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Строка квоты создается при первом обращении пользователя в месяце
	_, err = tx.Exec(`
		INSERT INTO user_quotas (user_id, period, free_used, paid_used)
		VALUES (?, ?, 0, 0)
		ON CONFLICT(user_id, period) DO NOTHING
	`, userID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure quota row: %w", err)
	}

	var freeUsed, paidUsed int
	err = tx.QueryRow(`SELECT free_used, paid_used FROM user_quotas WHERE user_id = ? AND period = ?`,
		userID, period).Scan(&freeUsed, &paidUsed)
	if err != nil {
		return nil, fmt.Errorf("failed to read quota: %w", err)
	}

	freeRemaining := FreeStringsPerMonth - freeUsed
	if freeRemaining < 0 {
		freeRemaining = 0
	}
	free := freeRemaining
	if free > stringsCount {
		free = stringsCount
	}
	paid := stringsCount - free

	_, err = tx.Exec(`
		UPDATE user_quotas
		SET free_used = free_used + ?, paid_used = paid_used + ?, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND period = ?
	`, free, paid, userID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to update quota: %w", err)
	}

	receipt := &ChargeReceipt{
		StringsTotal: stringsCount,
		FreeCharged:  free,
		PaidCharged:  paid,
		AmountCents:  paid * PricePerStringCents,
		Currency:     Currency,
	}

	if paid > 0 {
		receipt.TransactionUUID = uuid.New().String()
		_, err = tx.Exec(`
			INSERT INTO billing_history (transaction_uuid, user_id, operation, strings_count, amount_cents, currency)
			VALUES (?, ?, ?, ?, ?, ?)
		`, receipt.TransactionUUID, userID, operation, paid, receipt.AmountCents, Currency)
		if err != nil {
			return nil, fmt.Errorf("failed to record billing: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return receipt, nil
}

// BillingEntry запись истории списаний
type BillingEntry struct {
	ID              int       `json:"id"`
	TransactionUUID string    `json:"transaction_uuid"`
	UserID          string    `json:"user_id"`
	Operation       string    `json:"operation"`
	StringsCount    int       `json:"strings_count"`
	AmountCents     int       `json:"amount_cents"`
	Currency        string    `json:"currency"`
	CreatedAt       time.Time `json:"created_at"`
}

// GetBillingHistory история списаний пользователя, новые первыми
func (db *DB) GetBillingHistory(userID string, limit int) ([]*BillingEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.conn.Query(`
		SELECT id, transaction_uuid, user_id, operation, strings_count, amount_cents, currency, created_at
		FROM billing_history
		WHERE user_id = ?
		ORDER BY id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get billing history: %w", err)
	}
	defer rows.Close()

	var entries []*BillingEntry
	for rows.Next() {
		entry := &BillingEntry{}
		err := rows.Scan(
			&entry.ID, &entry.TransactionUUID, &entry.UserID, &entry.Operation,
			&entry.StringsCount, &entry.AmountCents, &entry.Currency, &entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan billing entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating billing entries: %w", err)
	}

	return entries, nil
}
