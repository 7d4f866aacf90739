package database

import (
	"database/sql"
	"fmt"
	"time"
)

// RecognitionEntry запись истории распознаваний
type RecognitionEntry struct {
	ID               int       `json:"id"`
	UserID           string    `json:"user_id,omitempty"`
	InputString      string    `json:"input_string"`
	DetectedVersion  string    `json:"detected_version,omitempty"`
	Confidence       float64   `json:"confidence"`
	UncertaintyLevel string    `json:"uncertainty_level,omitempty"`
	ProcessingTimeMS float64   `json:"processing_time_ms"`
	CreatedAt        time.Time `json:"created_at"`
}

// ConversionEntry запись истории конвертаций
type ConversionEntry struct {
	ID               int       `json:"id"`
	UserID           string    `json:"user_id,omitempty"`
	InputString      string    `json:"input_string"`
	OutputString     string    `json:"output_string,omitempty"`
	FromVersion      string    `json:"from_version"`
	ToVersion        string    `json:"to_version"`
	Success          bool      `json:"success"`
	Error            string    `json:"error,omitempty"`
	ProcessingTimeMS float64   `json:"processing_time_ms"`
	CreatedAt        time.Time `json:"created_at"`
}

// LogRecognition сохраняет итог распознавания в историю
func (db *DB) LogRecognition(entry *RecognitionEntry) error {
	_, err := db.conn.Exec(`
		INSERT INTO recognition_history (user_id, input_string, detected_version, confidence, uncertainty_level, processing_time_ms)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.UserID, entry.InputString, entry.DetectedVersion, entry.Confidence, entry.UncertaintyLevel, entry.ProcessingTimeMS)
	if err != nil {
		return fmt.Errorf("failed to log recognition: %w", err)
	}
	return nil
}

// LogConversion сохраняет итог конвертации в историю
func (db *DB) LogConversion(entry *ConversionEntry) error {
	success := 0
	if entry.Success {
		success = 1
	}
	_, err := db.conn.Exec(`
		INSERT INTO conversion_history (user_id, input_string, output_string, from_version, to_version, success, error, processing_time_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.UserID, entry.InputString, entry.OutputString, entry.FromVersion, entry.ToVersion, success, entry.Error, entry.ProcessingTimeMS)
	if err != nil {
		return fmt.Errorf("failed to log conversion: %w", err)
	}
	return nil
}

// GetRecentRecognitions последние распознавания, новые первыми
func (db *DB) GetRecentRecognitions(limit int) ([]*RecognitionEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.conn.Query(`
		SELECT id, COALESCE(user_id, ''), input_string, COALESCE(detected_version, ''),
		       COALESCE(confidence, 0), COALESCE(uncertainty_level, ''), COALESCE(processing_time_ms, 0), created_at
		FROM recognition_history
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recognitions: %w", err)
	}
	defer rows.Close()

	var entries []*RecognitionEntry
	for rows.Next() {
		entry := &RecognitionEntry{}
		err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.InputString, &entry.DetectedVersion,
			&entry.Confidence, &entry.UncertaintyLevel, &entry.ProcessingTimeMS, &entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recognition entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recognition entries: %w", err)
	}

	return entries, nil
}

// VersionUsage счетчики распознанных версий за всю историю
func (db *DB) VersionUsage() (map[string]int, error) {
	rows, err := db.conn.Query(`
		SELECT detected_version, COUNT(*)
		FROM recognition_history
		WHERE detected_version IS NOT NULL AND detected_version != ''
		GROUP BY detected_version
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get version usage: %w", err)
	}
	defer rows.Close()

	usage := make(map[string]int)
	for rows.Next() {
		var version string
		var count int
		if err := rows.Scan(&version, &count); err != nil {
			return nil, fmt.Errorf("failed to scan version usage: %w", err)
		}
		usage[version] = count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating version usage: %w", err)
	}

	return usage, nil
}

// LowConfidenceShare доля распознаваний с уверенностью ниже порога
func (db *DB) LowConfidenceShare(threshold float64) (float64, error) {
	var total, low sql.NullInt64
	err := db.conn.QueryRow(`
		SELECT COUNT(*), SUM(CASE WHEN confidence < ? THEN 1 ELSE 0 END)
		FROM recognition_history
	`, threshold).Scan(&total, &low)
	if err != nil {
		return 0, fmt.Errorf("failed to get low confidence share: %w", err)
	}
	if total.Int64 == 0 {
		return 0, nil
	}
	return float64(low.Int64) / float64(total.Int64), nil
}
