package database

import (
	"strings"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGetQuotaUntouched(t *testing.T) {
	db := newTestDB(t)

	status, err := db.GetQuota("fresh-user")
	if err != nil {
		t.Fatalf("GetQuota() error = %v", err)
	}

	if status.FreeUsed != 0 || status.PaidUsed != 0 {
		t.Errorf("нетронутая квота: %+v", status)
	}
	if status.FreeRemaining != FreeStringsPerMonth {
		t.Errorf("FreeRemaining = %d, ожидалось %d", status.FreeRemaining, FreeStringsPerMonth)
	}
	if status.Currency != Currency || status.PricePerString != PricePerStringCents {
		t.Errorf("тарифные поля: %+v", status)
	}
	if len(status.Period) != 7 || status.Period[4] != '-' {
		t.Errorf("период %q не похож на YYYY-MM", status.Period)
	}
}

func TestConsumeQuotaWithinFree(t *testing.T) {
	db := newTestDB(t)

	receipt, err := db.ConsumeQuota("user1", "recognition", 5)
	if err != nil {
		t.Fatalf("ConsumeQuota() error = %v", err)
	}

	if receipt.FreeCharged != 5 || receipt.PaidCharged != 0 || receipt.AmountCents != 0 {
		t.Errorf("списание в пределах квоты: %+v", receipt)
	}
	if receipt.TransactionUUID != "" {
		t.Error("бесплатное списание не должно получать идентификатор транзакции")
	}

	status, err := db.GetQuota("user1")
	if err != nil {
		t.Fatalf("GetQuota() error = %v", err)
	}
	if status.FreeUsed != 5 || status.FreeRemaining != FreeStringsPerMonth-5 {
		t.Errorf("квота после списания: %+v", status)
	}
}

func TestConsumeQuotaCrossesIntoPaid(t *testing.T) {
	db := newTestDB(t)

	receipt, err := db.ConsumeQuota("user2", "recognition", FreeStringsPerMonth+1)
	if err != nil {
		t.Fatalf("ConsumeQuota() error = %v", err)
	}

	if receipt.FreeCharged != FreeStringsPerMonth || receipt.PaidCharged != 1 {
		t.Errorf("списание через границу квоты: %+v", receipt)
	}
	if receipt.AmountCents != PricePerStringCents {
		t.Errorf("AmountCents = %d, ожидалось %d", receipt.AmountCents, PricePerStringCents)
	}
	if receipt.TransactionUUID == "" {
		t.Error("платное списание должно получать идентификатор транзакции")
	}

	// Биллинговая запись появляется в истории
	entries, err := db.GetBillingHistory("user2", 10)
	if err != nil {
		t.Fatalf("GetBillingHistory() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("записей биллинга %d, ожидалась 1", len(entries))
	}
	if entries[0].TransactionUUID != receipt.TransactionUUID {
		t.Errorf("идентификатор в истории %s != %s", entries[0].TransactionUUID, receipt.TransactionUUID)
	}
	if entries[0].StringsCount != 1 || entries[0].AmountCents != PricePerStringCents {
		t.Errorf("биллинговая запись: %+v", entries[0])
	}
}

func TestConsumeQuotaSequential(t *testing.T) {
	db := newTestDB(t)

	// Первое списание съедает всю бесплатную квоту, второе целиком платное
	if _, err := db.ConsumeQuota("user3", "recognition", FreeStringsPerMonth); err != nil {
		t.Fatalf("ConsumeQuota() error = %v", err)
	}
	receipt, err := db.ConsumeQuota("user3", "conversion", 3)
	if err != nil {
		t.Fatalf("ConsumeQuota() error = %v", err)
	}
	if receipt.FreeCharged != 0 || receipt.PaidCharged != 3 {
		t.Errorf("второе списание: %+v", receipt)
	}
	if receipt.AmountCents != 3*PricePerStringCents {
		t.Errorf("AmountCents = %d", receipt.AmountCents)
	}

	status, err := db.GetQuota("user3")
	if err != nil {
		t.Fatalf("GetQuota() error = %v", err)
	}
	if status.FreeRemaining != 0 || status.PaidUsed != 3 {
		t.Errorf("квота после двух списаний: %+v", status)
	}
}

func TestConsumeQuotaRejectsNonPositive(t *testing.T) {
	db := newTestDB(t)

	for _, count := range []int{0, -5} {
		if _, err := db.ConsumeQuota("user", "recognition", count); err == nil {
			t.Errorf("ConsumeQuota(%d) должен отклоняться", count)
		}
	}
}

func TestEstimateChargeDoesNotConsume(t *testing.T) {
	db := newTestDB(t)

	receipt, err := db.EstimateCharge("user4", FreeStringsPerMonth+5)
	if err != nil {
		t.Fatalf("EstimateCharge() error = %v", err)
	}
	if receipt.FreeCharged != FreeStringsPerMonth || receipt.PaidCharged != 5 {
		t.Errorf("оценка: %+v", receipt)
	}
	if receipt.AmountCents != 5*PricePerStringCents {
		t.Errorf("AmountCents = %d", receipt.AmountCents)
	}

	status, err := db.GetQuota("user4")
	if err != nil {
		t.Fatalf("GetQuota() error = %v", err)
	}
	if status.FreeUsed != 0 {
		t.Error("оценка стоимости не должна трогать квоту")
	}
}

func TestRecognitionHistory(t *testing.T) {
	db := newTestDB(t)

	entries := []*RecognitionEntry{
		{UserID: "u", InputString: "first", DetectedVersion: "euring_2020", Confidence: 0.95, UncertaintyLevel: "confident", ProcessingTimeMS: 1.2},
		{UserID: "u", InputString: "second", DetectedVersion: "euring_1966", Confidence: 0.55, UncertaintyLevel: "low_confidence", ProcessingTimeMS: 0.8},
	}
	for _, e := range entries {
		if err := db.LogRecognition(e); err != nil {
			t.Fatalf("LogRecognition() error = %v", err)
		}
	}

	recent, err := db.GetRecentRecognitions(10)
	if err != nil {
		t.Fatalf("GetRecentRecognitions() error = %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("записей %d, ожидалось 2", len(recent))
	}
	// Новые первыми
	if recent[0].InputString != "second" || recent[1].InputString != "first" {
		t.Errorf("порядок записей: %s, %s", recent[0].InputString, recent[1].InputString)
	}
	if recent[0].DetectedVersion != "euring_1966" || recent[0].Confidence != 0.55 {
		t.Errorf("содержимое записи: %+v", recent[0])
	}

	usage, err := db.VersionUsage()
	if err != nil {
		t.Fatalf("VersionUsage() error = %v", err)
	}
	if usage["euring_2020"] != 1 || usage["euring_1966"] != 1 {
		t.Errorf("счётчики версий: %v", usage)
	}

	share, err := db.LowConfidenceShare(0.7)
	if err != nil {
		t.Fatalf("LowConfidenceShare() error = %v", err)
	}
	if share != 0.5 {
		t.Errorf("доля низкой уверенности %v, ожидалось 0.5", share)
	}
}

func TestLowConfidenceShareEmpty(t *testing.T) {
	db := newTestDB(t)

	share, err := db.LowConfidenceShare(0.7)
	if err != nil {
		t.Fatalf("LowConfidenceShare() error = %v", err)
	}
	if share != 0 {
		t.Errorf("пустая история должна давать 0, получено %v", share)
	}
}

func TestConversionHistory(t *testing.T) {
	db := newTestDB(t)

	err := db.LogConversion(&ConversionEntry{
		UserID:       "u",
		InputString:  "in",
		OutputString: "out",
		FromVersion:  "euring_1966",
		ToVersion:    "euring_2020",
		Success:      true,
	})
	if err != nil {
		t.Fatalf("LogConversion() error = %v", err)
	}

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats["total_conversions"] != 1 {
		t.Errorf("total_conversions = %v", stats["total_conversions"])
	}
}

func TestGetStats(t *testing.T) {
	db := newTestDB(t)

	if _, err := db.ConsumeQuota("user-a", "recognition", FreeStringsPerMonth+2); err != nil {
		t.Fatalf("ConsumeQuota() error = %v", err)
	}
	if err := db.LogRecognition(&RecognitionEntry{InputString: "x", DetectedVersion: "euring_2020", Confidence: 0.8}); err != nil {
		t.Fatalf("LogRecognition() error = %v", err)
	}

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}

	if stats["total_users"] != 1 {
		t.Errorf("total_users = %v", stats["total_users"])
	}
	if stats["total_recognitions"] != 1 {
		t.Errorf("total_recognitions = %v", stats["total_recognitions"])
	}
	if stats["billed_cents_total"] != int64(2*PricePerStringCents) {
		t.Errorf("billed_cents_total = %v", stats["billed_cents_total"])
	}
	if stats["currency"] != Currency {
		t.Errorf("currency = %v", stats["currency"])
	}
	if stats["average_confidence"] != 0.8 {
		t.Errorf("average_confidence = %v", stats["average_confidence"])
	}
}

func TestCurrentPeriodFormat(t *testing.T) {
	period := currentPeriod()
	if len(period) != 7 || !strings.Contains(period, "-") {
		t.Errorf("период %q не в формате YYYY-MM", period)
	}
}
