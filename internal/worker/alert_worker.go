package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	// RecentAlertsKey holds the rolling window of alerts for the ops panel.
	RecentAlertsKey = "alerts:recent"
	recentAlertsCap = 500
)

// StockAlertPayload covers both alert kinds: low_stock (current/min stock
// set) and batch_expired (batch fields set).
type StockAlertPayload struct {
	Kind         string `json:"kind"`
	ProductID    string `json:"product_id"`
	Name         string `json:"name,omitempty"`
	CurrentStock int    `json:"current_stock,omitempty"`
	MinStock     int    `json:"min_stock,omitempty"`
	BatchID      string `json:"batch_id,omitempty"`
	BatchNumber  string `json:"batch_number,omitempty"`
	Quantity     int    `json:"quantity,omitempty"`
}

// AlertWorker records stock alerts in a capped Redis list. Notification
// delivery (email, push) is out of scope — downstream consumers read the
// list.
type AlertWorker struct {
	rdb *redis.Client
}

func NewAlertWorker(rdb *redis.Client) *AlertWorker {
	return &AlertWorker{rdb: rdb}
}

func (w *AlertWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload StockAlertPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("alert: unmarshal payload: %w", err)
	}
	if payload.Kind == "" || payload.ProductID == "" {
		return fmt.Errorf("alert: payload missing kind or product_id")
	}

	record := map[string]interface{}{
		"kind":       payload.Kind,
		"product_id": payload.ProductID,
		"payload":    json.RawMessage(raw),
		"seen_at":    time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("alert: marshal record: %w", err)
	}

	pipe := w.rdb.TxPipeline()
	pipe.LPush(ctx, RecentAlertsKey, data)
	pipe.LTrim(ctx, RecentAlertsKey, 0, recentAlertsCap-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("alert: record in redis: %w", err)
	}

	log.Info().
		Str("kind", payload.Kind).
		Str("product_id", payload.ProductID).
		Str("batch_number", payload.BatchNumber).
		Msg("stock alert recorded")
	return nil
}
