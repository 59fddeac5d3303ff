package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/communitysafe/incident-map/internal/models"
)

const alertQueueKey = "incident_alerts"

// IncidentEvent is the payload delivered to alert subscribers when a new
// incident report is accepted.
type IncidentEvent struct {
	Incident  *models.Incident `json:"incident"`
	Timestamp time.Time        `json:"timestamp"`
}

// AlertPublisher enqueues incident alerts for asynchronous delivery.
type AlertPublisher interface {
	Publish(ctx context.Context, event IncidentEvent) error
}

// RedisAlertPublisher is an AlertPublisher backed by a Redis list.
type RedisAlertPublisher struct {
	redisClient *redis.Client
}

func NewRedisAlertPublisher(client *redis.Client) *RedisAlertPublisher {
	return &RedisAlertPublisher{
		redisClient: client,
	}
}

// Publish pushes the event onto the alert queue.
func (p *RedisAlertPublisher) Publish(ctx context.Context, event IncidentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal incident event: %w", err)
	}

	if err := p.redisClient.LPush(ctx, alertQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish incident event to Redis: %w", err)
	}
	return nil
}
