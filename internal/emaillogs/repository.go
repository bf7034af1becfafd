package emaillogs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sdc-club/backend/internal/models"
)

const (
	keyPrefix = "email_logs:"
	// MaxPerRegistration caps the attempts kept for one registration.
	MaxPerRegistration = 50
	// Retention is how long a registration's email log lives after its last attempt.
	Retention = 90 * 24 * time.Hour
)

// Repository keeps email delivery logs in Redis, one capped list per registration.
type Repository struct {
	client *redis.Client
	now    func() time.Time
}

// NewRepository creates an email logs repository.
func NewRepository(client *redis.Client) *Repository {
	return &Repository{client: client, now: time.Now}
}

func key(registrationID string) string { return keyPrefix + registrationID }

// Record stores an attempt, assigning its id and creation time.
func (r *Repository) Record(ctx context.Context, log *models.EmailLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	log.CreatedAt = r.now().UTC()
	data, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("marshal email log: %w", err)
	}
	k := key(log.RegistrationID)
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, k, data)
	pipe.LTrim(ctx, k, 0, MaxPerRegistration-1)
	pipe.Expire(ctx, k, Retention)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record email log: %w", err)
	}
	return nil
}

// ListByRegistration returns email logs for a registration, newest first.
func (r *Repository) ListByRegistration(ctx context.Context, registrationID string) ([]models.EmailLog, error) {
	raw, err := r.client.LRange(ctx, key(registrationID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list email logs: %w", err)
	}
	list := make([]models.EmailLog, 0, len(raw))
	for _, s := range raw {
		var el models.EmailLog
		if err := json.Unmarshal([]byte(s), &el); err != nil {
			continue
		}
		list = append(list, el)
	}
	return list, nil
}
