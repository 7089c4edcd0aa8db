package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/vahango/rental-gateway/internal/models"
)

// ErrDraftNotFound is returned when a draft token is unknown or expired
var ErrDraftNotFound = errors.New("booking draft not found or expired")

const draftKeyPrefix = "draft:"

// DraftService stores short-lived booking drafts under opaque tokens.
// Drafts carry the renter's date and price selections from the listing page
// to the booking page. Redis holds them with a TTL; when Redis is down the
// service keeps them in memory so checkout keeps working on a single node.
type DraftService struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *logrus.Logger

	mu     sync.Mutex
	memory map[string]memoryDraft
}

type memoryDraft struct {
	draft     models.BookingDraft
	expiresAt time.Time
}

// NewDraftService creates a new draft service. redisClient may be nil.
func NewDraftService(redisClient *redis.Client, ttl time.Duration, logger *logrus.Logger) *DraftService {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &DraftService{
		redis:  redisClient,
		ttl:    ttl,
		logger: logger,
		memory: make(map[string]memoryDraft),
	}
}

// Create stores a draft and returns its token
func (s *DraftService) Create(ctx context.Context, draft models.BookingDraft) (string, error) {
	if draft.VehicleID == "" {
		return "", fmt.Errorf("draft vehicle ID is required")
	}
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = time.Now()
	}

	token := uuid.NewString()

	if s.redis != nil {
		payload, err := json.Marshal(draft)
		if err != nil {
			return "", fmt.Errorf("failed to marshal draft: %w", err)
		}
		if err := s.redis.Set(ctx, draftKeyPrefix+token, payload, s.ttl).Err(); err != nil {
			s.logger.WithError(err).Warn("Failed to store draft in Redis, keeping in memory")
		} else {
			return token, nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	s.memory[token] = memoryDraft{draft: draft, expiresAt: time.Now().Add(s.ttl)}
	return token, nil
}

// Get retrieves a draft by token
func (s *DraftService) Get(ctx context.Context, token string) (*models.BookingDraft, error) {
	if token == "" {
		return nil, ErrDraftNotFound
	}

	if s.redis != nil {
		payload, err := s.redis.Get(ctx, draftKeyPrefix+token).Bytes()
		if err == nil {
			var draft models.BookingDraft
			if err := json.Unmarshal(payload, &draft); err != nil {
				return nil, fmt.Errorf("failed to decode draft: %w", err)
			}
			return &draft, nil
		}
		if !errors.Is(err, redis.Nil) {
			s.logger.WithError(err).Warn("Failed to read draft from Redis, trying memory")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.memory[token]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.memory, token)
		return nil, ErrDraftNotFound
	}
	draft := entry.draft
	return &draft, nil
}

// Delete removes a draft once it has been consumed
func (s *DraftService) Delete(ctx context.Context, token string) {
	if token == "" {
		return
	}

	if s.redis != nil {
		if err := s.redis.Del(ctx, draftKeyPrefix+token).Err(); err != nil {
			s.logger.WithError(err).Warn("Failed to delete draft from Redis")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.memory, token)
}

// pruneLocked drops expired in-memory drafts. Caller holds the mutex.
func (s *DraftService) pruneLocked() {
	now := time.Now()
	for token, entry := range s.memory {
		if now.After(entry.expiresAt) {
			delete(s.memory, token)
		}
	}
}
