package conversation

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/debarshiray/libpwquality/internal"
	"github.com/debarshiray/libpwquality/seal"
)

// ErrUnavailable is an exported constant or variable used by the password-change controller.
var ErrUnavailable = errors.New("conversation store unavailable")

// ErrNotFound is returned when the conversation does not exist or has expired.
var ErrNotFound = errors.New("conversation not found")

// ErrSecretMismatch is returned when the resume token secret does not match the stored hash.
var ErrSecretMismatch = errors.New("conversation secret mismatch")

// ErrExhausted is returned when the conversation attempt cap has been reached.
var ErrExhausted = errors.New("conversation attempts exhausted")

var errNoSealer = errors.New("conversation sealer not configured")

const (
	defaultTTL    = 5 * time.Minute
	minStoreTTL   = time.Second
	watchRetries  = 4
	defaultPrefix = "pwc"
)

// Store is a Redis-backed record of in-flight password-change conversations
// for hosts that cannot hold one in memory across requests. Each record is
// addressed by service and conversation ID and guarded by a random secret
// whose hash is stored at rest.
type Store struct {
	redis       redis.UniversalClient
	sealer      *seal.Sealer
	prefix      string
	ttl         time.Duration
	jitterRange time.Duration
}

// NewStore creates a conversation [Store] backed by the given Redis client.
// prefix sets the Redis key namespace; ttl bounds a conversation's lifetime
// and jitterRange spreads expirations around it.
func NewStore(
	redisClient redis.UniversalClient,
	sealer *seal.Sealer,
	prefix string,
	ttl time.Duration,
	jitterRange time.Duration,
) *Store {
	if prefix == "" {
		prefix = defaultPrefix
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{
		redis:       redisClient,
		sealer:      sealer,
		prefix:      prefix,
		ttl:         ttl,
		jitterRange: jitterRange,
	}
}

func (s *Store) key(service, id string) string {
	return s.prefix + ":" + normalizeService(service) + ":" + id
}

func normalizeService(service string) string {
	if service == "" {
		return "0"
	}
	return service
}

// Create opens a new conversation for service and user and persists it with a
// jittered TTL. The returned resume token carries the conversation ID and the
// one-time secret; only its hash is stored.
//
// Create may return an error when input validation, dependency calls, or security checks fail.
// Create does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) Create(
	ctx context.Context,
	service, user string,
	flags uint32,
	oldAuthTok string,
) (*Record, string, error) {
	id := uuid.New()

	secret, err := internal.NewResumeSecret()
	if err != nil {
		return nil, "", err
	}

	now := time.Now().Unix()
	record := &Record{
		ID:         id.String(),
		Service:    service,
		User:       user,
		SecretHash: internal.HashResumeSecret(secret),
		Flags:      flags,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if oldAuthTok != "" {
		if s.sealer == nil {
			return nil, "", errNoSealer
		}
		sealed, err := s.sealer.Seal([]byte(oldAuthTok), s.additionalData(record))
		if err != nil {
			return nil, "", err
		}
		record.SealedOldAuthTok = sealed
	}

	encoded, err := Encode(record)
	if err != nil {
		return nil, "", err
	}

	ttl, err := s.jitteredTTL()
	if err != nil {
		return nil, "", err
	}

	if err := s.redis.Set(ctx, s.key(service, record.ID), encoded, ttl).Err(); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return record, internal.EncodeResumeToken([16]byte(id), secret), nil
}

// Resume loads the conversation addressed by a resume token, verifying the
// embedded secret against the stored hash in constant time.
//
// Resume may return an error when input validation, dependency calls, or security checks fail.
// Resume does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) Resume(ctx context.Context, service, resumeToken string) (*Record, error) {
	rawID, secret, err := internal.DecodeResumeToken(resumeToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	id := uuid.UUID(rawID).String()

	record, err := s.Get(ctx, service, id)
	if err != nil {
		return nil, err
	}

	providedHash := internal.HashResumeSecret(secret)
	if subtle.ConstantTimeCompare(record.SecretHash[:], providedHash[:]) != 1 {
		return nil, ErrSecretMismatch
	}

	return record, nil
}

// Get fetches a conversation record without checking the resume secret.
//
// Get may return an error when input validation, dependency calls, or security checks fail.
// Get does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) Get(ctx context.Context, service, id string) (*Record, error) {
	data, err := s.redis.Get(ctx, s.key(service, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return Decode(data)
}

// Save persists a mutated record, refreshing UpdatedAt and preserving the
// remaining TTL.
//
// Save may return an error when input validation, dependency calls, or security checks fail.
// Save does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) Save(ctx context.Context, record *Record) error {
	key := s.key(record.Service, record.ID)

	pttl, err := s.redis.PTTL(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if pttl <= 0 {
		return ErrNotFound
	}

	record.UpdatedAt = time.Now().Unix()
	encoded, err := Encode(record)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, key, encoded, pttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return nil
}

// RegisterAttempt counts one failed attempt against the conversation under an
// optimistic WATCH transaction. When the incremented counter reaches
// maxAttempts the record is deleted and ErrExhausted returned; maxAttempts <= 0
// means no cap. On success the updated record is returned.
//
// RegisterAttempt may return an error when input validation, dependency calls, or security checks fail.
// RegisterAttempt does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) RegisterAttempt(
	ctx context.Context,
	service, id string,
	maxAttempts int,
) (*Record, error) {
	key := s.key(service, id)

	for i := 0; i < watchRetries; i++ {
		var updated *Record

		err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				return err
			}

			record, err := Decode(data)
			if err != nil {
				return err
			}

			record.Tries++
			if maxAttempts > 0 && int(record.Tries) >= maxAttempts {
				_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
					pipe.Del(ctx, key)
					return nil
				})
				if err != nil {
					return err
				}
				return ErrExhausted
			}

			pttl, err := tx.PTTL(ctx, key).Result()
			if err != nil {
				return err
			}
			if pttl <= 0 {
				_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
					pipe.Del(ctx, key)
					return nil
				})
				if err != nil {
					return err
				}
				return ErrNotFound
			}

			record.UpdatedAt = time.Now().Unix()
			encoded, err := Encode(record)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, encoded, pttl)
				return nil
			})
			if err != nil {
				return err
			}

			updated = record
			return nil
		}, key)

		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			switch {
			case errors.Is(err, redis.Nil):
				return nil, ErrNotFound
			case errors.Is(err, ErrNotFound), errors.Is(err, ErrExhausted):
				return nil, err
			default:
				return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
			}
		}

		return updated, nil
	}

	return nil, fmt.Errorf("%w: optimistic retries exhausted", ErrUnavailable)
}

// Delete removes a conversation. Deleting a missing conversation is not an
// error.
//
// Delete may return an error when input validation, dependency calls, or security checks fail.
// Delete does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) Delete(ctx context.Context, service, id string) error {
	if err := s.redis.Del(ctx, s.key(service, id)).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return time.Since(start), nil
}

func (s *Store) additionalData(record *Record) []byte {
	return []byte(s.key(record.Service, record.ID))
}

func (s *Store) jitteredTTL() (time.Duration, error) {
	ttl := s.ttl

	if s.jitterRange > 0 {
		jitter, err := randomJitter(s.jitterRange)
		if err != nil {
			return 0, err
		}
		ttl += jitter
	}

	if ttl < minStoreTTL {
		ttl = minStoreTTL
	}

	return ttl, nil
}

func randomJitter(jitterRange time.Duration) (time.Duration, error) {
	if jitterRange <= 0 {
		return 0, nil
	}

	max := jitterRange.Nanoseconds()
	if max > (math.MaxInt64-1)/2 {
		return 0, errors.New("jitter range too large")
	}
	span := max*2 + 1

	n, err := rand.Int(rand.Reader, big.NewInt(span))
	if err != nil {
		return 0, err
	}

	return time.Duration(n.Int64() - max), nil
}
