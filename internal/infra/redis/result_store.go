package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"bias-assessment-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// ResultStore persists assessment results in Redis.
// Layout:
//
//	INCR   assessment:result:seq                 -> next id
//	SET    assessment:result:{id}  {json}        -> record
//	RPUSH  assessment:session:{sessionID} {id}   -> ids in save order
//
// A zero ttl keeps records forever.
type ResultStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResultStore(client *redis.Client, ttl time.Duration) *ResultStore {
	return &ResultStore{client: client, ttl: ttl}
}

func (s *ResultStore) Save(ctx context.Context, result domain.AssessmentResult) (domain.AssessmentResult, error) {
	id, err := s.client.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return domain.AssessmentResult{}, fmt.Errorf("next result id: %w", err)
	}
	result.ID = id

	data, err := json.Marshal(result)
	if err != nil {
		return domain.AssessmentResult{}, fmt.Errorf("marshal result: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.resultKey(id), data, s.ttl)
		pipe.RPush(ctx, s.sessionKey(result.SessionID), id)
		if s.ttl > 0 {
			pipe.Expire(ctx, s.sessionKey(result.SessionID), s.ttl)
		}
		return nil
	})
	if err != nil {
		return domain.AssessmentResult{}, fmt.Errorf("store result: %w", err)
	}
	return result, nil
}

// FindBySessionID returns the earliest saved result still present for sessionID.
func (s *ResultStore) FindBySessionID(ctx context.Context, sessionID string) (domain.AssessmentResult, error) {
	ids, err := s.client.LRange(ctx, s.sessionKey(sessionID), 0, -1).Result()
	if err != nil {
		return domain.AssessmentResult{}, fmt.Errorf("lookup session %s: %w", sessionID, err)
	}
	for _, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		data, err := s.client.Get(ctx, s.resultKey(id)).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return domain.AssessmentResult{}, fmt.Errorf("load result %d: %w", id, err)
		}
		var result domain.AssessmentResult
		if err := json.Unmarshal(data, &result); err != nil {
			return domain.AssessmentResult{}, fmt.Errorf("unmarshal result %d: %w", id, err)
		}
		return result, nil
	}
	return domain.AssessmentResult{}, domain.ErrResultNotFound
}

func (s *ResultStore) seqKey() string {
	return "assessment:result:seq"
}

func (s *ResultStore) resultKey(id int64) string {
	return "assessment:result:" + strconv.FormatInt(id, 10)
}

func (s *ResultStore) sessionKey(sessionID string) string {
	return "assessment:session:" + sessionID
}
