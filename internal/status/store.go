package status

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"voicechat/internal/chat"
)

// AudioStatus is the volatile per-session state the client reports while it
// is recording or playing back. It lives only in redis with a TTL and is
// never written to the relational store.
type AudioStatus struct {
	SessionID        string                `json:"session_id"`
	IsRecording      bool                  `json:"is_recording"`
	IsPlaying        bool                  `json:"is_playing"`
	VolumeLevel      float64               `json:"volume_level"` // normalized 0..1
	ConnectionStatus chat.ConnectionStatus `json:"connection_status"`
}

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Store{rdb: rdb, ttl: ttl}
}

func key(sessionID string) string {
	return "voicechat:status:" + sessionID
}

func (s *Store) Set(ctx context.Context, st AudioStatus) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key(st.SessionID), b, s.ttl).Err()
}

// Get returns (nil, nil) when no status has been reported recently; an
// expired key is the normal idle state, not an error.
func (s *Store) Get(ctx context.Context, sessionID string) (*AudioStatus, error) {
	b, err := s.rdb.Get(ctx, key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var st AudioStatus
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, err
	}
	return &st, nil
}
