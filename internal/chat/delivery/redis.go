package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"gochat/internal/chat/models"
)

const presencePrefix = "chat:presence:"

// releaseScript deletes the presence key only if this instance still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func presenceKey(userID uint64) string {
	return presencePrefix + strconv.FormatUint(userID, 10)
}

// RedisPresence stores "user is connected to instance X" with a TTL refreshed on every ping.
type RedisPresence struct {
	rdb        *redis.Client
	instanceID string
	ttl        time.Duration
}

func NewRedisPresence(rdb *redis.Client, instanceID string, ttl time.Duration) *RedisPresence {
	if ttl <= 0 {
		ttl = 90 * time.Second
	}
	return &RedisPresence{rdb: rdb, instanceID: instanceID, ttl: ttl}
}

func (p *RedisPresence) SetOnline(ctx context.Context, userID uint64) error {
	return p.rdb.Set(ctx, presenceKey(userID), p.instanceID, p.ttl).Err()
}

func (p *RedisPresence) SetOffline(ctx context.Context, userID uint64) error {
	return releaseScript.Run(ctx, p.rdb, []string{presenceKey(userID)}, p.instanceID).Err()
}

func (p *RedisPresence) IsOnline(ctx context.Context, userID uint64) (bool, error) {
	n, err := p.rdb.Exists(ctx, presenceKey(userID)).Result()
	return n > 0, err
}

func (p *RedisPresence) Online(ctx context.Context) ([]uint64, error) {
	var ids []uint64
	iter := p.rdb.Scan(ctx, 0, presencePrefix+"*", 200).Iterator()
	for iter.Next(ctx) {
		if id, ok := parsePresenceKey(iter.Val()); ok {
			ids = append(ids, id)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan presence: %w", err)
	}
	return ids, nil
}

func parsePresenceKey(key string) (uint64, bool) {
	raw, ok := strings.CutPrefix(key, presencePrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	return id, err == nil
}

// envelope is what travels on the relay channel.
type envelope struct {
	Origin    string       `json:"origin"`
	Recipient uint64       `json:"recipient"`
	Event     models.Event `json:"event"`
}

func encodeEnvelope(origin string, ev models.Event) ([]byte, error) {
	return json.Marshal(envelope{Origin: origin, Recipient: ev.RecipientID, Event: ev})
}

func decodeEnvelope(payload []byte) (string, models.Event, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return "", models.Event{}, err
	}
	env.Event.RecipientID = env.Recipient
	return env.Origin, env.Event, nil
}

// RedisRelay publishes events for users connected to other instances and
// delivers events other instances publish for users connected here.
type RedisRelay struct {
	rdb        *redis.Client
	channel    string
	instanceID string
	presence   *RedisPresence
	log        *zap.Logger
}

func NewRedisRelay(rdb *redis.Client, channel, instanceID string, presence *RedisPresence, log *zap.Logger) *RedisRelay {
	return &RedisRelay{rdb: rdb, channel: channel, instanceID: instanceID, presence: presence, log: log}
}

func (r *RedisRelay) Forward(ctx context.Context, ev models.Event) (bool, error) {
	online, err := r.presence.IsOnline(ctx, ev.RecipientID)
	if err != nil {
		return false, err
	}
	if !online {
		return false, nil
	}
	payload, err := encodeEnvelope(r.instanceID, ev)
	if err != nil {
		return false, err
	}
	if err := r.rdb.Publish(ctx, r.channel, payload).Err(); err != nil {
		return false, err
	}
	return true, nil
}

// Run delivers relayed events until ctx is done.
func (r *RedisRelay) Run(ctx context.Context, deliver func(models.Event) bool) error {
	sub := r.rdb.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}
	r.log.Info("relay subscribed", zap.String("channel", r.channel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			origin, ev, err := decodeEnvelope([]byte(msg.Payload))
			if err != nil {
				r.log.Warn("bad relay payload", zap.Error(err))
				continue
			}
			if origin == r.instanceID {
				continue
			}
			deliver(ev)
		}
	}
}
