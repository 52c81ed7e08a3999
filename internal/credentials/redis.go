package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const defaultNamespace = "storefront"

// RedisStore keeps credentials in one hash, "<namespace>:credentials".
type RedisStore struct {
	client *redis.Client
	key    string
	sealer *Sealer
}

func NewRedisStore(client *redis.Client, namespace string, sealer *Sealer) *RedisStore {
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &RedisStore{
		client: client,
		key:    namespace + ":credentials",
		sealer: sealer,
	}
}

// DialRedis parses a redis:// URL and checks the connection.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, errors.New("REDIS_URL is empty")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func (s *RedisStore) Get(ctx context.Context) (Credentials, error) {
	values, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return Credentials{}, err
	}
	for name, v := range values {
		plain, err := s.sealer.Open(v)
		if err != nil {
			return Credentials{}, fmt.Errorf("%s: %w", name, err)
		}
		values[name] = plain
	}
	user, err := decodeUser(values[keyUser])
	if err != nil {
		return Credentials{}, fmt.Errorf("decode user: %w", err)
	}
	return Credentials{
		Token:        values[keyToken],
		RefreshToken: values[keyRefreshToken],
		User:         user,
	}, nil
}

func (s *RedisStore) Set(ctx context.Context, c Credentials) error {
	userJSON, err := encodeUser(c.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	fields := make(map[string]interface{}, 3)
	var drop []string
	for name, v := range map[string]string{
		keyToken:        c.Token,
		keyRefreshToken: c.RefreshToken,
		keyUser:         userJSON,
	} {
		if v == "" {
			drop = append(drop, name)
			continue
		}
		sealed, err := s.sealer.Seal(v)
		if err != nil {
			return err
		}
		fields[name] = sealed
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if len(drop) > 0 {
			p.HDel(ctx, s.key, drop...)
		}
		if len(fields) > 0 {
			p.HSet(ctx, s.key, fields)
		}
		return nil
	})
	return err
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
