package valkey

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/movi-app/movi/pkg/cacheaside"
	valkeylib "github.com/valkey-io/valkey-go"
)

const DefaultConnectTimeout = 5 * time.Second

type Config struct {
	Address        string
	Password       string
	DB             int
	KeyPrefix      string
	ConnectTimeout time.Duration
}

// ResultStore keeps serialized query results in Valkey with a per-key TTL.
// Every key is written under the configured namespace, e.g. "movi:top_rated_genre:Comedy".
type ResultStore struct {
	client valkeylib.Client
	prefix string
}

var _ cacheaside.Store = (*ResultStore)(nil)

// Dial connects and pings within the connect timeout. Close releases the connection.
func Dial(cfg Config) (*ResultStore, error) {
	client, err := valkeylib.NewClient(valkeylib.ClientOption{
		InitAddress: []string{cfg.Address},
		Password:    cfg.Password,
		SelectDB:    cfg.DB,
		// Results are plain GET/SET blobs; client-side tracking buys nothing.
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create valkey client: %w", err)
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	store := NewResultStore(client, cfg.KeyPrefix)
	if err := store.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping valkey at %s (timeout: %v): %w", cfg.Address, timeout, err)
	}
	return store, nil
}

func NewResultStore(client valkeylib.Client, prefix string) *ResultStore {
	if prefix != "" && !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return &ResultStore{client: client, prefix: prefix}
}

func (s *ResultStore) key(k string) string {
	return s.prefix + k
}

func (s *ResultStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Do(ctx, s.client.B().Get().Key(s.key(key)).Build()).AsBytes()
	if valkeylib.IsValkeyNil(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, true, nil
}

func (s *ResultStore) SetWithTTL(ctx context.Context, key string, blob []byte, ttl time.Duration) error {
	cmd := s.client.B().Set().Key(s.key(key)).Value(valkeylib.BinaryString(blob)).Ex(ttl).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *ResultStore) Ping(ctx context.Context) error {
	return s.client.Do(ctx, s.client.B().Ping().Build()).Error()
}

func (s *ResultStore) Close() {
	s.client.Close()
}
