package redis

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/clinica_backend/config"
)

func TestOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		o := Options(config.RedisConfig{Addr: "redis:6379"})
		if o.Addr != "redis:6379" || o.PoolSize != 10 || o.MinIdleConns != 2 {
			t.Errorf("options = %+v", o)
		}
		if o.DialTimeout != 5*time.Second || o.ReadTimeout != 3*time.Second {
			t.Errorf("timeouts = %v/%v", o.DialTimeout, o.ReadTimeout)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		o := Options(config.RedisConfig{
			Addr:                "redis:6379",
			DB:                  2,
			PoolSize:            50,
			WriteTimeoutSeconds: 9,
		})
		if o.DB != 2 || o.PoolSize != 50 || o.WriteTimeout != 9*time.Second {
			t.Errorf("options = %+v", o)
		}
	})
}

func TestConnectRequiresAddr(t *testing.T) {
	if _, err := Connect(context.Background(), config.RedisConfig{}); err == nil {
		t.Fatal("empty addr accepted")
	}
}

func TestSessionKey(t *testing.T) {
	id := uuid.MustParse("0190a6f2-7b3c-7def-8000-000000000001")
	if got := SessionKey(id); got != "session:0190a6f2-7b3c-7def-8000-000000000001" {
		t.Errorf("SessionKey = %q", got)
	}
}
