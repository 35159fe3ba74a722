package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/spec-kit/maintenance-service/internal/config"
)

func TestNewRedis_DisabledWithoutAddr(t *testing.T) {
	r := NewRedis(context.Background(), config.RedisConfig{}, zap.NewNop())

	assert.False(t, r.Enabled())
	assert.Nil(t, r.Publisher())
	assert.ErrorIs(t, r.Ping(context.Background()), ErrRedisDisabled)
	r.Close()
}

func TestRedis_NilReceiver(t *testing.T) {
	var r *Redis
	assert.False(t, r.Enabled())
	assert.ErrorIs(t, r.Ping(context.Background()), ErrRedisDisabled)
}
