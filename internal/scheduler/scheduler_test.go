package scheduler

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewPGScheduler(t *testing.T) {
	pool := &pgxpool.Pool{}
	sched := NewPGScheduler(pool)
	assert.NotNil(t, sched)
}
