// Package broadcast pushes board changes to renderers over Redis pub/sub.
package broadcast

import (
	"context"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"workboard/internal/board"
	"workboard/internal/model"
)

type change struct {
	version   uint64
	partition board.Partition
}

// RedisPublisher publishes board changes as JSON board views. Changes are
// handed to a single worker; when Redis falls behind only the newest
// pending change is sent.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	columns []model.Status
	timeout time.Duration

	mu            sync.Mutex
	pending       *change
	lastPublished uint64

	wake      chan struct{}
	stop      chan struct{}
	done      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
}

func NewRedisPublisher(client *redis.Client, channel string, columns []model.Status) *RedisPublisher {
	return &RedisPublisher{
		client:  client,
		channel: channel,
		columns: columns,
		timeout: 2 * time.Second,
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Publish sends the given partition to the channel.
func (p *RedisPublisher) Publish(ctx context.Context, version uint64, partition board.Partition) error {
	data, err := sonic.Marshal(board.NewView(p.columns, version, partition))
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel, data).Err()
}

// Hook adapts the publisher to Store.OnChange. It only queues the change,
// so a slow Redis never holds up a board write. Start must be called for
// anything to be sent.
func (p *RedisPublisher) Hook() board.ChangeFunc {
	return func(version uint64, partition board.Partition) {
		p.mu.Lock()
		if p.pending == nil || version > p.pending.version {
			p.pending = &change{version: version, partition: partition}
		}
		p.mu.Unlock()

		select {
		case p.wake <- struct{}{}:
		default:
		}
	}
}

// Start runs the worker that publishes queued changes.
func (p *RedisPublisher) Start() {
	p.startOnce.Do(func() {
		go p.run()
	})
}

// Close publishes whatever is still queued and stops the worker.
func (p *RedisPublisher) Close() {
	p.Start()
	p.stopOnce.Do(func() {
		close(p.stop)
	})
	<-p.done
}

func (p *RedisPublisher) run() {
	defer close(p.done)
	for {
		select {
		case <-p.wake:
			p.flush()
		case <-p.stop:
			p.flush()
			return
		}
	}
}

func (p *RedisPublisher) flush() {
	p.mu.Lock()
	c := p.pending
	p.pending = nil
	p.mu.Unlock()
	if c == nil || c.version <= p.lastPublished {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.Publish(ctx, c.version, c.partition); err != nil {
		log.WithFields(log.Fields{"channel": p.channel, "version": c.version}).WithError(err).Warn("publishing board change failed")
		return
	}
	p.lastPublished = c.version
}
