package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront-admin/internal/domain"
	"storefront-admin/internal/repository/document"
)

const retryDelay = 2 * time.Second

// Publisher receives decoded change events.
type Publisher interface {
	Publish(ev domain.ChangeEvent)
}

// Listener holds one pooled connection in LISTEN on the document change channel.
type Listener struct {
	pool   *pgxpool.Pool
	out    Publisher
	logger *log.Logger
}

func NewListener(pool *pgxpool.Pool, out Publisher, logger *log.Logger) *Listener {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Listener{pool: pool, out: out, logger: logger}
}

// Run listens until ctx is cancelled, reconnecting after failures.
func (l *Listener) Run(ctx context.Context) error {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}
		l.logger.Printf("events: listen error=%v retry_in=%s", err, retryDelay)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(retryDelay):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{document.Channel}.Sanitize()); err != nil {
		return err
	}
	l.logger.Printf("events: listening channel=%s", document.Channel)

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				// The connection may be mid-protocol; don't return it to the pool.
				conn.Conn().Close(context.Background())
			}
			return err
		}
		var ev domain.ChangeEvent
		if err := json.Unmarshal([]byte(n.Payload), &ev); err != nil {
			l.logger.Printf("events: bad payload=%q error=%v", n.Payload, err)
			continue
		}
		l.out.Publish(ev)
	}
}
