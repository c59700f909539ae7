package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/sony/gobreaker"

	"github.com/reliefdesk/grievance-service/internal/config"
	"github.com/reliefdesk/grievance-service/internal/core/ports"
)

const (
	// PostgreSQL NOTIFY/LISTEN configuration
	listenerMinReconnectInterval = 10 * time.Second
	listenerMaxReconnectInterval = time.Minute
	outboxChannelName            = "grievance_outbox"

	// Event processing timeouts
	eventProcessTimeout     = 30 * time.Second
	batchProcessTimeout     = 60 * time.Second
	periodicProcessInterval = 90 * time.Second

	// Health check configuration
	healthCheckStaleThreshold = 5 * time.Minute

	// Batch processing limits
	maxEventsPerBatch = 100
)

// Relay listens for PostgreSQL NOTIFY signals on the grievance outbox channel
// and forwards lifecycle events to RabbitMQ. It is the whole of the
// "assignment notifies volunteers" side effect: the API only writes rows.
type Relay struct {
	db        *sql.DB
	publisher ports.GrievanceEventPublisher
	listener  *pq.Listener
	dbURL     string
	eventType string
	dbCB      *gobreaker.CircuitBreaker

	// mu guards the health fields: the processing loop writes them, the
	// health HTTP handlers read them from another goroutine.
	mu            sync.Mutex
	lastProcessed time.Time
	isHealthy     bool
}

// NewRelay creates a relay bound to one event type (the queue name rows are
// tagged with at insert time).
func NewRelay(db *sql.DB, dbURL, eventType string, publisher ports.GrievanceEventPublisher) *Relay {
	return &Relay{
		db:            db,
		dbURL:         dbURL,
		eventType:     eventType,
		publisher:     publisher,
		dbCB:          config.NewCircuitBreaker("Relay-PostgreSQL"),
		lastProcessed: time.Now(),
		isHealthy:     true,
	}
}

// IsHealthy reports whether the relay process is alive and responding.
// Liveness is about the process, not about dependency health, so an open
// circuit does not flip this.
func (r *Relay) IsHealthy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isHealthy
}

// IsReady reports whether the relay can currently process events.
func (r *Relay) IsReady() bool {
	if r.dbCB.State() == gobreaker.StateOpen {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if time.Since(r.lastProcessed) > healthCheckStaleThreshold {
		return false
	}
	return r.isHealthy
}

func (r *Relay) markProcessed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastProcessed = time.Now()
	r.isHealthy = true
}

func (r *Relay) markUnhealthy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.isHealthy = false
}

// Start begins listening for outbox notifications and processing events.
// This is a blocking call that runs until the context is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Printf("outbox relay: listener error: %v", err)
		}
	}

	r.listener = pq.NewListener(r.dbURL, listenerMinReconnectInterval, listenerMaxReconnectInterval, reportProblem)
	defer r.listener.Close()

	if err := r.listener.Listen(outboxChannelName); err != nil {
		return err
	}

	log.Printf("outbox relay: listening on '%s' for notifications...", outboxChannelName)

	// Catch up on anything left over from before this process started.
	if err := r.processBacklog(ctx); err != nil {
		log.Printf("outbox relay: error processing startup backlog: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			log.Println("outbox relay: shutting down...")
			return ctx.Err()

		case notification := <-r.listener.Notify:
			if notification == nil {
				log.Println("outbox relay: received nil notification (reconnecting...)")
				r.markUnhealthy()
				continue
			}

			if err := r.processOne(ctx, notification.Extra); err != nil {
				log.Printf("outbox relay: error processing event %s: %v", notification.Extra, err)
			} else {
				r.markProcessed()
			}

		case <-time.After(periodicProcessInterval):
			// Keep the connection alive and sweep up anything a missed
			// notification left behind.
			go r.listener.Ping()

			if err := r.processBacklog(ctx); err != nil {
				log.Printf("outbox relay: error in periodic processing: %v", err)
			} else {
				r.markProcessed()
			}
		}
	}
}

// processOne handles the single event named by a NOTIFY payload.
func (r *Relay) processOne(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, eventProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		rows, err := tx.QueryContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE id = $1 AND processed_at IS NULL
			FOR UPDATE SKIP LOCKED`, eventID)
		if err != nil {
			return nil, err
		}

		if err := r.relayRows(ctx, tx, rows); err != nil {
			return nil, err
		}
		return nil, tx.Commit()
	})
	return err
}

// processBacklog sweeps all unprocessed events (startup catch-up and the
// periodic safety net).
func (r *Relay) processBacklog(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, batchProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		rows, err := tx.QueryContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE processed_at IS NULL
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED`, maxEventsPerBatch)
		if err != nil {
			return nil, err
		}

		if err := r.relayRows(ctx, tx, rows); err != nil {
			return nil, err
		}
		return nil, tx.Commit()
	})
	return err
}

// relayRows publishes every locked row and marks it processed. A bad payload
// is marked processed anyway so it cannot wedge the queue; a publish failure
// leaves the row for the next sweep.
func (r *Relay) relayRows(ctx context.Context, tx *sql.Tx, rows *sql.Rows) error {
	type record struct {
		ID        string
		EventType string
		Payload   []byte
	}

	var records []record
	for rows.Next() {
		var rec record
		if err := rows.Scan(&rec.ID, &rec.EventType, &rec.Payload); err != nil {
			rows.Close()
			return err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for _, rec := range records {
		if rec.EventType == r.eventType {
			if r.publisher == nil {
				// No broker connection: leave the row for a sweep after the
				// publisher comes back instead of dropping the event.
				log.Printf("outbox relay: no publisher, deferring event %s", rec.ID)
				continue
			}
			var evt ports.GrievanceEvent
			if err := json.Unmarshal(rec.Payload, &evt); err != nil {
				log.Printf("outbox relay: invalid payload for event %s: %v", rec.ID, err)
				if _, err := tx.ExecContext(ctx, `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`, rec.ID); err != nil {
					return err
				}
				continue
			}

			if err := r.publisher.PublishStatusChanged(ctx, evt); err != nil {
				log.Printf("outbox relay: failed to publish event %s: %v", rec.ID, err)
				continue
			}
		}

		if _, err := tx.ExecContext(ctx, `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`, rec.ID); err != nil {
			return err
		}

		log.Printf("outbox relay: processed event %s", rec.ID)
	}
	return nil
}
