package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DispatcherConfig tamaño del pool y de la cola.
type DispatcherConfig struct {
	Workers        int
	QueueSize      int
	DeliverTimeout time.Duration
}

// Dispatcher cola acotada + pool de workers que reparte cada evento a todos los sinks.
// Si la cola está llena el evento se descarta con una advertencia; el llamador nunca espera.
type Dispatcher struct {
	queue   chan Event
	sinks   []Sink
	log     zerolog.Logger
	timeout time.Duration

	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

var _ Publisher = (*Dispatcher)(nil)

// NewDispatcher arranca los workers.
func NewDispatcher(cfg DispatcherConfig, log zerolog.Logger, sinks ...Sink) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if cfg.DeliverTimeout <= 0 {
		cfg.DeliverTimeout = 10 * time.Second
	}
	d := &Dispatcher{
		queue:   make(chan Event, cfg.QueueSize),
		sinks:   sinks,
		log:     log.With().Str("component", "notification").Logger(),
		timeout: cfg.DeliverTimeout,
	}
	for i := 0; i < cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Publish encola el evento sin bloquear.
func (d *Dispatcher) Publish(_ context.Context, ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn().Str("kind", string(ev.Kind)).Msg("dispatcher cerrado, evento descartado")
		return
	}
	select {
	case d.queue <- ev:
	default:
		d.log.Warn().Str("kind", string(ev.Kind)).Str("event_id", ev.ID).Msg("cola de notificaciones llena, evento descartado")
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		for _, s := range d.sinks {
			if err := d.deliver(s, ev); err != nil {
				d.log.Error().Err(err).
					Str("sink", s.Name()).
					Str("kind", string(ev.Kind)).
					Str("event_id", ev.ID).
					Msg("fallo al entregar notificación")
			}
		}
	}
}

// deliver aísla cada sink: un panic se convierte en error.
func (d *Dispatcher) deliver(s Sink, ev Event) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic en sink: %v", p)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	return s.Deliver(ctx, ev)
}

// Close deja de aceptar eventos y espera a que la cola se vacíe o venza ctx.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
