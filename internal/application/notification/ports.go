package notification

import "context"

// Publisher recibe eventos del núcleo. Publish no bloquea ni devuelve error.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// Sink entrega eventos a un canal concreto (NATS, correo, log).
type Sink interface {
	Name() string
	Deliver(ctx context.Context, ev Event) error
}
