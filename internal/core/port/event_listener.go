package port

import "context"

// EventListenerPort — входящий слушатель событий (очередь, планировщик).
type EventListenerPort interface {
	Start(ctx context.Context) error
	Close() error
}
