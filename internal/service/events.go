package service

import (
	"context"

	"github.com/samandr77/microservices/crm/internal/entity"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=events.go -destination=../mocks/publisher.go -package=mocks -typed

// Publisher delivers committed changes to other services. It must not block on delivery.
type Publisher interface {
	Publish(ctx context.Context, event entity.Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, entity.Event) {}
