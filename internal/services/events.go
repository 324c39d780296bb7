package services

import "log"

// Routing keys of the domain events.
const (
	EventRecipeCreated = "recipe.created"
	EventRecipeUpdated = "recipe.updated"
	EventRecipeDeleted = "recipe.deleted"
	EventLikeAdded     = "like.added"
	EventLikeRemoved   = "like.removed"
	EventCommentAdded  = "comment.added"
	EventPhotoAdded    = "photo.added"
)

// EventPublisher delivers domain events to a message broker.
type EventPublisher interface {
	Publish(routingKey string, payload interface{}) error
}

// publish sends an event if a publisher is configured. Failures are logged and
// never reach the caller.
func publish(p EventPublisher, routingKey string, payload interface{}) {
	if p == nil {
		return
	}
	if err := p.Publish(routingKey, payload); err != nil {
		log.Printf("Failed to publish %s event: %v", routingKey, err)
	}
}
