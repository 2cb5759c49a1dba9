package service

// Feed event types published after successful mutations.
const (
	EventPostCreated = "post_created"
	EventPostUpdated = "post_updated"
	EventPostDeleted = "post_deleted"
	EventLikeToggled = "like_toggled"
)

// EventPublisher fans feed events out to live subscribers.
type EventPublisher interface {
	Publish(eventType string, data interface{})
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, interface{}) {}
