// Package notify sends desktop notifications for track changes and playback
// failures.
package notify

// Urgency is the freedesktop notification priority.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Notification contains data for a desktop notification.
type Notification struct {
	Title      string // summary
	Body       string
	Icon       string // image path or icon name
	Timeout    int32  // ms, -1 = server default, 0 = never expire
	ReplacesID uint32 // 0 = new notification
	Urgency    Urgency
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends n and returns its ID. A notifier without a notification
	// service returns 0 and no error.
	Notify(n Notification) (uint32, error)
	Close(id uint32) error
}
