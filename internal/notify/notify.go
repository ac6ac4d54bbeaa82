// Package notify sends desktop notifications over the freedesktop
// D-Bus notification interface.
package notify

// Urgency is the freedesktop notification priority.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Notification is one desktop notification.
type Notification struct {
	Title      string  // summary line
	Body       string  // optional body, basic markup allowed
	Icon       string  // image path or icon name
	Timeout    int32   // ms, -1 server default, 0 never expire
	ReplacesID uint32  // nonzero replaces an existing notification
	Urgency    Urgency
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends a notification and returns its server-assigned ID.
	Notify(n Notification) (uint32, error)
	// Close dismisses a notification by ID.
	Close(id uint32) error
}

// NowPlaying builds the track-change notification. replacesID collapses
// rapid track skips into a single popup.
func NowPlaying(title, artist, album string, timeoutMS int32, replacesID uint32) Notification {
	body := artist
	if album != "" {
		if body != "" {
			body += " · "
		}
		body += album
	}
	return Notification{
		Title:      title,
		Body:       body,
		Timeout:    timeoutMS,
		ReplacesID: replacesID,
		Urgency:    UrgencyLow,
	}
}
