package event

import (
	"cultivation-service/internal/models"
)

// NotificationEventPushModel matches the payload the push notification
// service consumes from PushNotiQueue.
type NotificationEventPushModel struct {
	LstUserIds []string       `json:"lstUserIds,omitempty"`
	Title      string         `json:"title"`
	Body       string         `json:"body"`
	Data       map[string]any `json:"data,omitempty"`
}

const PushNotiQueue string = "push_noti_events"

// FromNotification turns a stored notification into a push event for its owner.
func FromNotification(n models.Notification) NotificationEventPushModel {
	data := map[string]any{
		"notification_id": n.ID.String(),
		"type":            string(n.Type),
		"priority":        string(n.Priority),
	}
	if n.ActionURL != nil {
		data["action_url"] = *n.ActionURL
	}
	for k, v := range n.Metadata {
		if _, taken := data[k]; !taken {
			data[k] = v
		}
	}

	return NotificationEventPushModel{
		LstUserIds: []string{n.UserID},
		Title:      n.Title,
		Body:       n.Message,
		Data:       data,
	}
}
