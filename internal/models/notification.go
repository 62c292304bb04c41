package models

import (
	"fmt"
	"time"
)

type NotificationType string

const (
	NotificationCommunityJoin     NotificationType = "community_join"
	NotificationEventRegistration NotificationType = "event_registration"
	NotificationMessage           NotificationType = "message"
)

// ReferenceKind names the kind of domain object a notification points at.
type ReferenceKind string

const (
	ReferenceCommunity ReferenceKind = "community"
	ReferenceEvent     ReferenceKind = "event"
	ReferenceProject   ReferenceKind = "project"
	ReferenceMessage   ReferenceKind = "message"
	ReferenceTutorial  ReferenceKind = "tutorial"
)

type Notification struct {
	ID            int64            `json:"id"`
	UserID        int64            `json:"user_id"`
	Type          NotificationType `json:"type"`
	Content       string           `json:"content"`
	ReferenceID   *int64           `json:"reference_id"`
	ReferenceType ReferenceKind    `json:"reference_type"`
	IsRead        bool             `json:"is_read"`
	CreatedAt     time.Time        `json:"created_at"`
}

// Route resolves the navigation target for the notification. Unknown kinds
// land on the notifications page.
func (n *Notification) Route() string {
	var refID int64
	if n.ReferenceID != nil {
		refID = *n.ReferenceID
	}

	switch n.ReferenceType {
	case ReferenceCommunity:
		return fmt.Sprintf("/communities/%d", refID)
	case ReferenceEvent:
		return fmt.Sprintf("/events/%d", refID)
	case ReferenceProject:
		return fmt.Sprintf("/projects/%d", refID)
	case ReferenceMessage:
		return "/messages"
	case ReferenceTutorial:
		return fmt.Sprintf("/tutorials/%d", refID)
	default:
		return "/notifications"
	}
}
