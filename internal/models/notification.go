package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationKind string

const (
	NotificationNewApplication     NotificationKind = "NewApplication"
	NotificationNewMessage         NotificationKind = "NewMessage"
	NotificationConnectionRequest  NotificationKind = "ConnectionRequest"
	NotificationConnectionAccepted NotificationKind = "ConnectionAccepted"
	NotificationNewLike            NotificationKind = "NewLike"
	NotificationNewComment         NotificationKind = "NewComment"
	NotificationNewCommentLike     NotificationKind = "NewCommentLike"
)

var notificationKinds = map[NotificationKind]bool{
	NotificationNewApplication:     true,
	NotificationNewMessage:         true,
	NotificationConnectionRequest:  true,
	NotificationConnectionAccepted: true,
	NotificationNewLike:            true,
	NotificationNewComment:         true,
	NotificationNewCommentLike:     true,
}

func (k NotificationKind) Valid() bool { return notificationKinds[k] }

// Notification is immutable once created except for IsRead. Sender fields
// are copied from the actor at write time.
type Notification struct {
	ID              uint              `json:"id" gorm:"primaryKey"`
	RecipientID     uint              `json:"userId" gorm:"not null;index:idx_notification_recipient,priority:1"`
	Message         string            `json:"message" gorm:"not null"`
	Kind            NotificationKind  `json:"type" gorm:"size:30;not null;index"`
	IsRead          bool              `json:"isRead" gorm:"not null;default:false;index:idx_notification_recipient,priority:2"`
	CreatedAt       time.Time         `json:"createdAt" gorm:"index"`
	RelatedEntityID *uint             `json:"relatedEntityId"`
	SenderName      string            `json:"senderName" gorm:"size:101"`
	SenderImageURL  string            `json:"senderImageUrl"`
	PostType        *PostKind         `json:"postType" gorm:"size:20"`
	Extra           datatypes.JSONMap `json:"extra,omitempty"`
}

// EventPayload is the body of the ReceiveNotification push. Extra fields
// are merged at the top level, next to the stored ones.
func (n *Notification) EventPayload() map[string]interface{} {
	payload := make(map[string]interface{}, 9+len(n.Extra))
	for k, v := range n.Extra {
		payload[k] = v
	}
	var postType interface{}
	if n.PostType != nil {
		postType = string(*n.PostType)
	}
	payload["id"] = n.ID
	payload["message"] = n.Message
	payload["type"] = string(n.Kind)
	payload["isRead"] = n.IsRead
	payload["createdAt"] = n.CreatedAt
	payload["relatedEntityId"] = n.RelatedEntityID
	payload["senderName"] = n.SenderName
	payload["senderImageUrl"] = n.SenderImageURL
	payload["postType"] = postType
	return payload
}

// NotificationFilter narrows a recipient's notification list
type NotificationFilter struct {
	Kind  NotificationKind
	Page  int
	Limit int
}

// NotificationGroups buckets a recipient's notifications by age
type NotificationGroups struct {
	Today     []Notification `json:"today"`
	Yesterday []Notification `json:"yesterday"`
	ThisWeek  []Notification `json:"thisWeek"`
	Older     []Notification `json:"older"`
}
