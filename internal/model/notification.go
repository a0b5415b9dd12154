package model

import (
	"github.com/google/uuid"
)

// NotificationStatus tags the kind of a notification record. Only invite
// notifications carry pipeline semantics; other statuses pass through
// the store unchanged.
type NotificationStatus string

const (
	NotificationStatusInvite NotificationStatus = "invite"
)

// Notification is a durable per-user message. For invites, NeedsSend
// means the invite is still pending; it is flipped off when the invite
// is accepted or superseded by a newer invite for the same group.
type Notification struct {
	Base
	Content   string             `json:"content" db:"content"`
	From      uuid.UUID          `json:"from" db:"from_user_id"`
	To        uuid.UUID          `json:"to" db:"to_user_id"`
	GroupID   uuid.UUID          `json:"groupId" db:"group_id"`
	Status    NotificationStatus `json:"status" db:"status"`
	NeedsSend bool               `json:"isNeedToSend" db:"needs_send"`
}

// NotificationFilter is a conjunction over notification fields; nil
// members are not constrained.
type NotificationFilter struct {
	From      *uuid.UUID
	To        *uuid.UUID
	GroupID   *uuid.UUID
	Status    *NotificationStatus
	NeedsSend *bool
}

// NotificationPatch is a partial update; nil members are left untouched.
type NotificationPatch struct {
	NeedsSend *bool
}
