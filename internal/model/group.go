package model

import (
	"github.com/google/uuid"
)

// Group is a habit-watching circle of users.
type Group struct {
	Base
	GroupName string `json:"groupName" db:"group_name"`

	// Members is loaded from the membership table alongside the group row.
	Members []uuid.UUID `json:"members" db:"-"`
}

// HasMember reports whether the user is in the loaded member list.
func (g *Group) HasMember(userID uuid.UUID) bool {
	for _, id := range g.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// CreateGroupRequest represents group creation parameters
type CreateGroupRequest struct {
	GroupName string    `json:"groupName" binding:"required,min=2,max=30"`
	CreatorID uuid.UUID `json:"creatorId" binding:"required"`
}

// AddMemberRequest represents a membership acceptance
type AddMemberRequest struct {
	UserID uuid.UUID `json:"userId" binding:"required"`
}

// InviteRequest represents an invitation to join a group
type InviteRequest struct {
	FromUserID uuid.UUID `json:"fromUserId" binding:"required"`
	ToUserID   uuid.UUID `json:"toUserId" binding:"required"`
}

// MemberDailyHabits is one member's schedule slice for a given date.
type MemberDailyHabits struct {
	UserID   uuid.UUID `json:"userId"`
	Nickname string    `json:"nickname"`
	Habits   []*Habit  `json:"habits"`
}
