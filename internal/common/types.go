package common

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationFollow  NotificationType = "follow"
	NotificationComment NotificationType = "comment"
	NotificationMessage NotificationType = "message"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationLike, NotificationFollow, NotificationComment, NotificationMessage:
		return true
	}
	return false
}

// NotificationEvent describes a fan-out raised by another mutation.
type NotificationEvent struct {
	Type        NotificationType
	RecipientID uint64
	SenderID    uint64
	PostID      *uint64
	MessageID   *uint64
}

// UserSummary is the minimal public projection of a user.
type UserSummary struct {
	ID             uint64  `json:"id"`
	Username       string  `json:"username"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	ProfilePicture *string `json:"profilePicture"`
}

// Upload is a file received from a multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// FlexID is an id that clients may send as a JSON number or a numeric string.
type FlexID uint64

func (id *FlexID) UnmarshalJSON(b []byte) error {
	raw := string(b)
	if raw == "null" {
		*id = 0
		return nil
	}
	raw = strings.TrimSpace(strings.Trim(raw, `"`))
	if raw == "" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %s", b)
	}
	*id = FlexID(n)
	return nil
}
