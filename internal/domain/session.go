package domain

import (
	"strings"
	"time"
)

type Session struct {
	OperatorID  string
	DisplayName string
	Token       string
	IssuedAt    time.Time
}

func (s Session) Valid() bool {
	return strings.TrimSpace(s.Token) != ""
}

// SessionRecord is the durable form of a Session. The bearer token is kept
// in a secret store and referenced by SecretRef.
type SessionRecord struct {
	OperatorID  string
	DisplayName string
	IssuedAt    time.Time
	SecretRef   string
}
