package model

import "time"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a provider-neutral chat message handed to a model transport.
type Message struct {
	Role    Role
	Content string
}

// Notification is what the task manager hands to a notification sink.
type Notification struct {
	Title    string
	Body     string
	Subtitle string
	Duration time.Duration
	OnClick  func()
}
