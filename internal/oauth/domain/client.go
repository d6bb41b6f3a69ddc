package domain

import "time"

// ClientStatus is the lifecycle state of a registered client application.
type ClientStatus int

const (
	ClientInactive ClientStatus = 0
	ClientActive   ClientStatus = 1
)

func (s ClientStatus) String() string {
	if s == ClientActive {
		return "active"
	}
	return "inactive"
}

// ParseClientStatus accepts "active"/"inactive" as well as 1/0.
func ParseClientStatus(s string) (ClientStatus, bool) {
	switch s {
	case "active", "1":
		return ClientActive, true
	case "inactive", "0":
		return ClientInactive, true
	}
	return ClientInactive, false
}

// ClientApplication is a registered consumer of the authorization server.
type ClientApplication struct {
	ID          string
	SecretHash  string // argon2id PHC string; the plain secret is shown once at registration
	Name        string
	Description string
	Scope       string // comma-delimited registered scope list
	Status      ClientStatus
	RedirectURI string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c ClientApplication) Active() bool { return c.Status == ClientActive }
