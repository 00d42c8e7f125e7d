package event

import "github.com/google/uuid"

// Server events forwarded to third-party listeners.

type PlayerJoined struct {
	PlayerID uuid.UUID
	Name     string
}

type PlayerLeft struct {
	PlayerID uuid.UUID
}

type WorldRegistered struct {
	WorldID uuid.UUID
}

type MapRegistered struct {
	MapID string
}
