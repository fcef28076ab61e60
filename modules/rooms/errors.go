package rooms

import "errors"

// Sentinel errors for room operations.
var (
	// ErrRoomNotFound is returned when the requested room code does not exist.
	ErrRoomNotFound = errors.New("room not found")

	// ErrNotOwner is returned when someone other than the owner tries to
	// delete a room.
	ErrNotOwner = errors.New("only the room owner can delete the room")

	// ErrCodeExhausted is returned when a unique room code could not be
	// generated after the maximum number of attempts.
	ErrCodeExhausted = errors.New("could not generate a unique room code")
)
