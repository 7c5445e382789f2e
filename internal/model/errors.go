package model

import "errors"

// Common errors used across the application
var (
	// Registry errors
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room is full")
	ErrAlreadyInRoom = errors.New("client is already in a room")
	ErrNotInRoom     = errors.New("client is not in a room")

	// Piece lock errors
	ErrUnknownPiece  = errors.New("unknown piece")
	ErrPieceLocked   = errors.New("piece is already locked")
	ErrNotLockHolder = errors.New("client does not hold the lock on this piece")

	// Session errors
	ErrAlreadySolved = errors.New("puzzle is already solved")

	// Puzzle errors
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)
