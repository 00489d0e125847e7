package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrInsufficientCapacity is returned when a capacity decrement would
	// take a vehicle's remaining weight or volume negative.
	ErrInsufficientCapacity = errors.New("insufficient vehicle capacity")
)
