// Package queue defines the message payloads and the RabbitMQ plumbing used
// to fan reservation lifecycle events out to the notification writer.
package queue

import "github.com/google/uuid"

const reservationQueueName = "reservation.events"

// ReservationEvent is published when a reservation is created or cancelled.
// It carries enough information for downstream consumers to write a user
// notification without querying the primary database.
type ReservationEvent struct {
	ReservationID  uuid.UUID `json:"reservation_id"`
	UserID         uuid.UUID `json:"user_id"`
	RestaurantID   uuid.UUID `json:"restaurant_id"`
	RestaurantName string    `json:"restaurant_name"`
	Status         string    `json:"status"`
	PartySize      int       `json:"party_size"`
	StartsAt       string    `json:"starts_at"`
	OccurredAt     string    `json:"occurred_at"`
}
