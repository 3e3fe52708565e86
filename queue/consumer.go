package queue

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"dinesphere-backend/models"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"gorm.io/gorm"
)

// StartNotificationConsumer connects to RabbitMQ, declares the durable
// reservation.events queue, and writes a Notification row for every event.
// It runs a reconnect loop with exponential backoff and keeps running until
// the process exits, logging and rejecting messages it cannot process.
// Intended to be called in a goroutine from main.
func StartNotificationConsumer(db *gorm.DB) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("notification-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, db); err != nil {
			log.Printf("notification-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, db *gorm.DB) error {
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(reservationQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(reservationQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for msg := range msgs {
		if err := handleEvent(db, msg.Body); err != nil {
			log.Printf("notification-consumer: %v", err)
			_ = msg.Nack(false, false)
			continue
		}
		_ = msg.Ack(false)
	}

	return fmt.Errorf("delivery channel closed")
}

func handleEvent(db *gorm.DB, body []byte) error {
	var event ReservationEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("unmarshal event: %w", err)
	}
	if event.UserID == uuid.Nil {
		return fmt.Errorf("event missing user_id")
	}

	title := "Reservation update"
	message := fmt.Sprintf("Your reservation at %s is now %s", event.RestaurantName, event.Status)
	switch event.Status {
	case "pending":
		title = "Reservation received"
		message = fmt.Sprintf("Your table for %d at %s is booked for %s", event.PartySize, event.RestaurantName, event.StartsAt)
	case "cancelled":
		title = "Reservation cancelled"
		message = fmt.Sprintf("Your reservation at %s has been cancelled", event.RestaurantName)
	}

	// Respect the user's booking-update preference when one exists.
	var pref models.NotificationPreference
	if err := db.Where("user_id = ?", event.UserID).First(&pref).Error; err == nil && !pref.BookingUpdates {
		return nil
	}

	refID := event.ReservationID
	notification := models.Notification{
		UserID:        event.UserID,
		Type:          "booking",
		Title:         title,
		Message:       message,
		ReferenceID:   &refID,
		ReferenceType: "reservation",
	}
	return db.Create(&notification).Error
}
