package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Meeting carries the fields the reminder worker reads from the meetings and
// fraction_meetings collections. Everything else on a meeting document stays
// free-form behind the generic CRUD layer.
type Meeting struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Title          string             `bson:"title"`
	Organization   string             `bson:"organization"`
	Date           string             `bson:"date"`
	Location       string             `bson:"location,omitempty"`
	Agenda         string             `bson:"agenda,omitempty"`
	ReminderSent   bool               `bson:"reminder_sent,omitempty"`
	ReminderSentAt string             `bson:"reminder_sent_at,omitempty"`
}
