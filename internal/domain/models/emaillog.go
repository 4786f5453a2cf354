package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// EmailLog records one send attempt, success or failure. The body is
// truncated to a preview; full bodies are never persisted.
type EmailLog struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	To                 []string           `bson:"to" json:"to"`
	Subject            string             `bson:"subject" json:"subject"`
	BodyPreview        string             `bson:"body_preview" json:"body_preview"`
	HasAttachment      bool               `bson:"has_attachment" json:"has_attachment"`
	AttachmentFilename string             `bson:"attachment_filename,omitempty" json:"attachment_filename,omitempty"`
	Transport          string             `bson:"transport" json:"transport"` // "sendgrid" or "smtp"
	Status             string             `bson:"status" json:"status"`       // "sent" or "failed"
	Error              string             `bson:"error,omitempty" json:"error,omitempty"`
	SentAt             string             `bson:"sent_at" json:"sent_at"`
}
