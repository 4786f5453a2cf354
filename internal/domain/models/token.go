package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// AuthToken maps an opaque bearer token to a user. Persisted so sessions
// survive a process restart; there is no expiry, only explicit revocation
// at logout.
type AuthToken struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Token       string             `bson:"token"`
	UserID      string             `bson:"user_id"`
	CreatedDate string             `bson:"created_date"`
}
