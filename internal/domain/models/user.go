package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is a registered account. Only the fields the server itself interprets
// are typed; profile updates may attach additional free-form fields which
// round-trip through the raw document path in the users store.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	Password     string             `bson:"password"` // SHA-256 hex digest, never serialized to clients
	FullName     string             `bson:"full_name,omitempty"`
	City         string             `bson:"city,omitempty"`
	Organization string             `bson:"organization"`
	OrgType      string             `bson:"org_type,omitempty"`
	Role         string             `bson:"role,omitempty"`
	OrgRole      string             `bson:"org_role,omitempty"`
	CreatedDate  string             `bson:"created_date,omitempty"`
	UpdatedDate  string             `bson:"updated_date,omitempty"`
}
