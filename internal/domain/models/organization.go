package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Organization is a tenant: a Fraktion (council group) or Verband (party
// chapter). Name is the unique slug every other document's organization
// field points at.
type Organization struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	DisplayName string             `bson:"display_name,omitempty"`
	Type        string             `bson:"type,omitempty"` // "fraktion" or "verband"
	City        string             `bson:"city,omitempty"`
	State       string             `bson:"state,omitempty"`

	// EmailDomain lets an organization claim registrants by their email
	// domain, so colleagues land in the same tenant automatically.
	EmailDomain string `bson:"email_domain,omitempty"`

	// Per-organization SMTP credentials. The settings UI submits the port
	// as a string ("587"), so it is stored and read as one.
	SMTPHost      string `bson:"smtp_host,omitempty"`
	SMTPPort      string `bson:"smtp_port,omitempty"`
	SMTPUsername  string `bson:"smtp_username,omitempty"`
	SMTPPassword  string `bson:"smtp_password,omitempty"`
	SMTPFromEmail string `bson:"smtp_from_email,omitempty"`
	SMTPFromName  string `bson:"smtp_from_name,omitempty"`

	CreatedDate string `bson:"created_date,omitempty"`
	UpdatedDate string `bson:"updated_date,omitempty"`
}

// HasSMTP reports whether the organization carries a usable SMTP bundle.
func (o *Organization) HasSMTP() bool {
	return o != nil && o.SMTPHost != "" && o.SMTPUsername != ""
}
