package models

import "database/sql"

type Serviceman struct {
	Name            string
	Category        string
	Unit            string
	Rank            string
	PESStatus       string
	MedicalStatus   string
	ORDDate         sql.NullString
	WindowOneEnd    sql.NullString
	WindowTwoEnd    sql.NullString
	ServiceComplete bool
	Assessment      string
	LastUpdatedAt   string
}

type AuditEvent struct {
	ID        string
	Actor     string
	Action    string
	Subject   string
	Details   sql.NullString
	CreatedAt string
}
