package model

import "innkeep/shared/model"

const (
	TableName  = "guests"
	EntityName = "guest"

	FieldID       = "id"
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldIDNumber = "id_number"
	FieldAddress  = "address"
)

type Guest struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Email    string `db:"email"`
	Phone    string `db:"phone"`
	IDNumber string `db:"id_number"`
	Address  string `db:"address"`
	model.Metadata
}
