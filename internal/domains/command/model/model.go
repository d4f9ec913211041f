package model

import (
	"innkeep/shared/model"
	"time"
)

const (
	TableName  = "whatsapp_commands"
	EntityName = "whatsapp_command"

	FieldID           = "id"
	FieldSender       = "sender"
	FieldMessage      = "message"
	FieldParsedAction = "parsed_action"
	FieldStatus       = "status"
	FieldProcessedAt  = "processed_at"
	FieldErrorMessage = "error_message"

	StatusPending   = "pending"
	StatusProcessed = "processed"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Command is an inbound messaging-channel command and its processing outcome.
// ParsedAction holds the interpreted intent as JSON for auditability.
type Command struct {
	ID           string     `db:"id"`
	Sender       string     `db:"sender"`
	Message      string     `db:"message"`
	ParsedAction string     `db:"parsed_action"`
	Status       string     `db:"status"`
	ProcessedAt  *time.Time `db:"processed_at"`
	ErrorMessage *string    `db:"error_message"`
	model.Metadata
}
