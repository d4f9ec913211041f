package dto

import (
	"encoding/json"

	"innkeep/internal/domains/command/model"
	"innkeep/shared"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/timezone"
)

// WebhookRequest carries the fields of an inbound Twilio WhatsApp webhook
// form post that the command channel cares about.
type WebhookRequest struct {
	From string `json:"from" validate:"required,max=50"`
	Body string `json:"body" validate:"required,max=1000"`
}

type CommandResponse struct {
	ID           string          `json:"id"`
	Sender       string          `json:"sender"`
	Message      string          `json:"message"`
	ParsedAction json.RawMessage `json:"parsed_action"`
	Status       string          `json:"status"`
	ProcessedAt  string          `json:"processed_at,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	gDto.Metadata
}

func (c *CommandResponse) FromModel(model model.Command) {
	c.ID = model.ID
	c.Sender = model.Sender
	c.Message = model.Message
	c.ParsedAction = json.RawMessage(model.ParsedAction)
	c.Status = model.Status

	if model.ProcessedAt != nil {
		c.ProcessedAt = timezone.Format(*model.ProcessedAt, constant.DateFormat)
	}

	if model.ErrorMessage != nil {
		c.ErrorMessage = *model.ErrorMessage
	}

	c.Metadata.FromModel(model.Metadata)
}

type GetCommandsResponse struct {
	Commands  []CommandResponse `json:"commands"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (c *GetCommandsResponse) FromModels(models []model.Command, totalData, limit int) {
	c.TotalData = totalData
	c.TotalPage = shared.CalculateTotalPage(totalData, limit)

	c.Commands = make([]CommandResponse, len(models))
	for i, mod := range models {
		c.Commands[i].FromModel(mod)
	}
}
