package whatsapp

import (
	"encoding/xml"
	"net/http"

	"innkeep/infras/otel"
	"innkeep/internal/domains/command/model"
	"innkeep/internal/domains/command/model/dto"
	"innkeep/internal/domains/command/service"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	"innkeep/shared/validator"
	"innkeep/transport/http/middleware"
	"innkeep/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Command
	otel    otel.Otel
	auth    middleware.Auth
	twilio  middleware.Twilio
}

func New(service service.Command, otel otel.Otel, auth middleware.Auth, twilio middleware.Twilio) Handler {
	return Handler{
		service: service,
		otel:    otel,
		auth:    auth,
		twilio:  twilio,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/whatsapp", func(routerGroup chi.Router) {
		routerGroup.With(handler.twilio.ValidateSignature).Post("/webhook", handler.Webhook)
		routerGroup.With(handler.twilio.ValidateSignature).Post("/status", handler.StatusCallback)
		routerGroup.With(handler.auth.Auth).Get("/commands", handler.GetCommands)
	})
}

// twiml is the reply envelope Twilio expects from a messaging webhook.
type twiml struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// Webhook receives an inbound WhatsApp message and replies with TwiML.
// @Summary Receive a WhatsApp message
// @Description Interpret a natural-language hotel command from WhatsApp and reply with the outcome.
// @Tags WhatsApp
// @Accept x-www-form-urlencoded
// @Produce xml
// @Param From formData string true "Sender in whatsapp:+E164 form"
// @Param Body formData string true "Message text"
// @Success 200 {string} string "TwiML reply"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/whatsapp/webhook [post]
func (handler *Handler) Webhook(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Webhook")
	defer scope.End()

	if err := request.ParseForm(); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse webhook form")

		response.WithError(writer, failure.BadRequestFromString("invalid form payload"))

		return
	}

	req := dto.WebhookRequest{
		From: request.PostForm.Get("From"),
		Body: request.PostForm.Get("Body"),
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate webhook request")

		response.WithError(writer, err)

		return
	}

	reply, err := handler.service.Resolve(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to resolve command")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Command resolved successfully")

	payload, err := xml.Marshal(twiml{Message: reply})
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to marshal TwiML reply")

		response.WithError(writer, err)

		return
	}

	response.WithXML(writer, http.StatusOK, xml.Header+string(payload))
}

// StatusCallback acknowledges Twilio delivery-status callbacks. They are
// logged only; delivery tracking is not part of the command audit trail.
// @Summary Receive a delivery-status callback
// @Description Log an outbound message delivery status update from Twilio.
// @Tags WhatsApp
// @Accept x-www-form-urlencoded
// @Produce json
// @Success 204 "No content"
// @Failure 403 {object} response.Error
// @Router /v1/whatsapp/status [post]
func (handler *Handler) StatusCallback(writer http.ResponseWriter, request *http.Request) {
	_, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".StatusCallback")
	defer scope.End()

	if err := request.ParseForm(); err != nil {
		response.WithError(writer, failure.BadRequestFromString("invalid form payload"))

		return
	}

	log.Info().
		Str("message_sid", request.PostForm.Get("MessageSid")).
		Str("message_status", request.PostForm.Get("MessageStatus")).
		Str("to", request.PostForm.Get("To")).
		Msg("delivery status update received")

	writer.WriteHeader(http.StatusNoContent)
}

// GetCommands retrieves the command audit trail.
// @Summary Get WhatsApp command history
// @Description Retrieve processed WhatsApp commands with optional filtering and pagination.
// @Tags WhatsApp
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Param sender query string false "Filter by sender"
// @Success 200 {object} response.Data[dto.GetCommandsResponse] "List of commands"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/whatsapp/commands [get]
// @Security BearerAuth
func (handler *Handler) GetCommands(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCommands")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    r.URL.Query().Get(model.FieldStatus),
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldSender,
				Operator: gDto.FilterOperatorLike,
				Value:    r.URL.Query().Get(model.FieldSender),
				Table:    model.TableName,
			},
		},
	}

	commands, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get commands")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Commands retrieved successfully")

	response.WithJSON(w, http.StatusOK, commands)
}
