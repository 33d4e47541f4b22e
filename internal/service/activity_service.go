package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/config"
	"github.com/spec-kit/ticket-dashboard/internal/events"
)

const (
	webhookQueueSize = 64
	webhookTimeout   = 5 * time.Second
)

// ActivityService logs ticket activity published by table engines and
// forwards the notable events to an optional webhook.
type ActivityService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	queue      chan events.Event
}

// NewActivityService creates the service.
func NewActivityService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *ActivityService {
	return &ActivityService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		queue:      make(chan events.Event, webhookQueueSize),
	}
}

// RegisterHandlers subscribes to events.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventTicketCreated, a.handleTicketCreated)
	a.dispatcher.Subscribe(events.EventTicketFieldsUpdated, a.handleTicketFieldsUpdated)
	a.dispatcher.Subscribe(events.EventTicketStatusToggled, a.handleTicketStatusToggled)
	a.dispatcher.Subscribe(events.EventTicketSatisfactionSet, a.handleTicketSatisfactionSet)
	a.dispatcher.Subscribe(events.EventTicketDeleted, a.handleTicketDeleted)
}

func (a *ActivityService) handleTicketCreated(_ context.Context, event events.Event) error {
	a.log("TicketCreated", event)
	a.enqueue(event)
	return nil
}

func (a *ActivityService) handleTicketFieldsUpdated(_ context.Context, event events.Event) error {
	a.log("TicketFieldsUpdated", event)
	return nil
}

func (a *ActivityService) handleTicketStatusToggled(_ context.Context, event events.Event) error {
	a.log("TicketStatusToggled", event)
	a.enqueue(event)
	return nil
}

func (a *ActivityService) handleTicketSatisfactionSet(_ context.Context, event events.Event) error {
	a.log("TicketSatisfactionSet", event)
	return nil
}

func (a *ActivityService) handleTicketDeleted(_ context.Context, event events.Event) error {
	a.log("TicketDeleted", event)
	a.enqueue(event)
	return nil
}

func (a *ActivityService) log(name string, event events.Event) {
	a.logger.Info(name,
		zap.String("ticket_id", event.TicketID),
		zap.String("session_id", event.SessionID),
		zap.Any("payload", event.Payload))
}

// enqueue never blocks the publishing engine; a full queue drops the event.
func (a *ActivityService) enqueue(event events.Event) {
	if strings.TrimSpace(a.cfg.WebhookURL) == "" {
		return
	}
	select {
	case a.queue <- event:
	default:
		a.logger.Warn("webhook queue full; dropping event",
			zap.String("ticket_id", event.TicketID),
			zap.String("event_type", string(event.Type)))
	}
}

// Run delivers queued events to the webhook until ctx is done.
func (a *ActivityService) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-a.queue:
			if err := a.deliver(event); err != nil {
				a.logger.Warn("webhook delivery failed",
					zap.String("url", a.cfg.WebhookURL),
					zap.String("ticket_id", event.TicketID),
					zap.String("event_type", string(event.Type)),
					zap.Error(err))
				continue
			}
			a.logger.Debug("webhook delivered",
				zap.String("ticket_id", event.TicketID),
				zap.String("event_type", string(event.Type)))
		}
	}
}

func (a *ActivityService) deliver(event events.Event) error {
	agent := fiber.Post(a.cfg.WebhookURL).Timeout(webhookTimeout).JSON(event)
	status, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if status >= fiber.StatusMultipleChoices {
		return fmt.Errorf("webhook answered %d", status)
	}
	return nil
}
