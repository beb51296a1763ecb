package service

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"quad/internal/models"
	"quad/internal/observability"
	"quad/internal/repository"

	"gorm.io/gorm"
)

// NotificationGateway receives help-offer events for delivery. Dispatch is
// best-effort; gateway failures never fail the ledger operation.
type NotificationGateway interface {
	HelpOffered(ctx context.Context, recipientID, actorID, requestID uint, title, description string) error
	HelpWithdrawn(ctx context.Context, recipientID, actorID, requestID uint, title, description string) error
}

// HelpService records and withdraws help offers, pairing ledger writes
// with notification dispatch to the request creator.
type HelpService struct {
	requestRepo repository.RequestRepository
	helpRepo    repository.HelpOfferRepository
	gateway     NotificationGateway

	// dispatchDone, when set, is signalled after each async dispatch
	// completes. Tests use it to wait for fire-and-forget sends.
	dispatchDone chan struct{}
}

// NewHelpService creates a HelpService. gateway may be nil, in which case
// no notifications are sent.
func NewHelpService(
	requestRepo repository.RequestRepository,
	helpRepo repository.HelpOfferRepository,
	gateway NotificationGateway,
) *HelpService {
	return &HelpService{requestRepo: requestRepo, helpRepo: helpRepo, gateway: gateway}
}

// OfferHelp records helperID's offer on a request. Repeat offers are
// silently absorbed and send no duplicate notification.
func (s *HelpService) OfferHelp(ctx context.Context, requestID, helperID uint) error {
	req, err := s.requestRepo.GetByID(ctx, requestID, 0)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Request not found")
		}
		return models.NewInternalError(err)
	}

	if req.CreatorID == helperID {
		return models.NewValidationError("You cannot help your own request")
	}

	created, err := s.helpRepo.Offer(ctx, helperID, requestID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if !created {
		observability.HelpOfferEvents.WithLabelValues("repeat").Inc()
		return nil
	}
	observability.HelpOfferEvents.WithLabelValues("offered").Inc()

	s.dispatch("help_offered", func(ctx context.Context) error {
		return s.gateway.HelpOffered(ctx, req.CreatorID, helperID, requestID, req.Title, req.Description)
	})
	return nil
}

// WithdrawHelp removes helperID's offer. The withdrawal notification is
// dispatched even when no row existed; the gateway deduplicates on its side.
func (s *HelpService) WithdrawHelp(ctx context.Context, requestID, helperID uint) error {
	req, err := s.requestRepo.GetByID(ctx, requestID, 0)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Request not found")
		}
		return models.NewInternalError(err)
	}

	if _, err := s.helpRepo.Withdraw(ctx, helperID, requestID); err != nil {
		return models.NewInternalError(err)
	}
	observability.HelpOfferEvents.WithLabelValues("withdrawn").Inc()

	s.dispatch("help_withdrawn", func(ctx context.Context) error {
		return s.gateway.HelpWithdrawn(ctx, req.CreatorID, helperID, requestID, req.Title, req.Description)
	})
	return nil
}

// dispatch runs a gateway call off the request path. The ledger operation
// has already succeeded by the time this runs; failures are logged and
// counted, never surfaced.
func (s *HelpService) dispatch(event string, fn func(ctx context.Context) error) {
	if s.gateway == nil {
		return
	}
	done := s.dispatchDone
	go func() {
		defer func() {
			if r := recover(); r != nil {
				observability.GlobalLogger.Error("panic in notification dispatch",
					"event", event, "panic", r, "stack", string(debug.Stack()))
			}
			if done != nil {
				done <- struct{}{}
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		observability.LogAsyncOperationStart(ctx, event, nil)
		if err := fn(ctx); err != nil {
			observability.NotificationPublishes.WithLabelValues(event, "error").Inc()
			observability.LogAsyncOperationError(ctx, event, err, nil)
			return
		}
		observability.NotificationPublishes.WithLabelValues(event, "ok").Inc()
		observability.LogAsyncOperationEnd(ctx, event, nil)
	}()
}
