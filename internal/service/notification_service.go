package service

import (
	"context"
	"strings"

	"github.com/mansoorceksport/gymhub/internal/domain"
	"github.com/mansoorceksport/gymhub/pkg/logger"
)

// NotificationService appends to and reads from the per-user notification inbox
type NotificationService struct {
	authz *Authorizer
	repo  domain.NotificationRepository
	log   logger.Logger
}

func NewNotificationService(authz *Authorizer, repo domain.NotificationRepository, log logger.Logger) *NotificationService {
	return &NotificationService{
		authz: authz,
		repo:  repo,
		log:   log.With("component", "notifications"),
	}
}

// Notify appends one unread notification. An empty type defaults to info.
func (s *NotificationService) Notify(ctx context.Context, recipientID, message, notificationType string) (*domain.Notification, error) {
	if recipientID == "" {
		return nil, domain.NewValidationError("recipient_id", "is required")
	}
	if strings.TrimSpace(message) == "" {
		return nil, domain.NewValidationError("message", "is required")
	}
	if notificationType == "" {
		notificationType = domain.NotificationInfo
	}
	if !domain.IsValidNotificationType(notificationType) {
		return nil, domain.ErrUnsupportedCategory
	}

	n := &domain.Notification{
		RecipientID: recipientID,
		Message:     message,
		Type:        notificationType,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Dispatch persists pending events in order. A failed event does not stop the
// rest and does not undo earlier ones; failures come back as *domain.DispatchError.
func (s *NotificationService) Dispatch(ctx context.Context, events []domain.NotificationEvent) error {
	var dispatchErr *domain.DispatchError
	for _, ev := range events {
		if _, err := s.Notify(ctx, ev.RecipientID, ev.Message, ev.Type); err != nil {
			if dispatchErr == nil {
				dispatchErr = &domain.DispatchError{}
			}
			dispatchErr.Failed = append(dispatchErr.Failed, ev)
			dispatchErr.Errs = append(dispatchErr.Errs, err)
			s.log.InternalError("failed to dispatch notification", err, "recipient_id", ev.RecipientID)
		}
	}
	if dispatchErr != nil {
		return dispatchErr
	}
	return nil
}

// ListUnread returns the caller's unread notifications, newest first
func (s *NotificationService) ListUnread(ctx context.Context, p domain.Principal) ([]*domain.Notification, error) {
	if err := s.authz.AuthorizeRole(p, domain.ActionReadNotifications); err != nil {
		return nil, err
	}
	return s.repo.ListUnread(ctx, p.ID)
}

// MarkRead flips one notification to read. Ids that belong to somebody else
// are reported as not found. Marking an already read notification succeeds.
func (s *NotificationService) MarkRead(ctx context.Context, p domain.Principal, id string) error {
	if err := s.authz.AuthorizeRole(p, domain.ActionMarkNotifications); err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, id, p.ID)
}

// MarkAllRead flips every unread notification of the caller and returns how many changed
func (s *NotificationService) MarkAllRead(ctx context.Context, p domain.Principal) (int64, error) {
	if err := s.authz.AuthorizeRole(p, domain.ActionMarkNotifications); err != nil {
		return 0, err
	}
	return s.repo.MarkAllRead(ctx, p.ID)
}
