package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/logging"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type BookingService struct {
	bookings domain.BookingRepository
	items    domain.ItemRepository
	users    domain.UserRepository
	eventBus domain.EventPublisher
	clock    domain.Clock
	logger   *zerolog.Logger
}

func NewBookingService(
	bookings domain.BookingRepository,
	items domain.ItemRepository,
	users domain.UserRepository,
	eventBus domain.EventPublisher,
	clock domain.Clock,
	logger *zerolog.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		items:    items,
		users:    users,
		eventBus: eventBus,
		clock:    clock,
		logger:   logging.Component(logger, "bookings"),
	}
}

// ValidateRange checks that both ends lie in the future and end follows start.
func ValidateRange(start, end, now time.Time) error {
	if !start.After(now) || !end.After(now) || !end.After(start) {
		return domain.ErrInvalidRange
	}
	return nil
}

func (s *BookingService) Create(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.Booking, error) {
	if err := ValidateRange(start, end, s.clock.Now()); err != nil {
		return nil, err
	}

	booker, err := s.users.GetUserByID(ctx, bookerID)
	if err != nil {
		return nil, err
	}
	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, domain.ErrItemUnavailable
	}
	if item.OwnerID == bookerID {
		return nil, domain.ErrSelfBooking
	}

	booking := &models.Booking{
		Start:    start.UTC(),
		End:      end.UTC(),
		ItemID:   item.ID,
		BookerID: bookerID,
		Status:   models.StatusWaiting,
		Item:     *item,
		Booker:   *booker,
	}
	if err := s.bookings.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("booking_id", booking.ID).Int64("item_id", itemID).Int64("booker_id", bookerID).Msg("booking created")
	s.publishEvent(events.EventBookingCreated, booking, bookerID)
	return booking, nil
}

// Decide approves or rejects a waiting booking. Only the item owner may
// decide, and only once: a concurrent decision that lost the race gets
// ErrInvalidState.
func (s *BookingService) Decide(ctx context.Context, ownerID, bookingID int64, approve bool) (*models.Booking, error) {
	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Item.OwnerID != ownerID {
		return nil, domain.Forbidden(fmt.Sprintf("user %d does not own the item of booking %d", ownerID, bookingID))
	}
	if booking.Status != models.StatusWaiting {
		return nil, domain.ErrInvalidState
	}

	to, eventType := models.StatusRejected, events.EventBookingRejected
	if approve {
		to, eventType = models.StatusApproved, events.EventBookingApproved
	}

	err = s.bookings.UpdateBookingStatus(ctx, bookingID, models.StatusWaiting, to)
	if errors.Is(err, database.ErrConcurrentModification) {
		return nil, domain.ErrInvalidState
	}
	if err != nil {
		return nil, err
	}

	booking.Status = to
	s.logger.Info().Int64("booking_id", bookingID).Str("status", string(to)).Msg("booking decided")
	s.publishEvent(eventType, booking, ownerID)
	return booking, nil
}

// Get is visible to the booker and to the item owner.
func (s *BookingService) Get(ctx context.Context, userID, bookingID int64) (*models.Booking, error) {
	if err := requireUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParty(userID) {
		return nil, domain.Forbidden(fmt.Sprintf("user %d may not view booking %d", userID, bookingID))
	}
	return booking, nil
}

func (s *BookingService) ListByBooker(ctx context.Context, bookerID int64, state models.BookingState, page models.Page) ([]*models.Booking, error) {
	if err := checkPage(page); err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.users, bookerID); err != nil {
		return nil, err
	}
	return s.bookings.ListBookings(ctx, models.BookingFilter{
		BookerID: bookerID,
		State:    state,
		Now:      s.clock.Now(),
		Page:     &page,
	})
}

// ListByOwner walks the owner's items in id order and concatenates one
// filtered page per item.
func (s *BookingService) ListByOwner(ctx context.Context, ownerID int64, state models.BookingState, page models.Page) ([]*models.Booking, error) {
	if err := checkPage(page); err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.users, ownerID); err != nil {
		return nil, err
	}

	items, err := s.items.ListItemsByOwner(ctx, ownerID, nil)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	result := []*models.Booking{}
	for _, item := range items {
		bookings, err := s.bookings.ListBookings(ctx, models.BookingFilter{
			ItemID: item.ID,
			State:  state,
			Now:    now,
			Page:   &page,
		})
		if err != nil {
			return nil, err
		}
		result = append(result, bookings...)
	}
	return result, nil
}

// ListForExport returns every booking on the owner's items matching state,
// newest start first, without paging.
func (s *BookingService) ListForExport(ctx context.Context, ownerID int64, state models.BookingState) ([]*models.Booking, error) {
	if err := requireUser(ctx, s.users, ownerID); err != nil {
		return nil, err
	}
	return s.bookings.ListBookings(ctx, models.BookingFilter{
		OwnerID: ownerID,
		State:   state,
		Now:     s.clock.Now(),
	})
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, changedByID int64) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:   booking.ID,
		ItemID:      booking.ItemID,
		ItemName:    booking.Item.Name,
		OwnerID:     booking.Item.OwnerID,
		BookerID:    booking.BookerID,
		Status:      string(booking.Status),
		Start:       booking.Start,
		End:         booking.End,
		ChangedByID: changedByID,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}
