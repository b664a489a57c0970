package service

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/domain"
	"shareit/internal/logging"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type ItemService struct {
	items    domain.ItemRepository
	users    domain.UserRepository
	bookings domain.BookingRepository
	comments domain.CommentRepository
	requests domain.RequestRepository
	clock    domain.Clock
	logger   *zerolog.Logger
}

func NewItemService(
	items domain.ItemRepository,
	users domain.UserRepository,
	bookings domain.BookingRepository,
	comments domain.CommentRepository,
	requests domain.RequestRepository,
	clock domain.Clock,
	logger *zerolog.Logger,
) *ItemService {
	return &ItemService{
		items:    items,
		users:    users,
		bookings: bookings,
		comments: comments,
		requests: requests,
		clock:    clock,
		logger:   logging.Component(logger, "items"),
	}
}

// Get returns the item with its comments. Last and next bookings are only
// revealed to the owner.
func (s *ItemService) Get(ctx context.Context, userID, itemID int64) (*models.ItemDetails, error) {
	if err := requireUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, userID, item, s.clock.Now())
}

func (s *ItemService) ListByOwner(ctx context.Context, ownerID int64, page models.Page) ([]*models.ItemDetails, error) {
	if err := checkPage(page); err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.users, ownerID); err != nil {
		return nil, err
	}

	items, err := s.items.ListItemsByOwner(ctx, ownerID, &page)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	result := make([]*models.ItemDetails, 0, len(items))
	for _, item := range items {
		d, err := s.details(ctx, ownerID, item, now)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, nil
}

func (s *ItemService) details(ctx context.Context, userID int64, item *models.Item, now time.Time) (*models.ItemDetails, error) {
	comments, err := s.comments.ListCommentsByItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	d := &models.ItemDetails{Item: *item, Comments: comments}
	if item.OwnerID != userID {
		return d, nil
	}

	if d.LastBooking, err = s.bookings.LastBooking(ctx, item.ID, now); err != nil {
		return nil, err
	}
	if d.NextBooking, err = s.bookings.NextBooking(ctx, item.ID, now); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *ItemService) Create(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error) {
	if blank(item.Name) {
		return nil, domain.Validation("name must not be blank")
	}
	if blank(item.Description) {
		return nil, domain.Validation("description must not be blank")
	}
	if err := requireUser(ctx, s.users, ownerID); err != nil {
		return nil, err
	}
	if err := s.requireRequest(ctx, item.RequestID); err != nil {
		return nil, err
	}

	item.OwnerID = ownerID
	if err := s.items.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("item created")
	return item, nil
}

// Update applies the non-nil patch fields. A non-nil requestID re-links the
// item to that request.
func (s *ItemService) Update(ctx context.Context, ownerID, itemID int64, patch models.ItemPatch, requestID *int64) (*models.Item, error) {
	if err := requireUser(ctx, s.users, ownerID); err != nil {
		return nil, err
	}
	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, domain.Forbidden(fmt.Sprintf("user %d does not own item %d", ownerID, itemID))
	}

	item.Apply(patch)
	if blank(item.Name) || blank(item.Description) {
		return nil, domain.Validation("name and description must not be blank")
	}
	if requestID != nil {
		if err := s.requireRequest(ctx, requestID); err != nil {
			return nil, err
		}
		item.RequestID = requestID
	}

	if err := s.items.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Search returns available items whose name or description contains text.
// Blank text matches nothing.
func (s *ItemService) Search(ctx context.Context, userID int64, text string, page models.Page) ([]*models.Item, error) {
	if err := checkPage(page); err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	if blank(text) {
		return []*models.Item{}, nil
	}
	return s.items.SearchAvailableItems(ctx, text, page)
}

// AddComment is allowed only after the author finished a booking of the item.
func (s *ItemService) AddComment(ctx context.Context, authorID, itemID int64, text string) (*models.Comment, error) {
	if blank(text) {
		return nil, domain.Validation("text must not be blank")
	}
	author, err := s.users.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.items.GetItemByID(ctx, itemID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	ok, err := s.bookings.HasFinishedBooking(ctx, authorID, itemID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNoPastBooking
	}

	comment := &models.Comment{
		Text:       text,
		ItemID:     itemID,
		AuthorID:   authorID,
		AuthorName: author.Name,
		Created:    now,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *ItemService) ListByRequest(ctx context.Context, requestID int64) ([]*models.Item, error) {
	return s.items.ListItemsByRequestIDs(ctx, []int64{requestID})
}

func (s *ItemService) ListByRequests(ctx context.Context, requestIDs []int64) ([]*models.Item, error) {
	return s.items.ListItemsByRequestIDs(ctx, requestIDs)
}

func (s *ItemService) requireRequest(ctx context.Context, requestID *int64) error {
	if requestID == nil {
		return nil
	}
	ok, err := s.requests.RequestExists(ctx, *requestID)
	if err != nil {
		return fmt.Errorf("failed to check request %d: %w", *requestID, err)
	}
	if !ok {
		return domain.NotFound(fmt.Sprintf("request %d not found", *requestID))
	}
	return nil
}
