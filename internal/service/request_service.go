package service

import (
	"context"

	"shareit/internal/domain"
	"shareit/internal/logging"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type RequestService struct {
	requests domain.RequestRepository
	items    domain.ItemRepository
	users    domain.UserRepository
	clock    domain.Clock
	logger   *zerolog.Logger
}

func NewRequestService(
	requests domain.RequestRepository,
	items domain.ItemRepository,
	users domain.UserRepository,
	clock domain.Clock,
	logger *zerolog.Logger,
) *RequestService {
	return &RequestService{
		requests: requests,
		items:    items,
		users:    users,
		clock:    clock,
		logger:   logging.Component(logger, "requests"),
	}
}

func (s *RequestService) Create(ctx context.Context, requestorID int64, description string) (*models.ItemRequest, error) {
	if blank(description) {
		return nil, domain.Validation("description must not be blank")
	}
	requestor, err := s.users.GetUserByID(ctx, requestorID)
	if err != nil {
		return nil, err
	}

	request := &models.ItemRequest{
		Description: description,
		RequestorID: requestorID,
		Requestor:   *requestor,
		Created:     s.clock.Now(),
		Items:       []*models.Item{},
	}
	if err := s.requests.CreateRequest(ctx, request); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("request_id", request.ID).Int64("requestor_id", requestorID).Msg("request created")
	return request, nil
}

// ListMine returns the caller's requests, oldest first, with their answers.
func (s *RequestService) ListMine(ctx context.Context, requestorID int64) ([]*models.ItemRequest, error) {
	if err := requireUser(ctx, s.users, requestorID); err != nil {
		return nil, err
	}
	requests, err := s.requests.ListRequestsByRequestor(ctx, requestorID)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, requests)
}

// ListOthers pages through everyone else's requests, oldest first.
func (s *RequestService) ListOthers(ctx context.Context, requestorID int64, page models.Page) ([]*models.ItemRequest, error) {
	if err := checkPage(page); err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.users, requestorID); err != nil {
		return nil, err
	}
	requests, err := s.requests.ListRequestsExcept(ctx, requestorID, page)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, requests)
}

func (s *RequestService) Get(ctx context.Context, userID, requestID int64) (*models.ItemRequest, error) {
	if err := requireUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	request, err := s.requests.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if _, err := s.withItems(ctx, []*models.ItemRequest{request}); err != nil {
		return nil, err
	}
	return request, nil
}

// withItems resolves the answers of all requests with one query.
func (s *RequestService) withItems(ctx context.Context, requests []*models.ItemRequest) ([]*models.ItemRequest, error) {
	ids := make([]int64, 0, len(requests))
	byID := make(map[int64]*models.ItemRequest, len(requests))
	for _, r := range requests {
		r.Items = []*models.Item{}
		ids = append(ids, r.ID)
		byID[r.ID] = r
	}

	items, err := s.items.ListItemsByRequestIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.RequestID == nil {
			continue
		}
		if r, ok := byID[*item.RequestID]; ok {
			r.Items = append(r.Items, item)
		}
	}
	return requests, nil
}
