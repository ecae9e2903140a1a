package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventconnect/internal/domain"
)

type eventService struct {
	events         domain.EventRepository
	profiles       domain.ProfileRepository
	categories     domain.CategoryRepository
	tx             domain.Transactor
	policy         domain.AuthorizationPolicy
	images         domain.ImageStorage
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

func NewEventService(
	events domain.EventRepository,
	profiles domain.ProfileRepository,
	categories domain.CategoryRepository,
	tx domain.Transactor,
	policy domain.AuthorizationPolicy,
	images domain.ImageStorage,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		events:         events,
		profiles:       profiles,
		categories:     categories,
		tx:             tx,
		policy:         policy,
		images:         images,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// categoryLookup is the outcome of resolving requested category ids.
type categoryLookup struct {
	requested []int64
	found     []*domain.Category
}

func (l categoryLookup) notFound() bool {
	return len(l.found) == 0
}

// partial reports whether some distinct requested ids did not resolve.
func (l categoryLookup) partial() bool {
	distinct := make(map[int64]struct{}, len(l.requested))
	for _, id := range l.requested {
		distinct[id] = struct{}{}
	}
	return len(l.found) < len(distinct)
}

func (l categoryLookup) ids() []int64 {
	ids := make([]int64, len(l.found))
	for i, c := range l.found {
		ids[i] = c.ID
	}
	return ids
}

// lookupCategories resolves ids. A lookup that finds nothing is an error; a partial one is
// accepted with a warning and only the found categories are linked.
func (s *eventService) lookupCategories(ctx context.Context, ids []int64) (categoryLookup, error) {
	found, err := s.categories.FindAllByIDs(ctx, ids)
	if err != nil {
		return categoryLookup{}, fmt.Errorf("failed to find categories: %w", err)
	}
	lookup := categoryLookup{requested: ids, found: found}
	if lookup.notFound() {
		return lookup, domain.NewNotFound("categories", "ids", ids)
	}
	if lookup.partial() {
		s.logger.WarnContext(ctx, "some categories were not found", "requested", ids, "found", lookup.ids())
	}
	return lookup, nil
}

func (s *eventService) ownerOf(ctx context.Context, subject string) (*domain.Profile, error) {
	profile, err := s.profiles.GetByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("profile", "email", subject)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

func (s *eventService) Create(ctx context.Context, subject string, input domain.EventInput, imageName string) (*domain.EventView, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	owner, err := s.ownerOf(ctx, subject)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(imageName) == "" {
		return nil, fmt.Errorf("%w: image is required", domain.ErrInvalidInput)
	}

	categories := []*domain.Category{}
	if len(input.CategoryIDs) > 0 {
		lookup, err := s.lookupCategories(ctx, input.CategoryIDs)
		if err != nil {
			return nil, err
		}
		categories = lookup.found
	}

	now := s.now()
	event := &domain.Event{
		ImageName:  imageName,
		OwnerID:    owner.ID,
		OwnerEmail: owner.Email,
		Categories: categories,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	input.Apply(event)

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.events.Create(ctx, event); err != nil {
			return fmt.Errorf("failed to create event: %w", err)
		}
		if len(categories) == 0 {
			return nil
		}
		if err := s.events.SetCategories(ctx, event.ID, categoryLookup{found: categories}.ids()); err != nil {
			return fmt.Errorf("failed to link categories: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "event created", "event_id", event.ID, "owner_id", owner.ID)
	return domain.NewEventView(event), nil
}

// loadForMutation loads the event and checks that subject may change it.
func (s *eventService) loadForMutation(ctx context.Context, subject string, id int64) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("event", "id", id)
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if !s.policy.CanMutate(subject, event.OwnerEmail) {
		s.logger.WarnContext(ctx, "event mutation denied", "event_id", id)
		return nil, domain.ErrForbidden
	}
	return event, nil
}

func (s *eventService) AuthorizeMutation(ctx context.Context, subject string, id int64) error {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	_, err := s.loadForMutation(ctx, subject, id)
	return err
}

func (s *eventService) Update(ctx context.Context, subject string, id int64, input domain.EventInput, newImageName string) (*domain.EventView, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.loadForMutation(ctx, subject, id)
	if err != nil {
		return nil, err
	}

	var categories []*domain.Category
	if len(input.CategoryIDs) > 0 {
		lookup, err := s.lookupCategories(ctx, input.CategoryIDs)
		if err != nil {
			return nil, err
		}
		categories = lookup.found
	}

	oldImage := event.ImageName
	input.Apply(event)
	replaced := strings.TrimSpace(newImageName) != ""
	if replaced {
		event.ImageName = newImageName
	}
	event.UpdatedAt = s.now()

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.events.Update(ctx, event); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NewNotFound("event", "id", id)
			}
			return fmt.Errorf("failed to update event: %w", err)
		}
		if categories == nil {
			return nil
		}
		if err := s.events.SetCategories(ctx, event.ID, categoryLookup{found: categories}.ids()); err != nil {
			return fmt.Errorf("failed to link categories: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if categories != nil {
		event.Categories = categories
	}
	if replaced && oldImage != "" && oldImage != newImageName {
		s.images.DeleteImage(ctx, oldImage)
	}
	return domain.NewEventView(event), nil
}

func (s *eventService) Delete(ctx context.Context, subject string, id int64) error {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.loadForMutation(ctx, subject, id)
	if err != nil {
		return err
	}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.events.Delete(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NewNotFound("event", "id", id)
			}
			return fmt.Errorf("failed to delete event: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.images.DeleteImage(ctx, event.ImageName)
	s.logger.InfoContext(ctx, "event deleted", "event_id", id)
	return nil
}

func (s *eventService) List(ctx context.Context) ([]*domain.EventView, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return views(events), nil
}

func (s *eventService) ListByCategory(ctx context.Context, categoryID int64) ([]*domain.EventView, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.events.ListByCategoryID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events by category: %w", err)
	}
	return views(events), nil
}

func (s *eventService) ListMine(ctx context.Context, subject string) ([]*domain.EventView, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	owner, err := s.ownerOf(ctx, subject)
	if err != nil {
		return nil, err
	}
	events, err := s.events.ListByOwnerID(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events by owner: %w", err)
	}
	return views(events), nil
}

func (s *eventService) GetByID(ctx context.Context, id int64) (*domain.EventView, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("event", "id", id)
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return domain.NewEventView(event), nil
}

func views(events []*domain.Event) []*domain.EventView {
	out := make([]*domain.EventView, len(events))
	for i, e := range events {
		out[i] = domain.NewEventView(e)
	}
	return out
}
