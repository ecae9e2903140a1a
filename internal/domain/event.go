package domain

import (
	"context"
	"time"
)

// Event represents an event published by an organizer.
type Event struct {
	ID          int64
	Name        string
	ImageName   string
	Description string
	Date        time.Time
	Program     string
	Contact     string
	Price       *float64
	Capacity    *int
	Address     string
	OwnerID     int64
	OwnerEmail  string
	Categories  []*Category
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EventInput carries the mutable fields of an event as received from the client.
// A nil or empty CategoryIDs means "no categories" on create and "leave unchanged" on update.
type EventInput struct {
	Name        string
	Description string
	Date        time.Time
	Program     string
	Contact     string
	Price       *float64
	Capacity    *int
	Address     string
	CategoryIDs []int64
}

// Apply overwrites the event's mutable scalar fields with the input.
// Image and categories are handled separately by the caller.
func (in EventInput) Apply(e *Event) {
	e.Name = in.Name
	e.Description = in.Description
	e.Date = in.Date
	e.Program = in.Program
	e.Contact = in.Contact
	e.Price = in.Price
	e.Capacity = in.Capacity
	e.Address = in.Address
}

// EventView is the public projection of an event.
// swagger:model EventView
type EventView struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	ImageURL    string            `json:"img_url"`
	Description string            `json:"description"`
	Date        string            `json:"date"`
	Program     string            `json:"program"`
	Contact     string            `json:"contact"`
	Price       *float64          `json:"price"`
	Capacity    *int              `json:"capacity"`
	Address     string            `json:"address"`
	Categories  []CategorySummary `json:"categories"`
}

// DateLayout is the wire format of event dates.
const DateLayout = "2006-01-02"

// NewEventView projects an event to its public view.
func NewEventView(e *Event) *EventView {
	v := &EventView{
		ID:          e.ID,
		Name:        e.Name,
		ImageURL:    e.ImageName,
		Description: e.Description,
		Date:        e.Date.Format(DateLayout),
		Program:     e.Program,
		Contact:     e.Contact,
		Price:       e.Price,
		Capacity:    e.Capacity,
		Address:     e.Address,
		Categories:  make([]CategorySummary, 0, len(e.Categories)),
	}
	for _, c := range e.Categories {
		v.Categories = append(v.Categories, CategorySummary{ID: c.ID, Name: c.Name})
	}
	return v
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	ListByCategoryID(ctx context.Context, categoryID int64) ([]*Event, error)
	ListByOwnerID(ctx context.Context, ownerID int64) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id int64) error
	// SetCategories replaces all category links of the event with the given category IDs.
	SetCategories(ctx context.Context, eventID int64, categoryIDs []int64) error
}

// EventService defines event CRUD and the public read operations.
// subject is the authenticated profile email taken from a verified token.
type EventService interface {
	Create(ctx context.Context, subject string, input EventInput, imageName string) (*EventView, error)
	Update(ctx context.Context, subject string, id int64, input EventInput, newImageName string) (*EventView, error)
	Delete(ctx context.Context, subject string, id int64) error
	// AuthorizeMutation reports whether subject may update or delete the event, without changing it.
	AuthorizeMutation(ctx context.Context, subject string, id int64) error
	List(ctx context.Context) ([]*EventView, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]*EventView, error)
	ListMine(ctx context.Context, subject string) ([]*EventView, error)
	GetByID(ctx context.Context, id int64) (*EventView, error)
}

// AuthorizationPolicy decides whether the authenticated subject may mutate an owned resource.
type AuthorizationPolicy interface {
	CanMutate(subjectEmail, ownerEmail string) bool
}

// Transactor runs fn inside a single transaction. Repositories called with the ctx passed to fn take part in it.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
