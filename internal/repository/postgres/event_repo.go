package postgres

import (
	"context"
	"database/sql"

	"eventconnect/internal/domain"

	"github.com/lib/pq"
)

const selectEvents = `
	SELECT e.id, e.name, e.image_name, e.description, e.date, e.program, e.contact,
	       e.price, e.capacity, e.address, e.owner_id, p.email, e.created_at, e.updated_at
	FROM events e
	INNER JOIN profiles p ON p.id = e.owner_id
`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (name, image_name, description, date, program, contact, price, capacity, address, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	price, capacity := nullableNumbers(e)
	return conn(ctx, r.DB).QueryRowContext(ctx, query,
		e.Name, nullString(e.ImageName), e.Description, e.Date, e.Program, e.Contact,
		price, capacity, e.Address, e.OwnerID, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	events, err := r.list(ctx, selectEvents+` WHERE e.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, domain.ErrNotFound
	}
	return events[0], nil
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	return r.list(ctx, selectEvents+` ORDER BY e.date, e.id`)
}

func (r *eventRepository) ListByCategoryID(ctx context.Context, categoryID int64) ([]*domain.Event, error) {
	query := selectEvents + `
		WHERE EXISTS (SELECT 1 FROM event_categories ec WHERE ec.event_id = e.id AND ec.category_id = $1)
		ORDER BY e.date, e.id
	`
	return r.list(ctx, query, categoryID)
}

func (r *eventRepository) ListByOwnerID(ctx context.Context, ownerID int64) ([]*domain.Event, error) {
	return r.list(ctx, selectEvents+` WHERE e.owner_id = $1 ORDER BY e.date, e.id`, ownerID)
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET name = $1, image_name = $2, description = $3, date = $4, program = $5, contact = $6,
		    price = $7, capacity = $8, address = $9, updated_at = $10
		WHERE id = $11
	`
	price, capacity := nullableNumbers(e)
	res, err := conn(ctx, r.DB).ExecContext(ctx, query,
		e.Name, nullString(e.ImageName), e.Description, e.Date, e.Program, e.Contact,
		price, capacity, e.Address, e.UpdatedAt, e.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *eventRepository) SetCategories(ctx context.Context, eventID int64, categoryIDs []int64) error {
	db := conn(ctx, r.DB)
	if _, err := db.ExecContext(ctx, `DELETE FROM event_categories WHERE event_id = $1`, eventID); err != nil {
		return err
	}
	if len(categoryIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO event_categories (event_id, category_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING
	`
	_, err := db.ExecContext(ctx, query, eventID, pq.Array(categoryIDs))
	return err
}

func (r *eventRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*domain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadCategories(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}

// loadCategories fills Categories for all events with one query.
func (r *eventRepository) loadCategories(ctx context.Context, events []*domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	byID := make(map[int64]*domain.Event, len(events))
	ids := make([]int64, 0, len(events))
	for _, e := range events {
		e.Categories = []*domain.Category{}
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}
	query := `
		SELECT ec.event_id, c.id, c.name
		FROM event_categories ec
		INNER JOIN categories c ON c.id = ec.category_id
		WHERE ec.event_id = ANY($1)
		ORDER BY c.id
	`
	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var eventID int64
		c := &domain.Category{}
		if err := rows.Scan(&eventID, &c.ID, &c.Name); err != nil {
			return err
		}
		if e, ok := byID[eventID]; ok {
			e.Categories = append(e.Categories, c)
		}
	}
	return rows.Err()
}

func scanEvent(rows *sql.Rows) (*domain.Event, error) {
	e := &domain.Event{}
	var image sql.NullString
	var price sql.NullFloat64
	var capacity sql.NullInt64
	err := rows.Scan(
		&e.ID, &e.Name, &image, &e.Description, &e.Date, &e.Program, &e.Contact,
		&price, &capacity, &e.Address, &e.OwnerID, &e.OwnerEmail, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.ImageName = image.String
	if price.Valid {
		e.Price = &price.Float64
	}
	if capacity.Valid {
		c := int(capacity.Int64)
		e.Capacity = &c
	}
	return e, nil
}

func nullableNumbers(e *domain.Event) (sql.NullFloat64, sql.NullInt64) {
	var price sql.NullFloat64
	var capacity sql.NullInt64
	if e.Price != nil {
		price = sql.NullFloat64{Float64: *e.Price, Valid: true}
	}
	if e.Capacity != nil {
		capacity = sql.NullInt64{Int64: int64(*e.Capacity), Valid: true}
	}
	return price, capacity
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

