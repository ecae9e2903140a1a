package controllers

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	h "eventconnect/internal/delivery/http/helpers"
	"eventconnect/internal/domain"
)

// Column limits of events.price NUMERIC(10, 2) and events.capacity INTEGER.
const (
	maxPrice    = 1e8
	maxCapacity = math.MaxInt32
)

// EventRequest is the JSON carried in the "event" part of POST /events and PUT /events/{eventID}.
// Date uses the YYYY-MM-DD layout. Price and capacity are optional.
type EventRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Program     string   `json:"program"`
	Contact     string   `json:"contact"`
	Price       *float64 `json:"price"`
	Capacity    *int     `json:"capacity"`
	Address     string   `json:"address"`
	CategoryIDs []int64  `json:"category_ids"`
}

// validate checks the request against today's date. Categories are mandatory only on create.
func (req EventRequest) validate(today time.Time, requireCategories bool) h.FieldErrors {
	errs := h.FieldErrors{}
	requireText(errs, "name", req.Name, 50)
	if strings.TrimSpace(req.Description) == "" {
		errs.Add("description", "description is required")
	}
	if strings.TrimSpace(req.Program) == "" {
		errs.Add("program", "program is required")
	}
	if strings.TrimSpace(req.Contact) == "" {
		errs.Add("contact", "contact is required")
	}
	if strings.TrimSpace(req.Address) == "" {
		errs.Add("address", "address is required")
	}
	if utf8.RuneCountInString(req.Address) > 255 {
		errs.Add("address", "address must be at most 255 characters")
	}

	if strings.TrimSpace(req.Date) == "" {
		errs.Add("date", "date is required")
	} else if date, err := time.Parse(domain.DateLayout, req.Date); err != nil {
		errs.Add("date", "date must use the YYYY-MM-DD format")
	} else if date.Before(today) {
		errs.Add("date", "date must be today or in the future")
	}

	if req.Price != nil {
		p := *req.Price
		cents := p * 100
		switch {
		case math.IsNaN(p) || p < 0:
			errs.Add("price", "price must be zero or positive")
		case p >= maxPrice:
			errs.Add("price", "price is too large")
		case math.Abs(cents-math.Round(cents)) > 1e-6:
			errs.Add("price", "price must have at most 2 decimals")
		}
	}
	if req.Capacity != nil {
		switch {
		case *req.Capacity < 0:
			errs.Add("capacity", "capacity must be zero or positive")
		case *req.Capacity > maxCapacity:
			errs.Add("capacity", "capacity is too large")
		}
	}

	if requireCategories && len(req.CategoryIDs) == 0 {
		errs.Add("category_ids", "at least one category is required")
	}
	for _, id := range req.CategoryIDs {
		if id <= 0 {
			errs.Add("category_ids", "category ids must be positive")
			break
		}
	}
	return errs
}

// input converts a validated request.
func (req EventRequest) input() domain.EventInput {
	date, _ := time.Parse(domain.DateLayout, req.Date)
	return domain.EventInput{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Date:        date,
		Program:     req.Program,
		Contact:     strings.TrimSpace(req.Contact),
		Price:       req.Price,
		Capacity:    req.Capacity,
		Address:     strings.TrimSpace(req.Address),
		CategoryIDs: req.CategoryIDs,
	}
}

// startOfDay returns midnight UTC of t's calendar day, matching how dates are parsed.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
