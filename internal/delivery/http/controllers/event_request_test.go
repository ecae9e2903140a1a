package controllers

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestEventRequest_validate(t *testing.T) {
	today := startOfDay(controllerNow)
	valid := func() EventRequest {
		return EventRequest{
			Name: "Jazz", Description: "d", Date: "2025-05-01", Program: "p", Contact: "c", Address: "a",
			Price: ptr(10.25), Capacity: ptr(0), CategoryIDs: []int64{1},
		}
	}

	tests := []struct {
		name      string
		mutate    func(r *EventRequest)
		create    bool
		wantField string
	}{
		{name: "valid today", mutate: func(*EventRequest) {}, create: true},
		{name: "free event without price", mutate: func(r *EventRequest) { r.Price = nil }, create: true},
		{name: "name required", mutate: func(r *EventRequest) { r.Name = "  " }, create: true, wantField: "name"},
		{name: "name too long", mutate: func(r *EventRequest) { r.Name = string(make([]byte, 51)) + "x" }, create: true, wantField: "name"},
		{name: "description required", mutate: func(r *EventRequest) { r.Description = "" }, create: true, wantField: "description"},
		{name: "program required", mutate: func(r *EventRequest) { r.Program = "" }, create: true, wantField: "program"},
		{name: "contact required", mutate: func(r *EventRequest) { r.Contact = "" }, create: true, wantField: "contact"},
		{name: "address required", mutate: func(r *EventRequest) { r.Address = "" }, create: true, wantField: "address"},
		{name: "date required", mutate: func(r *EventRequest) { r.Date = "" }, create: true, wantField: "date"},
		{name: "date layout", mutate: func(r *EventRequest) { r.Date = "01/05/2025" }, create: true, wantField: "date"},
		{name: "date yesterday", mutate: func(r *EventRequest) { r.Date = "2025-04-30" }, create: true, wantField: "date"},
		{name: "negative price", mutate: func(r *EventRequest) { r.Price = ptr(-0.01) }, create: true, wantField: "price"},
		{name: "three decimals", mutate: func(r *EventRequest) { r.Price = ptr(1.001) }, create: true, wantField: "price"},
		{name: "negative capacity", mutate: func(r *EventRequest) { r.Capacity = ptr(-1) }, create: true, wantField: "capacity"},
		{name: "price just under column limit", mutate: func(r *EventRequest) { r.Price = ptr(99999999.5) }, create: true},
		{name: "price beyond column precision", mutate: func(r *EventRequest) { r.Price = ptr(1e9) }, create: true, wantField: "price"},
		{name: "price at column limit", mutate: func(r *EventRequest) { r.Price = ptr(1e8) }, create: true, wantField: "price"},
		{name: "largest storable capacity", mutate: func(r *EventRequest) { r.Capacity = ptr(math.MaxInt32) }, create: true},
		{name: "capacity beyond integer column", mutate: func(r *EventRequest) { r.Capacity = ptr(3_000_000_000) }, create: true, wantField: "capacity"},
		{name: "categories required on create", mutate: func(r *EventRequest) { r.CategoryIDs = nil }, create: true, wantField: "category_ids"},
		{name: "categories optional on update", mutate: func(r *EventRequest) { r.CategoryIDs = nil }},
		{name: "non-positive category id", mutate: func(r *EventRequest) { r.CategoryIDs = []int64{1, 0} }, wantField: "category_ids"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			errs := req.validate(today, tt.create)
			if tt.wantField == "" {
				assert.Empty(t, errs)
				return
			}
			assert.Contains(t, errs, tt.wantField)
		})
	}
}

func TestEventRequest_input(t *testing.T) {
	req := EventRequest{Name: " Jazz ", Date: "2025-06-01", Address: " 1 Main St ", CategoryIDs: []int64{2}}
	in := req.input()
	assert.Equal(t, "Jazz", in.Name)
	assert.Equal(t, "1 Main St", in.Address)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), in.Date)
	assert.Equal(t, []int64{2}, in.CategoryIDs)
}
