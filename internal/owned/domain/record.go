// Package domain holds the pieces shared by every user-owned record kind.
package domain

import (
	"context"
	"time"
)

// Base carries the columns every owned record has. Embed it in a gorm model.
type Base struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Base) GetID() string { return b.ID }

func (b *Base) SetID(id string) { b.ID = id }

func (b *Base) OwnerID() string { return b.UserID }

func (b *Base) SetOwnerID(owner string) { b.UserID = owner }

// Record is implemented by pointers to owned models.
type Record interface {
	GetID() string
	SetID(id string)
	OwnerID() string
	SetOwnerID(owner string)
}

// Model constrains PT to be *T implementing Record, so generic code can both
// allocate a T and call Record methods on it.
type Model[T any] interface {
	*T
	Record
}

// Kind describes a record kind to the generic layer.
type Kind struct {
	// Name is used in logs, metrics and events, e.g. "goal".
	Name string
	// CategoryColumn is the column matched by delete_by_category.
	CategoryColumn string
	// CategoryParam is the query parameter carrying the category value.
	CategoryParam string
}

type Action string

const (
	ActionCreate           Action = "create"
	ActionUpdate           Action = "update"
	ActionDelete           Action = "delete"
	ActionDeleteAll        Action = "delete_all"
	ActionDeleteByDate     Action = "delete_by_date"
	ActionDeleteByCategory Action = "delete_by_category"
)

// Change is emitted after a mutation has been committed. Bulk actions leave
// RecordID empty and set Count.
type Change struct {
	Kind     string
	Action   Action
	UserID   string
	RecordID string
	Count    int64
	At       time.Time
}

// Observer reacts to committed changes. It must not fail the request, so it
// has no error return.
type Observer interface {
	RecordChanged(ctx context.Context, change Change)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, change Change)

func (f ObserverFunc) RecordChanged(ctx context.Context, change Change) { f(ctx, change) }
