package core

import (
	"context"
	"errors"
)

var (
	ErrGrantExists   = errors.New("grant already exists")
	ErrGrantNotFound = errors.New("grant not found")
)

type GrantsRepository interface {
	AddGrant(ctx context.Context, g Grant) error
	RemoveGrant(ctx context.Context, subject, permission string) error
	// ListGrants returns grants of subject, or all grants when subject is empty.
	ListGrants(ctx context.Context, subject string) ([]Grant, error)
}

type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, bool, error)
	SetSetting(ctx context.Context, key, value string) error
}
