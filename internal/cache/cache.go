// Package cache provides the TTL key/value stores shared across requests.
package cache

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"
)

// ErrInvalidDestination is returned when Get cannot assign into dest.
var ErrInvalidDestination = errors.New("cache: destination must be a non-nil pointer of the stored type")

// Store is a key/value store with per-entry expiry. Get reports a miss with
// (false, nil); a non-nil error means the store itself failed.
// Values returned by Get must be treated as read-only.
type Store interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// assign copies value into the variable dest points to.
func assign(dest, value any) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return ErrInvalidDestination
	}
	target := dv.Elem()
	vv := reflect.ValueOf(value)
	if !vv.IsValid() {
		target.SetZero()
		return nil
	}
	if !vv.Type().AssignableTo(target.Type()) {
		return fmt.Errorf("%w: have %s, want %s", ErrInvalidDestination, vv.Type(), target.Type())
	}
	target.Set(vv)
	return nil
}
