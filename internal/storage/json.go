package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
)

// JSON is the adapter every repository goes through.
// Reads never fail: absence or a corrupt document leaves dst untouched.
// Decode reports the failure instead, for callers that write the value back.
// Writes log the failure and return it to the caller.
type JSON struct {
	store  Store
	logger *slog.Logger
}

// NewJSON creates a JSON adapter over store
func NewJSON(store Store, logger *slog.Logger) *JSON {
	return &JSON{store: store, logger: logger}
}

// Read decodes the value stored under key into dst.
// Returns false when dst was left at its default.
func (j *JSON) Read(ctx context.Context, key string, dst any) bool {
	found, err := j.Decode(ctx, key, dst)
	if err != nil {
		j.logger.WarnContext(ctx, "failed to parse stored value, using default", slog.String("key", key), slog.Any("error", err))
		return false
	}
	return found
}

// Decode is Read for read-modify-write paths. A missing key returns false
// and a nil error; an unreadable or corrupt value is returned as an error.
// dst changes only on success.
func (j *JSON) Decode(ctx context.Context, key string, dst any) (bool, error) {
	target := reflect.ValueOf(dst)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return false, fmt.Errorf("failed to decode %s: destination must be a non-nil pointer, got %T", key, dst)
	}

	raw, err := j.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get %s: %w", key, err)
	}

	// декодируем в новое значение: при ошибке типа json оставляет частично заполненный результат
	fresh := reflect.New(target.Elem().Type())
	if err := json.Unmarshal(raw, fresh.Interface()); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	target.Elem().Set(fresh.Elem())

	return true, nil
}

// Write encodes v and stores it under key
func (j *JSON) Write(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		j.logger.ErrorContext(ctx, "failed to serialize value", slog.String("key", key), slog.Any("error", err))
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	if err := j.store.Put(ctx, key, raw); err != nil {
		j.logger.ErrorContext(ctx, "failed to write value", slog.String("key", key), slog.Any("error", err))
		return fmt.Errorf("failed to save %s: %w", key, err)
	}

	return nil
}

// Delete removes key
func (j *JSON) Delete(ctx context.Context, key string) error {
	if err := j.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
