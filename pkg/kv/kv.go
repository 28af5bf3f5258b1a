// Package kv implements the key-value persistence backends trackline mirrors
// its collections into.
package kv

import (
	"context"
	"fmt"
	"regexp"
)

// Gateway is a string key-value store. Get reports ok=false for absent keys.
type Gateway interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

var validKey = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// CheckKey rejects keys that cannot be used as file names.
func CheckKey(key string) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("invalid key %q", key)
	}
	return nil
}
