package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// MaxKeyLength is the longest key stored verbatim.
const MaxKeyLength = 200

// BuildKey derives a deterministic key from a call signature: prefix, each non-nil
// positional arg, then each non-nil kwarg sorted by name as "name:value", joined by ":".
// Keys longer than MaxKeyLength become "prefix:hash:<md5 hex>".
//
// The hash only shortens keys; it is not a security primitive.
func BuildKey(prefix string, args []any, kwargs map[string]any) string {
	parts := []string{prefix}
	for _, a := range args {
		if isNil(a) {
			continue
		}
		parts = append(parts, fmt.Sprint(deref(a)))
	}

	names := make([]string, 0, len(kwargs))
	for name, v := range kwargs {
		if !isNil(v) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, name+":"+fmt.Sprint(deref(kwargs[name])))
	}

	key := strings.Join(parts, ":")
	if len(key) > MaxKeyLength {
		sum := md5.Sum([]byte(key))
		return prefix + ":hash:" + hex.EncodeToString(sum[:])
	}
	return key
}

func isNil(v any) bool {
	switch p := v.(type) {
	case nil:
		return true
	case *string:
		return p == nil
	case *int:
		return p == nil
	case *float64:
		return p == nil
	case *bool:
		return p == nil
	}
	return false
}

func deref(v any) any {
	switch p := v.(type) {
	case *string:
		return *p
	case *int:
		return *p
	case *float64:
		return *p
	case *bool:
		return *p
	}
	return v
}
