package cache

import (
	"net/http"

	"github.com/snacktrack/snacktrack-api/errcode"
)

const ModuleCode = 70

const (
	ErrCodeCacheMiss        = 1
	ErrCodeStoreGet         = 2
	ErrCodeStoreSet         = 3
	ErrCodeStoreDelete      = 4
	ErrCodeSerialize        = 5
	ErrCodeDeserialize      = 6
	ErrCodeStoreUnavailable = 7
)

var (
	ErrCacheMiss = errcode.Register(errcode.New(ModuleCode, ErrCodeCacheMiss,
		"cache", "error.cache.miss", "cache miss", http.StatusNotFound))

	ErrStoreGet = errcode.Register(errcode.New(ModuleCode, ErrCodeStoreGet,
		"cache", "error.cache.store_get", "cache get failed"))

	ErrStoreSet = errcode.Register(errcode.New(ModuleCode, ErrCodeStoreSet,
		"cache", "error.cache.store_set", "cache set failed"))

	ErrStoreDelete = errcode.Register(errcode.New(ModuleCode, ErrCodeStoreDelete,
		"cache", "error.cache.store_delete", "cache delete failed"))

	ErrSerialize = errcode.Register(errcode.New(ModuleCode, ErrCodeSerialize,
		"cache", "error.cache.serialize", "cache value serialization failed"))

	ErrDeserialize = errcode.Register(errcode.New(ModuleCode, ErrCodeDeserialize,
		"cache", "error.cache.deserialize", "cache value deserialization failed"))

	// ErrStoreUnavailable means the store has no live backend for this call.
	ErrStoreUnavailable = errcode.Register(errcode.New(ModuleCode, ErrCodeStoreUnavailable,
		"cache", "error.cache.store_unavailable", "cache backend unavailable", http.StatusServiceUnavailable))
)
