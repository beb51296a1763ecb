package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix    = "user:%d"
	RequestKeyPrefix = "board:request:%d"
	// BoardListKey caches the anonymous default board page only; any
	// filtered, ordered, or viewer-scoped read goes straight to the store.
	BoardListKey = "board:list:default"
)

const (
	UserTTL      = 5 * time.Minute
	BoardListTTL = 30 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func RequestKey(requestID uint) string {
	return fmt.Sprintf(RequestKeyPrefix, requestID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateBoard drops the cached board listing. Called after every board
// mutation (create, delete, like toggle, help offer/withdrawal).
func InvalidateBoard(ctx context.Context) {
	Invalidate(ctx, BoardListKey)
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}
