package domain

import "context"

// VerificationCache holds short-lived account verification tokens.
type VerificationCache interface {
	PostCacheData(ctx context.Context, key string, value string) error
	GetCachedValue(ctx context.Context, key string) (string, error)
	DelCachedValue(ctx context.Context, key string) error
}
