package auth

import (
	"context"
	"strings"

	"github.com/fdg312/diet-planner/internal/userctx"
)

func WithUserID(ctx context.Context, userID string) context.Context {
	return userctx.WithUserID(ctx, userID)
}

func GetUserID(ctx context.Context) (string, bool) {
	return userctx.GetUserID(ctx)
}

// IsAnonymous reports whether the request subject came from anonymous sign-in.
func IsAnonymous(ctx context.Context) bool {
	userID, ok := GetUserID(ctx)
	return ok && strings.HasPrefix(userID, AnonymousSubjectPrefix)
}
