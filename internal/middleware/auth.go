package middleware

import (
	"context"
	"strings"

	"github.com/vinopick/backend/internal/common"
	"github.com/vinopick/backend/internal/entity"
	"github.com/vinopick/backend/internal/model"
	"github.com/vinopick/backend/pkg/authenticator"
	"github.com/vinopick/backend/pkg/errorx"
	"github.com/vinopick/backend/pkg/router"
	"github.com/vinopick/backend/pkg/xcontext"
)

type AuthVerifier struct {
	tokenEngine  authenticator.TokenEngine[model.AccessToken]
	roleVerifier *common.RoleVerifier
}

func NewAuthVerifier(
	tokenEngine authenticator.TokenEngine[model.AccessToken],
	roleVerifier *common.RoleVerifier,
) *AuthVerifier {
	return &AuthVerifier{tokenEngine: tokenEngine, roleVerifier: roleVerifier}
}

// Middleware accepts a request only when it carries a valid bearer token of a reviewer or an
// admin.
func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		header := xcontext.HTTPRequest(ctx).Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return ctx, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		info, err := a.tokenEngine.Verify(token)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return ctx, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		ctx = xcontext.WithRequestUserID(ctx, info.ID)
		if err := a.roleVerifier.Verify(ctx, entity.ReviewerRoles...); err != nil {
			xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
			return ctx, errorx.New(errorx.PermissionDenied, "Permission denied")
		}

		return ctx, nil
	}
}
