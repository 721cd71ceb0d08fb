// Package reqctx carries request-scoped data through context.Context: the
// request metadata set by the HTTP middleware, the authenticated principal and
// the active trace id.
//
// A principal is present only on authenticated routes:
//
//	userID, ok := reqctx.UserIDFromContext(ctx)
//	if !ok {
//	    return apperr.ErrUnauthorized
//	}
package reqctx
