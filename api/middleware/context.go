package middleware

import "context"

type contextKey string

const (
	ctxOperatorEmail contextKey = "operator_email"
	ctxOperatorName  contextKey = "operator_name"
	ctxAccessID      contextKey = "access_id"
)

func OperatorEmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxOperatorEmail).(string); ok {
		return v
	}
	return ""
}

func OperatorNameFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxOperatorName).(string); ok {
		return v
	}
	return ""
}

func AccessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessID).(string); ok {
		return v
	}
	return ""
}

// WithOperator injects the operator identity into the context for downstream handlers.
func WithOperator(ctx context.Context, email, name string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxOperatorEmail, email)
	return context.WithValue(ctx, ctxOperatorName, name)
}
