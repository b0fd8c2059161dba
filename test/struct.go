package test

import "context"

// MockContext wraps a context.Context with mutators for test setups.
type MockContext struct {
	Ctx context.Context
}

func (ctx *MockContext) Context() context.Context {
	return ctx.Ctx
}

func (ctx *MockContext) SetValue(key interface{}, value interface{}) {
	ctx.Ctx = context.WithValue(ctx.Ctx, key, value)
}

func (ctx *MockContext) GetValue(key interface{}) interface{} {
	return ctx.Ctx.Value(key)
}
