package utils

import (
	"context"

	"github.com/sirupsen/logrus"
)

type contextString string

type ctxKeys struct {
	Log       contextString
	RequestID contextString
	MemberID  contextString
}

// CtxKeys is context value keys
var CtxKeys = ctxKeys{
	Log:       "Log",
	RequestID: "requestID",
	MemberID:  "memberID",
}

// RequestID extracts requestID from context
func RequestID(ctx context.Context) string {
	v := ctx.Value(CtxKeys.RequestID)
	if v == nil {
		return ""
	}
	return v.(string)
}

// MemberID extracts the member ID targeted by the request from context
func MemberID(ctx context.Context) string {
	v := ctx.Value(CtxKeys.MemberID)
	if v == nil {
		return ""
	}
	return v.(string)
}

// LogCtx returns logger with certain context values included
func LogCtx(ctx context.Context) *logrus.Entry {
	v := ctx.Value(CtxKeys.Log)
	if v == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}

	var entry *logrus.Entry
	switch l := v.(type) {
	case *logrus.Logger:
		entry = logrus.NewEntry(l)
	case *logrus.Entry:
		entry = l
	default:
		entry = logrus.NewEntry(logrus.StandardLogger())
	}

	if requestID := RequestID(ctx); len(requestID) > 0 {
		entry = entry.WithField(string(CtxKeys.RequestID), requestID)
	}
	if memberID := MemberID(ctx); len(memberID) > 0 {
		entry = entry.WithField(string(CtxKeys.MemberID), memberID)
	}

	return entry
}
