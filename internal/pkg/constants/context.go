package constants

type ctxKey string

const CtxKeyRequestID ctxKey = "request_id"
