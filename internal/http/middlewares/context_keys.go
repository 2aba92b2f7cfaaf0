package middlewares

const (
	CtxRequestID = "request_id"
	CtxActorID   = "auth.actorID"
	CtxToken     = "auth.token"
)
