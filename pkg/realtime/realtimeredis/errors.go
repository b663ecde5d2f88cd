package realtimeredis

import "github.com/Abraxas-365/taskboard/pkg/errx"

var redisErrors = errx.NewRegistry("REALTIME_REDIS")

var (
	ErrPublish   = redisErrors.Register("PUBLISH", errx.TypeExternal, 502, "Redis publish failed")
	ErrSubscribe = redisErrors.Register("SUBSCRIBE", errx.TypeExternal, 502, "Redis subscribe failed")
	ErrMarshal   = redisErrors.Register("MARSHAL", errx.TypeInternal, 500, "Failed to marshal frame")
	ErrUnmarshal = redisErrors.Register("UNMARSHAL", errx.TypeInternal, 500, "Failed to unmarshal frame")
)
