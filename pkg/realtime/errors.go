package realtime

import (
	"net/http"

	"github.com/Abraxas-365/taskboard/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("REALTIME")

var (
	CodeEncode       = ErrRegistry.Register("ENCODE", errx.TypeInternal, http.StatusInternalServerError, "Failed to encode event")
	CodeInvalidFrame = ErrRegistry.Register("INVALID_FRAME", errx.TypeValidation, http.StatusBadRequest, "Invalid event frame")
	CodeDial         = ErrRegistry.Register("DIAL", errx.TypeExternal, http.StatusBadGateway, "Could not connect to realtime server")
	CodeClosed       = ErrRegistry.Register("CLOSED", errx.TypeUnavailable, http.StatusServiceUnavailable, "Channel is closed")
	CodeWrite        = ErrRegistry.Register("WRITE", errx.TypeExternal, http.StatusBadGateway, "Failed to write frame")
	CodePublish      = ErrRegistry.Register("PUBLISH", errx.TypeExternal, http.StatusBadGateway, "Failed to publish frame")
)

func ErrClosed() *errx.Error { return ErrRegistry.New(CodeClosed) }
