package board

import (
	"net/http"

	"github.com/Abraxas-365/taskboard/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("BOARD")

var (
	CodeSessionClosed  = ErrRegistry.Register("SESSION_CLOSED", errx.TypeConflict, http.StatusConflict, "Board session is closed")
	CodeAlreadyStarted = ErrRegistry.Register("ALREADY_STARTED", errx.TypeConflict, http.StatusConflict, "Board session already started")
)

func ErrSessionClosed() *errx.Error  { return ErrRegistry.New(CodeSessionClosed) }
func ErrAlreadyStarted() *errx.Error { return ErrRegistry.New(CodeAlreadyStarted) }
