package task

import (
	"net/http"

	"github.com/Abraxas-365/taskboard/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("TASK")

var (
	CodeTaskNotFound    = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Task not found")
	CodeIndexOutOfRange = ErrRegistry.Register("INDEX_OUT_OF_RANGE", errx.TypeValidation, http.StatusBadRequest, "Index out of range")
	CodeEmptyText       = ErrRegistry.Register("EMPTY_TEXT", errx.TypeValidation, http.StatusBadRequest, "Text must not be empty")
	CodeInvalidTask     = ErrRegistry.Register("INVALID_TASK", errx.TypeValidation, http.StatusBadRequest, "Invalid task")
	CodeLoadFailed      = ErrRegistry.Register("LOAD_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to load tasks")
	CodeSyncFailed      = ErrRegistry.Register("SYNC_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to synchronize checklist")
)

func ErrTaskNotFound() *errx.Error    { return ErrRegistry.New(CodeTaskNotFound) }
func ErrIndexOutOfRange() *errx.Error { return ErrRegistry.New(CodeIndexOutOfRange) }
func ErrEmptyText() *errx.Error       { return ErrRegistry.New(CodeEmptyText) }
func ErrInvalidTask() *errx.Error     { return ErrRegistry.New(CodeInvalidTask) }
func ErrLoadFailed() *errx.Error      { return ErrRegistry.New(CodeLoadFailed) }
func ErrSyncFailed() *errx.Error      { return ErrRegistry.New(CodeSyncFailed) }
