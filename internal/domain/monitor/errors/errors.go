// Package errors contains domain-specific errors for the monitor domain
package errors

import (
	pkgerrors "github.com/Conte777/reaction-monitor/pkg/errors"
)

// Domain errors for monitor operations
var (
	ErrMonitorNotFound    = pkgerrors.NewNotFoundError("monitor not found")
	ErrNotMonitorOwner    = pkgerrors.NewPermissionError("monitor belongs to another user")
	ErrAlreadyMonitored   = pkgerrors.NewConflictError("post is already monitored")
	ErrNotAuthorized      = pkgerrors.NewPermissionError("user is not allowed to manage monitors")
	ErrInvalidMonitorKey  = pkgerrors.NewValidationError("monitor key must look like chatId:messageId")
	ErrMonitorIncomplete  = pkgerrors.NewValidationError("monitor needs reactions and a threshold")
	ErrHistoryDisabled    = pkgerrors.NewInternalError("fire history is not configured")
	ErrMessengerMissing   = pkgerrors.NewInternalError("no messenger registered for bot")
	ErrTelegramAPI        = pkgerrors.NewInternalError("telegram API error")
	ErrEventPublishFailed = pkgerrors.NewInternalError("event publish failed")
)
