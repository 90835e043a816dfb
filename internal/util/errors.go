package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("account disabled")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrRoadmapNotFound    = errors.New("roadmap not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrInvalidScore       = errors.New("score exceeds quiz total")
	ErrUnsupportedFile    = errors.New("unsupported file type")
)
