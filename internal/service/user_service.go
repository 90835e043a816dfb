package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/repository"
	"skillpath_backend/internal/util"
	"strings"
	"time"
)

// UserService 处理用户档案与管理端用户操作
type UserService struct {
	UserRepo       *repository.UserRepository
	RoadmapRepo    *repository.RoadmapRepository
	StorageService *StorageService
}

func NewUserService(
	userRepo *repository.UserRepository,
	roadmapRepo *repository.RoadmapRepository,
	storageService *StorageService,
) *UserService {
	return &UserService{
		UserRepo:       userRepo,
		RoadmapRepo:    roadmapRepo,
		StorageService: storageService,
	}
}

// ProfileUpdate 档案部分更新，nil 字段保持原值
type ProfileUpdate struct {
	Name     *string
	Goal     *string
	Language *string
}

// GetUserByID 根据ID获取用户信息
func (s *UserService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile 部分更新当前用户的档案
func (s *UserService) UpdateProfile(userID uint, update ProfileUpdate) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Goal != nil {
		user.Goal = *update.Goal
	}
	if update.Language != nil {
		user.Language = *update.Language
	}
	user.UpdatedAt = time.Now()

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}

	return user, nil
}

// UploadAvatar 校验并保存头像，更新用户记录后返回新头像 URL
func (s *UserService) UploadAvatar(ctx context.Context, userID uint, file *multipart.FileHeader) (string, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return "", util.ErrUserNotFound
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowed := false
	for _, e := range util.AllowedAvatarExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", util.ErrUnsupportedFile
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// 扩展名可以伪造，再按文件头做一次 MIME 校验
	mimeType, err := util.ValidateMimeType(src, []string{util.MimeImage})
	if err != nil {
		return "", util.ErrUnsupportedFile
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("avatars/%d-%s%s", userID, time.Now().Format("20060102150405"), ext)
	url, err := s.StorageService.Upload(ctx, filename, src, file.Size, mimeType)
	if err != nil {
		return "", err
	}

	user.Avatar = url
	user.UpdatedAt = time.Now()
	if err := s.UserRepo.Update(user); err != nil {
		return "", err
	}

	return url, nil
}

// GetUsers 管理端分页列出用户
func (s *UserService) GetUsers(page, limit int) ([]model.User, int64, error) {
	return s.UserRepo.List(page, limit)
}

// DisableUser 禁用/启用用户，禁用后登录被拒绝
func (s *UserService) DisableUser(id uint, disable bool) error {
	if _, err := s.UserRepo.FindByID(id); err != nil {
		return util.ErrUserNotFound
	}
	return s.UserRepo.SetDisabled(id, disable)
}

// Stats 管理端总量统计
func (s *UserService) Stats() (*model.AdminStats, error) {
	totalUsers, err := s.UserRepo.Count()
	if err != nil {
		return nil, err
	}

	totalRoadmaps, err := s.RoadmapRepo.Count()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	activeToday, err := s.UserRepo.CountActiveSince(dayStart)
	if err != nil {
		return nil, err
	}

	return &model.AdminStats{
		TotalUsers:       totalUsers,
		TotalRoadmaps:    totalRoadmaps,
		ActiveUsersToday: activeToday,
	}, nil
}
