package user

import (
	"context"
	"errors"
)

var ErrUserNotFound = errors.New("user not found")

type Service interface {
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	FindReportSubscribers(ctx context.Context, subscription ReportSubscription) ([]User, error)
}

type ServiceImpl struct {
	repo Repo
}

func NewUserService(repo Repo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) GetUser(ctx context.Context, id int) (User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *ServiceImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	return s.repo.GetUserByUid(ctx, uid)
}

func (s *ServiceImpl) FindReportSubscribers(ctx context.Context, subscription ReportSubscription) ([]User, error) {
	return s.repo.FindReportSubscribers(ctx, subscription)
}
