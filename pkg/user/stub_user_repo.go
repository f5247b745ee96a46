package user

import (
	"context"
)

type StubUserRepository struct {
	nextId int
	data   map[int]User
}

func NewStubUserRepository() *StubUserRepository {
	return &StubUserRepository{nextId: 0, data: map[int]User{}}
}

func (s *StubUserRepository) CreateUser(ctx context.Context, user User) (int, error) {
	s.nextId++
	user.Id = s.nextId
	s.data[s.nextId] = user
	return s.nextId, nil
}

func (s *StubUserRepository) GetUser(ctx context.Context, id int) (User, error) {
	user, ok := s.data[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (s *StubUserRepository) GetUserByUid(ctx context.Context, uid string) (User, error) {
	for _, user := range s.data {
		if user.Uid == uid {
			return user, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *StubUserRepository) FindReportSubscribers(ctx context.Context, subscription ReportSubscription) ([]User, error) {
	subscribers := make([]User, 0, len(s.data))
	for id := 1; id <= s.nextId; id++ {
		user, ok := s.data[id]
		if !ok {
			continue
		}
		switch subscription {
		case WeekReport:
			if user.Settings.ReceiveWeekReport {
				subscribers = append(subscribers, user)
			}
		case MonthReport:
			if user.Settings.ReceiveMonthReport {
				subscribers = append(subscribers, user)
			}
		}
	}
	return subscribers, nil
}
