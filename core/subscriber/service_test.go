package subscriber

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/mwalimu/tutorhub/core"
)

type fakeRepo struct {
	subs map[string]Subscriber // by ID
}

func newFakeRepo() *fakeRepo { return &fakeRepo{subs: make(map[string]Subscriber)} }

func (r *fakeRepo) CreateSubscriber(_ context.Context, s Subscriber, _ ...core.DBExecutor) (Subscriber, error) {
	s.ID = uuid.New().String()
	r.subs[s.ID] = s
	return s, nil
}

func (r *fakeRepo) QuerySubscribers(_ context.Context, _ *QueryFilter, _ []core.DBOrdering, page core.PageQuery, _ ...core.DBExecutor) ([]Subscriber, int, error) {
	all := make([]Subscriber, 0, len(r.subs))
	for _, s := range r.subs {
		all = append(all, s)
	}
	return all, len(all), nil
}

func (r *fakeRepo) GetSubscriberByID(_ context.Context, id string, _ ...core.DBExecutor) (Subscriber, error) {
	if s, ok := r.subs[id]; ok {
		return s, nil
	}
	return Subscriber{}, ErrNotFound
}

func (r *fakeRepo) GetSubscriberByEmail(_ context.Context, email string, _ ...core.DBExecutor) (Subscriber, error) {
	for _, s := range r.subs {
		if s.Email == email {
			return s, nil
		}
	}
	return Subscriber{}, ErrNotFound
}

func (r *fakeRepo) UpdateSubscriber(_ context.Context, s Subscriber, _ ...core.DBExecutor) (Subscriber, error) {
	r.subs[s.ID] = s
	return s, nil
}

func (r *fakeRepo) DeleteSubscribersByID(_ context.Context, ids []string, _ ...core.DBExecutor) (int, error) {
	n := 0
	for _, id := range ids {
		if _, ok := r.subs[id]; ok {
			delete(r.subs, id)
			n++
		}
	}
	return n, nil
}

type noopMail struct{}

func (noopMail) SendMessages(...*core.EmailMessage) {}

func TestSubscribeResubscribe(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(nil, repo, noopMail{}, &core.Config{})

	// fresh subscribe
	s, err := svc.Subscribe(SubscribeEmail{Email: "jane@test.tld"})
	require.NoError(t, err)
	assert.Equal(t, StatusActive, s.Status)
	assert.False(t, s.UnsubscribedAt.Valid)
	assert.Len(t, repo.subs, 1)

	// subscribing again while active is a validation error
	_, err = svc.Subscribe(SubscribeEmail{Email: "jane@test.tld"})
	assert.Equal(t, ErrAlreadySubscribed, err)
	assert.Len(t, repo.subs, 1)

	// unsubscribe sets status and timestamp
	s, err = svc.Unsubscribe(SubscribeEmail{Email: "jane@test.tld"})
	require.NoError(t, err)
	assert.Equal(t, StatusUnsubscribed, s.Status)
	assert.True(t, s.UnsubscribedAt.Valid)

	// resubscribe flips back to active, clears unsubscribed_at, no duplicate
	s, err = svc.Subscribe(SubscribeEmail{Email: "jane@test.tld"})
	require.NoError(t, err)
	assert.Equal(t, StatusActive, s.Status)
	assert.False(t, s.UnsubscribedAt.Valid)
	assert.Len(t, repo.subs, 1)
}

func TestUnsubscribeIdempotent(t *testing.T) {
	repo := newFakeRepo()
	now := time.Now().UTC()
	repo.subs["1"] = Subscriber{
		ID:             "1",
		Email:          "gone@test.tld",
		Status:         StatusUnsubscribed,
		UnsubscribedAt: null.TimeFrom(now),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	svc := NewService(nil, repo, noopMail{}, &core.Config{})

	s, err := svc.Unsubscribe(SubscribeEmail{Email: "gone@test.tld"})
	require.NoError(t, err)
	assert.Equal(t, StatusUnsubscribed, s.Status)
	assert.Equal(t, null.TimeFrom(now), s.UnsubscribedAt)
}

func TestRecordSend(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(nil, repo, noopMail{}, &core.Config{})

	s, err := svc.Subscribe(SubscribeEmail{Email: "news@test.tld"})
	require.NoError(t, err)

	require.NoError(t, svc.RecordSend(s.ID))
	require.NoError(t, svc.RecordSend(s.ID))

	s, err = svc.GetByID(s.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, s.SendCount)
	assert.True(t, s.LastSentAt.Valid)
}
