package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sporthub/internal/model"
	"github.com/mcoot/sporthub/internal/storage"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestSetAndGet() {
	err := s.storage.Set(s.ctx, "users", `[]`)
	s.Require().NoError(err)

	value, err := s.storage.Get(s.ctx, "users")
	s.Require().NoError(err)
	s.Equal(`[]`, value)
}

func (s *StorageSuite) TestGetNotFound() {
	_, err := s.storage.Get(s.ctx, "missing")
	s.ErrorIs(err, model.ErrKeyNotFound)
}

func (s *StorageSuite) TestSetOverwrites() {
	_ = s.storage.Set(s.ctx, "k", "one")
	_ = s.storage.Set(s.ctx, "k", "two")

	value, err := s.storage.Get(s.ctx, "k")
	s.Require().NoError(err)
	s.Equal("two", value)
	s.Equal(1, s.storage.Keys())
}

func (s *StorageSuite) TestRemove() {
	_ = s.storage.Set(s.ctx, "k", "v")

	s.Require().NoError(s.storage.Remove(s.ctx, "k"))

	_, err := s.storage.Get(s.ctx, "k")
	s.ErrorIs(err, model.ErrKeyNotFound)
}

func (s *StorageSuite) TestRemoveMissingIsNoop() {
	s.NoError(s.storage.Remove(s.ctx, "missing"))
}

func (s *StorageSuite) TestAttachedHandlesShareData() {
	other := s.storage.Attach()
	_ = s.storage.Set(s.ctx, "k", "v")

	value, err := other.Get(s.ctx, "k")
	s.Require().NoError(err)
	s.Equal("v", value)
}

func (s *StorageSuite) TestSubscribeSeesOtherHandleChanges() {
	other := s.storage.Attach()
	changes, err := s.storage.Subscribe(s.ctx)
	s.Require().NoError(err)

	_ = other.Set(s.ctx, storage.KeyCurrentUser, `{}`)
	_ = other.Remove(s.ctx, storage.KeyCurrentUser)

	s.Equal(storage.Change{Key: storage.KeyCurrentUser}, s.receive(changes))
	s.Equal(storage.Change{Key: storage.KeyCurrentUser, Removed: true}, s.receive(changes))
}

func (s *StorageSuite) TestSubscribeIgnoresOwnChanges() {
	other := s.storage.Attach()
	changes, err := s.storage.Subscribe(s.ctx)
	s.Require().NoError(err)

	_ = s.storage.Set(s.ctx, "own", "v")
	_ = other.Set(s.ctx, "theirs", "v")

	s.Equal("theirs", s.receive(changes).Key)
}

func (s *StorageSuite) TestSubscribeClosesOnContextDone() {
	ctx, cancel := context.WithCancel(s.ctx)
	changes, err := s.storage.Subscribe(ctx)
	s.Require().NoError(err)

	cancel()

	s.Eventually(func() bool {
		select {
		case _, ok := <-changes:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func (s *StorageSuite) TestCloseEndsSubscriptions() {
	changes, err := s.storage.Subscribe(s.ctx)
	s.Require().NoError(err)

	s.Require().NoError(s.storage.Close())

	_, ok := <-changes
	s.False(ok)
}

func (s *StorageSuite) TestSlowSubscriberDoesNotBlockWriters() {
	other := s.storage.Attach()
	changes, err := other.Subscribe(s.ctx)
	s.Require().NoError(err)

	for i := 0; i < subscriberBuffer+10; i++ {
		s.Require().NoError(s.storage.Set(s.ctx, fmt.Sprintf("key-%d", i), "v"))
	}

	s.Len(changes, subscriberBuffer)
	s.Equal("key-0", s.receive(changes).Key)
}

func (s *StorageSuite) receive(changes <-chan storage.Change) storage.Change {
	select {
	case change := <-changes:
		return change
	case <-time.After(time.Second):
		s.FailNow("timed out waiting for change")
		return storage.Change{}
	}
}
