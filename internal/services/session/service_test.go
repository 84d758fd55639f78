package session

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sporthub/internal/dependencies/mocks"
	"github.com/mcoot/sporthub/internal/model"
	"github.com/mcoot/sporthub/internal/storage"
	"github.com/mcoot/sporthub/internal/storage/memory"
	"github.com/mcoot/sporthub/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	store   *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	s.ctx = context.Background()
	s.service = s.newService(s.store)
}

func (s *ServiceSuite) TearDownTest() {
	s.service.Close()
}

func (s *ServiceSuite) newService(store storage.Store) *Service {
	svc := New(store, s.clock, DefaultConfig(), testutil.NopLogger())
	svc.Initialize(s.ctx)
	return svc
}

func (s *ServiceSuite) storedUsers() []model.User {
	var users []model.User
	_, err := storage.GetJSON(s.ctx, s.store, storage.KeyUsers, &users)
	s.Require().NoError(err)
	return users
}

func validSignup() SignupRequest {
	return SignupRequest{
		Name:            "Ada Lovelace",
		Email:           "ada@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Phone:           "+44 (20) 7946-0958",
		Location:        "London",
	}
}

func strPtr(v string) *string {
	return &v
}

// Initialize tests

func (s *ServiceSuite) TestInitializeSeedsDefaultUsers() {
	users := s.storedUsers()
	s.Require().Len(users, 3)
	s.Equal("user@example.com", users[0].Email)
	s.Equal(model.RoleCoach, users[1].Role)
	s.Equal(model.RoleAdmin, users[2].Role)
}

func (s *ServiceSuite) TestInitializeIsIdempotent() {
	s.service.Initialize(s.ctx)
	s.service.Initialize(s.ctx)

	s.Len(s.storedUsers(), 3)
	s.False(s.service.IsAuthenticated())
}

func (s *ServiceSuite) TestInitializeSeedsWhenUserListEmpty() {
	store := memory.New()
	s.Require().NoError(store.Set(s.ctx, storage.KeyUsers, "[]"))

	svc := s.newService(store)
	defer svc.Close()

	var users []model.User
	_, err := storage.GetJSON(s.ctx, store, storage.KeyUsers, &users)
	s.Require().NoError(err)
	s.Len(users, 3)
}

func (s *ServiceSuite) TestInitializeKeepsExistingUsers() {
	store := memory.New()
	existing := []model.User{{ID: "9", Email: "only@example.com", Password: "pw1234"}}
	s.Require().NoError(storage.SetJSON(s.ctx, store, storage.KeyUsers, existing))

	svc := s.newService(store)
	defer svc.Close()

	var users []model.User
	_, err := storage.GetJSON(s.ctx, store, storage.KeyUsers, &users)
	s.Require().NoError(err)
	s.Len(users, 1)
}

func (s *ServiceSuite) TestInitializeRestoresPersistedSession() {
	_, err := s.service.Login(s.ctx, "user@example.com", "password")
	s.Require().NoError(err)

	reloaded := s.newService(s.store)
	defer reloaded.Close()

	s.True(reloaded.IsAuthenticated())
	s.Equal("John Doe", reloaded.CurrentUser().Name)
}

func (s *ServiceSuite) TestInitializeDiscardsCorruptSession() {
	store := memory.New()
	s.Require().NoError(store.Set(s.ctx, storage.KeyCurrentUser, "{not json"))
	s.Require().NoError(store.Set(s.ctx, storage.KeySessionTimestamp, "1709294400000"))

	svc := s.newService(store)
	defer svc.Close()

	s.False(svc.IsAuthenticated())

	exists, err := storage.Exists(s.ctx, store, storage.KeyCurrentUser)
	s.Require().NoError(err)
	s.False(exists)
	exists, err = storage.Exists(s.ctx, store, storage.KeySessionTimestamp)
	s.Require().NoError(err)
	s.False(exists)
}

// Readiness tests

func (s *ServiceSuite) TestWaitReadyAfterInitialize() {
	s.NoError(s.service.WaitReady(s.ctx, 10*time.Millisecond))

	select {
	case <-s.service.Ready():
	default:
		s.Fail("ready channel should be closed")
	}
}

func (s *ServiceSuite) TestWaitReadyTimesOut() {
	svc := New(memory.New(), s.clock, DefaultConfig(), testutil.NopLogger())
	defer svc.Close()

	err := svc.WaitReady(s.ctx, 10*time.Millisecond)
	s.ErrorIs(err, ErrNotReady)
}

func (s *ServiceSuite) TestWaitReadyHonoursContext() {
	svc := New(memory.New(), s.clock, DefaultConfig(), testutil.NopLogger())
	defer svc.Close()

	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	err := svc.WaitReady(ctx, time.Minute)
	s.ErrorIs(err, context.Canceled)
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	user, err := s.service.Login(s.ctx, "coach@example.com", "password")
	s.Require().NoError(err)

	s.Equal("Sarah Wilson", user.Name)
	s.Empty(user.Password)
	s.True(s.service.IsAuthenticated())
	s.Empty(s.service.CurrentUser().Password)
}

func (s *ServiceSuite) TestLoginPersistsSession() {
	_, err := s.service.Login(s.ctx, "user@example.com", "password")
	s.Require().NoError(err)

	var stored model.User
	found, err := storage.GetJSON(s.ctx, s.store, storage.KeyCurrentUser, &stored)
	s.Require().NoError(err)
	s.True(found)
	s.Equal(model.UserID("1"), stored.ID)
	s.Empty(stored.Password)

	raw, err := s.store.Get(s.ctx, storage.KeySessionTimestamp)
	s.Require().NoError(err)
	s.Equal(strconv.FormatInt(s.clock.Now().UnixMilli(), 10), raw)
}

func (s *ServiceSuite) TestLoginEmailIsCaseInsensitive() {
	_, err := s.service.Login(s.ctx, "USER@Example.com", "password")
	s.NoError(err)
}

func (s *ServiceSuite) TestLoginFailsWithWrongPassword() {
	_, err := s.service.Login(s.ctx, "user@example.com", "wrong-password")
	s.ErrorIs(err, ErrInvalidCredentials)
	s.False(s.service.IsAuthenticated())
	s.Nil(s.service.CurrentUser())
}

func (s *ServiceSuite) TestLoginFailsWithUnknownUser() {
	_, err := s.service.Login(s.ctx, "nobody@example.com", "password")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginRequiresCredentials() {
	_, err := s.service.Login(s.ctx, "", "password")
	s.ErrorIs(err, ErrCredentialsRequired)

	_, err = s.service.Login(s.ctx, "user@example.com", "")
	s.ErrorIs(err, ErrCredentialsRequired)
}

func (s *ServiceSuite) TestLoginWithCorruptAccountsIsInternalError() {
	s.Require().NoError(s.store.Set(s.ctx, storage.KeyUsers, "not json"))

	_, err := s.service.Login(s.ctx, "user@example.com", "password")

	var internalErr *InternalError
	s.Require().ErrorAs(err, &internalErr)
	s.Equal("Login failed. Please try again.", Message(err))
}

// Signup tests

func (s *ServiceSuite) TestSignupThenLogin() {
	user, err := s.service.Signup(s.ctx, validSignup())
	s.Require().NoError(err)

	s.Equal(model.RolePlayer, user.Role)
	s.Equal("2024-03-01", user.JoinDate)
	s.Equal(defaultAvatar, user.Avatar)
	s.Equal(model.UserID(strconv.FormatInt(s.clock.Now().UnixMilli(), 10)), user.ID)
	s.True(s.service.IsAuthenticated())

	s.service.Logout(s.ctx)

	again, err := s.service.Login(s.ctx, "ada@example.com", "secret1")
	s.Require().NoError(err)
	s.Equal(user.ID, again.ID)
}

func (s *ServiceSuite) TestSignupStoresAccount() {
	_, err := s.service.Signup(s.ctx, validSignup())
	s.Require().NoError(err)

	users := s.storedUsers()
	s.Require().Len(users, 4)
	s.Equal("secret1", users[3].Password)
	s.Empty(users[3].Sports)
}

func (s *ServiceSuite) TestSignupRejectsDuplicateEmail() {
	req := validSignup()
	req.Email = "USER@example.com"

	_, err := s.service.Signup(s.ctx, req)
	s.ErrorIs(err, ErrEmailExists)
	s.Len(s.storedUsers(), 3)
	s.False(s.service.IsAuthenticated())
}

func (s *ServiceSuite) TestSignupAssignsUniqueIDsWithinSameMillisecond() {
	first, err := s.service.Signup(s.ctx, validSignup())
	s.Require().NoError(err)

	req := validSignup()
	req.Email = "grace@example.com"
	second, err := s.service.Signup(s.ctx, req)
	s.Require().NoError(err)

	s.NotEqual(first.ID, second.ID)
}

func (s *ServiceSuite) TestSignupValidationOrder() {
	tests := []struct {
		name    string
		mutate  func(r *SignupRequest)
		field   string
		message string
	}{
		{"short name", func(r *SignupRequest) { r.Name = " A " }, "name", "Name must be at least 2 characters long"},
		{"bad email", func(r *SignupRequest) { r.Email = "ada@example" }, "email", "Please enter a valid email address"},
		{"short password", func(r *SignupRequest) { r.Password, r.ConfirmPassword = "12345", "12345" }, "password", "Password must be at least 6 characters long"},
		{"short multibyte password", func(r *SignupRequest) { r.Password, r.ConfirmPassword = "ñññññ", "ñññññ" }, "password", "Password must be at least 6 characters long"},
		{"mismatch", func(r *SignupRequest) { r.ConfirmPassword = "secret2" }, "confirmPassword", "Passwords do not match"},
		{"bad phone", func(r *SignupRequest) { r.Phone = "0123" }, "phone", "Please enter a valid phone number"},
		{"short location", func(r *SignupRequest) { r.Location = "X" }, "location", "Location must be at least 2 characters long"},
		{"name before email", func(r *SignupRequest) { r.Name, r.Email = "", "" }, "name", "Name must be at least 2 characters long"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := validSignup()
			tt.mutate(&req)

			_, err := s.service.Signup(s.ctx, req)

			var verr *ValidationError
			s.Require().ErrorAs(err, &verr)
			s.Equal(tt.field, verr.Field)
			s.Equal(tt.message, Message(err))
		})
	}
	s.Len(s.storedUsers(), 3)
}

func (s *ServiceSuite) TestSignupCountsPasswordCharacters() {
	req := validSignup()
	req.Password, req.ConfirmPassword = "ññññññ", "ññññññ"

	_, err := s.service.Signup(s.ctx, req)
	s.NoError(err)
}

// Logout tests

func (s *ServiceSuite) TestLogoutClearsSession() {
	_, err := s.service.Login(s.ctx, "user@example.com", "password")
	s.Require().NoError(err)

	s.service.Logout(s.ctx)

	s.False(s.service.IsAuthenticated())
	s.Nil(s.service.CurrentUser())

	_, err = s.store.Get(s.ctx, storage.KeyCurrentUser)
	s.ErrorIs(err, model.ErrKeyNotFound)
	_, err = s.store.Get(s.ctx, storage.KeySessionTimestamp)
	s.ErrorIs(err, model.ErrKeyNotFound)
}

// UpdateProfile tests

func (s *ServiceSuite) TestUpdateProfileRequiresSession() {
	_, err := s.service.UpdateProfile(s.ctx, ProfilePatch{Bio: strPtr("x")})
	s.ErrorIs(err, ErrNoCurrentUser)
}

func (s *ServiceSuite) TestUpdateProfileSurvivesReload() {
	_, err := s.service.Login(s.ctx, "user@example.com", "password")
	s.Require().NoError(err)

	updated, err := s.service.UpdateProfile(s.ctx, ProfilePatch{
		Bio:    strPtr("x"),
		Sports: []string{"Squash"},
	})
	s.Require().NoError(err)
	s.Equal("x", updated.Bio)
	s.Equal("John Doe", updated.Name)

	reloaded := s.newService(s.store)
	defer reloaded.Close()

	s.Equal("x", reloaded.CurrentUser().Bio)
	s.Equal([]string{"Squash"}, reloaded.CurrentUser().Sports)
}

func (s *ServiceSuite) TestUpdateProfileUpdatesAccountRecord() {
	_, err := s.service.Login(s.ctx, "user@example.com", "password")
	s.Require().NoError(err)

	_, err = s.service.UpdateProfile(s.ctx, ProfilePatch{Location: strPtr("Boston, MA")})
	s.Require().NoError(err)

	users := s.storedUsers()
	s.Equal("Boston, MA", users[0].Location)
	s.Equal("password", users[0].Password)
}

// Role tests

func (s *ServiceSuite) TestRoleQueries() {
	s.False(s.service.HasRole(model.RolePlayer))
	s.False(s.service.CanAccessAdminArea())

	_, err := s.service.Login(s.ctx, "user@example.com", "password")
	s.Require().NoError(err)
	s.True(s.service.HasRole(model.RolePlayer))
	s.False(s.service.CanAccessAdminArea())

	_, err = s.service.Login(s.ctx, "coach@example.com", "password")
	s.Require().NoError(err)
	s.True(s.service.HasRole(model.RoleCoach))
	s.True(s.service.CanAccessAdminArea())

	_, err = s.service.Login(s.ctx, "admin@example.com", "password")
	s.Require().NoError(err)
	s.True(s.service.CanAccessAdminArea())
}

// Expiry tests

func (s *ServiceSuite) TestSessionValidWithinMaxAge() {
	_, err := s.service.Login(s.ctx, "user@example.com", "password")
	s.Require().NoError(err)

	s.clock.Advance(23 * time.Hour)

	s.True(s.service.CheckSessionExpiry(s.ctx))
	s.True(s.service.IsAuthenticated())
}

func (s *ServiceSuite) TestSessionExpiresAfterMaxAge() {
	_, err := s.service.Login(s.ctx, "user@example.com", "password")
	s.Require().NoError(err)

	s.clock.Advance(25 * time.Hour)

	s.False(s.service.CheckSessionExpiry(s.ctx))
	s.False(s.service.IsAuthenticated())
	_, err = s.store.Get(s.ctx, storage.KeyCurrentUser)
	s.ErrorIs(err, model.ErrKeyNotFound)
}

func (s *ServiceSuite) TestExpiryWithoutTimestampIsValid() {
	s.True(s.service.CheckSessionExpiry(s.ctx))
}

func (s *ServiceSuite) TestExpiryWithCorruptTimestampLogsOut() {
	_, err := s.service.Login(s.ctx, "user@example.com", "password")
	s.Require().NoError(err)
	s.Require().NoError(s.store.Set(s.ctx, storage.KeySessionTimestamp, "yesterday"))

	s.False(s.service.CheckSessionExpiry(s.ctx))
	s.False(s.service.IsAuthenticated())
}

func (s *ServiceSuite) TestRunExpiryChecksLogsOutExpiredSession() {
	_, err := s.service.Login(s.ctx, "user@example.com", "password")
	s.Require().NoError(err)
	s.clock.Advance(48 * time.Hour)

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	go s.service.RunExpiryChecks(ctx, 5*time.Millisecond)

	s.Eventually(func() bool {
		return !s.service.IsAuthenticated()
	}, time.Second, 5*time.Millisecond)
}

// Listener tests

func (s *ServiceSuite) TestListenersReceiveStateChanges() {
	var mu sync.Mutex
	var states []model.AuthState
	unsubscribe := s.service.OnAuthStateChanged(func(st model.AuthState) {
		mu.Lock()
		states = append(states, st)
		mu.Unlock()
	})

	_, err := s.service.Login(s.ctx, "user@example.com", "password")
	s.Require().NoError(err)
	s.service.Logout(s.ctx)

	unsubscribe()
	_, err = s.service.Login(s.ctx, "user@example.com", "password")
	s.Require().NoError(err)

	mu.Lock()
	defer mu.Unlock()
	s.Require().Len(states, 2)
	s.True(states[0].IsAuthenticated)
	s.Equal("John Doe", states[0].User.Name)
	s.False(states[1].IsAuthenticated)
	s.Nil(states[1].User)
}

func (s *ServiceSuite) TestPanickingListenerDoesNotStopOthers() {
	logger, logs := testutil.CaptureLogger()
	svc := New(memory.New(), s.clock, DefaultConfig(), logger)
	defer svc.Close()
	svc.Initialize(s.ctx)

	called := false
	svc.OnAuthStateChanged(func(model.AuthState) { panic("listener bug") })
	svc.OnAuthStateChanged(func(model.AuthState) { called = true })

	_, err := svc.Login(s.ctx, "user@example.com", "password")
	s.Require().NoError(err)

	s.True(called)
	s.True(svc.IsAuthenticated())
	s.Contains(logs.String(), "auth state listener panicked")
}

// Cross-context tests

func (s *ServiceSuite) TestLoginInOtherContextIsObserved() {
	other := s.newService(s.store.Attach())
	defer other.Close()

	changed := make(chan model.AuthState, 1)
	other.OnAuthStateChanged(func(st model.AuthState) {
		select {
		case changed <- st:
		default:
		}
	})

	_, err := s.service.Login(s.ctx, "admin@example.com", "password")
	s.Require().NoError(err)

	select {
	case st := <-changed:
		s.True(st.IsAuthenticated)
		s.Equal("Mike Johnson", st.User.Name)
	case <-time.After(time.Second):
		s.Fail("expected auth state change from other context")
	}
	s.True(other.CanAccessAdminArea())
}

func (s *ServiceSuite) TestLogoutInOtherContextIsObserved() {
	_, err := s.service.Login(s.ctx, "user@example.com", "password")
	s.Require().NoError(err)

	other := s.newService(s.store.Attach())
	defer other.Close()
	s.Require().True(other.IsAuthenticated())

	s.service.Logout(s.ctx)

	s.Eventually(func() bool {
		return !other.IsAuthenticated()
	}, time.Second, 5*time.Millisecond)
}

// Degraded storage tests

type failingStore struct {
	*memory.Storage
}

var errStoreDown = errors.New("store down")

func (f failingStore) Set(context.Context, string, string) error {
	return errStoreDown
}

func (f failingStore) Remove(context.Context, string) error {
	return errStoreDown
}

func (s *ServiceSuite) TestWriteFailuresContinueInMemory() {
	svc := s.newService(failingStore{memory.New()})
	defer svc.Close()

	user, err := svc.Signup(s.ctx, validSignup())
	s.Require().NoError(err)
	s.True(svc.IsAuthenticated())

	_, err = svc.UpdateProfile(s.ctx, ProfilePatch{Name: strPtr("Countess")})
	s.Require().NoError(err)
	s.Equal("Countess", svc.CurrentUser().Name)
	s.Equal(user.ID, svc.CurrentUser().ID)

	s.clock.Advance(25 * time.Hour)
	s.False(svc.CheckSessionExpiry(s.ctx))
	s.False(svc.IsAuthenticated())
}

// Message tests

func (s *ServiceSuite) TestMessage() {
	s.Equal("", Message(nil))
	s.Equal("Email and password are required", Message(ErrCredentialsRequired))
	s.Equal("Invalid email or password", Message(ErrInvalidCredentials))
	s.Equal("User already exists with this email", Message(ErrEmailExists))
	s.Equal("No current user", Message(ErrNoCurrentUser))
	s.Equal("Signup failed. Please try again.", Message(&InternalError{Op: "signup", Err: errStoreDown}))
	s.Equal("Something went wrong. Please try again.", Message(errStoreDown))
}
