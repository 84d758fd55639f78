package session

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/sporthub/internal/dependencies/clock"
	"github.com/mcoot/sporthub/internal/model"
	"github.com/mcoot/sporthub/internal/storage"
)

const defaultAvatar = "👤"

var errCorruptTimestamp = errors.New("corrupt session timestamp")

// Config holds configuration for the session service
type Config struct {
	MaxAge              time.Duration
	ExpiryCheckInterval time.Duration
	ReadyTimeout        time.Duration
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		MaxAge:              24 * time.Hour,
		ExpiryCheckInterval: 5 * time.Minute,
		ReadyTimeout:        5 * time.Second,
	}
}

// ProfilePatch lists the profile fields a user may edit. Nil fields are left
// unchanged.
type ProfilePatch struct {
	Name     *string
	Email    *string
	Phone    *string
	Location *string
	Bio      *string
	Sports   []string
	Avatar   *string
}

func (p ProfilePatch) apply(u *model.User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Location != nil {
		u.Location = *p.Location
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.Sports != nil {
		u.Sports = slices.Clone(p.Sports)
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
}

// Service tracks which user is logged in for this browsing context. Session
// state lives in memory and is mirrored to the store so other contexts and
// later runs see it.
type Service struct {
	store  storage.Store
	clock  clock.Clock
	cfg    Config
	logger *slog.Logger

	mu      sync.RWMutex
	session *model.Session

	listenersMu  sync.Mutex
	listeners    map[int]func(model.AuthState)
	nextListener int

	initOnce sync.Once
	ready    chan struct{}

	watchCtx  context.Context
	stopWatch context.CancelFunc
}

// New creates a new session Service
func New(store storage.Store, clock clock.Clock, cfg Config, logger *slog.Logger) *Service {
	defaults := DefaultConfig()
	if cfg.MaxAge == 0 {
		cfg.MaxAge = defaults.MaxAge
	}
	if cfg.ExpiryCheckInterval == 0 {
		cfg.ExpiryCheckInterval = defaults.ExpiryCheckInterval
	}
	if cfg.ReadyTimeout == 0 {
		cfg.ReadyTimeout = defaults.ReadyTimeout
	}
	watchCtx, stopWatch := context.WithCancel(context.Background())
	return &Service{
		store:     store,
		clock:     clock,
		cfg:       cfg,
		logger:    logger,
		listeners: make(map[int]func(model.AuthState)),
		ready:     make(chan struct{}),
		watchCtx:  watchCtx,
		stopWatch: stopWatch,
	}
}

// Initialize seeds the default accounts, restores any persisted session and
// starts watching for changes made by other contexts. Only the first call does
// any work; concurrent callers wait for it to finish.
func (s *Service) Initialize(ctx context.Context) {
	s.initOnce.Do(func() {
		defer close(s.ready)

		s.seedDefaultUsers(ctx)
		s.loadSession(ctx)
		s.watchChanges()

		s.logger.Info("session service initialized",
			slog.Bool("authenticated", s.IsAuthenticated()),
		)
	})
}

// Ready is closed once Initialize has completed
func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

// WaitReady blocks until Initialize has completed or the timeout elapses. A
// non-positive timeout uses the configured default.
func (s *Service) WaitReady(ctx context.Context, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = s.cfg.ReadyTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-s.ready:
		return nil
	case <-timer.C:
		return ErrNotReady
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Login starts a session for the account matching email and password
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, error) {
	s.Initialize(ctx)

	if email == "" || password == "" {
		return nil, ErrCredentialsRequired
	}

	users, err := s.readUsers(ctx)
	if err != nil {
		s.logger.Error("failed to load accounts", slog.Any("error", err))
		return nil, &InternalError{Op: "login", Err: err}
	}

	for _, u := range users {
		if strings.EqualFold(u.Email, email) && u.Password == password {
			user := u.Public()
			s.startSession(ctx, user)
			s.logger.Info("user logged in", slog.String("user_id", string(user.ID)))
			return &user, nil
		}
	}

	return nil, ErrInvalidCredentials
}

// Signup validates the form, creates a Player account and starts a session
// for it
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*model.User, error) {
	s.Initialize(ctx)

	if verr := req.Validate(); verr != nil {
		return nil, verr
	}

	users, err := s.readUsers(ctx)
	if err != nil {
		s.logger.Error("failed to load accounts", slog.Any("error", err))
		return nil, &InternalError{Op: "signup", Err: err}
	}

	for _, u := range users {
		if strings.EqualFold(u.Email, req.Email) {
			return nil, ErrEmailExists
		}
	}

	account := model.User{
		ID:       s.newUserID(users),
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Location: strings.TrimSpace(req.Location),
		Role:     model.RolePlayer,
		JoinDate: clock.Today(s.clock),
		Sports:   []string{},
		Avatar:   defaultAvatar,
	}

	users = append(users, account)
	if err := storage.SetJSON(ctx, s.store, storage.KeyUsers, users); err != nil {
		s.logger.Warn("failed to persist new account, continuing in memory",
			slog.String("user_id", string(account.ID)),
			slog.Any("error", err),
		)
	}

	user := account.Public()
	s.startSession(ctx, user)
	s.logger.Info("user signed up", slog.String("user_id", string(user.ID)))
	return &user, nil
}

// Logout ends the current session. It is a no-op when nobody is logged in
// apart from clearing any stale persisted state.
func (s *Service) Logout(ctx context.Context) {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()

	s.clearPersistedSession(ctx)
	s.notify()
}

// UpdateProfile merges patch into the current user and its account record
func (s *Service) UpdateProfile(ctx context.Context, patch ProfilePatch) (*model.User, error) {
	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return nil, ErrNoCurrentUser
	}
	updated := s.session.User.Public()
	patch.apply(&updated)
	s.session.User = updated
	s.mu.Unlock()

	if err := storage.SetJSON(ctx, s.store, storage.KeyCurrentUser, updated); err != nil {
		s.logger.Warn("failed to persist profile", slog.Any("error", err))
	}
	s.updateAccount(ctx, updated.ID, patch)

	s.notify()

	user := updated.Public()
	return &user, nil
}

// IsAuthenticated reports whether a user is logged in
func (s *Service) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session != nil
}

// CurrentUser returns a copy of the logged-in user, or nil
func (s *Service) CurrentUser() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	user := s.session.User.Public()
	return &user
}

// Session returns a copy of the current session
func (s *Service) Session() (model.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return model.Session{}, false
	}
	return model.Session{User: s.session.User.Public(), CreatedAt: s.session.CreatedAt}, true
}

// HasRole reports whether the current user has the given role
func (s *Service) HasRole(role model.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session != nil && s.session.User.Role == role
}

// CanAccessAdminArea reports whether the current user may open the management
// area
func (s *Service) CanAccessAdminArea() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session != nil && s.session.User.Role.CanAccessAdmin()
}

// CheckSessionExpiry logs the user out and returns false once the session is
// older than the configured maximum age. A missing timestamp counts as valid;
// an unreadable one counts as expired.
func (s *Service) CheckSessionExpiry(ctx context.Context) bool {
	s.mu.RLock()
	current := s.session
	s.mu.RUnlock()

	createdAt, ok, err := s.readTimestamp(ctx)
	switch {
	case errors.Is(err, errCorruptTimestamp):
		s.logger.Warn("discarding session with unreadable timestamp", slog.Any("error", err))
		s.Logout(ctx)
		return false
	case err != nil:
		s.logger.Warn("failed to read session timestamp", slog.Any("error", err))
		ok = false
	}

	if !ok {
		if current == nil {
			return true
		}
		createdAt = current.CreatedAt
	}

	if s.clock.Now().Sub(createdAt) > s.cfg.MaxAge {
		s.logger.Info("session expired", slog.Time("created_at", createdAt))
		s.Logout(ctx)
		return false
	}
	return true
}

// RunExpiryChecks calls CheckSessionExpiry every interval until ctx is done. A
// non-positive interval uses the configured default.
func (s *Service) RunExpiryChecks(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = s.cfg.ExpiryCheckInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.IsAuthenticated() {
				s.CheckSessionExpiry(ctx)
			}
		}
	}
}

// OnAuthStateChanged registers fn to be called after every session change.
// The returned func removes the registration.
func (s *Service) OnAuthStateChanged(fn func(model.AuthState)) func() {
	s.listenersMu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

// Close stops watching for changes from other contexts
func (s *Service) Close() {
	s.stopWatch()
}

func (s *Service) notify() {
	state := model.AuthState{User: s.CurrentUser()}
	state.IsAuthenticated = state.User != nil

	s.listenersMu.Lock()
	fns := make([]func(model.AuthState), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenersMu.Unlock()

	for _, fn := range fns {
		s.deliver(fn, state)
	}
}

// deliver calls one listener, recovering and logging a panic so the remaining
// listeners still run
func (s *Service) deliver(fn func(model.AuthState), state model.AuthState) {
	defer func() {
		if err := recover(); err != nil {
			s.logger.Error("auth state listener panicked",
				slog.Any("error", err),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()
	fn(state)
}

func (s *Service) startSession(ctx context.Context, user model.User) {
	now := s.clock.Now()

	s.mu.Lock()
	s.session = &model.Session{User: user, CreatedAt: now}
	s.mu.Unlock()

	if err := storage.SetJSON(ctx, s.store, storage.KeyCurrentUser, user); err != nil {
		s.logger.Warn("failed to persist session, continuing in memory", slog.Any("error", err))
	} else if err := s.store.Set(ctx, storage.KeySessionTimestamp, strconv.FormatInt(now.UnixMilli(), 10)); err != nil {
		s.logger.Warn("failed to persist session timestamp", slog.Any("error", err))
	}

	s.notify()
}

func (s *Service) clearPersistedSession(ctx context.Context) {
	for _, key := range []string{storage.KeyCurrentUser, storage.KeySessionTimestamp} {
		if err := s.store.Remove(ctx, key); err != nil {
			s.logger.Warn("failed to clear session key",
				slog.String("key", key),
				slog.Any("error", err),
			)
		}
	}
}

// loadSession replaces the in-memory session with whatever the store holds
func (s *Service) loadSession(ctx context.Context) {
	var user model.User
	found, err := storage.GetJSON(ctx, s.store, storage.KeyCurrentUser, &user)
	if err != nil {
		s.logger.Warn("discarding unreadable session", slog.Any("error", err))
		if errors.Is(err, storage.ErrCorruptValue) {
			s.clearPersistedSession(ctx)
		}
		found = false
	}

	if !found {
		s.mu.Lock()
		s.session = nil
		s.mu.Unlock()
		return
	}

	createdAt, ok, err := s.readTimestamp(ctx)
	if err != nil || !ok {
		createdAt = s.clock.Now()
	}

	s.mu.Lock()
	s.session = &model.Session{User: user.Public(), CreatedAt: createdAt}
	s.mu.Unlock()
}

func (s *Service) watchChanges() {
	changes, err := s.store.Subscribe(s.watchCtx)
	if err != nil {
		s.logger.Warn("cross-context session sync unavailable", slog.Any("error", err))
		return
	}

	go func() {
		for change := range changes {
			if change.Key != storage.KeyCurrentUser {
				continue
			}
			s.loadSession(s.watchCtx)
			s.logger.Debug("session changed in another context",
				slog.Bool("authenticated", s.IsAuthenticated()),
			)
			s.notify()
		}
	}()
}

func (s *Service) readTimestamp(ctx context.Context) (time.Time, bool, error) {
	raw, err := s.store.Get(ctx, storage.KeySessionTimestamp)
	if err != nil {
		if errors.Is(err, model.ErrKeyNotFound) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return time.Time{}, false, errors.Join(errCorruptTimestamp, err)
	}
	return time.UnixMilli(ms), true, nil
}

func (s *Service) readUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if _, err := storage.GetJSON(ctx, s.store, storage.KeyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Service) seedDefaultUsers(ctx context.Context) {
	users, err := s.readUsers(ctx)
	if err != nil {
		s.logger.Warn("failed to read accounts, skipping seed", slog.Any("error", err))
		return
	}
	if len(users) > 0 {
		return
	}
	if err := storage.SetJSON(ctx, s.store, storage.KeyUsers, defaultUsers()); err != nil {
		s.logger.Warn("failed to seed default accounts", slog.Any("error", err))
		return
	}
	s.logger.Info("seeded default accounts")
}

func (s *Service) updateAccount(ctx context.Context, id model.UserID, patch ProfilePatch) {
	users, err := s.readUsers(ctx)
	if err != nil {
		s.logger.Warn("failed to read accounts for profile update", slog.Any("error", err))
		return
	}
	idx := slices.IndexFunc(users, func(u model.User) bool { return u.ID == id })
	if idx < 0 {
		return
	}
	patch.apply(&users[idx])
	if err := storage.SetJSON(ctx, s.store, storage.KeyUsers, users); err != nil {
		s.logger.Warn("failed to persist account update", slog.Any("error", err))
	}
}

// newUserID derives an id from the current millisecond, bumped until it is
// unused
func (s *Service) newUserID(users []model.User) model.UserID {
	n := clock.Millis(s.clock)
	for {
		id := model.UserID(strconv.FormatInt(n, 10))
		if !slices.ContainsFunc(users, func(u model.User) bool { return u.ID == id }) {
			return id
		}
		n++
	}
}
