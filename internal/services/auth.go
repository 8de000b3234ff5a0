package services

import (
	"context"
	"errors"
	"math"
	"time"

	"commons/internal/models"
)

type LoginOutcome int

const (
	LoginInvalid LoginOutcome = iota
	LoginSuccess
	LoginLocked
)

func (o LoginOutcome) String() string {
	switch o {
	case LoginSuccess:
		return "success"
	case LoginLocked:
		return "locked"
	default:
		return "invalid_credentials"
	}
}

// SessionClaims is what a logged-in session carries.
type SessionClaims struct {
	UserID      uint
	Username    string
	DisplayName string
}

type LoginResult struct {
	Outcome LoginOutcome
	Claims  *SessionClaims // set only on LoginSuccess
	// RetryAfter is how long the account stays locked. Zero unless Locked.
	RetryAfter time.Duration
	// NewlyLocked is true when this very attempt tripped the lock.
	NewlyLocked bool
}

// MinutesRemaining rounds RetryAfter up to whole minutes.
func (r LoginResult) MinutesRemaining() int {
	return int(math.Ceil(r.RetryAfter.Minutes()))
}

type LockoutPolicy struct {
	Threshold int64
	Window    time.Duration
	Duration  time.Duration
}

func DefaultLockoutPolicy() LockoutPolicy {
	return LockoutPolicy{Threshold: 5, Window: 15 * time.Minute, Duration: 15 * time.Minute}
}

// AuthService decides login attempts against the credential store and the
// attempt ledger.
type AuthService struct {
	users  *UserService
	ledger *AttemptLedger
	hasher PasswordHasher
	policy LockoutPolicy
	now    func() time.Time
}

func NewAuthService(users *UserService, ledger *AttemptLedger, hasher PasswordHasher, policy LockoutPolicy) *AuthService {
	return &AuthService{users: users, ledger: ledger, hasher: hasher, policy: policy, now: time.Now}
}

// EvaluateLogin checks a username/password pair. Every call appends exactly
// one row to the ledger. A locked account is rejected before the password is
// looked at, and the rejection counts as a failure.
func (s *AuthService) EvaluateLogin(ctx context.Context, username, password, ip string) (*LoginResult, error) {
	now := s.now()

	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		if err := s.ledger.Record(ctx, username, ip, false); err != nil {
			return nil, err
		}
		return &LoginResult{Outcome: LoginInvalid}, nil
	}
	if err != nil {
		return nil, err
	}

	if user.IsLocked(now) {
		if err := s.ledger.Record(ctx, username, ip, false); err != nil {
			return nil, err
		}
		return &LoginResult{Outcome: LoginLocked, RetryAfter: user.LockedUntil.Sub(now)}, nil
	}

	ok, err := s.hasher.Verify(ctx, user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Record(ctx, username, ip, ok); err != nil {
		return nil, err
	}

	if !ok {
		failures, err := s.ledger.CountRecentFailures(ctx, username, now.Add(-s.policy.Window))
		if err != nil {
			return nil, err
		}
		if failures >= s.policy.Threshold {
			until := now.Add(s.policy.Duration)
			if err := s.users.SetLockedUntil(ctx, user.ID, &until); err != nil {
				return nil, err
			}
			return &LoginResult{Outcome: LoginLocked, RetryAfter: s.policy.Duration, NewlyLocked: true}, nil
		}
		return &LoginResult{Outcome: LoginInvalid}, nil
	}

	if user.LockedUntil != nil {
		if err := s.users.SetLockedUntil(ctx, user.ID, nil); err != nil {
			return nil, err
		}
	}
	return &LoginResult{
		Outcome: LoginSuccess,
		Claims: &SessionClaims{
			UserID:      user.ID,
			Username:    user.Username,
			DisplayName: user.DisplayName,
		},
	}, nil
}
