package ledger

import (
	"context"
	"crypto/subtle"
	"regexp"
	"strings"

	"github.com/Veraticus/ledger-flow/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// PINLength is the exact number of digits a PIN must have.
const PINLength = 8

var pinPattern = regexp.MustCompile(`^[0-9]{8}$`)

// ValidatePIN checks that pin is exactly eight digits.
func ValidatePIN(pin string) error {
	if !pinPattern.MatchString(pin) {
		return invalid("PIN must be exactly %d digits", PINLength)
	}
	return nil
}

func (s *Store) hashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), s.pinCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// isHashedPIN distinguishes bcrypt hashes from plaintext PINs restored from old backups.
func isHashedPIN(stored string) bool {
	_, err := bcrypt.Cost([]byte(stored))
	return err == nil
}

// GetUser returns the registered profile, or nil when nobody registered yet.
func (s *Store) GetUser(ctx context.Context) (*model.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user(ctx)
}

// RegisterUser creates the profile. On a fresh installation it also seeds the
// default wallet and an empty transaction list.
func (s *Store) RegisterUser(ctx context.Context, username, pin string) error {
	if err := requireText(username, "username"); err != nil {
		return err
	}
	if err := ValidatePIN(pin); err != nil {
		return err
	}
	hash, err := s.hashPIN(pin)
	if err != nil {
		return err
	}

	return s.mutate("register user", func() error {
		values := map[string]any{
			KeyUser: model.UserProfile{
				Username:          strings.TrimSpace(username),
				PIN:               hash,
				Avatar:            "👤",
				BiometricsEnabled: true,
			},
		}

		_, hasAccounts, err := s.records.Get(ctx, KeyAccounts)
		if err != nil {
			return storageErr("read accounts", err)
		}
		if !hasAccounts {
			values[KeyAccounts] = []model.Account{model.DefaultAccount()}
			values[KeyTransactions] = []model.Transaction{}
		}

		return s.write(ctx, values)
	})
}

// UpdateUser merges the non-nil fields of update into the profile. It does
// nothing, and does not notify, when no profile exists.
func (s *Store) UpdateUser(ctx context.Context, update model.UserUpdate) error {
	if update.Username != nil {
		if err := requireText(*update.Username, "username"); err != nil {
			return err
		}
	}

	var newHash string
	if update.PIN != nil {
		if err := ValidatePIN(*update.PIN); err != nil {
			return err
		}
		hash, err := s.hashPIN(*update.PIN)
		if err != nil {
			return err
		}
		newHash = hash
	}

	return s.mutate("update user", func() error {
		user, err := s.user(ctx)
		if err != nil {
			return err
		}
		if user == nil {
			return errSkipNotify
		}

		if update.Username != nil {
			user.Username = strings.TrimSpace(*update.Username)
		}
		if update.PIN != nil {
			user.PIN = newHash
		}
		if update.Avatar != nil {
			user.Avatar = *update.Avatar
		}
		if update.BiometricsEnabled != nil {
			user.BiometricsEnabled = *update.BiometricsEnabled
		}

		return s.write(ctx, map[string]any{KeyUser: user})
	})
}

// Login reports whether pin matches the stored credential. There is no
// lockout; callers that need one must add it. A plaintext PIN restored from
// an old backup is upgraded to a hash on the first successful login.
func (s *Store) Login(ctx context.Context, pin string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.user(ctx)
	if err != nil || user == nil {
		return false, err
	}

	if isHashedPIN(user.PIN) {
		return bcrypt.CompareHashAndPassword([]byte(user.PIN), []byte(pin)) == nil, nil
	}

	// A legacy credential only counts when both sides are well-formed PINs.
	if ValidatePIN(pin) != nil || ValidatePIN(user.PIN) != nil {
		return false, nil
	}
	if subtle.ConstantTimeCompare([]byte(user.PIN), []byte(pin)) != 1 {
		return false, nil
	}

	hash, err := s.hashPIN(pin)
	if err != nil {
		return true, nil
	}
	user.PIN = hash
	if err := s.write(ctx, map[string]any{KeyUser: user}); err != nil {
		s.logger.Warn("failed to upgrade stored PIN", "error", err)
	}
	return true, nil
}

// Logout ends a session. Sessions live in the caller, so nothing is persisted.
func (s *Store) Logout(_ context.Context) {
	s.logger.Debug("logout")
}
