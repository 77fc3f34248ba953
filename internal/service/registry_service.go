package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"gyro-ledger/internal/core/domain"
	"gyro-ledger/internal/core/ports"
	"gyro-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// RegistryServiceImpl implements ports.RegistryService.
type RegistryServiceImpl struct {
	registryRepo ports.RegistryRepository
	encSvc       ports.EncryptionService
	log          zerolog.Logger
}

// NewRegistryService creates a new RegistryServiceImpl.
func NewRegistryService(
	registryRepo ports.RegistryRepository,
	encSvc ports.EncryptionService,
	log zerolog.Logger,
) *RegistryServiceImpl {
	return &RegistryServiceImpl{
		registryRepo: registryRepo,
		encSvc:       encSvc,
		log:          log,
	}
}

// RegisterUser records an account as a known user and issues its API
// secret. The plaintext secret is returned exactly once; only the
// encrypted form is stored.
func (s *RegistryServiceImpl) RegisterUser(ctx context.Context, user domain.Address) (*ports.RegisterUserResult, error) {
	if !user.Valid() {
		return nil, apperror.Validation("invalid account address")
	}

	existing, err := s.registryRepo.Get(ctx, user)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check account: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrAlreadyRegistered()
	}

	secret, err := generateRandomHex(32)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate secret: %w", err))
	}

	secretEnc, err := s.encSvc.Encrypt(secret)
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(fmt.Errorf("encrypt secret: %w", err))
	}

	account := &domain.Account{
		Address:      user,
		Role:         domain.RoleUser,
		SecretEnc:    secretEnc,
		RegisteredAt: time.Now().UTC(),
	}
	if err := s.registryRepo.CreateAccount(ctx, account); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create account: %w", err))
	}

	s.log.Info().Str("account", string(user)).Msg("user registered")

	return &ports.RegisterUserResult{
		Account: user,
		Secret:  secret,
	}, nil
}

// AddAdmin appends a registered user to the ordered admin set. Only the
// owner may call it, and the target must already be a registered user.
func (s *RegistryServiceImpl) AddAdmin(ctx context.Context, caller, admin domain.Address) error {
	owner, err := s.registryRepo.GetOwner(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get owner: %w", err))
	}
	if owner == nil {
		return apperror.ErrOwnerNotSet()
	}
	if owner.Address != caller {
		return apperror.ErrNotAuthorized()
	}

	target, err := s.registryRepo.Get(ctx, admin)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if target == nil {
		return apperror.ErrNotAuthorized()
	}

	isAdmin, err := s.registryRepo.IsAdmin(ctx, admin)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("check admin: %w", err))
	}
	if isAdmin {
		return apperror.ErrAlreadyAdmin()
	}

	entry := &domain.AdminEntry{
		Address: admin,
		AddedAt: time.Now().UTC(),
	}
	if err := s.registryRepo.AddAdmin(ctx, entry); err != nil {
		return apperror.InternalError(fmt.Errorf("add admin: %w", err))
	}

	s.log.Info().Str("account", string(admin)).Msg("admin added")
	return nil
}

// GetAdmins returns the admin set in insertion order, owner first.
func (s *RegistryServiceImpl) GetAdmins(ctx context.Context) ([]domain.Address, error) {
	entries, err := s.registryRepo.ListAdmins(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list admins: %w", err))
	}
	admins := make([]domain.Address, 0, len(entries))
	for _, e := range entries {
		admins = append(admins, e.Address)
	}
	return admins, nil
}

// IsAdmin reports whether the account is in the admin set.
func (s *RegistryServiceImpl) IsAdmin(ctx context.Context, user domain.Address) (bool, error) {
	isAdmin, err := s.registryRepo.IsAdmin(ctx, user)
	if err != nil {
		return false, apperror.InternalError(fmt.Errorf("check admin: %w", err))
	}
	return isAdmin, nil
}

// IsUser reports whether the account is registered.
func (s *RegistryServiceImpl) IsUser(ctx context.Context, user domain.Address) (bool, error) {
	acct, err := s.registryRepo.Get(ctx, user)
	if err != nil {
		return false, apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	return acct != nil, nil
}

// EnsureOwner bootstraps the owner account on startup. When the owner is
// not yet registered it is created with a fresh secret, seeded into the
// admin set, and the plaintext secret is returned once. Subsequent starts
// return an empty secret.
func (s *RegistryServiceImpl) EnsureOwner(ctx context.Context, owner domain.Address) (string, error) {
	if !owner.Valid() {
		return "", apperror.Validation("invalid owner address")
	}

	existing, err := s.registryRepo.Get(ctx, owner)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("check owner: %w", err))
	}
	if existing != nil {
		return "", nil
	}

	secret, err := generateRandomHex(32)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("generate secret: %w", err))
	}
	secretEnc, err := s.encSvc.Encrypt(secret)
	if err != nil {
		return "", apperror.ErrEncryptionFailure(fmt.Errorf("encrypt secret: %w", err))
	}

	account := &domain.Account{
		Address:      owner,
		Role:         domain.RoleOwner,
		SecretEnc:    secretEnc,
		RegisteredAt: time.Now().UTC(),
	}
	if err := s.registryRepo.CreateAccount(ctx, account); err != nil {
		return "", apperror.InternalError(fmt.Errorf("create owner: %w", err))
	}

	entry := &domain.AdminEntry{
		Address: owner,
		AddedAt: account.RegisteredAt,
	}
	if err := s.registryRepo.AddAdmin(ctx, entry); err != nil {
		return "", apperror.InternalError(fmt.Errorf("seed owner admin: %w", err))
	}

	s.log.Info().Str("account", string(owner)).Msg("owner bootstrapped")
	return secret, nil
}

// generateRandomHex generates a random hex string of n bytes.
func generateRandomHex(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
