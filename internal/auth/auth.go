package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pairing_service/internal/lib/jwt"
	sl "pairing_service/internal/lib/logger"
	"pairing_service/internal/metrics"
	"pairing_service/internal/models"
	"pairing_service/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountExists      = errors.New("account already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrMissingDeviceID    = errors.New("device id is required")
)

type Auth struct {
	log         *slog.Logger
	accSaver    AccountSaver
	accProvider AccountProvider
	devBinder   DeviceBinder
	events      EventPublisher
	rec         metrics.Recorder
	tokenSecret []byte
	tokenTTL    time.Duration
}

type AccountSaver interface {
	SaveAccount(ctx context.Context, email string, passHash []byte) (models.Account, error)
}

type AccountProvider interface {
	Account(ctx context.Context, email string) (models.Account, error)
	AccountByID(ctx context.Context, id string) (models.Account, error)
}

type DeviceBinder interface {
	BindDevice(ctx context.Context, accountID, deviceID string) error
}

// EventPublisher receives device-bound events for downstream consumers.
type EventPublisher interface {
	PublishDeviceBound(ctx context.Context, event models.DeviceBoundEvent) error
}

func New(
	log *slog.Logger,
	accSaver AccountSaver,
	accProvider AccountProvider,
	devBinder DeviceBinder,
	events EventPublisher,
	rec metrics.Recorder,
	tokenSecret string,
	tokenTTL time.Duration,
) *Auth {
	return &Auth{
		log:         log,
		accSaver:    accSaver,
		accProvider: accProvider,
		devBinder:   devBinder,
		events:      events,
		rec:         rec,
		tokenSecret: []byte(tokenSecret),
		tokenTTL:    tokenTTL,
	}
}

// SignUp creates a new account with a bcrypt-hashed password.
func (a *Auth) SignUp(ctx context.Context, email, password string) (models.Account, error) {
	const op = "auth.SignUp"

	log := a.log.With(slog.String("op", op))

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	acc, err := a.accSaver.SaveAccount(ctx, email, passHash)
	if err != nil {
		if errors.Is(err, storage.ErrAccountExists) {
			log.Warn("email already registered")
			return models.Account{}, ErrAccountExists
		}

		log.Error("failed to save account", sl.Err(err))
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	a.rec.RecordSignup()
	log.Info("account created", slog.String("id", acc.ID))

	return acc, nil
}

// Login verifies the credentials and returns an identity token. Unknown
// email and wrong password fail identically so callers cannot enumerate
// registered addresses.
func (a *Auth) Login(ctx context.Context, email, password string) (string, error) {
	const op = "auth.Login"

	log := a.log.With(slog.String("op", op))

	acc, err := a.accProvider.Account(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			log.Warn("account not found")
			a.rec.RecordLogin(false)
			return "", ErrInvalidCredentials
		}

		log.Error("failed to get account", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(acc.PassHash, []byte(password)); err != nil {
		log.Info("invalid credentials")
		a.rec.RecordLogin(false)
		return "", ErrInvalidCredentials
	}

	token, err := jwt.NewToken(acc.ID, a.tokenSecret, a.tokenTTL)
	if err != nil {
		log.Error("failed to generate identity token", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	a.rec.RecordLogin(true)
	log.Info("login successful", slog.String("id", acc.ID))

	return token, nil
}

// Authenticate resolves an identity token to its account. The token must
// carry a valid signature and unexpired claims, and the referenced account
// must still exist.
func (a *Auth) Authenticate(ctx context.Context, token string) (models.Account, error) {
	const op = "auth.Authenticate"

	log := a.log.With(slog.String("op", op))

	accountID, err := jwt.ParseToken(token, a.tokenSecret)
	if err != nil {
		log.Warn("failed to parse identity token", sl.Err(err))
		return models.Account{}, ErrInvalidToken
	}

	acc, err := a.accProvider.AccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			log.Warn("token references missing account", slog.String("id", accountID))
			return models.Account{}, ErrInvalidToken
		}

		log.Error("failed to load account", sl.Err(err))
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	return acc, nil
}

// RegisterDevice binds the device to the account, overwriting any previous
// binding. Two accounts may claim the same device id; the uniqueness scope
// is intentionally left per-account.
func (a *Auth) RegisterDevice(ctx context.Context, acc models.Account, deviceID string) (models.Account, error) {
	const op = "auth.RegisterDevice"

	log := a.log.With(slog.String("op", op), slog.String("account_id", acc.ID))

	if deviceID == "" {
		return models.Account{}, ErrMissingDeviceID
	}

	rebind := acc.HasDevice()

	if err := a.devBinder.BindDevice(ctx, acc.ID, deviceID); err != nil {
		log.Error("failed to bind device", sl.Err(err))
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	acc.DeviceID = deviceID

	a.rec.RecordDeviceBind(rebind)
	log.Info("device bound", slog.String("device_id", deviceID), slog.Bool("rebind", rebind))

	if a.events != nil {
		event := models.DeviceBoundEvent{
			AccountID: acc.ID,
			DeviceID:  deviceID,
			BoundAt:   time.Now().UTC(),
		}
		if err := a.events.PublishDeviceBound(ctx, event); err != nil {
			// event delivery is best effort, the binding already persisted
			log.Error("failed to publish device bound event", sl.Err(err))
		}
	}

	return acc, nil
}
