package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"pairing_service/internal/models"
	"pairing_service/internal/storage"

	"github.com/google/uuid"
)

// Store keeps every account in a single JSON document that is rewritten in
// full on each mutation. One mutex serializes all read-modify-write cycles,
// so check-then-insert on signup and device rebinding cannot race. An empty
// path keeps accounts in memory only.
type Store struct {
	mu       sync.Mutex
	path     string
	accounts []models.Account
}

type document struct {
	Accounts []models.Account `json:"accounts"`
}

func New(path string) (*Store, error) {
	const op = "storage.jsonfile.New"

	s := &Store{path: path}

	if path == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%s: failed to parse %s: %w", op, path, err)
	}

	s.accounts = doc.Accounts

	return s, nil
}

func (s *Store) SaveAccount(ctx context.Context, email string, passHash []byte) (models.Account, error) {
	const op = "storage.jsonfile.SaveAccount"

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acc := range s.accounts {
		if acc.Email == email {
			return models.Account{}, storage.ErrAccountExists
		}
	}

	acc := models.Account{
		ID:       uuid.NewString(),
		Email:    email,
		PassHash: passHash,
	}

	s.accounts = append(s.accounts, acc)

	if err := s.persist(); err != nil {
		s.accounts = s.accounts[:len(s.accounts)-1]
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	return acc, nil
}

func (s *Store) Account(ctx context.Context, email string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acc := range s.accounts {
		if acc.Email == email {
			return acc, nil
		}
	}

	return models.Account{}, storage.ErrAccountNotFound
}

func (s *Store) AccountByID(ctx context.Context, id string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acc := range s.accounts {
		if acc.ID == id {
			return acc, nil
		}
	}

	return models.Account{}, storage.ErrAccountNotFound
}

// BindDevice overwrites the bound device id unconditionally and flushes.
func (s *Store) BindDevice(ctx context.Context, accountID, deviceID string) error {
	const op = "storage.jsonfile.BindDevice"

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.accounts {
		if s.accounts[i].ID == accountID {
			prev := s.accounts[i].DeviceID
			s.accounts[i].DeviceID = deviceID

			if err := s.persist(); err != nil {
				s.accounts[i].DeviceID = prev
				return fmt.Errorf("%s: %w", op, err)
			}

			return nil
		}
	}

	return storage.ErrAccountNotFound
}

func (s *Store) Close() error {
	return nil
}

// persist rewrites the whole document through a temp file and rename so a
// crash mid-write cannot truncate the account list. Callers hold s.mu.
func (s *Store) persist() error {
	if s.path == "" {
		return nil
	}

	raw, err := json.MarshalIndent(document{Accounts: s.accounts}, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), s.path)
}
