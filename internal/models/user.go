package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// User is a validated customer identity. Every field is checked before it
// is stored, so a failed update leaves the previous value in place.
type User struct {
	id      uint32
	name    string
	email   string
	address string
}

func NewUser(id uint32, name, email, address string) (*User, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	email, err = normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	address, err = normalizeAddress(address)
	if err != nil {
		return nil, err
	}

	return &User{
		id:      id,
		name:    name,
		email:   email,
		address: address,
	}, nil
}

func (u *User) ID() uint32 { return u.id }
func (u *User) Name() string { return u.name }
func (u *User) Email() string { return u.email }
func (u *User) Address() string { return u.address }

func (u *User) UpdateName(name string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	u.name = name
	return nil
}

func (u *User) UpdateEmail(email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	u.email = email
	return nil
}

func (u *User) UpdateAddress(address string) error {
	address, err := normalizeAddress(address)
	if err != nil {
		return err
	}
	u.address = address
	return nil
}

func (u *User) String() string {
	return fmt.Sprintf("User: %s (ID: %d)\nEmail: %s\nAddress: %s", u.name, u.id, u.email, u.address)
}

type userJSON struct {
	ID      uint32 `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(userJSON{
		ID:      u.id,
		Name:    u.name,
		Email:   u.email,
		Address: u.address,
	})
}

func (u *User) UnmarshalJSON(data []byte) error {
	var raw userJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	decoded, err := NewUser(raw.ID, raw.Name, raw.Email, raw.Address)
	if err != nil {
		return err
	}

	*u = *decoded
	return nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}

func normalizeAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", ErrEmptyAddress
	}
	return address, nil
}

// normalizeEmail accepts exactly one "@" with something on both sides.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	local, domain, found := strings.Cut(email, "@")
	if !found || local == "" || domain == "" || strings.Contains(domain, "@") {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return email, nil
}
