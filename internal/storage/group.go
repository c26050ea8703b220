package storage

import (
	"fmt"

	"github.com/illarion/pwcrypt/internal/validator"
)

var _ validator.PasswordGroup = (*FieldGroup)(nil)

// FieldGroup exposes one stored field to the password validator. The value
// and parameters are read once when the group is created.
type FieldGroup struct {
	s      *Storage
	name   string
	value  string
	params map[string]string
}

// Group loads a field for validation. A field without a stored value returns
// ErrFieldNotFound and unreadable parameters return their decode error, so a
// broken form never passes as unconfigured.
func (s *Storage) Group(name string) (*FieldGroup, error) {
	value, err := s.GetField(name)
	if err != nil {
		return nil, err
	}
	params, err := s.GetParams(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read params of %s: %w", name, err)
	}
	return &FieldGroup{s: s, name: name, value: value, params: params}, nil
}

// Name returns the field name
func (g *FieldGroup) Name() string {
	return g.name
}

// FieldContents returns the loaded value. The group has a single input, so
// any other index yields "".
func (g *FieldGroup) FieldContents(index int) string {
	if index != 0 {
		return ""
	}
	return g.value
}

// ValidatorParams returns the loaded parameters, nil when there are none
func (g *FieldGroup) ValidatorParams() map[string]string {
	return g.params
}

// SetModifiedPassword replaces the stored value
func (g *FieldGroup) SetModifiedPassword(password string) error {
	if err := g.s.SetField(g.name, password); err != nil {
		return err
	}
	g.value = password
	return nil
}
