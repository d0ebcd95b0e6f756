// Package cli implements the agencyctl operator commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yessbangal/agency-web/internal/access"
	"github.com/yessbangal/agency-web/internal/auth"
	"github.com/yessbangal/agency-web/internal/settings"
)

// SettingsWriter stores one site setting.
type SettingsWriter interface {
	Set(ctx context.Context, key, value string) error
}

// AccountFinder resolves an account by email.
type AccountFinder interface {
	FindByEmail(ctx context.Context, email string) (*auth.User, error)
}

// RoleAssigner writes role assignments.
type RoleAssigner interface {
	Assign(ctx context.Context, actor string, userID uuid.UUID, raw string) (access.Role, error)
}

// OpsCLI bundles the settings and role commands.
type OpsCLI struct {
	Settings SettingsWriter
	Accounts AccountFinder
	Roles    RoleAssigner
}

// SetSetting writes key. Only keys with a built-in default are accepted.
func (c *OpsCLI) SetSetting(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if _, ok := settings.Defaults[key]; !ok {
		return fmt.Errorf("settings: unknown key %q", key)
	}
	if c.Settings == nil {
		return errors.New("settings: store not configured")
	}
	return c.Settings.Set(ctx, key, value)
}

// AssignRole gives the account registered under email the named role.
func (c *OpsCLI) AssignRole(ctx context.Context, email, role string) (access.Role, error) {
	if c.Accounts == nil || c.Roles == nil {
		return "", errors.New("roles: not configured")
	}
	if _, err := access.ParseRole(role); err != nil {
		return "", err
	}
	user, err := c.Accounts.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("roles: find %s: %w", email, err)
	}
	return c.Roles.Assign(ctx, "", user.ID, role)
}
