package authz

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

const maxPermissions = 64

var (
	// ErrCatalogFrozen is returned when registration is attempted after Freeze.
	ErrCatalogFrozen = errors.New("authz catalog frozen")
	// ErrCatalogFull is returned when all mask bits are assigned.
	ErrCatalogFull = errors.New("authz catalog full")
	// ErrDuplicateName is returned when a permission or role name is
	// registered twice.
	ErrDuplicateName = errors.New("duplicate name")
	// ErrUnknownPermission is returned when a role references a permission
	// that was never registered.
	ErrUnknownPermission = errors.New("unknown permission")
)

// Mask64 is a bitmask over registered permissions.
type Mask64 uint64

// Has reports whether bit is set.
func (m Mask64) Has(bit int) bool {
	if bit < 0 || bit >= maxPermissions {
		return false
	}
	return m&(1<<uint(bit)) != 0
}

// Set returns a copy of m with bit set.
func (m Mask64) Set(bit int) Mask64 {
	if bit < 0 || bit >= maxPermissions {
		return m
	}
	return m | (1 << uint(bit))
}

type permissionEntry struct {
	name        string
	description string
	bit         int
}

type roleEntry struct {
	name        string
	description string
	mask        Mask64
}

// Catalog holds the permission and role tables. It is mutable until Freeze
// and read-only afterwards.
type Catalog struct {
	mu          sync.RWMutex
	frozen      bool
	permissions map[string]*permissionEntry
	roles       map[string]*roleEntry
	nextBit     int
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		permissions: make(map[string]*permissionEntry),
		roles:       make(map[string]*roleEntry),
	}
}

// RegisterPermission assigns the next free bit to name and returns it.
func (c *Catalog) RegisterPermission(name, description string) (int, error) {
	if name == "" {
		return 0, errors.New("permission name is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frozen {
		return 0, ErrCatalogFrozen
	}
	if _, exists := c.permissions[name]; exists {
		return 0, fmt.Errorf("%w: permission %s", ErrDuplicateName, name)
	}
	if c.nextBit >= maxPermissions {
		return 0, ErrCatalogFull
	}

	bit := c.nextBit
	c.nextBit++
	c.permissions[name] = &permissionEntry{
		name:        name,
		description: description,
		bit:         bit,
	}
	return bit, nil
}

// RegisterRole declares a role granting the named permissions. Every
// permission must already be registered.
func (c *Catalog) RegisterRole(name, description string, permissions []string) error {
	if name == "" {
		return errors.New("role name is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frozen {
		return ErrCatalogFrozen
	}
	if _, exists := c.roles[name]; exists {
		return fmt.Errorf("%w: role %s", ErrDuplicateName, name)
	}

	var mask Mask64
	for _, perm := range permissions {
		entry, ok := c.permissions[perm]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPermission, perm)
		}
		mask = mask.Set(entry.bit)
	}

	c.roles[name] = &roleEntry{
		name:        name,
		description: description,
		mask:        mask,
	}
	return nil
}

// Freeze makes the catalog immutable. Freezing twice is a no-op.
func (c *Catalog) Freeze() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frozen = true
}

// Frozen reports whether the catalog has been frozen.
func (c *Catalog) Frozen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.frozen
}

// RoleHasPermission reports whether role grants permission. Unknown roles
// and unknown permissions deny.
func (c *Catalog) RoleHasPermission(role, permission string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	r, ok := c.roles[role]
	if !ok {
		return false
	}
	p, ok := c.permissions[permission]
	if !ok {
		return false
	}
	return r.mask.Has(p.bit)
}

// AnyRoleHasPermission reports whether at least one of roles grants
// permission.
func (c *Catalog) AnyRoleHasPermission(roles []string, permission string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.permissions[permission]
	if !ok {
		return false
	}
	for _, role := range roles {
		if r, ok := c.roles[role]; ok && r.mask.Has(p.bit) {
			return true
		}
	}
	return false
}

// KnownRole reports whether role is registered.
func (c *Catalog) KnownRole(role string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.roles[role]
	return ok
}

// RolePermissions returns the sorted permission names granted to role.
// Unknown roles return nil.
func (c *Catalog) RolePermissions(role string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	r, ok := c.roles[role]
	if !ok {
		return nil
	}

	var names []string
	for _, p := range c.permissions {
		if r.mask.Has(p.bit) {
			names = append(names, p.name)
		}
	}
	sort.Strings(names)
	return names
}

// Roles returns all registered role names, sorted.
func (c *Catalog) Roles() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.roles))
	for name := range c.roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Permissions returns all registered permission names, sorted.
func (c *Catalog) Permissions() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.permissions))
	for name := range c.permissions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
