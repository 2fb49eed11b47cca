// Package access holds the capability set resolved once per request.
package access

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Capability uint8

const (
	CapAuthenticated Capability = 1 << iota
	CapAuthor
	CapStaff
	CapSuperuser
)

// Principal is who is making the request and what they may do
type Principal struct {
	UserID   uuid.UUID
	Username string
	Caps     Capability
}

// Anonymous has no capabilities
var Anonymous = Principal{}

func (p Principal) Has(c Capability) bool { return p.Caps&c == c }

func (p Principal) IsAnonymous() bool { return !p.Has(CapAuthenticated) }

func (p Principal) IsStaff() bool { return p.Has(CapStaff) }

func (p Principal) IsSuperuser() bool { return p.Has(CapSuperuser) }

func (p Principal) IsAuthor() bool { return p.Has(CapAuthor) }

// Is reports whether p is the given user. Anonymous is nobody.
func (p Principal) Is(userID uuid.UUID) bool {
	return !p.IsAnonymous() && userID != uuid.Nil && p.UserID == userID
}

// IsOwner compares against a nullable owner column
func (p Principal) IsOwner(owner *uuid.UUID) bool {
	return owner != nil && p.Is(*owner)
}

// CapsFor builds the capability set from the stored user flags
func CapsFor(isAuthor, isStaff, isSuperuser bool) Capability {
	caps := CapAuthenticated
	if isAuthor {
		caps |= CapAuthor
	}
	if isStaff {
		caps |= CapStaff
	}
	if isSuperuser {
		caps |= CapSuperuser
	}
	return caps
}

const contextKey = "principal"

func Set(c *gin.Context, p Principal) {
	c.Set(contextKey, p)
	if !p.IsAnonymous() {
		c.Set("userID", p.UserID)
	}
}

// FromContext returns Anonymous when no principal was resolved
func FromContext(c *gin.Context) Principal {
	v, ok := c.Get(contextKey)
	if !ok {
		return Anonymous
	}
	p, ok := v.(Principal)
	if !ok {
		return Anonymous
	}
	return p
}

// ErrForbidden is returned by services when the principal lacks a capability
var ErrForbidden = errors.New("permission denied")
