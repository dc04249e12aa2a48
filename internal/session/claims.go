package session

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the authorization role carried by a session.
type Role string

const (
	RoleSeeker    Role = "Seeker"
	RoleRecruiter Role = "Recruiter"
)

// UnknownName is the display name used whenever identity cannot be
// derived from the token.
const UnknownName = "Unknown"

// ParseRole maps a raw role string onto a known Role.
// Anything other than an exact match is the empty role.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleSeeker:
		return RoleSeeker
	case RoleRecruiter:
		return RoleRecruiter
	default:
		return ""
	}
}

// Claims is the normalized identity decoded from a token payload.
//
// Current tokens nest identity under the "sub" claim as an object
// ({id, name, role}); older tokens carried "name" and "role" at the top
// level. Both shapes normalize into this struct, the nested form taking
// precedence.
type Claims struct {
	UserID int64
	Name   string
	Role   Role
}

// DecodeClaims decodes the payload segment of a bearer token without
// verifying the signature or expiry. The decode personalizes the UI
// only; the server remains the authorization boundary, so anything
// derived here is spoofable and must never gate server-side actions.
func DecodeClaims(token string) (*Claims, error) {
	raw := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, raw); err != nil {
		return nil, fmt.Errorf("failed to decode token payload: %w", err)
	}

	claims := &Claims{}
	if sub, ok := raw["sub"].(map[string]any); ok {
		if id, ok := sub["id"].(float64); ok {
			claims.UserID = int64(id)
		}
		if name, ok := sub["name"].(string); ok {
			claims.Name = name
		}
		if role, ok := sub["role"].(string); ok {
			claims.Role = Role(role)
		}
	}
	if claims.Name == "" {
		if name, ok := raw["name"].(string); ok {
			claims.Name = name
		}
	}
	if claims.Role == "" {
		if role, ok := raw["role"].(string); ok {
			claims.Role = Role(role)
		}
	}

	return claims, nil
}
