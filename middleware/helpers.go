package middleware

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Dosada05/bracket-engine/models"
)

// Имена JWT claims
const (
	jwtClaimName          = "name"
	jwtClaimRole          = "role"
	jwtClaimBracketID     = "bracket_id"
	jwtClaimParticipantID = "participant_id"
)

// IssueToken подписывает HS256-токен для principal.
func IssueToken(secret []byte, p models.Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		jwtClaimName: p.Name,
		jwtClaimRole: string(p.Role),
		"exp":        now.Add(ttl).Unix(),
		"iat":        now.Unix(),
	}
	if p.Role == models.RolePlayer {
		claims[jwtClaimBracketID] = p.BracketID
		claims[jwtClaimParticipantID] = p.ParticipantID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func principalFromClaims(claims jwt.MapClaims) (models.Principal, error) {
	roleStr, err := stringClaim(claims, jwtClaimRole)
	if err != nil {
		return models.Principal{}, err
	}
	name, _ := claims[jwtClaimName].(string)

	p := models.Principal{Name: name, Role: models.Role(roleStr)}
	switch p.Role {
	case models.RoleOrganiser:
	case models.RolePlayer:
		if p.BracketID, err = stringClaim(claims, jwtClaimBracketID); err != nil {
			return models.Principal{}, err
		}
		if p.ParticipantID, err = stringClaim(claims, jwtClaimParticipantID); err != nil {
			return models.Principal{}, err
		}
	default:
		return models.Principal{}, fmt.Errorf("invalid role value in claim: %q", roleStr)
	}
	return p, nil
}

func stringClaim(claims jwt.MapClaims, key string) (string, error) {
	raw, ok := claims[key]
	if !ok {
		return "", fmt.Errorf("missing '%s' claim in token", key)
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("invalid type for '%s' claim: expected non-empty string, got %T", key, raw)
	}
	return s, nil
}
