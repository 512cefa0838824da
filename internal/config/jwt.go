package config

import (
	"fmt"
	"time"
)

// DefaultJWTIssuer is the iss claim used when JWTConfig.Issuer is empty.
const DefaultJWTIssuer = "cv-enhancer"

// minJWTSecretLength keeps HS256 keys out of brute-force range.
const minJWTSecretLength = 16

// JWTConfig controls how bearer tokens are signed and how long they live.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
	Issuer          string
}

// NewJWTConfig validates and builds a JWT configuration.
func NewJWTConfig(secret string, expirationHours int) (*JWTConfig, error) {
	config := &JWTConfig{
		Secret:          secret,
		ExpirationHours: expirationHours,
		Issuer:          DefaultJWTIssuer,
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *JWTConfig) validate() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required but not set")
	}
	if len(c.Secret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}

// TTL is the lifetime of a newly issued token.
func (c *JWTConfig) TTL() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}

// TokenIssuer returns the iss claim tokens are signed with and checked against.
func (c *JWTConfig) TokenIssuer() string {
	if c.Issuer == "" {
		return DefaultJWTIssuer
	}
	return c.Issuer
}
