package app

import (
	authHTTP "github.com/allisson/chatapi/internal/auth/http"
	authService "github.com/allisson/chatapi/internal/auth/service"
	apperrors "github.com/allisson/chatapi/internal/errors"
)

// TokenService returns the JWT token service.
func (c *Container) TokenService() (authService.TokenService, error) {
	var err error
	c.tokenServiceInit.Do(func() {
		c.tokenService, err = c.initTokenService()
		if err != nil {
			c.initErrors["tokenService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenService"]; exists {
		return nil, storedErr
	}
	return c.tokenService, nil
}

// CredentialService returns the credential verification service.
func (c *Container) CredentialService() (authService.CredentialService, error) {
	var err error
	c.credentialServiceInit.Do(func() {
		c.credentialService, err = c.initCredentialService()
		if err != nil {
			c.initErrors["credentialService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialService"]; exists {
		return nil, storedErr
	}
	return c.credentialService, nil
}

// AuthHandler returns the authentication HTTP handler.
func (c *Container) AuthHandler() (*authHTTP.Handler, error) {
	var err error
	c.authHandlerInit.Do(func() {
		c.authHandler, err = c.initAuthHandler()
		if err != nil {
			c.initErrors["authHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authHandler"]; exists {
		return nil, storedErr
	}
	return c.authHandler, nil
}

// initTokenService creates the token service from the configured signing key.
func (c *Container) initTokenService() (authService.TokenService, error) {
	if c.config.JWTSecretKey == "" {
		return nil, apperrors.New("JWT_SECRET_KEY must be set")
	}

	return authService.NewTokenService(
		c.config.JWTSecretKey,
		c.config.JWTAccessExpiration,
		c.config.JWTRefreshExpiration,
	), nil
}

// initCredentialService creates the credential service for the configured identity.
func (c *Container) initCredentialService() (authService.CredentialService, error) {
	if c.config.AuthUsername == "" || c.config.AuthPasswordHash == "" {
		return nil, apperrors.New("AUTH_USERNAME and AUTH_PASSWORD_HASH must be set")
	}

	return authService.NewCredentialService(
		c.config.AuthUsername,
		c.config.AuthPasswordHash,
	), nil
}

// initAuthHandler creates the authentication handler.
func (c *Container) initAuthHandler() (*authHTTP.Handler, error) {
	credentialService, err := c.CredentialService()
	if err != nil {
		return nil, err
	}

	tokenService, err := c.TokenService()
	if err != nil {
		return nil, err
	}

	return authHTTP.NewHandler(credentialService, tokenService, c.Logger()), nil
}
