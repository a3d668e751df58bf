package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/coopledger/coopledger/internal/config"
	"github.com/coopledger/coopledger/internal/server/token"
)

// AuthHandler issues and refreshes bearer tokens for the single operator
// account.
type AuthHandler struct {
	secret       string
	passwordHash []byte
	cfg          config.ServerConfig
	logger       *zap.Logger
}

// NewAuthHandler builds the auth handler. The operator password is hashed at
// startup so the plaintext never lives beyond configuration loading.
func NewAuthHandler(secret string, cfg config.ServerConfig, logger *zap.Logger) (*AuthHandler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &AuthHandler{
		secret:       secret,
		passwordHash: hash,
		cfg:          cfg,
		logger:       logger,
	}, nil
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login exchanges the operator password for an access/refresh token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, nil, "invalid request body")
		return
	}

	if err := bcrypt.CompareHashAndPassword(h.passwordHash, []byte(req.Password)); err != nil {
		h.logger.Warn("login rejected", zap.String("client_ip", c.ClientIP()))
		respond(c, http.StatusUnauthorized, nil, "invalid password")
		return
	}

	h.issue(c)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh exchanges a valid refresh token for a new token pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, nil, "invalid request body")
		return
	}

	if _, err := token.Validate(h.secret, req.RefreshToken, token.UseRefresh); err != nil {
		respond(c, http.StatusUnauthorized, nil, "invalid refresh token")
		return
	}

	h.issue(c)
}

func (h *AuthHandler) issue(c *gin.Context) {
	access, err := token.Generate(h.secret, token.UseAccess, h.cfg.TokenTTL)
	if err != nil {
		h.logger.Error("failed to sign access token", zap.Error(err))
		respond(c, http.StatusInternalServerError, nil, "token generation failed")
		return
	}
	refresh, err := token.Generate(h.secret, token.UseRefresh, h.cfg.RefreshTokenTTL)
	if err != nil {
		h.logger.Error("failed to sign refresh token", zap.Error(err))
		respond(c, http.StatusInternalServerError, nil, "token generation failed")
		return
	}

	respond(c, http.StatusOK, gin.H{
		"token":         access,
		"refresh_token": refresh,
	}, "")
}

// RequireAuth is the bearer-token middleware for data endpoints.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
			respond(c, http.StatusUnauthorized, nil, "missing bearer token")
			c.Abort()
			return
		}

		if _, err := token.Validate(secret, header[len(prefix):], token.UseAccess); err != nil {
			respond(c, http.StatusUnauthorized, nil, "invalid or expired token")
			c.Abort()
			return
		}
		c.Next()
	}
}
