package devapi

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-oauth2/oauth2/v4"
	"github.com/go-oauth2/oauth2/v4/manage"
	oauthmodels "github.com/go-oauth2/oauth2/v4/models"
	"github.com/go-oauth2/oauth2/v4/store"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// consoleClientID is the OAuth2 client the admin console logs in through
const consoleClientID = "pizza-admin-console"

// newTokenManager configures password-grant issuance of JWT access tokens kept in
// the access_tokens table.
func newTokenManager(db *gorm.DB, secret []byte, ttl time.Duration) (*manage.Manager, error) {
	manager := manage.NewDefaultManager()
	manager.SetPasswordTokenCfg(&manage.Config{AccessTokenExp: ttl})
	manager.MapAccessGenerate(newAccessGenerate(secret, jwt.SigningMethodHS256, db))
	manager.MustTokenStorage(newGormTokenStore(db), nil)

	clients := store.NewClientStore()
	if err := clients.Set(consoleClientID, &oauthmodels.Client{ID: consoleClientID}); err != nil {
		return nil, err
	}
	manager.MapClientStorage(clients)
	return manager, nil
}

// accessGenerate signs access tokens carrying the user id and role
type accessGenerate struct {
	key    []byte
	method jwt.SigningMethod
	db     *gorm.DB
}

func newAccessGenerate(key []byte, method jwt.SigningMethod, db *gorm.DB) *accessGenerate {
	return &accessGenerate{key: key, method: method, db: db}
}

// Token is called by the OAuth2 manager for every issued token
func (g *accessGenerate) Token(ctx context.Context, data *oauth2.GenerateBasic, isGenRefresh bool) (string, string, error) {
	if data.UserID == "" {
		return "", "", fmt.Errorf("cannot generate token: no user ID available")
	}

	role, err := g.userRole(ctx, data.UserID)
	if err != nil {
		return "", "", err
	}

	createdAt := data.TokenInfo.GetAccessCreateAt()
	claims := jwt.MapClaims{
		"aud":  data.Client.GetID(),
		"uid":  data.UserID,
		"role": role,
		"iat":  createdAt.Unix(),
		"exp":  createdAt.Add(data.TokenInfo.GetAccessExpiresIn()).Unix(),
		// keeps tokens issued within the same second distinct
		"jti": strconv.FormatInt(createdAt.UnixNano(), 36),
	}

	access, err := jwt.NewWithClaims(g.method, claims).SignedString(g.key)
	if err != nil {
		return "", "", err
	}
	return access, "", nil
}

func (g *accessGenerate) userRole(ctx context.Context, userID string) (string, error) {
	id, err := strconv.ParseUint(userID, 10, 32)
	if err != nil {
		return "", fmt.Errorf("invalid user ID format: %w", err)
	}

	var user User
	if err := g.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("user with ID %d not found", id)
		}
		return "", fmt.Errorf("database error: %w", err)
	}
	return user.Role, nil
}

// gormTokenStore keeps access tokens in the database. Only access tokens are
// issued, so code and refresh lookups never match.
type gormTokenStore struct {
	db *gorm.DB
}

func newGormTokenStore(db *gorm.DB) *gormTokenStore {
	return &gormTokenStore{db: db}
}

func (s *gormTokenStore) Create(ctx context.Context, info oauth2.TokenInfo) error {
	createdAt := info.GetAccessCreateAt()
	token := &AccessToken{
		Access:    info.GetAccess(),
		ClientID:  info.GetClientID(),
		UserID:    info.GetUserID(),
		Scope:     info.GetScope(),
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(info.GetAccessExpiresIn()),
	}
	return s.db.WithContext(ctx).Create(token).Error
}

func (s *gormTokenStore) RemoveByAccess(ctx context.Context, access string) error {
	return s.db.WithContext(ctx).Where("access = ?", access).Delete(&AccessToken{}).Error
}

func (s *gormTokenStore) RemoveByCode(ctx context.Context, code string) error {
	return nil
}

func (s *gormTokenStore) RemoveByRefresh(ctx context.Context, refresh string) error {
	return nil
}

func (s *gormTokenStore) GetByAccess(ctx context.Context, access string) (oauth2.TokenInfo, error) {
	var token AccessToken
	if err := s.db.WithContext(ctx).Where("access = ?", access).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &oauthmodels.Token{
		ClientID:        token.ClientID,
		UserID:          token.UserID,
		Access:          token.Access,
		AccessCreateAt:  token.CreatedAt,
		AccessExpiresIn: token.ExpiresAt.Sub(token.CreatedAt),
		Scope:           token.Scope,
	}, nil
}

func (s *gormTokenStore) GetByCode(ctx context.Context, code string) (oauth2.TokenInfo, error) {
	return nil, nil
}

func (s *gormTokenStore) GetByRefresh(ctx context.Context, refresh string) (oauth2.TokenInfo, error) {
	return nil, nil
}

// parseAccessToken checks the signature and time claims of an access token and
// returns its user id.
func parseAccessToken(tokenString string, secret []byte) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v. Expected HMAC", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithIssuedAt())
	if err != nil {
		return "", fmt.Errorf("token parsing failed: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims format")
	}

	uid, ok := claims["uid"].(string)
	if !ok || uid == "" {
		return "", fmt.Errorf("token missing required 'uid' claim")
	}
	return uid, nil
}
