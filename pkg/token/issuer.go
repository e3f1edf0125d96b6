package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrRevoked      = errors.New("token has been revoked")
)

// Claims is what a verified token says about its bearer.
type Claims struct {
	UserID    uint
	JTI       string
	ExpiresAt time.Time
}

// Issuer signs HS256 tokens and checks them against a revocation Store.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	store  Store
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration, store Store) *Issuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if store == nil {
		store = NewMemoryStore()
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, store: store, now: time.Now}
}

// Issue creates a token for userID and records its jti so RevokeAll can find it.
func (i *Issuer) Issue(ctx context.Context, userID uint) (string, error) {
	now := i.now()
	exp := now.Add(i.ttl)
	jti := uuid.NewString()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	if err := i.store.Track(ctx, userID, jti, exp); err != nil {
		return "", err
	}
	return signed, nil
}

// Verify parses tokenStr, checks signature and expiry, then the revocation store.
func (i *Issuer) Verify(ctx context.Context, tokenStr string) (Claims, error) {
	var rc jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenStr, &rc, func(t *jwt.Token) (interface{}, error) {
		// only accept HMAC signing
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	uid, err := strconv.ParseUint(rc.Subject, 10, 64)
	if err != nil || uid == 0 || rc.ID == "" {
		return Claims{}, ErrInvalidToken
	}

	revoked, err := i.store.IsRevoked(ctx, rc.ID)
	if err != nil {
		return Claims{}, err
	}
	if revoked {
		return Claims{}, ErrRevoked
	}
	return Claims{UserID: uint(uid), JTI: rc.ID, ExpiresAt: rc.ExpiresAt.Time}, nil
}

// RevokeAll invalidates every token issued to userID so far.
func (i *Issuer) RevokeAll(ctx context.Context, userID uint) error {
	return i.store.RevokeUser(ctx, userID)
}
