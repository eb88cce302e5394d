// Package token implements the signed credential codec: it mints and
// verifies the access/refresh JWT pair. Access and refresh tokens share the
// signing secret but embed a distinct "kind" claim, so one can never be
// substituted for the other.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/users-service/internal/model"
)

// Token kinds embedded in the "kind" claim.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// Leeway tolerated on exp/iat validation to absorb clock skew between the
// issuing and verifying node.
const Leeway = 30 * time.Second

var (
	// ErrTokenInvalid covers malformed tokens, bad signatures and kind
	// mismatches.
	ErrTokenInvalid = errors.New("token is invalid")
	// ErrTokenExpired is returned when the token is past its expiry
	// (beyond Leeway).
	ErrTokenExpired = errors.New("token is expired")
)

// Claims is the verified content of a token.
type Claims struct {
	UserID    string
	Role      model.Role
	Kind      string
	ExpiresAt time.Time
}

// Pair is one issued access+refresh token set. Pairs are ephemeral: they are
// never persisted and travel to the client only via HttpOnly cookies.
type Pair struct {
	Access     string
	AccessExp  time.Time
	Refresh    string
	RefreshExp time.Time
}

// Codec signs and verifies token pairs with an HS256 shared secret.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCodec builds a codec with the given signing secret and per-kind TTLs.
func NewCodec(secret string, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// AccessTTL returns the configured access token lifetime.
func (c *Codec) AccessTTL() time.Duration { return c.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

// Issue signs a fresh access+refresh pair for the user. Every successful
// login, registration and refresh mints a new pair; prior tokens are never
// reused.
func (c *Codec) Issue(userID string, role model.Role) (Pair, error) {
	now := time.Now().UTC()

	access, accessExp, err := c.sign(userID, role, KindAccess, now, c.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, refreshExp, err := c.sign(userID, role, KindRefresh, now, c.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, AccessExp: accessExp, Refresh: refresh, RefreshExp: refreshExp}, nil
}

func (c *Codec) sign(userID string, role model.Role, kind string, now time.Time, ttl time.Duration) (string, time.Time, error) {
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"kind": kind,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify parses raw, checks signature and expiry, and enforces that the
// embedded kind matches expectedKind. Signature and expiry are checked on
// every use; there is no caching of verification results.
func (c *Codec) Verify(raw, expectedKind string) (Claims, error) {
	tok, err := jwt.Parse(raw,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrTokenInvalid
			}
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithLeeway(Leeway),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}

	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return Claims{}, ErrTokenInvalid
	}
	kind, _ := mc["kind"].(string)
	if kind != expectedKind {
		return Claims{}, ErrTokenInvalid
	}
	sub, _ := mc["sub"].(string)
	rawRole, _ := mc["role"].(string)
	role, okRole := model.ParseRole(rawRole)
	if sub == "" || !okRole {
		return Claims{}, ErrTokenInvalid
	}

	cl := Claims{UserID: sub, Role: role, Kind: kind}
	if expUnix, ok := mc["exp"].(float64); ok {
		cl.ExpiresAt = time.Unix(int64(expUnix), 0).UTC()
	}
	return cl, nil
}
