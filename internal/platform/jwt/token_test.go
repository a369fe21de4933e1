package jwtmw

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestService はテスト用に時刻を固定したTokenServiceを生成します。
func newTestService(t *testing.T, secret string, now *time.Time) *TokenService {
	t.Helper()

	svc, err := NewTokenService(secret)
	require.NoError(t, err)
	svc.now = func() time.Time { return *now }
	return svc
}

// TestNewTokenService_MissingSecret はシークレット未設定時にエラーとなることを検証します。
func TestNewTokenService_MissingSecret(t *testing.T) {
	t.Parallel()

	svc, err := NewTokenService("")

	assert.ErrorIs(t, err, ErrMissingSecret)
	assert.Nil(t, svc)
}

// TestTokenService_IssueAndVerify は発行したトークンが同じsubject/roleで検証されることを検証します。
func TestTokenService_IssueAndVerify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		userID string
		role   string
	}{
		{"student", "0b7c6f0e-1d1e-4a53-9a39-0a7f4f0d9a11", "STUDENT"},
		{"instructor", "6f1d1a2b-3c4d-4e5f-8a9b-0c1d2e3f4a5b", "INSTRUCTOR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
			svc := newTestService(t, "test-secret", &now)

			token, err := svc.Issue(tt.userID, tt.role)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			claims, err := svc.Verify(token)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, claims.UserID())
			assert.Equal(t, tt.role, claims.Role)
			assert.Equal(t, now.Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())
			assert.Equal(t, now.Unix(), claims.IssuedAt.Unix())
		})
	}
}

// TestTokenService_Expiry はT+23h59mで有効、T+24h01mで無効になることを検証します。
func TestTokenService_Expiry(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	now := issuedAt
	svc := newTestService(t, "test-secret", &now)

	token, err := svc.Issue("user-1", "STUDENT")
	require.NoError(t, err)

	now = issuedAt.Add(23*time.Hour + 59*time.Minute)
	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())

	now = issuedAt.Add(24*time.Hour + time.Minute)
	claims, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

// TestTokenService_VerifyRejects は改ざん・不正形式・別シークレット・none署名をすべて同じエラーで拒否することを検証します。
func TestTokenService_VerifyRejects(t *testing.T) {
	t.Parallel()

	now := time.Now()
	svc := newTestService(t, "test-secret", &now)
	other := newTestService(t, "other-secret", &now)

	valid, err := svc.Issue("user-1", "STUDENT")
	require.NoError(t, err)
	foreign, err := other.Issue("user-1", "STUDENT")
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":  "user-1",
		"role": "INSTRUCTOR",
		"exp":  now.Add(time.Hour).Unix(),
	})
	noneStr, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1", "role": "STUDENT"})
	noExpStr, err := noExp.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "user-1",
		"exp": now.Add(time.Hour).Unix(),
	})
	hs512Str, err := hs512.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"malformed", "not.a.valid.token"},
		{"random string", "randomstring"},
		{"wrong secret", foreign},
		{"tampered signature", valid[:len(valid)-2] + "xx"},
		{"none algorithm", noneStr},
		{"missing exp", noExpStr},
		{"other hmac algorithm", hs512Str},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			claims, err := svc.Verify(tt.token)

			assert.Equal(t, ErrInvalidToken, err)
			assert.Nil(t, claims)
		})
	}
}

// TestTokenService_Issue_SigningMethod はトークンがHS256で署名されていることを検証します。
func TestTokenService_Issue_SigningMethod(t *testing.T) {
	t.Parallel()

	now := time.Now()
	svc := newTestService(t, "test-secret", &now)

	tokenStr, err := svc.Issue("user-1", "STUDENT")
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(tokenStr, jwt.MapClaims{})
	require.NoError(t, err)
	assert.Equal(t, "HS256", parsed.Header["alg"])
}
