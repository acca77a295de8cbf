package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/dentaflow/clinic-system/internal/core/domain"
)

// --- stubs ---

type stubUserRepo struct {
	byID map[string]*domain.User
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{byID: make(map[string]*domain.User)}
	for _, u := range users {
		clone := *u
		r.byID[u.ID] = &clone
	}
	return r
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.byID[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByPhone(_ context.Context, phone string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Phone == phone {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	clone := *user
	r.byID[user.ID] = &clone
	return user, nil
}

func (r *stubUserRepo) SetPassword(_ context.Context, id, hash string) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = &hash
	return nil
}

func (r *stubUserRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LastLoginAt = &at
	return nil
}

func (r *stubUserRepo) AssignClinic(_ context.Context, id string, clinicID *string) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ClinicID = clinicID
	return nil
}

func (r *stubUserRepo) SetActive(_ context.Context, id string, active bool) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Active = active
	return nil
}

func (r *stubUserRepo) ListByClinic(_ context.Context, clinicID string) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.byID {
		if clinicID == "" || u.ClinicIDValue() == clinicID {
			out = append(out, *u)
		}
	}
	return out, nil
}

type stubSessionRepo struct {
	byToken map[string]*domain.Session
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{byToken: make(map[string]*domain.Session)}
}

func (r *stubSessionRepo) Insert(_ context.Context, s *domain.Session) error {
	clone := *s
	r.byToken[s.Token] = &clone
	return nil
}

func (r *stubSessionRepo) FindByToken(_ context.Context, token string) (*domain.Session, error) {
	if s, ok := r.byToken[token]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (r *stubSessionRepo) DeleteByToken(_ context.Context, token string) error {
	if _, ok := r.byToken[token]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(r.byToken, token)
	return nil
}

type capturingMessages struct {
	sent []domain.OutboundMessage
}

func (m *capturingMessages) Enqueue(_ context.Context, msg domain.OutboundMessage) error {
	m.sent = append(m.sent, msg)
	return nil
}

func (m *capturingMessages) Deliver(_ context.Context, msg domain.OutboundMessage) error {
	m.sent = append(m.sent, msg)
	return nil
}

// --- fixtures ---

func hashOf(t *testing.T, password string) *string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	s := string(h)
	return &s
}

func strPtr(s string) *string { return &s }

func newAuthFixture(t *testing.T, users ...*domain.User) (*AuthService, *stubUserRepo, *stubSessionRepo, *capturingMessages) {
	t.Helper()
	userRepo := newStubUserRepo(users...)
	sessionRepo := newStubSessionRepo()
	messages := &capturingMessages{}
	svc := NewAuthService(userRepo, sessionRepo, messages, "test-secret", "https://clinic.example/auth/verify", time.Hour, zerolog.Nop())
	return svc, userRepo, sessionRepo, messages
}

func clinicUser() *domain.User {
	return &domain.User{
		ID:       "u-clinic",
		Phone:    "+306912345678",
		Name:     "Front Desk",
		Role:     domain.RoleClinic,
		ClinicID: strPtr("clinic-a"),
		Active:   true,
	}
}

// --- login / logout ---

func TestAuthService_Login_CreatesSingleSession(t *testing.T) {
	u := clinicUser()
	u.PasswordHash = hashOf(t, "s3cret-pass")
	svc, _, sessions, _ := newAuthFixture(t, u)

	result, err := svc.Login(context.Background(), "691 234 5678", "s3cret-pass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if len(sessions.byToken) != 1 {
		t.Fatalf("expected exactly one session row, got %d", len(sessions.byToken))
	}
	if result.Session.Token == "" {
		t.Fatalf("expected opaque session token")
	}
	if result.Claims.UserID != u.ID || result.Claims.Role != domain.RoleClinic || result.Claims.ClinicID != "clinic-a" {
		t.Fatalf("unexpected claims: %+v", result.Claims)
	}
	if !result.Claims.Expires.After(time.Now()) {
		t.Fatalf("claims expiry should be in the future")
	}
}

func TestAuthService_Login_ConcurrentSessionsStack(t *testing.T) {
	u := clinicUser()
	u.PasswordHash = hashOf(t, "pw-123456")
	svc, _, sessions, _ := newAuthFixture(t, u)

	first, err := svc.Login(context.Background(), u.Phone, "pw-123456")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	second, err := svc.Login(context.Background(), u.Phone, "pw-123456")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if first.Session.Token == second.Session.Token {
		t.Fatalf("each login must mint a distinct token")
	}
	if len(sessions.byToken) != 2 {
		t.Fatalf("both sessions should coexist, got %d", len(sessions.byToken))
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	u := clinicUser()
	u.PasswordHash = hashOf(t, "correct-pw")
	inactive := clinicUser()
	inactive.ID = "u-inactive"
	inactive.Phone = "+306900000000"
	inactive.Active = false
	inactive.PasswordHash = hashOf(t, "correct-pw")
	noPassword := clinicUser()
	noPassword.ID = "u-nopw"
	noPassword.Phone = "+306911111111"
	noPassword.PasswordHash = nil

	svc, _, _, _ := newAuthFixture(t, u, inactive, noPassword)

	if _, err := svc.Login(context.Background(), u.Phone, "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", err)
	}
	if _, err := svc.Login(context.Background(), "+306999999999", "correct-pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown phone must not be distinguishable: got %v", err)
	}
	if _, err := svc.Login(context.Background(), inactive.Phone, "correct-pw"); !errors.Is(err, domain.ErrUserInactive) {
		t.Fatalf("inactive user: got %v", err)
	}
	if _, err := svc.Login(context.Background(), noPassword.Phone, "anything"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("password never set: got %v", err)
	}
	if _, err := svc.Login(context.Background(), "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("blank credentials: got %v", err)
	}
}

func TestAuthService_Logout_DeletesMatchingRow(t *testing.T) {
	u := clinicUser()
	u.PasswordHash = hashOf(t, "pw-123456")
	svc, _, sessions, _ := newAuthFixture(t, u)

	result, err := svc.Login(context.Background(), u.Phone, "pw-123456")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(context.Background(), result.Session.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.byToken) != 0 {
		t.Fatalf("session row should be gone")
	}

	// Logging out twice, or with a garbage token, is not an error.
	if err := svc.Logout(context.Background(), result.Session.Token); err != nil {
		t.Fatalf("repeat logout: %v", err)
	}
	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("empty token logout: %v", err)
	}
}

// --- ResolveSession ---

func TestResolveSession_RefetchesUserRow(t *testing.T) {
	u := clinicUser()
	svc, users, _, _ := newAuthFixture(t, u)

	claims := &domain.SessionClaims{
		UserID:   u.ID,
		Role:     domain.RoleClinic,
		ClinicID: "clinic-a",
		Token:    "tok",
		Expires:  time.Now().Add(time.Hour),
	}

	// Admin reassigns the clinic after the cookie was minted.
	if err := users.AssignClinic(context.Background(), u.ID, strPtr("clinic-b")); err != nil {
		t.Fatalf("assign: %v", err)
	}

	resolved, err := svc.ResolveSession(context.Background(), claims.Encode())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved == nil {
		t.Fatalf("expected user")
	}
	if resolved.ClinicIDValue() != "clinic-b" {
		t.Fatalf("resolver must use the stored row, not the cookie cache: got %q", resolved.ClinicIDValue())
	}
}

func TestResolveSession_MalformedInputs(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t, clinicUser())

	for _, raw := range []string{"", "{", "not json", "{}", `{"role":"admin","token":"t"}`} {
		u, err := svc.ResolveSession(context.Background(), raw)
		if err != nil {
			t.Fatalf("malformed cookie must not error (%q): %v", raw, err)
		}
		if u != nil {
			t.Fatalf("malformed cookie must resolve to nil (%q)", raw)
		}
	}
}

func TestResolveSession_DeletedUser(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t) // no users at all
	claims := &domain.SessionClaims{UserID: "ghost", Role: domain.RoleClinic, Token: "t", Expires: time.Now().Add(time.Hour)}

	u, err := svc.ResolveSession(context.Background(), claims.Encode())
	if err != nil || u != nil {
		t.Fatalf("vanished row must resolve to (nil, nil), got (%v, %v)", u, err)
	}
}

func TestResolveSession_Idempotent(t *testing.T) {
	u := clinicUser()
	svc, _, _, _ := newAuthFixture(t, u)
	claims := &domain.SessionClaims{UserID: u.ID, Role: u.Role, Token: "t", Expires: time.Now().Add(time.Hour)}

	first, err := svc.ResolveSession(context.Background(), claims.Encode())
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, err := svc.ResolveSession(context.Background(), claims.Encode())
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("back-to-back resolves must match: %+v vs %+v", first, second)
	}
}

// --- ResolveAuthorizedTenant ---

func TestResolveAuthorizedTenant_NoUser(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.ResolveAuthorizedTenant(nil, "clinic-x")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestResolveAuthorizedTenant_AdminTrustsHint(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	admin := &domain.User{ID: "a1", Role: domain.RoleAdmin, Active: true}

	scope, err := svc.ResolveAuthorizedTenant(admin, "clinic-x")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if scope.TenantID != "clinic-x" || !scope.IsAdmin {
		t.Fatalf("admin with hint: %+v", scope)
	}

	scope, err = svc.ResolveAuthorizedTenant(admin, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if scope.TenantID != "" || !scope.IsAdmin || scope.Scoped() {
		t.Fatalf("admin without hint must be unscoped: %+v", scope)
	}
}

func TestResolveAuthorizedTenant_NonEscalation(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	for _, role := range []string{domain.RoleClinic, domain.RoleDoctor, domain.RoleReceptionist} {
		u := &domain.User{ID: "u1", Role: role, ClinicID: strPtr("A"), Active: true}
		scope, err := svc.ResolveAuthorizedTenant(u, "B")
		if err != nil {
			t.Fatalf("role %s: %v", role, err)
		}
		if scope.TenantID != "A" || scope.IsAdmin {
			t.Fatalf("role %s requested tenant B, must still resolve to A: %+v", role, scope)
		}
	}
}

func TestResolveAuthorizedTenant_NoClinicAssigned(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	u := &domain.User{ID: "u1", Role: domain.RoleDoctor, Active: true}

	scope, err := svc.ResolveAuthorizedTenant(u, "B")
	if !errors.Is(err, domain.ErrNoClinicAssigned) {
		t.Fatalf("expected ErrNoClinicAssigned, got %v", err)
	}
	if scope.TenantID != "" || scope.IsAdmin {
		t.Fatalf("misprovisioned account must resolve empty: %+v", scope)
	}
}

func TestResolveAuthorizedTenant_InvalidRole(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	u := &domain.User{ID: "u1", Role: "superuser", ClinicID: strPtr("A"), Active: true}

	if _, err := svc.ResolveAuthorizedTenant(u, ""); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("unknown role must hard-fail, got %v", err)
	}
}

// --- magic link ---

func TestMagicLink_RoundTrip(t *testing.T) {
	u := clinicUser() // no password set yet
	svc, users, sessions, messages := newAuthFixture(t, u)

	if err := svc.RequestPasswordReset(context.Background(), u.Phone); err != nil {
		t.Fatalf("request reset: %v", err)
	}
	if len(messages.sent) != 1 {
		t.Fatalf("expected one magic-link message, got %d", len(messages.sent))
	}
	sent := messages.sent[0]
	if sent.Kind != domain.KindMagicLink || sent.To != u.Phone {
		t.Fatalf("unexpected message: %+v", sent)
	}

	token, err := svc.signResetToken(u.ID)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	result, err := svc.ResetPassword(context.Background(), token, "brand-new-pw")
	if err != nil {
		t.Fatalf("reset password: %v", err)
	}
	if result.Session == nil || len(sessions.byToken) != 1 {
		t.Fatalf("reset must log the user in")
	}

	stored, _ := users.FindByID(context.Background(), u.ID)
	if stored.PasswordHash == nil {
		t.Fatalf("password hash should be stored")
	}
	if _, err := svc.Login(context.Background(), u.Phone, "brand-new-pw"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestMagicLink_Verify(t *testing.T) {
	u := clinicUser()
	svc, _, sessions, _ := newAuthFixture(t, u)

	token, err := svc.signResetToken(u.ID)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	result, err := svc.VerifyMagicLink(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if result.User.ID != u.ID || len(sessions.byToken) != 1 {
		t.Fatalf("verify must create a session for the token's user")
	}
}

func TestMagicLink_RejectsBadTokens(t *testing.T) {
	u := clinicUser()
	svc, _, _, _ := newAuthFixture(t, u)

	if _, err := svc.VerifyMagicLink(context.Background(), "garbage"); !errors.Is(err, domain.ErrInvalidResetToken) {
		t.Fatalf("garbage token: got %v", err)
	}

	// Token signed with a different secret.
	other := NewAuthService(newStubUserRepo(u), newStubSessionRepo(), &capturingMessages{}, "other-secret", "", time.Hour, zerolog.Nop())
	foreign, err := other.signResetToken(u.ID)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.VerifyMagicLink(context.Background(), foreign); !errors.Is(err, domain.ErrInvalidResetToken) {
		t.Fatalf("foreign-signed token: got %v", err)
	}

	if _, err := svc.ResetPassword(context.Background(), "garbage", "good-password"); !errors.Is(err, domain.ErrInvalidResetToken) {
		t.Fatalf("reset with bad token: got %v", err)
	}

	tok, _ := svc.signResetToken(u.ID)
	if _, err := svc.ResetPassword(context.Background(), tok, "short"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("short password: got %v", err)
	}
}
