package guard

import (
	"context"
	"testing"
)

// fakeSession implements Session with fixed answers and a verify counter.
type fakeSession struct {
	token       bool
	userLoaded  bool
	canManage   bool
	verifyOK    bool
	verifyCalls int
}

func (f *fakeSession) HasToken() bool       { return f.token }
func (f *fakeSession) UserLoaded() bool     { return f.userLoaded }
func (f *fakeSession) CanManageUsers() bool { return f.canManage }

func (f *fakeSession) VerifyToken(ctx context.Context) bool {
	f.verifyCalls++
	if f.verifyOK {
		f.userLoaded = true
	}
	return f.verifyOK
}

func TestResolve(t *testing.T) {
	protected := Route{Name: "tests", RequiresAuth: true}
	login := Route{Name: "login", RequiresGuest: true}
	admin := Route{Name: "users", RequiresAuth: true, RequiresAdmin: true}
	public := Route{Name: "support"}

	cases := []struct {
		name  string
		route Route
		sess  *fakeSession
		want  Decision
	}{
		{"protected without token", protected, &fakeSession{}, RedirectLogin},
		{"protected with token", protected, &fakeSession{token: true}, Allow},
		{"login while logged out", login, &fakeSession{}, Allow},
		{"login while logged in", login, &fakeSession{token: true}, RedirectHome},
		{"public always allowed", public, &fakeSession{}, Allow},
		{"admin route as manager", admin, &fakeSession{token: true, userLoaded: true, canManage: true}, Allow},
		{"admin route as tester", admin, &fakeSession{token: true, userLoaded: true, canManage: false}, RedirectHome},
		{"admin route without token", admin, &fakeSession{}, RedirectLogin},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Resolve(context.Background(), tc.route, tc.sess); got != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestResolveVerifiesUnloadedProfile(t *testing.T) {
	admin := Route{Name: "users", RequiresAuth: true, RequiresAdmin: true}

	t.Run("verify succeeds with authority", func(t *testing.T) {
		sess := &fakeSession{token: true, verifyOK: true, canManage: true}
		if got := Resolve(context.Background(), admin, sess); got != Allow {
			t.Errorf("got %s, want allow", got)
		}
		if sess.verifyCalls != 1 {
			t.Errorf("expected one verify call, got %d", sess.verifyCalls)
		}
	})

	t.Run("verify succeeds without authority", func(t *testing.T) {
		sess := &fakeSession{token: true, verifyOK: true, canManage: false}
		if got := Resolve(context.Background(), admin, sess); got != RedirectHome {
			t.Errorf("got %s, want redirect-home", got)
		}
	})

	t.Run("verify fails", func(t *testing.T) {
		sess := &fakeSession{token: true, verifyOK: false}
		if got := Resolve(context.Background(), admin, sess); got != RedirectLogin {
			t.Errorf("got %s, want redirect-login", got)
		}
	})

	t.Run("loaded profile skips verify", func(t *testing.T) {
		sess := &fakeSession{token: true, userLoaded: true, canManage: true}
		if got := Resolve(context.Background(), admin, sess); got != Allow {
			t.Errorf("got %s, want allow", got)
		}
		if sess.verifyCalls != 0 {
			t.Errorf("expected no verify calls, got %d", sess.verifyCalls)
		}
	})
}
