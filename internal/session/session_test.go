package session

import (
	"context"
	"errors"
	"testing"

	"distream/internal/credentials"
	"distream/internal/models"
	tu "distream/internal/testing"
)

func newTestStore(t *testing.T) *credentials.Store {
	t.Helper()
	return credentials.NewStore(t.TempDir(), "https://api.distream.example")
}

var testUser = models.User{
	UserID:   3,
	Nickname: "viewer",
	Email:    "viewer@example.com",
	Role:     models.RoleUser,
	Plan:     models.PlanStandard,
}

func TestControllerHydrate(t *testing.T) {
	t.Run("starts Initializing", func(t *testing.T) {
		controller := NewController(newTestStore(t), &tu.MockAuthenticator{})

		if _, ok := controller.Current().(Initializing); !ok {
			t.Errorf("expected Initializing, got %T", controller.Current())
		}
	})

	t.Run("with cached profile becomes Authenticated", func(t *testing.T) {
		store := newTestStore(t)
		if err := store.Save("tok", testUser); err != nil {
			t.Fatal(err)
		}

		controller := NewController(store, &tu.MockAuthenticator{})
		controller.Hydrate()

		state, ok := controller.Current().(Authenticated)
		if !ok {
			t.Fatalf("expected Authenticated, got %T", controller.Current())
		}
		if state.User.Email != testUser.Email {
			t.Errorf("unexpected profile: %+v", state.User)
		}
	})

	t.Run("with empty store becomes Anonymous", func(t *testing.T) {
		controller := NewController(newTestStore(t), &tu.MockAuthenticator{})
		controller.Hydrate()

		if _, ok := controller.Current().(Anonymous); !ok {
			t.Errorf("expected Anonymous, got %T", controller.Current())
		}
	})

	t.Run("same store contents always resolve the same state", func(t *testing.T) {
		store := newTestStore(t)
		if err := store.Save("tok", testUser); err != nil {
			t.Fatal(err)
		}

		for i := 0; i < 5; i++ {
			controller := NewController(store, &tu.MockAuthenticator{})
			controller.Hydrate()
			if _, ok := controller.Current().(Authenticated); !ok {
				t.Fatalf("run %d: expected Authenticated, got %T", i, controller.Current())
			}
		}
	})

	t.Run("runs at most once", func(t *testing.T) {
		store := newTestStore(t)
		controller := NewController(store, &tu.MockAuthenticator{})
		controller.Hydrate()

		// A profile appearing after hydration must not flip the state.
		if err := store.Save("tok", testUser); err != nil {
			t.Fatal(err)
		}
		controller.Hydrate()

		if _, ok := controller.Current().(Anonymous); !ok {
			t.Errorf("second Hydrate must be a no-op, got %T", controller.Current())
		}
	})
}

func TestControllerLogin(t *testing.T) {
	t.Run("success persists credential and authenticates", func(t *testing.T) {
		store := newTestStore(t)
		auth := &tu.MockAuthenticator{
			Credential: &models.Credential{AccessToken: "tok-new", User: testUser},
		}
		controller := NewController(store, auth)
		controller.Hydrate()

		user, err := controller.Login(context.Background(), models.LoginInput{
			Email:    testUser.Email,
			Password: "secret-pw",
		})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if user.Email != testUser.Email {
			t.Errorf("unexpected user: %+v", user)
		}

		if _, ok := controller.Current().(Authenticated); !ok {
			t.Errorf("expected Authenticated, got %T", controller.Current())
		}

		token, profile := store.Load()
		if token != "tok-new" {
			t.Errorf("expected persisted token, got %q", token)
		}
		if profile == nil || profile.Email != testUser.Email {
			t.Errorf("expected persisted profile, got %+v", profile)
		}
	})

	t.Run("failure leaves session untouched and returns the error", func(t *testing.T) {
		wantErr := errors.New("invalid credentials")
		controller := NewController(newTestStore(t), &tu.MockAuthenticator{Err: wantErr})
		controller.Hydrate()

		_, err := controller.Login(context.Background(), models.LoginInput{
			Email:    "x@example.com",
			Password: "bad",
		})
		if !errors.Is(err, wantErr) {
			t.Errorf("expected API error passed through, got %v", err)
		}
		if _, ok := controller.Current().(Anonymous); !ok {
			t.Errorf("failed login must not change state, got %T", controller.Current())
		}
	})
}

func TestControllerLogout(t *testing.T) {
	t.Run("clears state and store", func(t *testing.T) {
		store := newTestStore(t)
		if err := store.Save("tok", testUser); err != nil {
			t.Fatal(err)
		}

		auth := &tu.MockAuthenticator{}
		controller := NewController(store, auth)
		controller.Hydrate()

		controller.Logout(context.Background())

		if _, ok := controller.Current().(Anonymous); !ok {
			t.Errorf("expected Anonymous, got %T", controller.Current())
		}
		if token := store.Token(); token != "" {
			t.Errorf("expected cleared store, got %q", token)
		}
		if auth.LogoutCalls != 1 {
			t.Errorf("expected remote logout attempt, got %d", auth.LogoutCalls)
		}
	})

	t.Run("remote failure still clears locally", func(t *testing.T) {
		store := newTestStore(t)
		if err := store.Save("tok", testUser); err != nil {
			t.Fatal(err)
		}

		auth := &tu.MockAuthenticator{LogoutErr: errors.New("network down")}
		controller := NewController(store, auth)
		controller.Hydrate()

		controller.Logout(context.Background())

		if _, ok := controller.Current().(Anonymous); !ok {
			t.Errorf("expected Anonymous despite remote failure, got %T", controller.Current())
		}
		if token := store.Token(); token != "" {
			t.Errorf("expected cleared store despite remote failure, got %q", token)
		}
	})
}

func TestControllerHandleUnauthorized(t *testing.T) {
	t.Run("resets to Anonymous without calling remote logout", func(t *testing.T) {
		store := newTestStore(t)
		if err := store.Save("tok", testUser); err != nil {
			t.Fatal(err)
		}

		auth := &tu.MockAuthenticator{}
		controller := NewController(store, auth)
		controller.Hydrate()

		controller.HandleUnauthorized()

		if _, ok := controller.Current().(Anonymous); !ok {
			t.Errorf("expected Anonymous, got %T", controller.Current())
		}
		if auth.LogoutCalls != 0 {
			t.Errorf("involuntary logout must not call the remote endpoint, got %d calls", auth.LogoutCalls)
		}
	})

	t.Run("tolerates redundant deliveries", func(t *testing.T) {
		controller := NewController(newTestStore(t), &tu.MockAuthenticator{})
		controller.Hydrate()

		controller.HandleUnauthorized()
		controller.HandleUnauthorized()
		controller.HandleUnauthorized()

		if _, ok := controller.Current().(Anonymous); !ok {
			t.Errorf("expected Anonymous, got %T", controller.Current())
		}
	})
}

func TestControllerObservers(t *testing.T) {
	t.Run("notifies on transitions", func(t *testing.T) {
		auth := &tu.MockAuthenticator{
			Credential: &models.Credential{AccessToken: "tok", User: testUser},
		}
		controller := NewController(newTestStore(t), auth)
		controller.Hydrate()

		var seen []State
		unsubscribe := controller.Subscribe(func(s State) { seen = append(seen, s) })
		defer unsubscribe()

		if _, err := controller.Login(context.Background(), models.LoginInput{Email: "a@b.c", Password: "password"}); err != nil {
			t.Fatal(err)
		}
		controller.Logout(context.Background())

		if len(seen) != 2 {
			t.Fatalf("expected 2 notifications, got %d", len(seen))
		}
		if _, ok := seen[0].(Authenticated); !ok {
			t.Errorf("first notification should be Authenticated, got %T", seen[0])
		}
		if _, ok := seen[1].(Anonymous); !ok {
			t.Errorf("second notification should be Anonymous, got %T", seen[1])
		}
	})

	t.Run("unsubscribe stops delivery", func(t *testing.T) {
		controller := NewController(newTestStore(t), &tu.MockAuthenticator{})
		controller.Hydrate()

		calls := 0
		unsubscribe := controller.Subscribe(func(State) { calls++ })

		controller.HandleUnauthorized()
		unsubscribe()
		controller.HandleUnauthorized()

		if calls != 1 {
			t.Errorf("expected 1 call before unsubscribe, got %d", calls)
		}
	})

	t.Run("observer may call back into the controller", func(t *testing.T) {
		controller := NewController(newTestStore(t), &tu.MockAuthenticator{})
		controller.Hydrate()

		var observed State
		controller.Subscribe(func(State) {
			// Notification happens outside the lock, so reads are safe here.
			observed = controller.Current()
		})

		controller.HandleUnauthorized()

		if _, ok := observed.(Anonymous); !ok {
			t.Errorf("expected Anonymous from reentrant read, got %T", observed)
		}
	})
}

func TestControllerUpdateUser(t *testing.T) {
	t.Run("replaces profile and refreshes cache", func(t *testing.T) {
		store := newTestStore(t)
		if err := store.Save("tok", testUser); err != nil {
			t.Fatal(err)
		}

		controller := NewController(store, &tu.MockAuthenticator{})
		controller.Hydrate()

		updated := testUser
		updated.Plan = models.PlanPremium
		controller.UpdateUser(updated)

		user, ok := controller.User()
		if !ok || user.Plan != models.PlanPremium {
			t.Errorf("expected updated plan, got %+v ok=%v", user, ok)
		}

		_, profile := store.Load()
		if profile == nil || profile.Plan != models.PlanPremium {
			t.Errorf("expected refreshed cache, got %+v", profile)
		}
	})
}
