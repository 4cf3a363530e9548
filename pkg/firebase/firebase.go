package firebase

import (
	"context"
	"errors"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

var (
	// ErrNotConfigured is returned by InitFirebase when no credentials path is set.
	ErrNotConfigured = errors.New("firebase credentials path not provided")
	// ErrEmailNotVerified rejects tokens whose email the provider has not confirmed.
	ErrEmailNotVerified = errors.New("firebase token email is not verified")
)

// Identity is what a verified Firebase ID token tells us about the caller.
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// IDTokenVerifier checks Firebase ID tokens.
type IDTokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

// App holds the initialized Firebase app and auth client
type App struct {
	FirebaseApp *firebase.App
	AuthClient  *auth.Client
}

// InitFirebase initializes the Firebase application and authentication client
func InitFirebase(ctx context.Context, credentialsPath string) (*App, error) {
	if credentialsPath == "" {
		return nil, ErrNotConfigured
	}

	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)

	firebaseApp, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	return &App{FirebaseApp: firebaseApp, AuthClient: authClient}, nil
}

// Verify validates idToken and extracts the caller's identity. Local accounts
// are keyed by email, so tokens without a verified email claim are rejected.
func (a *App) Verify(ctx context.Context, idToken string) (*Identity, error) {
	token, err := a.AuthClient.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return identityFromClaims(token.UID, token.Claims)
}

func identityFromClaims(uid string, claims map[string]interface{}) (*Identity, error) {
	id := &Identity{UID: uid}
	id.Email, _ = claims["email"].(string)
	if id.Email == "" {
		return nil, errors.New("firebase token has no email claim")
	}
	id.EmailVerified, _ = claims["email_verified"].(bool)
	if !id.EmailVerified {
		return nil, ErrEmailNotVerified
	}
	id.Name, _ = claims["name"].(string)
	id.Picture, _ = claims["picture"].(string)
	return id, nil
}
