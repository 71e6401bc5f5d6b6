package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Config holds Firebase Admin SDK configuration.
type Config struct {
	CredentialsFile string
	ProjectID       string
}

// Client bundles the Firebase app with its auth and Firestore clients.
type Client struct {
	App       *firebase.App
	Auth      *auth.Client
	Firestore *firestore.Client
}

// NewClient initializes the Firebase app, auth client and Firestore client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	var fbCfg *firebase.Config
	if cfg.ProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, fbCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth: %w", err)
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firestore: %w", err)
	}

	return &Client{App: app, Auth: authClient, Firestore: fsClient}, nil
}

// Close releases the Firestore connection.
func (c *Client) Close() error {
	return c.Firestore.Close()
}
