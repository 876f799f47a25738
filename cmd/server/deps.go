package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jrsteele09/merchant-portal/auth/fixturegateway"
	"github.com/jrsteele09/merchant-portal/auth/httpgateway"
	"github.com/jrsteele09/merchant-portal/auth/oidcgateway"
	"github.com/jrsteele09/merchant-portal/credentials"
	"github.com/jrsteele09/merchant-portal/credentials/pgrepo"
	fakecredentialrepo "github.com/jrsteele09/merchant-portal/credentials/repofake"
	"github.com/jrsteele09/merchant-portal/internal/config"
	"github.com/jrsteele09/merchant-portal/server"
	"github.com/jrsteele09/merchant-portal/sessions"
	"github.com/jrsteele09/merchant-portal/sessions/storage"
	"github.com/jrsteele09/merchant-portal/tenants"
	tenantrepofakes "github.com/jrsteele09/merchant-portal/tenants/repofakes"
	"github.com/jrsteele09/merchant-portal/token"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// buildDeps wires the server's collaborators from configuration. The returned
// cleanup releases any connections opened along the way.
func buildDeps(ctx context.Context, c config.Config) (server.Deps, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (server.Deps, func(), error) {
		cleanup()
		return server.Deps{}, func() {}, err
	}

	sessionStorage, closeStorage, err := newSessionStorage(ctx, c)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, closeStorage)

	deps := server.Deps{Storage: sessionStorage}

	switch c.GetGatewayMode() {
	case config.GatewayModeFixture:
		records, closeRecords, err := newCredentialRepo(ctx, c)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, closeRecords)

		issuer, err := token.NewIssuer([]byte(c.GetTokenSecret()), c.GetAppName(), nil, nil)
		if err != nil {
			return fail(err)
		}
		gateway := fixturegateway.New(records, issuer, fixturegateway.WithValidity(c.GetSessionValidity()))
		deps.Gateway = gateway
		deps.Backend = gateway

		tenantRepo, err := newTenantRepo(ctx, records)
		if err != nil {
			return fail(err)
		}
		deps.Tenants = tenantRepo

	case config.GatewayModeHTTP:
		deps.Gateway = httpgateway.New(c.GetGatewayURL(), c.GetGatewayTimeout())
		log.Info().Str("url", c.GetGatewayURL()).Msg("authenticating against backend")

	case config.GatewayModeOIDC:
		gateway, err := oidcgateway.New(oidcgateway.Config{
			AdminIssuer:          c.GetOIDCAdminIssuer(),
			TenantIssuerTemplate: c.GetOIDCTenantIssuerTemplate(),
			ClientID:             c.GetOIDCClientID(),
			ClientSecret:         c.GetOIDCClientSecret(),
			Validity:             c.GetSessionValidity(),
		})
		if err != nil {
			return fail(err)
		}
		deps.Gateway = gateway
		log.Info().Str("issuer", c.GetOIDCAdminIssuer()).Msg("authenticating against OpenID Connect issuers")

	default:
		return fail(fmt.Errorf("unknown gateway mode %q", c.GetGatewayMode()))
	}

	return deps, cleanup, nil
}

func newSessionStorage(ctx context.Context, c config.Config) (sessions.Storage, func(), error) {
	switch c.GetStorageBackend() {
	case config.StorageFile:
		dir := filepath.Join(c.GetDataFolder(), "sessions")
		s, err := storage.NewFile(dir)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("dir", dir).Msg("sessions stored on disk")
		return s, func() {}, nil

	case config.StorageRedis:
		client, err := storage.NewRedisClient(ctx, c.GetRedisURL())
		if err != nil {
			return nil, nil, err
		}
		// Keys outlive the session by a day so expired records can still be read and rejected.
		ttl := c.GetSessionValidity() + 24*time.Hour
		return storage.NewRedis(client, "portal:", ttl), func() { _ = client.Close() }, nil

	default:
		log.Warn().Msg("sessions kept in memory, they will not survive a restart")
		return storage.NewInMemory(), func() {}, nil
	}
}

func newCredentialRepo(ctx context.Context, c config.Config) (credentials.Repo, func(), error) {
	var (
		repo    credentials.Repo
		closeFn = func() {}
	)
	if c.GetDatabaseURL() != "" {
		pg, err := pgrepo.Connect(ctx, c.GetDatabaseURL())
		if err != nil {
			return nil, nil, err
		}
		repo, closeFn = pg, pg.Close
	} else {
		repo = fakecredentialrepo.NewFakeCredentialRepo()
	}

	if c.GetSeedCredentials() {
		if err := credentials.Seed(ctx, repo, bcrypt.DefaultCost); err != nil {
			closeFn()
			return nil, nil, err
		}
		log.Info().Msg("built-in credentials seeded")
	}
	return repo, closeFn, nil
}

// newTenantRepo fills the tenant directory from the merchant credential records.
func newTenantRepo(ctx context.Context, records credentials.Repo) (tenants.Repo, error) {
	repo := tenantrepofakes.NewFakeTenantRepo()
	all, err := records.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, record := range all {
		if record.TenantID == credentials.AdminTenantID {
			continue
		}
		if err := repo.Upsert(&tenants.Tenant{ID: record.TenantID, Name: record.DisplayName}); err != nil {
			log.Warn().Err(err).Str("tenant", record.TenantID).Msg("skipping tenant")
		}
	}
	return repo, nil
}
