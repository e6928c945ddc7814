// Package app assembles the server from configuration: store, keys,
// services and the HTTP and gRPC transports.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	apicontext "github.com/dtroode/storeauth/internal/api/context"
	grpcrouter "github.com/dtroode/storeauth/internal/api/grpc/router"
	grpcserver "github.com/dtroode/storeauth/internal/api/grpc/server"
	httprouter "github.com/dtroode/storeauth/internal/api/http/router"
	httpserver "github.com/dtroode/storeauth/internal/api/http/server"
	"github.com/dtroode/storeauth/internal/authn"
	"github.com/dtroode/storeauth/internal/config"
	"github.com/dtroode/storeauth/internal/keys"
	"github.com/dtroode/storeauth/internal/logger"
	"github.com/dtroode/storeauth/internal/model"
	"github.com/dtroode/storeauth/internal/password"
	"github.com/dtroode/storeauth/internal/recaptcha"
	"github.com/dtroode/storeauth/internal/repository/memory"
	"github.com/dtroode/storeauth/internal/repository/postgres"
	"github.com/dtroode/storeauth/internal/repository/sqlite"
	"github.com/dtroode/storeauth/internal/server"
	"github.com/dtroode/storeauth/internal/service"
	storage "github.com/dtroode/storeauth/internal/storage/minio"
	"github.com/dtroode/storeauth/internal/token"
)

// UserRepository is what every store backend provides.
type UserRepository interface {
	model.UserStore
	model.UserWriter
	Delete(ctx context.Context, id string) error
}

// Store is an opened user store backend.
type Store struct {
	Users UserRepository
	// Ping reports whether the backend is reachable.
	Ping  func(ctx context.Context) error
	Close func() error
}

// OpenStore opens the backend selected by cfg.Driver.
func OpenStore(ctx context.Context, cfg config.Store) (*Store, error) {
	switch cfg.Driver {
	case config.StoreDriverPostgres:
		conn, err := postgres.NewConnection(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return &Store{Users: postgres.NewUserRepository(conn), Ping: conn.Ping, Close: conn.Close}, nil

	case config.StoreDriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Store{Users: sqlite.NewUserRepository(db), Ping: db.PingContext, Close: db.Close}, nil

	case config.StoreDriverMemory:
		var seed []model.User
		if cfg.MemorySeedFile != "" {
			var err error
			if seed, err = memory.LoadSeedFile(cfg.MemorySeedFile); err != nil {
				return nil, err
			}
		}
		repo, err := memory.NewUserRepository(seed...)
		if err != nil {
			return nil, err
		}
		return &Store{
			Users: repo,
			Ping:  func(ctx context.Context) error { return ctx.Err() },
			Close: func() error { return nil },
		}, nil
	}

	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

// DialStorage connects to the key bucket.
func DialStorage(ctx context.Context, cfg config.Storage) (*storage.KeyStore, error) {
	return storage.Dial(ctx, storage.Config{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		UseSSL:    cfg.UseSSL,
	})
}

// LoadKeys reads the signing keys from the configured source.
func LoadKeys(ctx context.Context, cfg *config.Config) (*token.KeySet, error) {
	var objects model.Storage
	if cfg.Keys.Source == config.KeysSourceMinio {
		st, err := DialStorage(ctx, cfg.Storage)
		if err != nil {
			return nil, err
		}
		objects = st
	}

	return keys.Load(ctx, keys.Source(cfg.Keys.Source), keys.Refs{
		AccessPrivate:  cfg.Keys.AccessPrivate,
		AccessPublic:   cfg.Keys.AccessPublic,
		RefreshPrivate: cfg.Keys.RefreshPrivate,
		RefreshPublic:  cfg.Keys.RefreshPublic,
	}, objects)
}

// PasswordCodec builds the argon2id codec from cfg. A cost other than the
// default is logged: hashes stored under one cost never verify under another.
func PasswordCodec(cfg config.Password, logger *logger.Logger) *password.Codec {
	codec := password.New(password.Params{Time: cfg.Time, MemKiB: cfg.MemKiB, Par: cfg.Par})
	if p := codec.Params(); p != password.DefaultParams() {
		logger.Warn("App: non-default password cost, hashes made under another cost will not verify",
			"time", p.Time,
			"mem_kib", p.MemKiB,
			"par", p.Par)
	}
	return codec
}

// App is a wired server ready to Run.
type App struct {
	servers []model.Server
	layers  []model.SecurityLayer
	closers []func() error
	logger  *logger.Logger
}

// New wires the application on top of store. keySet must hold both key pairs.
// The store is closed when Run returns.
func New(cfg *config.Config, store *Store, keySet *token.KeySet, logger *logger.Logger) *App {
	users := store.Users
	passwords := PasswordCodec(cfg.Password, logger)
	manager := token.NewJWT(keySet)
	tokenService := service.NewTokenService(manager, logger)

	var captcha model.CaptchaVerifier
	if v := recaptcha.New(recaptcha.Config{
		Secret:    cfg.Recaptcha.Secret,
		MinScore:  cfg.Recaptcha.MinScore,
		VerifyURL: cfg.Recaptcha.VerifyURL,
		Timeout:   cfg.Recaptcha.Timeout,
	}, nil, logger); v != nil {
		captcha = v
	} else {
		logger.Warn("reCAPTCHA disabled: GOOGLE_RECAPTCHA_SECRET is not set")
	}

	authService := service.NewAuth(users, passwords, captcha, tokenService, logger)
	userService := service.NewUsers(users, users, passwords, logger)
	authenticators := authn.NewSet(manager, users, logger)
	ctxMgr := apicontext.NewManager()

	a := &App{logger: logger}
	a.OnClose(store.Close)

	handler := httprouter.New(authService, userService, authenticators, ctxMgr, store.Ping, cfg.HTTP.AllowedOrigins, cfg.HTTP.TrustProxyHeaders, logger).Register()
	a.add(
		httpserver.NewHTTPServer(handler, net.JoinHostPort("", cfg.HTTP.Port)),
		server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName),
	)

	if cfg.GRPC.Enabled {
		s := grpcrouter.New(authService, userService, authenticators, ctxMgr, logger).Register()
		a.add(
			grpcserver.NewGRPCServer(s, net.JoinHostPort("", cfg.GRPC.Port)),
			server.NewSecurityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName),
		)
	}

	return a
}

func (a *App) add(s model.Server, layer model.SecurityLayer) {
	a.servers = append(a.servers, s)
	a.layers = append(a.layers, layer)
}

// OnClose registers fn to run after the servers stop.
func (a *App) OnClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Servers lists the configured transports.
func (a *App) Servers() []model.Server {
	return a.servers
}

// Run starts every server and blocks until ctx is cancelled or a server
// fails. Servers are then stopped under the context returned by shutdown.
func (a *App) Run(ctx context.Context, shutdown func() (context.Context, context.CancelFunc)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for i, s := range a.servers {
		wg.Add(1)
		go func(s model.Server, layer model.SecurityLayer) {
			defer wg.Done()
			a.logger.Info("Starting server", "address", s.Address())
			if err := s.Start(layer); err != nil {
				a.logger.Error("server failed", "address", s.Address(), "error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("server %s: %w", s.Address(), err))
				mu.Unlock()
				cancel()
			}
		}(s, a.layers[i])
	}

	<-ctx.Done()
	a.logger.Info("shutting down")

	shutdownCtx, shutdownCancel := shutdown()
	defer shutdownCancel()

	for _, s := range a.servers {
		if err := s.Stop(shutdownCtx); err != nil {
			a.logger.Error("error during server shutdown", "error", err, "address", s.Address())
		}
	}
	wg.Wait()

	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}

	a.logger.Info("shutdown complete")
	return errors.Join(errs...)
}
