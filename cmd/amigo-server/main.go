package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ossi-austria/amigo-server-sub000/internal/config"
	"github.com/ossi-austria/amigo-server-sub000/internal/database"
	httpapi "github.com/ossi-austria/amigo-server-sub000/internal/http"
	"github.com/ossi-austria/amigo-server-sub000/internal/logger"
	"github.com/ossi-austria/amigo-server-sub000/internal/metrics"
	"github.com/ossi-austria/amigo-server-sub000/internal/repository"
	"github.com/ossi-austria/amigo-server-sub000/internal/service"
	"github.com/ossi-austria/amigo-server-sub000/internal/storage"
	"github.com/ossi-austria/amigo-server-sub000/internal/store"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "amigo-server")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	kv := store.NewRedisKV(redisClient)

	files, err := storage.NewFileStore(cfg.Storage.Root)
	if err != nil {
		log.Fatal("file store init failed", zap.Error(err))
	}

	accounts := repository.NewPostgresAccountsRepository(db)
	persons := repository.NewPostgresPersonsRepository(db)
	groups := repository.NewPostgresGroupsRepository(db)
	tokens := repository.NewPostgresLoginTokensRepository(db)
	messages := repository.NewPostgresMessagesRepository(db)
	calls := repository.NewPostgresCallsRepository(db)
	media := repository.NewPostgresMultimediaRepository(db)
	albums := repository.NewPostgresAlbumsRepository(db)
	shares := repository.NewPostgresAlbumSharesRepository(db)
	nfcs := repository.NewPostgresNfcRepository(db)

	jwt := service.NewJwtService(cfg.JWT)
	jitsi := service.NewJitsiJwtService(cfg.Jitsi)
	notifier := service.NewNotificationService(cfg.FCM, log)

	server := httpapi.NewServer(httpapi.Services{
		Accounts:   accounts,
		Persons:    persons,
		Jwt:        jwt,
		Auth:       service.NewAuthService(accounts, persons, groups, tokens, jwt, kv, log),
		Account:    service.NewAccountService(accounts, persons, tokens, files, log),
		Group:      service.NewGroupService(groups, persons, accounts, log),
		Person:     service.NewPersonService(persons, files, log),
		Message:    service.NewMessageService(messages, persons, accounts, notifier, log),
		Multimedia: service.NewMultimediaService(media, albums, shares, persons, accounts, files, notifier, log),
		Call:       service.NewCallService(calls, persons, accounts, jitsi, notifier, log),
		Album:      service.NewAlbumService(albums, shares, persons, accounts, notifier, log),
		Nfc:        service.NewNfcService(nfcs, persons, albums, log),
	}, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics.Register(prometheus.DefaultRegisterer)
	updater := metrics.NewUpdater(accounts, groups, persons, calls, cfg.Metrics.UpdateInterval, log)
	go updater.Run(ctx)

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("amigo-server listening", zap.String("addr", cfg.HTTP.Addr))
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", zap.Error(err))
		}
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("graceful shutdown failed", zap.Error(err))
	}
}
