package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"

	goredis "github.com/go-redis/redis/v8"
	"golang.org/x/term"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dom/movie-catalog/internal/config"
	"github.com/dom/movie-catalog/internal/repository"
	"github.com/dom/movie-catalog/internal/repository/postgres"
	"github.com/dom/movie-catalog/internal/repository/redis"
)

type configKey struct{}

func loadConfig(ctx context.Context) (*config.Config, *slog.Logger, error) {
	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok {
		return nil, nil, errors.New("configuration resolution failed")
	}
	return cfg, slog.Default(), nil
}

// store owns the database and Redis handles behind the repositories.
type store struct {
	db    *gorm.DB
	redis *goredis.Client
	repos *repository.Repositories
}

func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	db, err := postgres.NewConnection(cfg.DatabaseURL, gormlogger.Warn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &store{
		db:    db,
		repos: postgres.NewRepositories(db),
	}

	if cfg.SessionBackend == config.SessionBackendRedis {
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, errors.Join(err, s.Close())
		}
		s.redis = client
		s.repos.Session = redis.NewSessionRepository(client)
	}

	return s, nil
}

func (s *store) Close() error {
	var errs []error
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	if sqlDB, err := s.db.DB(); err != nil {
		errs = append(errs, err)
	} else {
		errs = append(errs, sqlDB.Close())
	}
	return errors.Join(errs...)
}

// confirm asks a yes/no question on stderr and reads the answer from in.
// Only "y" or "yes" count as yes.
func confirm(in io.Reader, question string) (bool, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if _, err := os.Stderr.WriteString(question); err != nil {
			return false, err
		}
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown-dev"
	}
	ver := "unknown"
	dirty := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			ver = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if dirty {
		ver += "-dev"
	}
	return ver
}
