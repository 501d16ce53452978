package fit

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/arthurssouza42/fit/internal/app"
	"github.com/arthurssouza42/fit/internal/catalog"
	"github.com/arthurssouza42/fit/internal/db"
	"github.com/arthurssouza42/fit/internal/logger"
	"github.com/arthurssouza42/fit/internal/model"
	"github.com/arthurssouza42/fit/internal/service"
)

// runtime is what a command needs once flags, environment, stored settings
// and the config file have been merged.
type runtime struct {
	cfg    app.Config
	db     *sql.DB
	dbPath string
	log    *zap.Logger
}

func withRuntime(run func(*runtime) error) error {
	if err := app.LoadDotEnv(); err != nil {
		return err
	}
	cfg := app.Defaults()
	cfgPath, explicit, err := resolveConfigPath()
	if err != nil {
		return err
	}
	if err := app.ReadConfigFile(&cfg, cfgPath, explicit); err != nil {
		return err
	}

	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return err
	}
	sqldb, err := db.OpenAndMigrate(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	stored, err := service.ListConfig(sqldb)
	if err != nil {
		return err
	}
	if err := cfg.ApplyValues(stored); err != nil {
		return fmt.Errorf("stored config: %w", err)
	}
	if err := cfg.ApplyEnv(nil); err != nil {
		return err
	}
	if err := applyFlags(&cfg); err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	log.Debug("config resolved",
		zap.String("db", path),
		zap.String("config", cfgPath),
		zap.String("catalog", cfg.Catalog.Path),
		zap.String("backend", cfg.Storage.Backend),
	)
	return run(&runtime{cfg: cfg, db: sqldb, dbPath: path, log: log})
}

func applyFlags(cfg *app.Config) error {
	if catalogPath != "" {
		cfg.Catalog.Path = catalogPath
	}
	if backendName != "" {
		if err := cfg.Set(service.ConfigStorageBackend, backendName); err != nil {
			return err
		}
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return nil
}

func resolveDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	if v := strings.TrimSpace(os.Getenv(app.EnvDB)); v != "" {
		return v, nil
	}
	return app.DefaultDBPath()
}

func resolveConfigPath() (string, bool, error) {
	if configPath != "" {
		return configPath, true, nil
	}
	if v := strings.TrimSpace(os.Getenv(app.EnvConfig)); v != "" {
		return v, true, nil
	}
	path, err := app.DefaultConfigPath()
	return path, false, err
}

func (r *runtime) logPath() (string, error) {
	if r.cfg.Storage.LogPath != "" {
		return r.cfg.Storage.LogPath, nil
	}
	return app.DefaultLogPath()
}

func (r *runtime) backend() (service.Backend, error) {
	if r.cfg.Storage.Backend == app.BackendCSV {
		path, err := r.logPath()
		if err != nil {
			return nil, err
		}
		return service.NewCSVBackend(path, service.DefaultLogDelimiter), nil
	}
	return service.NewSQLiteBackend(r.db), nil
}

func (r *runtime) openDiary() (*service.Diary, error) {
	backend, err := r.backend()
	if err != nil {
		return nil, err
	}
	return service.OpenDiary(backend, r.log)
}

var (
	catalogSourcesMu sync.Mutex
	catalogSources   = map[string]*catalog.Source{}
)

// loadCatalog reuses the parsed reference table while the file is unchanged.
func (r *runtime) loadCatalog() (*catalog.Catalog, error) {
	delim, err := app.ParseDelimiter(r.cfg.Catalog.Delimiter)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%s|%q", r.cfg.Catalog.Path, delim)
	catalogSourcesMu.Lock()
	src, ok := catalogSources[key]
	if !ok {
		src = catalog.NewSource(r.cfg.Catalog.Path, catalog.Options{Delimiter: delim, Logger: r.log})
		catalogSources[key] = src
	}
	catalogSourcesMu.Unlock()
	return src.Catalog()
}

func (r *runtime) resolver() (*catalog.Resolver, error) {
	cat, err := r.loadCatalog()
	if err != nil {
		return nil, err
	}
	return catalog.NewResolver(cat, r.cfg.Search.FuzzyThreshold), nil
}

// targets returns the stored targets for date, falling back to the
// configured defaults.
func (r *runtime) targets(date model.Date) (model.Targets, bool, error) {
	t, ok, err := service.CurrentTargets(r.db, date)
	if err != nil {
		return model.Targets{}, false, err
	}
	if !ok {
		return r.cfg.Targets.Targets(), false, nil
	}
	return t, true, nil
}

func parseInt64Arg(name, value string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be > 0", name)
	}
	return v, nil
}

func parseDateOrToday(value string) (model.Date, error) {
	if strings.TrimSpace(value) == "" {
		return model.Today(), nil
	}
	d, err := model.ParseDate(value)
	if err != nil {
		return "", fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", value)
	}
	return d, nil
}

func parseMealFlag(value string) (model.Meal, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return model.ParseMeal(value)
}

func describeError(err error) string {
	var (
		validErr   *service.ValidationError
		persistErr *service.PersistenceError
	)
	switch {
	case errors.As(err, &validErr):
		return "invalid input: " + validErr.Error()
	case errors.As(err, &persistErr):
		return "warning: " + persistErr.Error()
	}
	return err.Error()
}
