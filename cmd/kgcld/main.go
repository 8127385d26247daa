// Command kgcld exposes the hybrid knowledge-graph evolution engine
// over HTTP, grounded on the echo.Context/JSON-response idiom shown
// throughout semantic/error_helpers.go, layered over
// eve.evalgo.org/kgcl/config's viper-backed loader.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"eve.evalgo.org/common"
	"eve.evalgo.org/db"
	kgconfig "eve.evalgo.org/kgcl/config"
	"eve.evalgo.org/kgcl/engine"
	"eve.evalgo.org/kgcl/eventlog/pgeventlog"
	"eve.evalgo.org/kgcl/mutate"
	"eve.evalgo.org/kgcl/reasoner/eyeproc"
	"eve.evalgo.org/kgcl/rules"
	"eve.evalgo.org/kgcl/store"
	"eve.evalgo.org/kgcl/store/cayleystore"
	"eve.evalgo.org/kgcl/store/memstore"
	"eve.evalgo.org/kgcl/txn"
	"eve.evalgo.org/kgcl/txn/boltsnapshot"
	"eve.evalgo.org/kgcl/txn/couchsnapshot"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg := kgconfig.Load()

	eng, err := buildEngine(cfg)
	if err != nil {
		common.Logger.WithError(err).Fatal("failed to build engine")
	}

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	h := &handler{engine: eng, maxTicks: cfg.MaxTicks}
	e.POST("/v1/data", h.loadData)
	e.POST("/v1/ticks", h.executeTick)
	e.POST("/v1/run", h.runToCompletion)
	e.POST("/v1/mutations", h.applyMutation)
	e.GET("/v1/state", h.inspect)
	e.POST("/v1/query", h.query)

	common.Logger.Info("kgcld listening on :8080")
	if err := e.Start(":8080"); err != nil {
		common.Logger.WithError(err).Fatal("server stopped")
	}
}

func buildEngine(cfg kgconfig.EngineConfig) (*engine.Engine, error) {
	s, err := buildStore(cfg)
	if err != nil {
		return nil, err
	}

	r := eyeproc.New(eyeproc.Config{
		EyePath: cfg.EyePath,
		Timeout: cfg.ReasonerTimeout,
	})

	rp := rules.NewLazy(func() (string, error) {
		data, err := os.ReadFile(cfg.RulesPath)
		if err != nil {
			return "", err
		}
		return string(data), nil
	})

	var opts []engine.Option
	if cfg.EventLogBackend == "postgres" && cfg.PostgresURL != "" {
		pgdb, err := db.NewPostgresDB(cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		pg := pgeventlog.New(pgdb)
		if err := pg.CreateTables(context.Background()); err != nil {
			return nil, err
		}
		opts = append(opts, engine.WithEventLog(pg))
	}

	eng, err := engine.New(context.Background(), s, r, rp, opts...)
	if err != nil {
		return nil, err
	}

	persister, err := buildSnapshotPersister(cfg)
	if err != nil {
		return nil, err
	}
	eng.Txn.Persister = persister

	return eng, nil
}

// buildStore selects the C1 RDF Store backend: "memory" (the default,
// memstore.Store) or "cayley" (cayleystore.Store, a BoltDB-backed
// durable graph).
func buildStore(cfg kgconfig.EngineConfig) (store.Store, error) {
	switch cfg.StoreBackend {
	case "", "memory":
		return memstore.New(), nil
	case "cayley":
		return cayleystore.Open(cfg.CayleyPath)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// buildSnapshotPersister selects the transaction manager's durable
// Persister: "none" (the default, in-process-only snapshots), "bolt",
// or "couch".
func buildSnapshotPersister(cfg kgconfig.EngineConfig) (txn.SnapshotPersister, error) {
	switch cfg.SnapshotBackend {
	case "", "none":
		return nil, nil
	case "bolt":
		return boltsnapshot.Open(cfg.BoltSnapshotPath)
	case "couch":
		return couchsnapshot.Open(context.Background(), cfg.CouchDBURL, cfg.CouchDBName)
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", cfg.SnapshotBackend)
	}
}

type handler struct {
	engine   *engine.Engine
	maxTicks int
}

func (h *handler) loadData(c echo.Context) error {
	var body struct {
		Turtle string `json:"turtle"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	n, err := h.engine.LoadData(c.Request().Context(), body.Turtle)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"triples_loaded": n})
}

func (h *handler) executeTick(c echo.Context) error {
	var body struct {
		TickNumber int `json:"tick_number"`
	}
	_ = c.Bind(&body)
	result, err := h.engine.ExecuteTick(c.Request().Context(), body.TickNumber)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *handler) runToCompletion(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Minute)
	defer cancel()
	results, err := h.engine.RunToCompletion(ctx, h.maxTicks)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"error":   err.Error(),
			"results": results,
		})
	}
	return c.JSON(http.StatusOK, results)
}

func (h *handler) applyMutation(c echo.Context) error {
	var m mutate.Mutation
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := h.engine.ApplyMutation(c.Request().Context(), m)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *handler) inspect(c echo.Context) error {
	triples, err := h.engine.Inspect(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, triples)
}

func (h *handler) query(c echo.Context) error {
	var body struct {
		SPARQL string `json:"sparql"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	bindings, err := h.engine.Query(c.Request().Context(), body.SPARQL)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(http.StatusOK, bindings)
}
