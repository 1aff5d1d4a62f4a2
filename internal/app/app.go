package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/orderdesk/internal/config"
	"github.com/polkiloo/orderdesk/internal/domain/repository"
	"github.com/polkiloo/orderdesk/internal/notify"
	"github.com/polkiloo/orderdesk/internal/reconcile"
	"github.com/polkiloo/orderdesk/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		newReconciler,
		func(r *reconcile.Reconciler) Pipeline { return r },
		NewOrderDesk,
		newHTTPServer,
		newEventDispatcher,
	),
	fx.Invoke(registerLifecycle),
)

type reconcilerParams struct {
	fx.In

	Store   repository.Store
	Cache   reconcile.SeenCache
	Metrics reconcile.Metrics
	Config  *config.Config
	Logger  *slog.Logger
}

func newReconciler(p reconcilerParams) *reconcile.Reconciler {
	return reconcile.NewReconciler(p.Store, p.Cache, p.Metrics, reconcile.Options{
		DefaultUnit:     p.Config.DefaultUnit,
		DefaultCurrency: p.Config.DefaultCurrency,
		RenewalCues:     p.Config.RenewalCues,
		RenewalFloor:    p.Config.RenewalConfidenceFloor,
		IncompleteCap:   p.Config.IncompleteConfidenceCap,
		PhoneRegion:     p.Config.PhoneRegion,
	}, p.Logger)
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type workerParams struct {
	fx.In

	Store      repository.Store
	Dispatcher notify.Dispatcher
	Metrics    worker.DeliveryMetrics
	Config     *config.Config
	Logger     *slog.Logger
}

func newEventDispatcher(p workerParams) *worker.EventDispatcher {
	return worker.NewEventDispatcher(p.Store.Events(), p.Dispatcher, p.Metrics, worker.Settings{
		PollInterval: p.Config.EventPollInterval,
		BatchSize:    p.Config.EventBatchSize,
		Workers:      p.Config.WorkerPoolSize,
		MaxAttempts:  p.Config.EventMaxAttempts,
	}, p.Logger)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Worker     *worker.EventDispatcher
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting orderdesk", slog.String("addr", p.Server.Addr))
			// the start context is canceled once startup completes
			p.Worker.Start(context.WithoutCancel(ctx))
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Worker.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("orderdesk stopped")
			return nil
		},
	})
}
