package main

import (
	"context"
	"log/slog"
	"os"

	"rentalhub/config"
	"rentalhub/internal/delivery"
	"rentalhub/internal/delivery/worker"
	"rentalhub/internal/delivery/worker/handler"
	"rentalhub/internal/infra/idempotency"
	logs "rentalhub/internal/infra/log"
	"rentalhub/internal/infra/persistence"
	"rentalhub/internal/infra/pubsub"
	"rentalhub/internal/infra/qrcode"
	"rentalhub/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectService(),
		injectUsecase(),
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
		),
		persistence.Module,
		pubsub.Module,
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			idempotency.NewStore,
			qrcode.NewFromConfig,
			notification.NewNotificationService,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewOrderService,
			impl.NewNotificationService,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewPushHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				worker.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		params.Append(fx.Hook{
			OnStart: func(context.Context) error {
				go func() {
					if err := delivery.Serve(ctx); err != nil {
						slog.Error("Failed to start server", slog.Any("error", err))

						// Trigger graceful shutdown to execute all OnStop hooks
						if shutdownErr := params.Shutdown(); shutdownErr != nil {
							slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
							os.Exit(1)
						}
					}
				}()

				return nil
			},
		})
	}
}
