package main

import (
	"context"
	"log/slog"
	"os"

	"rentalhub/config"
	"rentalhub/internal/delivery"
	"rentalhub/internal/delivery/api"
	"rentalhub/internal/delivery/api/middleware"
	"rentalhub/internal/delivery/api/router/handler"
	"rentalhub/internal/infra/auth"
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

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
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
			auth.NewJWTService,
			idempotency.NewStore,
			qrcode.NewFromConfig,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewPolicyService,
			impl.NewPrivacyTypeService,
			impl.NewDiscountService,
			impl.NewOrderService,
			impl.NewAnalyticsService,
			impl.NewDeviceService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewPolicyHandler,
			handler.NewPrivacyTypeHandler,
			handler.NewDiscountHandler,
			handler.NewOrderHandler,
			handler.NewAnalyticsHandler,
			handler.NewDeviceHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
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
						os.Exit(1)
					}
				}()

				return nil
			},
		})
	}
}
