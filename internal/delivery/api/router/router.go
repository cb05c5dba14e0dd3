// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"rentalhub/internal/delivery/api/middleware"
	"rentalhub/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	PolicyHandler      *handler.PolicyHandler
	PrivacyTypeHandler *handler.PrivacyTypeHandler
	DiscountHandler    *handler.DiscountHandler
	OrderHandler       *handler.OrderHandler
	AnalyticsHandler   *handler.AnalyticsHandler
	DeviceHandler      *handler.DeviceHandler
	AuthMiddleware     *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	policyHandler      *handler.PolicyHandler
	privacyTypeHandler *handler.PrivacyTypeHandler
	discountHandler    *handler.DiscountHandler
	orderHandler       *handler.OrderHandler
	analyticsHandler   *handler.AnalyticsHandler
	deviceHandler      *handler.DeviceHandler
	authMiddleware     *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		policyHandler:      params.PolicyHandler,
		privacyTypeHandler: params.PrivacyTypeHandler,
		discountHandler:    params.DiscountHandler,
		orderHandler:       params.OrderHandler,
		analyticsHandler:   params.AnalyticsHandler,
		deviceHandler:      params.DeviceHandler,
		authMiddleware:     params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// API v1 routes
	apiV1 := e.Group("/api/v1")
	apiV1.Use(r.authMiddleware.Authenticate) // All API v1 routes require authentication
	staff := r.authMiddleware.RequireStaff

	policiesGroup := apiV1.Group("/policies")
	{
		policiesGroup.GET("/active", r.policyHandler.GetActivePolicy)
		policiesGroup.GET("", r.policyHandler.ListPolicies, staff)
		policiesGroup.POST("", r.policyHandler.CreatePolicy, staff)
		policiesGroup.POST("/supersede", r.policyHandler.SupersedePolicy, staff)
		policiesGroup.GET("/:id", r.policyHandler.GetPolicy, staff)
		policiesGroup.POST("/:id/activate", r.policyHandler.ActivatePolicy, staff)
		policiesGroup.POST("/:id/deactivate", r.policyHandler.DeactivatePolicy, staff)
		policiesGroup.DELETE("/:id", r.policyHandler.DeletePolicy, staff)
	}

	apiV1.GET("/service-fee/active", r.policyHandler.GetServiceFeeRate)

	privacyTypesGroup := apiV1.Group("/privacy-types")
	{
		privacyTypesGroup.GET("", r.privacyTypeHandler.ListPrivacyTypes)
		privacyTypesGroup.POST("", r.privacyTypeHandler.CreatePrivacyType, staff)
		privacyTypesGroup.PATCH("/:id", r.privacyTypeHandler.SetPrivacyTypeActive, staff)
	}

	discountsGroup := apiV1.Group("/discounts")
	{
		discountsGroup.GET("/available", r.discountHandler.ListAvailable)
		discountsGroup.POST("/validate", r.discountHandler.ValidateDiscount)
		discountsGroup.GET("", r.discountHandler.ListDiscounts, staff)
		discountsGroup.POST("", r.discountHandler.CreateDiscount, staff)
		discountsGroup.GET("/:code", r.discountHandler.GetDiscount, staff)
	}

	ordersGroup := apiV1.Group("/orders")
	{
		ordersGroup.POST("", r.orderHandler.CreateOrder)
		ordersGroup.GET("", r.orderHandler.ListOrders)
		ordersGroup.POST("/handover/scan", r.orderHandler.ScanHandoverQR)
		ordersGroup.GET("/:id", r.orderHandler.GetOrder)
		ordersGroup.GET("/:id/history", r.orderHandler.GetOrderHistory)
		ordersGroup.GET("/:id/handover-qr", r.orderHandler.GetHandoverQR)
		ordersGroup.POST("/:id/transitions", r.orderHandler.TransitionOrder)

		// Outcomes reported by back-office collaborators
		ordersGroup.POST("/:id/dispute/resolve", r.orderHandler.ResolveDispute, staff)
		ordersGroup.PUT("/:id/contract", r.orderHandler.SetContractSigned, staff)
		ordersGroup.PUT("/:id/payment", r.orderHandler.RecordPayment, staff)
	}

	apiV1.GET("/owners/me/analytics", r.analyticsHandler.MyOwnerSummary)

	devicesGroup := apiV1.Group("/devices")
	{
		devicesGroup.POST("", r.deviceHandler.RegisterDevice)
		devicesGroup.GET("", r.deviceHandler.ListDevices)
		devicesGroup.DELETE("/:device_id", r.deviceHandler.DeactivateDevice)
	}
}
