package mog

import (
	"context"
	"fmt"

	moghttp "mog/internal/mog/adapter/http"
	"mog/internal/mog/adapter/persistence/mongodb"
	"mog/internal/mog/config"
	"mog/internal/mog/usecase"
	"mog/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// Open validates cfg, creates the driver client and wraps it in a Connection.
func Open(ctx context.Context, cfg config.Config, opts ...usecase.Option) (*usecase.Connection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := mongodb.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	conn, err := usecase.NewConnection(client, cfg, opts...)
	if err != nil {
		_ = client.Disconnect(ctx, true)
		return nil, fmt.Errorf("failed to create connection: %w", err)
	}
	return conn, nil
}

// Module bundles one Connection with the HTTP handler serving it.
type Module struct {
	conn    *usecase.Connection
	handler *moghttp.Handler
	log     logger.Logger
}

// NewModule opens a Connection for cfg and prepares its HTTP handler.
func NewModule(ctx context.Context, cfg *config.Config, log logger.Logger, opts ...usecase.Option) (*Module, error) {
	conn, err := Open(ctx, *cfg, opts...)
	if err != nil {
		return nil, err
	}
	return newModule(conn, log), nil
}

func newModule(conn *usecase.Connection, log logger.Logger) *Module {
	return &Module{
		conn:    conn,
		handler: moghttp.NewHandler(moghttp.NewConnectionGateway(conn), log),
		log:     log.WithComponent("mog"),
	}
}

// Connection returns the module's connection.
func (m *Module) Connection() *usecase.Connection {
	return m.conn
}

// Handler returns the HTTP handler.
func (m *Module) Handler() *moghttp.Handler {
	return m.handler
}

// RegisterRoutes registers the gateway routes with router.
func (m *Module) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	m.handler.RegisterRoutes(router, guards...)
}

// Stop kills the connection, waiting for in-flight operations unless ctx expires.
func (m *Module) Stop(ctx context.Context) error {
	if err := m.conn.Kill(ctx, false); err != nil {
		m.log.Errorf("Failed to close store client: %v", err)
		return err
	}
	m.log.Info("Store connection closed")
	return nil
}
