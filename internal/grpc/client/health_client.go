// Package client содержит gRPC-клиент проверки здоровья сервиса.
package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthClient опрашивает службу grpc.health.v1.Health.
type HealthClient struct {
	conn   *grpc.ClientConn
	client healthpb.HealthClient
}

// NewHealthClient создаёт клиента. Без опций используется незашифрованное соединение:
// сервер доступен только во внутренней сети.
func NewHealthClient(addr string, opts ...grpc.DialOption) (*HealthClient, error) {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("client.NewHealthClient: %w", err)
	}
	return &HealthClient{conn: conn, client: healthpb.NewHealthClient(conn)}, nil
}

// Close закрывает соединение.
func (c *HealthClient) Close() error {
	return c.conn.Close()
}

// Check возвращает статус службы service; пустое имя означает общий статус.
func (c *HealthClient) Check(ctx context.Context, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := c.client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}
