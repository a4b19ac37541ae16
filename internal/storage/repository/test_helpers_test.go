package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/grant-matching/internal/migrations"
	"github.com/magabrotheeeer/grant-matching/internal/models"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateAnnouncement создает объявление и возвращает его id
func (f *TestDataFactory) CreateAnnouncement(t *testing.T, title, organization, category, status string,
	applicationEnd *time.Time, applicationCount *int) string {
	var id string
	err := f.storage.DB.QueryRow(`INSERT INTO announcements
		(title, organization, category, status, application_end, application_count, tags, eligibility)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		title, organization, category, status, applicationEnd, applicationCount,
		pq.Array([]string{category, "테스트"}), `{"business_years":"7년 미만"}`).Scan(&id)
	require.NoError(t, err)
	return id
}

// SaveAnnouncement сохраняет объявление в список пользователя
func (f *TestDataFactory) SaveAnnouncement(t *testing.T, userID, announcementID, status string) string {
	var id string
	err := f.storage.DB.QueryRow(`INSERT INTO saved_announcements (user_id, announcement_id, status)
		VALUES ($1, $2, $3) RETURNING id`, userID, announcementID, status).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateGuestMatch создает лида и его список совпадений
func (f *TestDataFactory) CreateGuestMatch(t *testing.T, email string, items []models.GuestMatchItem) (leadID, matchID string) {
	err := f.storage.DB.QueryRow(`INSERT INTO guest_leads (email, company_name) VALUES ($1, $2) RETURNING id`,
		email, "테스트상사").Scan(&leadID)
	require.NoError(t, err)

	raw, err := json.Marshal(items)
	require.NoError(t, err)
	err = f.storage.DB.QueryRow(`INSERT INTO guest_matches (lead_id, matches) VALUES ($1, $2::jsonb) RETURNING id`,
		leadID, string(raw)).Scan(&matchID)
	require.NoError(t, err)
	return leadID, matchID
}

// CountRows возвращает число строк таблицы для пользователя
func (f *TestDataFactory) CountRows(t *testing.T, table, userID string) int {
	var n int
	err := f.storage.DB.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE user_id = $1", table), userID).Scan(&n)
	require.NoError(t, err)
	return n
}

func newUserID() string {
	return uuid.New().String()
}

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL и применяет миграции
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(3 * time.Minute),
	}

	postgresContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start container")

	host, err := postgresContainer.Host(ctx)
	require.NoError(t, err)
	port, err := postgresContainer.MappedPort(ctx, nat.Port("5432/tcp"))
	require.NoError(t, err, "failed to get port")

	connStr := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	var storage *Storage
	for range 10 {
		storage, err = New(ctx, connStr)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	path, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, path))

	t.Cleanup(func() {
		_ = storage.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})
	return storage
}
