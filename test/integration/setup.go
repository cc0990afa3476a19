package integration

import (
	"context"
	"testing"
	"time"

	"bank-offers/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const testAPIKey = "test-api-key"

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container with the offer schema migrated.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.Migrate(ctx, pool, database.Up, zerolog.Nop()); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// CleanupDB removes every offer.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	if _, err := pool.Exec(context.Background(), "TRUNCATE TABLE offers RESTART IDENTITY"); err != nil {
		t.Logf("failed to clean offers table: %v", err)
	}
}

// sampleDocument is an upstream response in the top-level "offers" shape.
const sampleDocument = `{
	"offers": [
		{"id": "AXIS_CC_10", "title": "10% off on Axis credit cards", "bankName": "axis",
		 "discountType": "percentage", "discountValue": 10, "minAmount": 1000, "maxDiscount": 300,
		 "paymentInstruments": ["CREDIT"]},
		{"id": "AXIS_FLAT_150", "title": "Flat 150 off", "bankName": "AXIS",
		 "discountType": "flat", "discountValue": 150, "minAmount": 500},
		{"id": "AXIS_UPI_CB", "title": "Cashback on UPI", "bank": "Axis",
		 "type": "cashback", "value": "75", "instruments": ["UPI"]},
		{"id": "HDFC_EMI_5", "title": "5% off on EMI", "bankName": "hdfc",
		 "discountValue": 5, "paymentInstruments": ["EMI_OPTIONS"]},
		{"id": "", "title": "broken entry", "bankName": "axis", "discountValue": 10}
	]
}`
