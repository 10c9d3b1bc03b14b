package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"vet-backoffice/internal/domain"
	"vet-backoffice/internal/domain/clients"
	"vet-backoffice/internal/domain/notifications"
	"vet-backoffice/internal/domain/reminders"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Integración contra un Postgres real. Opt-in: VET_INTEGRATION=1 y sin -short.
func setupIntegrationDB(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() || os.Getenv("VET_INTEGRATION") == "" {
		t.Skip("set VET_INTEGRATION=1 to run postgres integration tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "vet",
				"POSTGRES_PASSWORD": "vet",
				"POSTGRES_DB":       "vet",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://vet:vet@%s:%s/vet?sslmode=disable", host, port.Port())
	db, err := Open(ctx, dsn, PoolConfig{MaxOpenConns: 5})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(ctx, db))
	return db
}

func TestIntegration_ReminderSentAtMostOnce(t *testing.T) {
	db := setupIntegrationDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, NewClientsRepo(db).Create(ctx, clients.Client{
		ID: "c1", Name: "Ana", Email: "ana@example.com", Preference: clients.PreferenceEmail,
		CreatedAt: now, UpdatedAt: now,
	}))

	repo := NewRemindersRepo(db)
	require.NoError(t, repo.Create(ctx, reminders.Reminder{
		ID: "r1", ClientID: "c1", Category: reminders.CategoryAppointment,
		Title: "t", Message: "m", TargetAt: now.Add(24 * time.Hour), LeadDays: 1,
		Active: true, CreatedAt: now,
	}))

	tx := NewTxManager(db)

	// dos "pasadas" concurrentes compiten por el mismo recordatorio
	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = tx.RunInTx(ctx, func(ctx context.Context) error {
				if _, err := repo.LockPending(ctx, "r1"); err != nil {
					return err
				}
				return repo.MarkSent(ctx, "r1", time.Now())
			})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range results {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, reminders.ErrNotPending)
		}
	}
	assert.Equal(t, 1, ok)

	got, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, got.Sent)
	require.NotNil(t, got.SentAt)
}

func TestIntegration_DedupKeyIsUnique(t *testing.T) {
	db := setupIntegrationDB(t)
	ctx := context.Background()
	repo := NewNotificationsRepo(db)

	mk := func(id string) notifications.Notification {
		return notifications.Notification{
			ID: id, Recipient: notifications.ClientRecipient("c1"),
			Category: notifications.CategoryBirthday, Priority: notifications.PriorityNormal,
			Title: "t", Message: "m", DedupKey: "pet:p1:birthday:2024-06-15",
			CreatedAt: time.Now(),
		}
	}

	require.NoError(t, repo.CreateBatch(ctx, []notifications.Notification{mk("n1")}))
	err := repo.CreateBatch(ctx, []notifications.Notification{mk("n2")})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	// sin dedup_key no hay conflicto
	a, b := mk("n3"), mk("n4")
	a.DedupKey, b.DedupKey = "", ""
	require.NoError(t, repo.CreateBatch(ctx, []notifications.Notification{a, b}))
}
