//go:build integration

package postgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/BOBWANDATI/backend/internal/domain"
	"github.com/BOBWANDATI/backend/pkg/e"
	"github.com/BOBWANDATI/backend/pkg/geo"
)

var (
	testPool *pgxpool.Pool
	tc       testcontainers.Container
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	user := "postgres"
	pass := "postgres"
	db := "postgres"

	req := testcontainers.ContainerRequest{
		Image:        "postgis/postgis:16-3.4-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": pass,
			"POSTGRES_DB":       db,
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(90 * time.Second),
	}

	var err error
	tc, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		fmt.Println("cannot start container:", err)
		os.Exit(1)
	}

	host, _ := tc.Host(ctx)
	mappedPort, _ := tc.MappedPort(ctx, "5432/tcp")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, pass, host, mappedPort.Port(), db)

	testPool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		fmt.Println("pgxpool.New:", err)
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	if err := testPool.Ping(ctx); err != nil {
		fmt.Println("pool.Ping:", err)
		testPool.Close()
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	if err := Migrate(ctx, testPool); err != nil {
		fmt.Println("migrate:", err)
		testPool.Close()
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	code := m.Run()

	testPool.Close()
	_ = tc.Terminate(ctx)
	os.Exit(code)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func truncateAll(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(),
		`TRUNCATE TABLE incidents, admins, discussions, discussion_messages CASCADE`)
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
}

func newIncident() *domain.Incident {
	return &domain.Incident{
		IncidentType: "flooding",
		Location:     geo.Point{Lng: 36.817, Lat: -1.283},
		LocationName: "Nairobi CBD",
		Description:  "road submerged",
		Urgency:      "high",
		Reporter:     domain.ReporterAnonymous,
	}
}

func TestIncidentRepo_Create_SetsDefaults(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	repo := NewIncidentRepo(testPool, testLogger())

	inc := newIncident()
	if err := repo.Create(ctx, inc); err != nil {
		t.Fatalf("create: %v", err)
	}
	if inc.ID == uuid.Nil {
		t.Fatalf("id not generated")
	}
	if inc.Status != domain.StatusPending {
		t.Fatalf("expected pending default, got %q", inc.Status)
	}
	if inc.Date.IsZero() || inc.CreatedAt.IsZero() {
		t.Fatalf("timestamps not defaulted: %+v", inc)
	}
}

func TestIncidentRepo_Get_RoundTripsCoordinates(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	repo := NewIncidentRepo(testPool, testLogger())

	inc := newIncident()
	if err := repo.Create(ctx, inc); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.Get(ctx, inc.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Location.Lng != inc.Location.Lng || got.Location.Lat != inc.Location.Lat {
		t.Fatalf("coordinates mangled: stored=%+v read=%+v", inc.Location, got.Location)
	}
	if got.Reporter != domain.ReporterAnonymous {
		t.Fatalf("reporter mismatch: %q", got.Reporter)
	}
}

func TestIncidentRepo_ListAll_NewestFirst(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	repo := NewIncidentRepo(testPool, testLogger())

	older := newIncident()
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	if err := repo.Create(ctx, older); err != nil {
		t.Fatalf("create older: %v", err)
	}

	newer := newIncident()
	if err := repo.Create(ctx, newer); err != nil {
		t.Fatalf("create newer: %v", err)
	}

	incidents, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(incidents) != 2 {
		t.Fatalf("expected 2 incidents, got %d", len(incidents))
	}
	if incidents[0].ID != newer.ID {
		t.Fatalf("expected newest first, got %s", incidents[0].ID)
	}
}

func TestIncidentRepo_UpdateStatus(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	repo := NewIncidentRepo(testPool, testLogger())

	inc := newIncident()
	if err := repo.Create(ctx, inc); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.UpdateStatus(ctx, inc.ID, domain.StatusEscalated); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.Get(ctx, inc.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.StatusEscalated {
		t.Fatalf("expected escalated, got %q", got.Status)
	}

	if err := repo.UpdateStatus(ctx, uuid.New(), domain.StatusResolved); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestIncidentRepo_Delete(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	repo := NewIncidentRepo(testPool, testLogger())

	inc := newIncident()
	if err := repo.Create(ctx, inc); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.Delete(ctx, inc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, inc.ID); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, inc.ID); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func newAdmin(username string, role domain.AdminRole) *domain.Admin {
	return &domain.Admin{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Role:         role,
		Approved:     role == domain.RoleSuper,
	}
}

func TestAdminRepo_UniqueUsername(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	repo := NewAdminRepo(testPool, testLogger())

	if err := repo.Create(ctx, newAdmin("wanjiku", domain.RoleAdmin)); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Same username, different role: still rejected.
	err := repo.Create(ctx, newAdmin("wanjiku", domain.RoleSuper))
	if !errors.Is(err, e.ErrUniqueViolation) {
		t.Fatalf("expected ErrUniqueViolation, got %v", err)
	}
}

func TestAdminRepo_SetApproved_Idempotence(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	repo := NewAdminRepo(testPool, testLogger())

	admin := newAdmin("wanjiku", domain.RoleAdmin)
	if err := repo.Create(ctx, admin); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.SetApproved(ctx, admin.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	// Second approval matches zero unapproved rows.
	if err := repo.SetApproved(ctx, admin.ID); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second approval, got %v", err)
	}

	got, err := repo.GetByID(ctx, admin.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Approved {
		t.Fatalf("expected approved")
	}
}

func TestAdminRepo_GetByUsernameAndRole(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	repo := NewAdminRepo(testPool, testLogger())

	admin := newAdmin("wanjiku", domain.RoleAdmin)
	if err := repo.Create(ctx, admin); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := repo.GetByUsernameAndRole(ctx, "wanjiku", domain.RoleAdmin); err != nil {
		t.Fatalf("expected hit, got %v", err)
	}
	if _, err := repo.GetByUsernameAndRole(ctx, "wanjiku", domain.RoleSuper); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrong role, got %v", err)
	}
}

func TestAdminRepo_ListApprovedSupers(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	repo := NewAdminRepo(testPool, testLogger())

	if err := repo.Create(ctx, newAdmin("root1", domain.RoleSuper)); err != nil {
		t.Fatalf("create super: %v", err)
	}
	if err := repo.Create(ctx, newAdmin("wanjiku", domain.RoleAdmin)); err != nil {
		t.Fatalf("create admin: %v", err)
	}

	supers, err := repo.ListApprovedSupers(ctx)
	if err != nil {
		t.Fatalf("list supers: %v", err)
	}
	if len(supers) != 1 || supers[0].Username != "root1" {
		t.Fatalf("unexpected supers: %+v", supers)
	}

	count, err := repo.CountByRole(ctx, domain.RoleSuper)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 super, got %d", count)
	}
}

func TestDiscussionRepo_Lifecycle(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	repo := NewDiscussionRepo(testPool, testLogger())

	d := &domain.Discussion{
		ID:           uuid.New(),
		Title:        "Street lighting",
		Location:     "Nairobi CBD",
		Category:     "Infrastructure",
		Participants: 1,
		Messages:     []domain.Message{{Text: "Lights are out.", Sender: "resident-42"}},
	}
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("create: %v", err)
	}

	count, err := repo.AddMessage(ctx, d.ID, &domain.Message{Text: "Same here.", Sender: "resident-7"})
	if err != nil {
		t.Fatalf("add message: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected participants=2, got %d", count)
	}

	got, err := repo.Get(ctx, d.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got.Messages))
	}
	if got.Messages[0].Text != "Lights are out." {
		t.Fatalf("messages out of order: %+v", got.Messages)
	}

	if _, err := repo.AddMessage(ctx, uuid.New(), &domain.Message{Text: "void", Sender: "x"}); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown discussion, got %v", err)
	}

	if err := repo.Delete(ctx, d.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var orphanMessages int
	if err := testPool.QueryRow(ctx,
		`SELECT COUNT(*) FROM discussion_messages WHERE discussion_id = $1`, d.ID).
		Scan(&orphanMessages); err != nil {
		t.Fatalf("count messages: %v", err)
	}
	if orphanMessages != 0 {
		t.Fatalf("messages survived discussion delete: %d", orphanMessages)
	}
}

func TestStatsRepo_Aggregates(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	incidents := NewIncidentRepo(testPool, testLogger())
	stats := NewStatsRepo(testPool, testLogger())

	for _, status := range []domain.IncidentStatus{
		domain.StatusPending, domain.StatusPending, domain.StatusResolved,
	} {
		inc := newIncident()
		inc.Status = status
		if err := incidents.Create(ctx, inc); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	byStatus, err := stats.CountsByStatus(ctx)
	if err != nil {
		t.Fatalf("counts by status: %v", err)
	}
	counts := map[domain.IncidentStatus]int64{}
	for _, c := range byStatus {
		counts[c.Status] = c.Count
	}
	if counts[domain.StatusPending] != 2 || counts[domain.StatusResolved] != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}

	daily, err := stats.DailyCounts(ctx)
	if err != nil {
		t.Fatalf("daily counts: %v", err)
	}
	var total int64
	for _, d := range daily {
		total += d.Count
	}
	if total != 3 {
		t.Fatalf("expected 3 incidents across days, got %d", total)
	}

	top, err := stats.TopLocations(ctx, 5)
	if err != nil {
		t.Fatalf("top locations: %v", err)
	}
	if len(top) != 1 || top[0].Location != "Nairobi CBD" || top[0].Count != 3 {
		t.Fatalf("unexpected top locations: %+v", top)
	}

	if _, err := stats.TopLocations(ctx, 0); !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for limit 0, got %v", err)
	}
}
