package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/workplan/internal/calc"
	"github.com/alexanderramin/workplan/internal/db"
	"github.com/alexanderramin/workplan/internal/domain"
	"github.com/alexanderramin/workplan/internal/repository"
	"github.com/alexanderramin/workplan/internal/testutil"
)

// harness wires every service over one in-memory database seeded with the
// standard cmd > bda > btl > cia hierarchy and one operation in which cia
// has a ceiling of 10000.
type harness struct {
	db        *sql.DB
	logs      *bytes.Buffer
	observer  *recordingObserver
	op        *domain.Operation
	orgs      OrgService
	plans     PlanService
	workflow  WorkflowService
	budget    BudgetService
	importer  ImportService
	planRepo  *repository.SQLitePlanRepo
	decisions *repository.SQLiteDecisionRepo
}

func newHarness(t *testing.T, overrideActors ...string) *harness {
	t.Helper()
	return seedHarness(t, testutil.NewTestDB(t), overrideActors)
}

// newFileHarness is newHarness over a file-backed database, whose pool holds
// several connections that can race each other.
func newFileHarness(t *testing.T) *harness {
	t.Helper()
	database, err := db.OpenDB(filepath.Join(t.TempDir(), "workplan.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return seedHarness(t, database, nil)
}

func seedHarness(t *testing.T, database *sql.DB, overrideActors []string) *harness {
	t.Helper()
	testutil.SeedOrgs(t, database, testutil.StandardHierarchy()...)

	op := testutil.NewTestOperation("bda",
		testutil.WithHeadcount(50),
		testutil.WithParticipant("cia", "10000"),
		testutil.WithParticipant("btl", "20000"),
	)
	require.NoError(t, repository.NewSQLiteOperationRepo(database).Create(context.Background(), op))

	return buildHarness(database, testutil.NewTestUoW(database), op, overrideActors)
}

// withUoW returns services over the same database and operation whose writes
// go through uow.
func (h *harness) withUoW(uow db.UnitOfWork) *harness {
	return buildHarness(h.db, uow, h.op, nil)
}

func buildHarness(database *sql.DB, uow db.UnitOfWork, op *domain.Operation, overrideActors []string) *harness {
	logs := &bytes.Buffer{}
	logger := zerolog.New(zerolog.SyncWriter(logs)).Level(zerolog.DebugLevel)
	obs := &recordingObserver{}

	orgRepo := repository.NewSQLiteOrgRepo(database)
	opRepo := repository.NewSQLiteOperationRepo(database)
	planRepo := repository.NewSQLitePlanRepo(database)
	decisionRepo := repository.NewSQLiteDecisionRepo(database)

	return &harness{
		db:        database,
		logs:      logs,
		observer:  obs,
		op:        op,
		orgs:      NewOrgService(orgRepo),
		plans:     NewPlanService(planRepo, opRepo, uow, calc.NewEngine(calc.DefaultCatalog()), logger, obs),
		workflow:  NewWorkflowService(planRepo, decisionRepo, orgRepo, uow, overrideActors, logger, obs),
		budget:    NewBudgetService(opRepo, planRepo),
		importer:  NewImportService(uow, logger, obs),
		planRepo:  planRepo,
		decisions: decisionRepo,
	}
}

func (h *harness) draft(t *testing.T, orgID string) *domain.Plan {
	t.Helper()
	plan, err := h.plans.Create(context.Background(), CreatePlanRequest{
		OperationID: h.op.ID, OrgID: orgID, Title: "Plano " + orgID, CreatedBy: "sgt",
	})
	require.NoError(t, err)
	return plan
}

// uncataloged adds a class X line of the given amount to plan.
func (h *harness) uncataloged(t *testing.T, planID string, amount string, shares ...domain.Share) *domain.Expense {
	t.Helper()
	e, err := h.plans.AddExpense(context.Background(), ExpenseRequest{
		PlanID:    planID,
		Class:     domain.ClassX,
		Params:    uncatalogedParams(amount),
		OrgShares: shares,
	})
	require.NoError(t, err)
	return e
}

func uncatalogedParams(amount string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(
		`{"items":[{"description":"Gerador","quantity":1,"unit_price":%s,"justification":"Sem similar catalogado"}]}`, amount))
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) names() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, 0, len(o.events))
	for _, e := range o.events {
		out = append(out, e.Name)
	}
	return out
}
