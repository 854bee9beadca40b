package sqlstore_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-apicall/core"
	sqlstore "github.com/goliatone/go-apicall/store/sql"

	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
)

type invoiceRecord struct {
	bun.BaseModel `bun:"table:test_invoices,alias:ti"`

	ID     string `bun:"id,pk"`
	Status string `bun:"status,notnull"`
	Amount int    `bun:"amount,notnull"`
}

func TestSession_AppliesStagedWritesOnSave(t *testing.T) {
	ctx := context.Background()
	client, cleanup := newSQLiteClient(t)
	defer cleanup()
	createInvoiceTable(t, client.DB())

	session, err := sqlstore.NewSession(client.DB())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	session.Insert(&invoiceRecord{ID: "inv_1", Status: "open", Amount: 10})
	session.Insert(&invoiceRecord{ID: "inv_2", Status: "open", Amount: 20})
	session.Update(&invoiceRecord{ID: "inv_1", Status: "paid"}, "status")
	session.Delete(&invoiceRecord{ID: "inv_2"})
	session.Exec("UPDATE test_invoices SET amount = amount + ? WHERE id = ?", 5, "inv_1")

	if got := countInvoices(t, client.DB()); got != 0 {
		t.Fatalf("expected nothing written before SaveChanges, got %d rows", got)
	}
	if session.Pending() != 5 {
		t.Fatalf("expected 5 staged writes, got %d", session.Pending())
	}

	if err := session.SaveChanges(ctx); err != nil {
		t.Fatalf("save changes: %v", err)
	}
	if session.Pending() != 0 {
		t.Fatalf("expected staged writes to be cleared")
	}

	var stored invoiceRecord
	if err := client.DB().NewSelect().Model(&stored).Where("id = ?", "inv_1").Scan(ctx); err != nil {
		t.Fatalf("load invoice: %v", err)
	}
	if stored.Status != "paid" || stored.Amount != 15 {
		t.Fatalf("unexpected stored invoice %#v", stored)
	}
	if got := countInvoices(t, client.DB()); got != 1 {
		t.Fatalf("expected one surviving invoice, got %d", got)
	}
}

func TestSession_RollsBackOnFailedWrite(t *testing.T) {
	ctx := context.Background()
	client, cleanup := newSQLiteClient(t)
	defer cleanup()
	createInvoiceTable(t, client.DB())

	session, err := sqlstore.NewSession(client.DB())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	boom := errors.New("ledger locked")
	session.Insert(&invoiceRecord{ID: "inv_1", Status: "open", Amount: 10})
	session.Stage(func(context.Context, bun.IDB) error { return boom })

	err = session.SaveChanges(ctx)
	if !errors.Is(err, boom) {
		t.Fatalf("expected staged write error, got %v", err)
	}
	if got := countInvoices(t, client.DB()); got != 0 {
		t.Fatalf("expected rollback, got %d rows", got)
	}
	if session.Pending() != 0 {
		t.Fatalf("expected staged writes to be cleared after rollback")
	}
	if err := session.SaveChanges(ctx); err != nil {
		t.Fatalf("expected empty save to succeed, got %v", err)
	}
}

func TestSession_DrivesPipelineCommit(t *testing.T) {
	ctx := context.Background()
	client, cleanup := newSQLiteClient(t)
	defer cleanup()
	createInvoiceTable(t, client.DB())

	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client)
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	session, err := factory.NewSession()
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	runtime, err := core.NewRuntime(core.Config{ServiceName: "billing"}, core.WithObserver(factory.JournalStore()))
	if err != nil {
		t.Fatalf("runtime: %v", err)
	}

	var completed []string
	action, err := core.NewAction2[*sqlstore.Session, string, int, core.RequestContext](
		runtime,
		session,
		core.ActionDef2[*sqlstore.Session, string, int, core.RequestContext]{
			Stage: func(_ context.Context, unit *sqlstore.Session, id string, amount int, _ core.RequestContext) error {
				unit.Insert(&invoiceRecord{ID: id, Status: "open", Amount: amount})
				return nil
			},
			OnCommitCompleted: func(_ context.Context, id string, _ int, _ core.RequestContext) error {
				completed = append(completed, id)
				return nil
			},
		},
		core.WithName("OpenInvoice"),
	)
	if err != nil {
		t.Fatalf("action: %v", err)
	}

	callCtx := core.RequestContext{Caller: "user_1", Correlation: "corr_1"}
	if err := action.Invoke(ctx, "inv_1", 40, callCtx); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if err := action.Invoke(ctx, "inv_1", 40, callCtx); err == nil {
		t.Fatalf("expected duplicate primary key to fail at commit")
	}

	if len(completed) != 1 || completed[0] != "inv_1" {
		t.Fatalf("expected one completed hook, got %#v", completed)
	}
	if got := countInvoices(t, client.DB()); got != 1 {
		t.Fatalf("expected one invoice row, got %d", got)
	}

	entries, err := factory.JournalStore().List(ctx, "OpenInvoice", 10)
	if err != nil {
		t.Fatalf("list journal: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected two journal entries, got %d", len(entries))
	}
	phases := map[core.Phase]int{}
	for _, entry := range entries {
		phases[entry.Phase]++
		if entry.CallerID != "user_1" || entry.CorrelationID != "corr_1" {
			t.Fatalf("unexpected journal caller %#v", entry)
		}
	}
	if phases[core.PhaseCommitted] != 1 || phases[core.PhaseCommit] != 1 {
		t.Fatalf("expected one committed and one commit failure, got %#v", phases)
	}
}

func TestSession_ConcurrentStaging(t *testing.T) {
	ctx := context.Background()
	client, cleanup := newSQLiteClient(t)
	defer cleanup()
	createInvoiceTable(t, client.DB())

	session, err := sqlstore.NewSession(client.DB())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			session.Insert(&invoiceRecord{ID: fmt.Sprintf("inv_%02d", i), Status: "open", Amount: i})
		}(i)
	}
	wg.Wait()
	if err := session.SaveChanges(ctx); err != nil {
		t.Fatalf("save changes: %v", err)
	}
	if got := countInvoices(t, client.DB()); got != 20 {
		t.Fatalf("expected 20 invoices, got %d", got)
	}
}

func TestNewSession_RequiresDB(t *testing.T) {
	if _, err := sqlstore.NewSession(nil); err == nil {
		t.Fatalf("expected nil db to be rejected")
	}
}

func createInvoiceTable(t *testing.T, db *bun.DB) {
	t.Helper()
	if _, err := db.NewCreateTable().Model((*invoiceRecord)(nil)).IfNotExists().Exec(context.Background()); err != nil {
		t.Fatalf("create invoice table: %v", err)
	}
}

func countInvoices(t *testing.T, db *bun.DB) int {
	t.Helper()
	count, err := db.NewSelect().Model((*invoiceRecord)(nil)).Count(context.Background())
	if err != nil {
		t.Fatalf("count invoices: %v", err)
	}
	return count
}

func newSQLiteClient(t *testing.T) (*persistence.Client, func()) {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:apicall-test-%d?mode=memory&cache=shared&_foreign_keys=on",
		time.Now().UnixNano(),
	)
	client, err := sqlstore.Open(context.Background(), sqlstore.Config{
		Driver:  sqlstore.DriverSQLite,
		DSN:     dsn,
		Migrate: true,
	})
	if err != nil {
		t.Fatalf("open sqlite client: %v", err)
	}
	return client, func() {
		_ = client.Close()
	}
}
