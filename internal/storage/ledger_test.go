package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	ledger, err := OpenLedger(filepath.Join(t.TempDir(), "ingest.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ledger.Close() })
	return ledger
}

func TestLedger_RunLifecycle(t *testing.T) {
	ledger := openTestLedger(t)
	ctx := context.Background()

	id, err := ledger.StartRun(ctx, "dumps/enwiki-latest.xml.bz2")
	if err != nil {
		t.Fatal(err)
	}

	run, err := ledger.GetRun(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if run.Source != "dumps/enwiki-latest.xml.bz2" {
		t.Errorf("source: %s", run.Source)
	}
	if run.FinishedAt != nil {
		t.Error("run should not be finished yet")
	}

	if err := ledger.FinishRun(ctx, id, 100, 80, 15, 5, ""); err != nil {
		t.Fatal(err)
	}
	run, _ = ledger.GetRun(ctx, id)
	if run.FinishedAt == nil {
		t.Error("run should be finished")
	}
	if run.PagesRead != 100 || run.Indexed != 80 || run.Dropped != 15 || run.Failed != 5 {
		t.Errorf("counters: %+v", run)
	}
}

func TestLedger_FinishUnknownRun(t *testing.T) {
	ledger := openTestLedger(t)
	if err := ledger.FinishRun(context.Background(), "no-such-run", 0, 0, 0, 0, ""); err == nil {
		t.Error("expected error for unknown run")
	}
}

func TestLedger_RecordDrops(t *testing.T) {
	ledger := openTestLedger(t)
	ctx := context.Background()

	id, err := ledger.StartRun(ctx, "dump.xml")
	if err != nil {
		t.Fatal(err)
	}

	drops := []DroppedPage{
		{PageID: 10, Title: "Talk:Something", Reason: DropNotArticle},
		{PageID: 11, Title: "Old Name", Reason: DropRedirect},
		{PageID: 12, Title: "Stub", Reason: DropTooShort},
	}
	if err := ledger.RecordDrops(ctx, id, drops); err != nil {
		t.Fatal(err)
	}
	if err := ledger.RecordDrops(ctx, id, nil); err != nil {
		t.Errorf("empty batch should be a no-op: %v", err)
	}

	got, err := ledger.DroppedPages(ctx, id, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d pages", len(got))
	}
	if got[0].PageID != 10 || got[0].Reason != DropNotArticle {
		t.Errorf("first drop: %+v", got[0])
	}
}

func TestLedger_ListRuns(t *testing.T) {
	ledger := openTestLedger(t)
	ctx := context.Background()

	for _, src := range []string{"a.xml", "b.xml", "c.xml"} {
		if _, err := ledger.StartRun(ctx, src); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := ledger.ListRuns(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("got %d runs", len(runs))
	}
}
