package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveRun(Run{
		SceneID:          "sandbox",
		Fingerprint:      "00000000deadbeef",
		RefreshRate:      60,
		Steps:            600,
		Contacts:         12,
		PairChecks:       3000,
		SimulatedSeconds: 10,
		WallMillis:       42,
		Profile: map[string]time.Duration{
			"integrate": 3 * time.Millisecond,
			"detect":    1500 * time.Microsecond,
		},
	})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("SaveRun() returned non-UUID id %q", id)
	}

	run, err := store.RunByID(id)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if run.SceneID != "sandbox" || run.Steps != 600 || run.Contacts != 12 || run.PairChecks != 3000 {
		t.Errorf("unexpected run %+v", run)
	}
	if run.RefreshRate != 60 || run.SimulatedSeconds != 10 || run.WallMillis != 42 {
		t.Errorf("unexpected timing fields %+v", run)
	}
	if run.Fingerprint != "00000000deadbeef" {
		t.Errorf("Fingerprint = %q", run.Fingerprint)
	}
	if run.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set by the database")
	}
	if len(run.Profile) != 2 || run.Profile["integrate"] != 3*time.Millisecond || run.Profile["detect"] != 1500*time.Microsecond {
		t.Errorf("Profile = %v", run.Profile)
	}
}

func TestStoreSaveRunWithID(t *testing.T) {
	store := openTestStore(t)

	want := uuid.NewString()
	got, err := store.SaveRun(Run{ID: want, SceneID: "gjk", RefreshRate: 60})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if got != want {
		t.Errorf("SaveRun() = %q, expected %q", got, want)
	}

	if _, err := store.SaveRun(Run{ID: want, SceneID: "gjk", RefreshRate: 60}); err == nil {
		t.Error("duplicate run id should fail")
	}
	if _, err := store.SaveRun(Run{ID: "not-a-uuid", SceneID: "gjk"}); err == nil {
		t.Error("invalid run id should fail")
	}
}

func TestStoreRecentRuns(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 25; i++ {
		scene := "sandbox"
		if i%5 == 0 {
			scene = "gjk"
		}
		if _, err := store.SaveRun(Run{SceneID: scene, RefreshRate: 60, Steps: int64(i)}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	recent, err := store.RecentRuns(0)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 20 {
		t.Fatalf("Expected default limit of 20, got %d", len(recent))
	}
	if recent[0].Steps != 24 || recent[19].Steps != 5 {
		t.Errorf("runs not newest first: first %d last %d", recent[0].Steps, recent[19].Steps)
	}

	gjk, err := store.RunsForScene("gjk", 3)
	if err != nil {
		t.Fatalf("RunsForScene() failed: %v", err)
	}
	if len(gjk) != 3 {
		t.Fatalf("Expected 3 gjk runs, got %d", len(gjk))
	}
	for i, expected := range []int64{20, 15, 10} {
		if gjk[i].Steps != expected || gjk[i].SceneID != "gjk" {
			t.Errorf("gjk[%d] = %+v, expected steps %d", i, gjk[i], expected)
		}
	}
}

func TestStoreProfileUnknownRun(t *testing.T) {
	store := openTestStore(t)

	profile, err := store.Profile(uuid.NewString())
	if err != nil {
		t.Fatalf("Profile() failed: %v", err)
	}
	if len(profile) != 0 {
		t.Errorf("Expected empty profile, got %v", profile)
	}

	if _, err := store.RunByID(uuid.NewString()); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("RunByID() error = %v, expected ErrRunNotFound", err)
	}
}

func TestStoreClearRuns(t *testing.T) {
	store := openTestStore(t)

	profile := map[string]time.Duration{"detect": time.Millisecond}
	for _, scene := range []string{"sandbox", "sandbox", "gjk"} {
		if _, err := store.SaveRun(Run{SceneID: scene, RefreshRate: 60, Profile: profile}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	n, err := store.ClearRuns("sandbox")
	if err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("ClearRuns(sandbox) removed %d, expected 2", n)
	}

	left, err := store.RecentRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 1 || left[0].SceneID != "gjk" {
		t.Fatalf("remaining runs = %+v", left)
	}
	if p, _ := store.Profile(left[0].ID); len(p) != 1 {
		t.Errorf("gjk profile should survive, got %v", p)
	}

	if n, err := store.ClearRuns(""); err != nil || n != 1 {
		t.Errorf("ClearRuns(all) = %d, %v", n, err)
	}
	var samples int
	if err := store.db.QueryRow("SELECT COUNT(*) FROM profile_samples").Scan(&samples); err != nil {
		t.Fatal(err)
	}
	if samples != 0 {
		t.Errorf("%d orphaned profile samples", samples)
	}
}

func TestStoreSummaries(t *testing.T) {
	store := openTestStore(t)

	runs := []Run{
		{SceneID: "sandbox", RefreshRate: 60, Steps: 100, SimulatedSeconds: 1.5, WallMillis: 10},
		{SceneID: "sandbox", RefreshRate: 60, Steps: 300, SimulatedSeconds: 5, WallMillis: 30},
		{SceneID: "gjk", RefreshRate: 120, Steps: 50, SimulatedSeconds: 0.5, WallMillis: 4},
	}
	for _, r := range runs {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	sums, err := store.Summaries()
	if err != nil {
		t.Fatalf("Summaries() failed: %v", err)
	}
	if len(sums) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(sums))
	}
	sb := sums["sandbox"]
	if sb.Runs != 2 || sb.TotalSteps != 400 || sb.SimulatedSeconds != 6.5 || sb.AvgWallMillis != 20 {
		t.Errorf("sandbox summary = %+v", sb)
	}
	if sb.LastRun.IsZero() {
		t.Error("LastRun should be set")
	}
	if sums["gjk"].Runs != 1 {
		t.Errorf("gjk summary = %+v", sums["gjk"])
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	store, err := Open("~/deep/runs.db")
	if err != nil {
		t.Fatalf("Open() with ~ path failed: %v", err)
	}
	defer store.Close()

	home, _ := os.UserHomeDir()
	if _, err := os.Stat(filepath.Join(home, "deep", "runs.db")); os.IsNotExist(err) {
		t.Error("Database file was not created under the home directory")
	}
}
