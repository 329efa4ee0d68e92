package contracttest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/domain"
	idempotencyport "github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/idempotency"
	messagerepoport "github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/messagerepo"
	sessionstoreport "github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/sessionstore"
	touristidrepoport "github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/touristidrepo"
	triprepoport "github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/triprepo"
	userrepoport "github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/userrepo"
)

type CleanupFunc = func()

type UserRepoFactory func(t *testing.T) (userrepoport.Repository, CleanupFunc)
type TripRepoFactory func(t *testing.T) (triprepoport.Repository, CleanupFunc)
type MessageRepoFactory func(t *testing.T) (messagerepoport.Repository, CleanupFunc)
type SessionStoreFactory func(t *testing.T) (sessionstoreport.Store, CleanupFunc)
type TouristIDRepoFactory func(t *testing.T) (touristidrepoport.Repository, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	fp := idempotencyport.Fingerprint{
		Key:      "k-1",
		User:     domain.UserID("u-1"),
		Method:   "POST",
		Route:    "/api/trips",
		BodyHash: "",
	}
	if _, ok, err := store.Get(ctx, fp); err != nil || ok {
		t.Fatalf("Get before Put: ok=%v err=%v", ok, err)
	}

	rec := idempotencyport.Record{
		StatusCode:  0,
		ContentType: "text/plain",
		Body:        []byte("hash-abc"),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if string(got.Body) != "hash-abc" || got.ContentType != "text/plain" || got.StatusCode != 0 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Different user, same key: independent.
	other := fp
	other.User = "u-2"
	if _, ok, err := store.Get(ctx, other); err != nil || ok {
		t.Fatalf("expected other user's fingerprint to be absent, ok=%v err=%v", ok, err)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte("hash-def")
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp)
	if err != nil || !ok || string(got.Body) != "hash-def" {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}

	// Pruning drops only records created before the cutoff.
	fresh := fp
	fresh.BodyHash = "hash-def"
	if err := store.Put(ctx, fresh, idempotencyport.Record{
		StatusCode:  201,
		ContentType: "application/json",
		Body:        []byte(`{}`),
		CreatedAt:   time.Unix(500, 0).UTC(),
	}); err != nil {
		t.Fatalf("Put fresh: %v", err)
	}
	n, err := store.PruneBefore(ctx, time.Unix(200, 0).UTC())
	if err != nil || n != 1 {
		t.Fatalf("PruneBefore: n=%d err=%v, want 1", n, err)
	}
	if _, ok, _ := store.Get(ctx, fp); ok {
		t.Fatalf("expected old record to be pruned")
	}
	if _, ok, _ := store.Get(ctx, fresh); !ok {
		t.Fatalf("expected fresh record to survive")
	}
	if n, err := store.PruneBefore(ctx, time.Unix(200, 0).UTC()); err != nil || n != 0 {
		t.Fatalf("second PruneBefore: n=%d err=%v, want 0", n, err)
	}
}

func RunUserRepo(t *testing.T, newRepo UserRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1000, 0).UTC()
	aID := domain.UserID(uuid.NewString())
	bio := "hiker"
	if err := repo.Create(ctx, userrepoport.User{
		ID:               aID,
		AccountKey:       "alice@example.com",
		CredentialDigest: "digest-a",
		DisplayName:      "Alice Johnson",
		Bio:              &bio,
		Interests:        []string{"hiking"},
		CreatedAt:        now,
	}); err != nil {
		t.Fatalf("Create a: %v", err)
	}
	got, err := repo.GetByID(ctx, aID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.AccountKey != "alice@example.com" || got.CredentialDigest != "digest-a" || got.Bio == nil || *got.Bio != "hiker" {
		t.Fatalf("unexpected user: %+v", got)
	}
	byKey, err := repo.GetByAccountKey(ctx, "alice@example.com")
	if err != nil || byKey.ID != aID {
		t.Fatalf("GetByAccountKey: id=%q err=%v", byKey.ID, err)
	}

	// Account keys are case-sensitive.
	if _, err := repo.GetByAccountKey(ctx, "ALICE@example.com"); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for different case, got %v", err)
	}

	// Account key uniqueness.
	if err := repo.Create(ctx, userrepoport.User{
		ID:          domain.UserID(uuid.NewString()),
		AccountKey:  "alice@example.com",
		DisplayName: "Alice 2",
		CreatedAt:   now,
	}); !errors.Is(err, userrepoport.ErrAccountKeyTaken) {
		t.Fatalf("expected ErrAccountKeyTaken, got %v", err)
	}

	// ID uniqueness.
	if err := repo.Create(ctx, userrepoport.User{
		ID:          aID,
		AccountKey:  "other@example.com",
		DisplayName: "Other",
		CreatedAt:   now,
	}); !errors.Is(err, userrepoport.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	// Mutating a returned value must not affect the stored record.
	got.Interests[0] = "mutated"
	*got.Bio = "mutated"
	again, _ := repo.GetByID(ctx, aID)
	if again.Interests[0] != "hiking" || *again.Bio != "hiker" {
		t.Fatalf("stored user was mutated through a returned copy: %+v", again)
	}

	// Update.
	loc := "Lisbon"
	updatedAt := now.Add(time.Minute)
	again.Location = &loc
	again.ProfileComplete = true
	again.UpdatedAt = &updatedAt
	if err := repo.Update(ctx, again); err != nil {
		t.Fatalf("Update: %v", err)
	}
	after, _ := repo.GetByID(ctx, aID)
	if after.Location == nil || *after.Location != "Lisbon" || !after.ProfileComplete || after.UpdatedAt == nil {
		t.Fatalf("update not applied: %+v", after)
	}

	// Update of unknown user.
	if err := repo.Update(ctx, userrepoport.User{ID: "missing", AccountKey: "x"}); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	n, err := repo.Count(ctx)
	if err != nil || n != 1 {
		t.Fatalf("Count=%d err=%v, want 1", n, err)
	}
}

func RunTripRepo(t *testing.T, newRepo TripRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	creator := domain.UserID("creator")
	t1 := triprepoport.Trip{
		ID:              domain.TripID("t1"),
		Status:          triprepoport.StatusOpen,
		Title:           "Coastal Hike",
		Destination:     "Big Sur",
		MaxParticipants: 2,
		CreatorID:       creator,
		Participants:    []domain.UserID{creator},
		CreatedAt:       time.Unix(20, 0).UTC(),
	}
	t0 := triprepoport.Trip{
		ID:              domain.TripID("t0"),
		Status:          triprepoport.StatusOpen,
		Title:           "Desert Drive",
		Destination:     "Moab",
		MaxParticipants: 4,
		CreatorID:       creator,
		Participants:    []domain.UserID{creator},
		CreatedAt:       time.Unix(10, 0).UTC(),
	}
	if err := repo.Create(ctx, t1); err != nil {
		t.Fatalf("Create t1: %v", err)
	}
	if err := repo.Create(ctx, t0); err != nil {
		t.Fatalf("Create t0: %v", err)
	}
	if err := repo.Create(ctx, t1); !errors.Is(err, triprepoport.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != "t0" || list[1].ID != "t1" {
		t.Fatalf("unexpected ordering: %#v", list)
	}

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, triprepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Join: success, then duplicate, then capacity.
	joined, err := repo.AddParticipant(ctx, "t1", "bob")
	if err != nil {
		t.Fatalf("AddParticipant bob: %v", err)
	}
	if len(joined.Participants) != 2 || joined.Participants[0] != creator || joined.Participants[1] != "bob" {
		t.Fatalf("unexpected participants: %v", joined.Participants)
	}
	if _, err := repo.AddParticipant(ctx, "t1", "bob"); !errors.Is(err, triprepoport.ErrAlreadyParticipant) {
		t.Fatalf("expected ErrAlreadyParticipant, got %v", err)
	}
	if _, err := repo.AddParticipant(ctx, "t1", "carol"); !errors.Is(err, triprepoport.ErrFull) {
		t.Fatalf("expected ErrFull, got %v", err)
	}
	// A member of a full trip is reported as already a participant, not full.
	if _, err := repo.AddParticipant(ctx, "t1", creator); !errors.Is(err, triprepoport.ErrAlreadyParticipant) {
		t.Fatalf("expected ErrAlreadyParticipant for creator, got %v", err)
	}
	if _, err := repo.AddParticipant(ctx, "missing", "bob"); !errors.Is(err, triprepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	stored, _ := repo.GetByID(ctx, "t1")
	if len(stored.Participants) != 2 {
		t.Fatalf("failed joins changed the trip: %v", stored.Participants)
	}

	ok, err := repo.IsParticipant(ctx, "t1", "bob")
	if err != nil || !ok {
		t.Fatalf("IsParticipant bob: ok=%v err=%v", ok, err)
	}
	ok, err = repo.IsParticipant(ctx, "t1", "carol")
	if err != nil || ok {
		t.Fatalf("IsParticipant carol: ok=%v err=%v", ok, err)
	}
	ok, err = repo.IsParticipant(ctx, "missing", "bob")
	if err != nil || ok {
		t.Fatalf("IsParticipant unknown trip: ok=%v err=%v", ok, err)
	}

	// Mutating a returned value must not affect the stored record.
	stored.Participants[0] = "mallory"
	again, _ := repo.GetByID(ctx, "t1")
	if again.Participants[0] != creator {
		t.Fatalf("stored trip was mutated through a returned copy: %v", again.Participants)
	}

	n, err := repo.Count(ctx)
	if err != nil || n != 2 {
		t.Fatalf("Count=%d err=%v, want 2", n, err)
	}
	n, err = repo.CountByStatus(ctx, triprepoport.StatusOpen)
	if err != nil || n != 2 {
		t.Fatalf("CountByStatus=%d err=%v, want 2", n, err)
	}

	// Concurrent joins never exceed capacity and never duplicate.
	const capacity = 5
	race := triprepoport.Trip{
		ID:              "race",
		Status:          triprepoport.StatusOpen,
		Title:           "Race",
		Destination:     "Anywhere",
		MaxParticipants: capacity,
		CreatorID:       creator,
		Participants:    []domain.UserID{creator},
		CreatedAt:       time.Unix(30, 0).UTC(),
	}
	if err := repo.Create(ctx, race); err != nil {
		t.Fatalf("Create race: %v", err)
	}
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Every user tries twice to exercise the duplicate check under contention.
			uid := domain.UserID(fmt.Sprintf("u-%d", i%25))
			if _, err := repo.AddParticipant(ctx, "race", uid); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			} else if !errors.Is(err, triprepoport.ErrFull) && !errors.Is(err, triprepoport.ErrAlreadyParticipant) {
				t.Errorf("unexpected join error: %v", err)
			}
		}(i)
	}
	wg.Wait()
	if success != capacity-1 {
		t.Fatalf("successful joins=%d, want %d", success, capacity-1)
	}
	final, _ := repo.GetByID(ctx, "race")
	if len(final.Participants) != capacity {
		t.Fatalf("participants=%d, want %d", len(final.Participants), capacity)
	}
	seen := map[domain.UserID]bool{}
	for _, p := range final.Participants {
		if seen[p] {
			t.Fatalf("duplicate participant %q in %v", p, final.Participants)
		}
		seen[p] = true
	}
}

func RunMessageRepo(t *testing.T, newRepo MessageRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	empty, err := repo.ListByTrip(ctx, "t-empty")
	if err != nil {
		t.Fatalf("ListByTrip empty: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", empty)
	}

	base := time.Unix(100, 0).UTC()
	for i, content := range []string{"first", "second", "third"} {
		if err := repo.Append(ctx, messagerepoport.Message{
			ID:         domain.MessageID(fmt.Sprintf("m%d", i)),
			TripID:     "t1",
			SenderID:   "u1",
			SenderName: "Alice",
			Content:    content,
			SentAt:     base.Add(time.Duration(i) * time.Second),
		}); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}
	if err := repo.Append(ctx, messagerepoport.Message{ID: "other", TripID: "t2", SenderID: "u1", Content: "elsewhere", SentAt: base}); err != nil {
		t.Fatalf("Append t2: %v", err)
	}
	if err := repo.Append(ctx, messagerepoport.Message{ID: "m0", TripID: "t1", Content: "dup"}); !errors.Is(err, messagerepoport.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	got, err := repo.ListByTrip(ctx, "t1")
	if err != nil {
		t.Fatalf("ListByTrip: %v", err)
	}
	if len(got) != 3 || got[0].Content != "first" || got[1].Content != "second" || got[2].Content != "third" {
		t.Fatalf("unexpected log: %#v", got)
	}

	// Mutating the returned slice must not affect the log.
	got[0].Content = "mutated"
	again, _ := repo.ListByTrip(ctx, "t1")
	if again[0].Content != "first" {
		t.Fatalf("log was mutated through a returned slice")
	}
}

func RunSessionStore(t *testing.T, newStore SessionStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	if _, ok, err := store.Resolve(ctx, "unknown"); err != nil || ok {
		t.Fatalf("Resolve unknown: ok=%v err=%v", ok, err)
	}
	if err := store.Put(ctx, "tok-1", "u1"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Put(ctx, "tok-2", "u1"); err != nil {
		t.Fatalf("Put second token for same user: %v", err)
	}
	if err := store.Put(ctx, "tok-1", "u2"); !errors.Is(err, sessionstoreport.ErrTokenExists) {
		t.Fatalf("expected ErrTokenExists, got %v", err)
	}
	for _, tok := range []domain.SessionToken{"tok-1", "tok-2"} {
		id, ok, err := store.Resolve(ctx, tok)
		if err != nil || !ok || id != "u1" {
			t.Fatalf("Resolve %s: id=%q ok=%v err=%v", tok, id, ok, err)
		}
	}
}

func RunTouristIDRepo(t *testing.T, newRepo TouristIDRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	if _, err := repo.GetByUserID(ctx, "u1"); !errors.Is(err, touristidrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	first := touristidrepoport.Record{
		UserID:         "u1",
		TouristID:      "TID-AAAA0001",
		BlockchainHash: "0xaaaa",
		Verified:       true,
		CreatedAt:      time.Unix(10, 0).UTC(),
	}
	stored, created, err := repo.CreateIfAbsent(ctx, first)
	if err != nil || !created || stored.TouristID != "TID-AAAA0001" {
		t.Fatalf("CreateIfAbsent first: stored=%+v created=%v err=%v", stored, created, err)
	}

	second := first
	second.TouristID = "TID-BBBB0002"
	stored, created, err = repo.CreateIfAbsent(ctx, second)
	if err != nil || created || stored.TouristID != "TID-AAAA0001" {
		t.Fatalf("CreateIfAbsent second: stored=%+v created=%v err=%v", stored, created, err)
	}

	got, err := repo.GetByUserID(ctx, "u1")
	if err != nil || got.TouristID != "TID-AAAA0001" {
		t.Fatalf("GetByUserID: %+v err=%v", got, err)
	}

	n, err := repo.Count(ctx)
	if err != nil || n != 1 {
		t.Fatalf("Count=%d err=%v, want 1", n, err)
	}
}
