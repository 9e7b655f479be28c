package service

import (
	"context"
	"sync"
	"testing"

	"github.com/georgs-k/employee-service/internal/models"
)

func newAttendanceFixture() (*AttendanceService, *memStore, *fakeGateway) {
	store := newMemStore()
	gateway := &fakeGateway{}
	svc := NewAttendanceService(&memTxManager{store: store}, gateway)
	return svc, store, gateway
}

func seedThree(store *memStore) (a, b, c models.Employee) {
	a = store.addEmployee(models.Employee{FirstName: "Anna", LastName: "Berga", Email: "anna@acme.io"})
	b = store.addEmployee(models.Employee{FirstName: "Janis", LastName: "Ozols", Email: "janis@acme.io"})
	c = store.addEmployee(models.Employee{FirstName: "Liga", LastName: "Zarina", Email: "liga@acme.io"})
	return a, b, c
}

func rosterIDs(t *testing.T, svc *AttendanceService, eventID int64) map[uint]bool {
	t.Helper()
	attending, err := svc.FindAttending(context.Background(), eventID)
	if err != nil {
		t.Fatalf("FindAttending: %v", err)
	}
	ids := map[uint]bool{}
	for _, employee := range attending {
		ids[employee.ID] = true
	}
	return ids
}

func TestFindAttendingAndNonAttending(t *testing.T) {
	svc, store, _ := newAttendanceFixture()
	a, b, c := seedThree(store)
	store.addRoster(1, a.ID, b.ID)

	attending, err := svc.FindAttending(context.Background(), 1)
	if err != nil {
		t.Fatalf("FindAttending: %v", err)
	}
	if len(attending) != 2 {
		t.Fatalf("want 2 attending, got %d", len(attending))
	}
	if attending[0].LastName > attending[1].LastName {
		t.Errorf("attending not ordered by surname: %q before %q", attending[0].LastName, attending[1].LastName)
	}

	nonAttending, err := svc.FindNonAttending(context.Background(), 1)
	if err != nil {
		t.Fatalf("FindNonAttending: %v", err)
	}
	if len(nonAttending) != 1 || nonAttending[0].ID != c.ID {
		t.Fatalf("want only %d non-attending, got %v", c.ID, nonAttending)
	}
}

func TestFindAttendingMissingEventIsEmpty(t *testing.T) {
	svc, store, _ := newAttendanceFixture()
	seedThree(store)

	attending, err := svc.FindAttending(context.Background(), 42)
	if err != nil {
		t.Fatalf("FindAttending: %v", err)
	}
	if len(attending) != 0 {
		t.Fatalf("want empty roster for missing event, got %v", attending)
	}

	nonAttending, err := svc.FindNonAttending(context.Background(), 42)
	if err != nil {
		t.Fatalf("FindNonAttending: %v", err)
	}
	if len(nonAttending) != 3 {
		t.Fatalf("want all 3 employees non-attending, got %d", len(nonAttending))
	}
}

func TestFindAttendingAnyUnions(t *testing.T) {
	svc, store, _ := newAttendanceFixture()
	a, b, c := seedThree(store)
	store.addRoster(1, a.ID, b.ID)
	store.addRoster(2, b.ID, c.ID)

	attending, err := svc.FindAttendingAny(context.Background(), []int64{1, 2})
	if err != nil {
		t.Fatalf("FindAttendingAny: %v", err)
	}
	if len(attending) != 3 {
		t.Fatalf("want union of 3 employees, got %d", len(attending))
	}
}

func TestUnattendEveryoneDeletesRecordAndIsIdempotent(t *testing.T) {
	svc, store, gateway := newAttendanceFixture()
	a, b, _ := seedThree(store)
	store.addRoster(7, a.ID, b.ID)
	event := models.Event{ID: 7, Title: "Town hall"}

	removed, err := svc.Unattend(context.Background(), nil, event)
	if err != nil {
		t.Fatalf("Unattend: %v", err)
	}
	if len(removed) != 2 {
		t.Fatalf("want whole roster removed, got %d", len(removed))
	}
	if _, ok := store.rosters[7]; ok {
		t.Error("attendance record should be deleted")
	}

	again, err := svc.Unattend(context.Background(), nil, event)
	if err != nil {
		t.Fatalf("second Unattend: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("second call must be a no-op, got %v", again)
	}
	if sent := gateway.sent(); len(sent) != 1 {
		t.Fatalf("want exactly 1 notification, got %d", len(sent))
	}
}

func TestUnattendNotAttendingIsNoOp(t *testing.T) {
	svc, store, gateway := newAttendanceFixture()
	a, b, c := seedThree(store)
	store.addRoster(7, a.ID, b.ID)

	removed, err := svc.Unattend(context.Background(), []uint{c.ID}, models.Event{ID: 7})
	if err != nil {
		t.Fatalf("Unattend: %v", err)
	}
	if len(removed) != 0 {
		t.Fatalf("want empty result, got %v", removed)
	}
	if ids := rosterIDs(t, svc, 7); !ids[a.ID] || !ids[b.ID] {
		t.Errorf("roster must be unchanged, got %v", ids)
	}
	if len(gateway.sent()) != 0 {
		t.Error("no notification expected for a no-op")
	}
}

func TestUnattendSubsetNotifiesExactlyRemoved(t *testing.T) {
	svc, store, gateway := newAttendanceFixture()
	a, b, c := seedThree(store)
	store.addRoster(7, a.ID, b.ID, c.ID)
	event := models.Event{ID: 7, Title: "Standup", Date: "2023-05-01"}

	removed, err := svc.Unattend(context.Background(), []uint{a.ID, b.ID}, event)
	if err != nil {
		t.Fatalf("Unattend: %v", err)
	}
	if len(removed) != 2 {
		t.Fatalf("want 2 removed, got %d", len(removed))
	}

	ids := rosterIDs(t, svc, 7)
	if ids[a.ID] || ids[b.ID] {
		t.Errorf("removed employees still on roster: %v", ids)
	}
	if !ids[c.ID] {
		t.Error("record must be retained with the remaining attendee")
	}

	sent := gateway.sent()
	if len(sent) != 1 {
		t.Fatalf("want exactly 1 notification, got %d", len(sent))
	}
	if sent[0].attending {
		t.Error("unattend notification must carry attending=false")
	}
	if sent[0].event.ID != event.ID {
		t.Errorf("notification event id = %d, want %d", sent[0].event.ID, event.ID)
	}
	notified := map[uint]bool{}
	for _, employee := range sent[0].employees {
		notified[employee.ID] = true
	}
	if len(notified) != 2 || !notified[a.ID] || !notified[b.ID] {
		t.Errorf("notification must contain exactly the removed employees, got %v", notified)
	}
}

func TestUnattendRequestedAndAbsentMixed(t *testing.T) {
	svc, store, _ := newAttendanceFixture()
	a, b, _ := seedThree(store)
	store.addRoster(7, a.ID)

	// b is requested but not attending: dropped silently, a still removed.
	removed, err := svc.Unattend(context.Background(), []uint{a.ID, b.ID}, models.Event{ID: 7})
	if err != nil {
		t.Fatalf("Unattend: %v", err)
	}
	if len(removed) != 1 || removed[0].ID != a.ID {
		t.Fatalf("want only %d removed, got %v", a.ID, removed)
	}
}

func TestUnattendAndDeleteAlwaysDeletes(t *testing.T) {
	svc, store, gateway := newAttendanceFixture()
	seedThree(store)
	store.addRoster(9)

	removed, err := svc.UnattendAndDelete(context.Background(), models.Event{ID: 9})
	if err != nil {
		t.Fatalf("UnattendAndDelete: %v", err)
	}
	if len(removed) != 0 {
		t.Fatalf("want empty result for empty roster, got %v", removed)
	}
	if _, ok := store.rosters[9]; ok {
		t.Error("record must be deleted even with nobody attending")
	}
	if len(gateway.sent()) != 0 {
		t.Error("no notification expected for an empty roster")
	}
}

func TestConcurrentUnattendLosesNoUpdate(t *testing.T) {
	svc, store, _ := newAttendanceFixture()
	a, b, _ := seedThree(store)
	store.addRoster(7, a.ID, b.ID)
	event := models.Event{ID: 7}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if _, err := svc.Unattend(context.Background(), []uint{a.ID}, event); err != nil {
			t.Errorf("Unattend a: %v", err)
		}
	}()
	go func() {
		defer wg.Done()
		if _, err := svc.Unattend(context.Background(), []uint{b.ID}, event); err != nil {
			t.Errorf("Unattend b: %v", err)
		}
	}()
	wg.Wait()

	ids := rosterIDs(t, svc, 7)
	if ids[a.ID] || ids[b.ID] {
		t.Fatalf("lost update: roster still contains %v", ids)
	}
}

func TestAttendCreatesRecordAndSkipsUnknownIDs(t *testing.T) {
	svc, store, gateway := newAttendanceFixture()
	a, b, _ := seedThree(store)
	event := models.Event{ID: 11, Title: "Training"}

	added, err := svc.Attend(context.Background(), []uint{a.ID, b.ID, 999}, event)
	if err != nil {
		t.Fatalf("Attend: %v", err)
	}
	if len(added) != 2 {
		t.Fatalf("want 2 added, unknown id dropped, got %d", len(added))
	}
	ids := rosterIDs(t, svc, 11)
	if !ids[a.ID] || !ids[b.ID] {
		t.Fatalf("roster missing new attendees: %v", ids)
	}

	sent := gateway.sent()
	if len(sent) != 1 || !sent[0].attending {
		t.Fatalf("want 1 attending=true notification, got %v", sent)
	}

	// Attending again adds nothing and stays quiet.
	again, err := svc.Attend(context.Background(), []uint{a.ID}, event)
	if err != nil {
		t.Fatalf("second Attend: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("want no duplicates, got %v", again)
	}
	if len(gateway.sent()) != 1 {
		t.Error("no second notification expected")
	}
}
