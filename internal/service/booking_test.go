package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/evrenos/tour-booking/internal/model"
	"github.com/evrenos/tour-booking/internal/queue"
	"github.com/evrenos/tour-booking/internal/repository"
)

// ----- fakes -----

type fakeStore struct {
	bookings map[uint64]model.Booking
	nextID   uint64
}

func newFakeStore() *fakeStore {
	return &fakeStore{bookings: map[uint64]model.Booking{}, nextID: 1}
}

func (s *fakeStore) Create(_ context.Context, b *model.Booking) error {
	b.ID = s.nextID
	s.nextID++
	s.bookings[b.ID] = *b
	return nil
}

func (s *fakeStore) GetByID(_ context.Context, id uint64) (model.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return model.Booking{}, repository.ErrNotFound
	}
	return b, nil
}

func (s *fakeStore) UpdateStatus(_ context.Context, id uint64, status string) error {
	b, ok := s.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Status = status
	s.bookings[id] = b
	return nil
}

func (s *fakeStore) SetPaymentIntent(_ context.Context, id uint64, intentID string) error {
	b, ok := s.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.PaymentIntentID = &intentID
	s.bookings[id] = b
	return nil
}

func (s *fakeStore) Update(_ context.Context, id uint64, p repository.BookingPatch) (model.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return model.Booking{}, repository.ErrNotFound
	}
	if p.TotalAmountCents != nil {
		b.TotalAmountCents = *p.TotalAmountCents
	}
	if p.AdvancePaymentCents != nil {
		b.AdvancePaymentCents = *p.AdvancePaymentCents
	}
	if p.RemainingAmountCents != nil {
		b.RemainingAmountCents = *p.RemainingAmountCents
	}
	s.bookings[id] = b
	return b, nil
}

func (s *fakeStore) Delete(_ context.Context, id uint64) error {
	delete(s.bookings, id)
	return nil
}

type fakeGuests struct {
	guests map[uint64]model.Guest
}

func (f *fakeGuests) GetByID(_ context.Context, id uint64) (model.Guest, error) {
	g, ok := f.guests[id]
	if !ok {
		return model.Guest{}, repository.ErrNotFound
	}
	return g, nil
}

type fakePayments struct {
	intents   []int64
	refunds   []string
	intentErr error
	refundErr error
}

func (p *fakePayments) CreateIntent(_ context.Context, amountCents int64, _ string) (string, error) {
	if p.intentErr != nil {
		return "", p.intentErr
	}
	p.intents = append(p.intents, amountCents)
	return "pi_test_123", nil
}

func (p *fakePayments) Refund(_ context.Context, intentID string) error {
	if p.refundErr != nil {
		return p.refundErr
	}
	p.refunds = append(p.refunds, intentID)
	return nil
}

type fakeNotifier struct {
	sent []string
	err  error
}

func (n *fakeNotifier) SendBookingConfirmation(_ context.Context, phone string, _ model.Booking) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, phone)
	return nil
}

type fakePublisher struct {
	events []string
}

func (p *fakePublisher) Publish(_ context.Context, queueName string, _ queue.BookingEvent) error {
	p.events = append(p.events, queueName)
	return nil
}

// ----- harness -----

type managerFixture struct {
	store     *fakeStore
	payments  *fakePayments
	notifier  *fakeNotifier
	publisher *fakePublisher
	manager   *BookingManager
}

func newFixture() *managerFixture {
	f := &managerFixture{
		store:     newFakeStore(),
		payments:  &fakePayments{},
		notifier:  &fakeNotifier{},
		publisher: &fakePublisher{},
	}
	guests := &fakeGuests{guests: map[uint64]model.Guest{
		1: {ID: 1, FullName: "Test Guest", PhoneNumber: "+15550001"},
		2: {ID: 2, FullName: "No Phone"},
	}}
	f.manager = NewBookingManager(f.store, guests, f.payments, f.notifier, f.publisher, zerolog.Nop())
	return f
}

func validInput() BookingInput {
	return BookingInput{
		TourID:               10,
		GuestID:              1,
		TotalAmountCents:     10000,
		AdvancePaymentCents:  4000,
		RemainingAmountCents: 6000,
		BookingDate:          time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC),
	}
}

// ----- tests -----

func TestCreateStartsPending(t *testing.T) {
	f := newFixture()
	b, err := f.manager.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.Status != model.BookingPending {
		t.Errorf("status = %q, want pending", b.Status)
	}
}

func TestCreateWithAdvanceRequestsIntent(t *testing.T) {
	f := newFixture()
	b, err := f.manager.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(f.payments.intents) != 1 || f.payments.intents[0] != 4000 {
		t.Fatalf("intents = %v, want one intent of 4000", f.payments.intents)
	}
	stored, _ := f.store.GetByID(context.Background(), b.ID)
	if stored.PaymentIntentID == nil || *stored.PaymentIntentID != "pi_test_123" {
		t.Errorf("intent id not persisted: %v", stored.PaymentIntentID)
	}
}

func TestCreateZeroAdvanceSkipsIntent(t *testing.T) {
	f := newFixture()
	in := validInput()
	in.AdvancePaymentCents = 0
	in.RemainingAmountCents = in.TotalAmountCents
	if _, err := f.manager.Create(context.Background(), in); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(f.payments.intents) != 0 {
		t.Errorf("intents = %v, want none", f.payments.intents)
	}
}

func TestCreateNotifiesGuestWithPhone(t *testing.T) {
	f := newFixture()
	if _, err := f.manager.Create(context.Background(), validInput()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(f.notifier.sent) != 1 || f.notifier.sent[0] != "+15550001" {
		t.Errorf("notifications = %v, want one to +15550001", f.notifier.sent)
	}
}

func TestCreateSkipsNotifyWithoutPhone(t *testing.T) {
	f := newFixture()
	in := validInput()
	in.GuestID = 2
	if _, err := f.manager.Create(context.Background(), in); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(f.notifier.sent) != 0 {
		t.Errorf("notifications = %v, want none", f.notifier.sent)
	}
}

func TestCreateNotificationFailureIsNonFatal(t *testing.T) {
	f := newFixture()
	f.notifier.err = errors.New("provider down")
	if _, err := f.manager.Create(context.Background(), validInput()); err != nil {
		t.Fatalf("Create should not fail on notification error: %v", err)
	}
}

func TestCreateIntentFailureLeavesBookingPending(t *testing.T) {
	f := newFixture()
	f.payments.intentErr = errors.New("gateway down")
	b, err := f.manager.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create should not fail on intent error: %v", err)
	}
	stored, _ := f.store.GetByID(context.Background(), b.ID)
	if stored.Status != model.BookingPending {
		t.Errorf("status = %q, want pending", stored.Status)
	}
	if stored.PaymentIntentID != nil {
		t.Errorf("intent id = %v, want nil", stored.PaymentIntentID)
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()
	cases := []struct {
		name   string
		mutate func(*BookingInput)
	}{
		{"missing tour", func(in *BookingInput) { in.TourID = 0 }},
		{"missing guest", func(in *BookingInput) { in.GuestID = 0 }},
		{"negative advance", func(in *BookingInput) { in.AdvancePaymentCents = -1 }},
		{"sum mismatch", func(in *BookingInput) { in.RemainingAmountCents = 1 }},
		{"missing date", func(in *BookingInput) { in.BookingDate = time.Time{} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			if _, err := f.manager.Create(context.Background(), in); !errors.Is(err, ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestConfirmPendingBooking(t *testing.T) {
	f := newFixture()
	b, _ := f.manager.Create(context.Background(), validInput())

	confirmed, err := f.manager.Confirm(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if confirmed.Status != model.BookingConfirmed {
		t.Errorf("status = %q, want confirmed", confirmed.Status)
	}
	if len(f.publisher.events) != 1 || f.publisher.events[0] != queue.ConfirmedQueue {
		t.Errorf("events = %v, want one on %s", f.publisher.events, queue.ConfirmedQueue)
	}
}

func TestConfirmRetriesMissingIntent(t *testing.T) {
	f := newFixture()
	f.payments.intentErr = errors.New("gateway down")
	b, _ := f.manager.Create(context.Background(), validInput())

	f.payments.intentErr = nil
	if _, err := f.manager.Confirm(context.Background(), b.ID); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if len(f.payments.intents) != 1 || f.payments.intents[0] != 4000 {
		t.Fatalf("intents = %v, want one intent of 4000", f.payments.intents)
	}
	stored, _ := f.store.GetByID(context.Background(), b.ID)
	if stored.PaymentIntentID == nil {
		t.Error("intent id not persisted on confirm retry")
	}
}

func TestConfirmMissingBooking(t *testing.T) {
	f := newFixture()
	if _, err := f.manager.Confirm(context.Background(), 999); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if len(f.notifier.sent) != 0 || len(f.publisher.events) != 0 {
		t.Error("no side effects expected for a missing booking")
	}
}

func TestConfirmTwiceRejected(t *testing.T) {
	f := newFixture()
	b, _ := f.manager.Create(context.Background(), validInput())
	if _, err := f.manager.Confirm(context.Background(), b.ID); err != nil {
		t.Fatalf("first Confirm: %v", err)
	}
	if _, err := f.manager.Confirm(context.Background(), b.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second Confirm err = %v, want ErrInvalidTransition", err)
	}
}

func TestCancelRefundsIntent(t *testing.T) {
	f := newFixture()
	b, _ := f.manager.Create(context.Background(), validInput())

	cancelled, err := f.manager.Cancel(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != model.BookingCancelled {
		t.Errorf("status = %q, want cancelled", cancelled.Status)
	}
	if len(f.payments.refunds) != 1 || f.payments.refunds[0] != "pi_test_123" {
		t.Errorf("refunds = %v, want one for pi_test_123", f.payments.refunds)
	}
	if len(f.publisher.events) != 1 || f.publisher.events[0] != queue.CancelledQueue {
		t.Errorf("events = %v, want one on %s", f.publisher.events, queue.CancelledQueue)
	}
}

func TestCancelWithoutIntentSkipsRefund(t *testing.T) {
	f := newFixture()
	in := validInput()
	in.AdvancePaymentCents = 0
	in.RemainingAmountCents = in.TotalAmountCents
	b, _ := f.manager.Create(context.Background(), in)

	if _, err := f.manager.Cancel(context.Background(), b.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if len(f.payments.refunds) != 0 {
		t.Errorf("refunds = %v, want none", f.payments.refunds)
	}
}

func TestCancelRefundFailureAborts(t *testing.T) {
	f := newFixture()
	b, _ := f.manager.Create(context.Background(), validInput())

	f.payments.refundErr = errors.New("refund rejected")
	if _, err := f.manager.Cancel(context.Background(), b.ID); err == nil {
		t.Fatal("Cancel should fail when the refund fails")
	}
	stored, _ := f.store.GetByID(context.Background(), b.ID)
	if stored.Status != model.BookingPending {
		t.Errorf("status = %q, want pending after aborted cancel", stored.Status)
	}
}

func TestCancelConfirmedBooking(t *testing.T) {
	f := newFixture()
	b, _ := f.manager.Create(context.Background(), validInput())
	if _, err := f.manager.Confirm(context.Background(), b.ID); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if _, err := f.manager.Cancel(context.Background(), b.ID); err != nil {
		t.Fatalf("Cancel after confirm: %v", err)
	}
}

func TestCancelTwiceRejected(t *testing.T) {
	f := newFixture()
	b, _ := f.manager.Create(context.Background(), validInput())
	if _, err := f.manager.Cancel(context.Background(), b.ID); err != nil {
		t.Fatalf("first Cancel: %v", err)
	}
	if _, err := f.manager.Cancel(context.Background(), b.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second Cancel err = %v, want ErrInvalidTransition", err)
	}
}

func TestUpdateChecksAmountInvariant(t *testing.T) {
	f := newFixture()
	b, _ := f.manager.Create(context.Background(), validInput())

	total, advance, remaining := int64(20000), int64(5000), int64(1)
	_, err := f.manager.Update(context.Background(), b.ID, repository.BookingPatch{
		TotalAmountCents:     &total,
		AdvancePaymentCents:  &advance,
		RemainingAmountCents: &remaining,
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}

	remaining = 15000
	updated, err := f.manager.Update(context.Background(), b.ID, repository.BookingPatch{
		TotalAmountCents:     &total,
		AdvancePaymentCents:  &advance,
		RemainingAmountCents: &remaining,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.TotalAmountCents != 20000 {
		t.Errorf("total = %d, want 20000", updated.TotalAmountCents)
	}
}
