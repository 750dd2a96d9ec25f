package workflow

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/purushoth411/callback-sub000/internal/database"
	"github.com/purushoth411/callback-sub000/internal/models"
	"github.com/purushoth411/callback-sub000/internal/timeutil"
)

// Фейковые репозитории для тестов конвейеров. Автоподтверждение работает
// параллельно, поэтому все фейки защищены мьютексом.

type updateCall struct {
	id     int64
	fields map[string]interface{}
}

type fakeBookingRepo struct {
	mu sync.Mutex

	absenceCandidates []models.AbsenceCandidate
	absenceErr        error

	acceptCandidates []models.Booking
	acceptErr        error

	bookings map[int64]*models.Booking

	updateErr  map[int64]error
	updates    []updateCall
	statusErr  error
	overallErr error

	statusHistory  []models.BookingStatusHistory
	overallHistory []models.BookingOverallHistory
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings:  make(map[int64]*models.Booking),
		updateErr: make(map[int64]error),
	}
}

func (f *fakeBookingRepo) FindCandidatesForAbsenceCancellation(ctx context.Context) ([]models.AbsenceCandidate, error) {
	return f.absenceCandidates, f.absenceErr
}

func (f *fakeBookingRepo) FindCandidatesForAutoAccept(ctx context.Context) ([]models.Booking, error) {
	return f.acceptCandidates, f.acceptErr
}

func (f *fakeBookingRepo) UpdateBooking(ctx context.Context, id int64, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.updateErr[id]; err != nil {
		return err
	}
	f.updates = append(f.updates, updateCall{id: id, fields: fields})
	return nil
}

func (f *fakeBookingRepo) InsertStatusHistory(ctx context.Context, h models.BookingStatusHistory) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return 0, f.statusErr
	}
	f.statusHistory = append(f.statusHistory, h)
	return int64(len(f.statusHistory)), nil
}

func (f *fakeBookingRepo) InsertOverallHistory(ctx context.Context, h models.BookingOverallHistory) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.overallErr != nil {
		return 0, f.overallErr
	}
	f.overallHistory = append(f.overallHistory, h)
	return int64(len(f.overallHistory)), nil
}

func (f *fakeBookingRepo) GetBookingByID(ctx context.Context, id int64) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, database.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingRepo) updatedIDs() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int64, 0, len(f.updates))
	for _, u := range f.updates {
		ids = append(ids, u.id)
	}
	return ids
}

type fakeAdminRepo struct {
	mu     sync.Mutex
	admins map[int64]*models.Admin
}

func newFakeAdminRepo(admins ...*models.Admin) *fakeAdminRepo {
	f := &fakeAdminRepo{admins: make(map[int64]*models.Admin)}
	for _, a := range admins {
		f.admins[a.ID] = a
	}
	return f
}

func (f *fakeAdminRepo) GetAdminByID(ctx context.Context, id int64) (*models.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.admins[id]
	if !ok {
		return nil, database.ErrAdminNotFound
	}
	return a, nil
}

type mirrorCall struct {
	callRequestID   int64
	rcCallRequestID int64
	status          models.Status
}

type fakeMirrorRepo struct {
	mu sync.Mutex

	crmErr error
	rcErr  error

	crmCalls []mirrorCall
	rcCalls  []mirrorCall
}

func (f *fakeMirrorRepo) UpdateExternalCallStatus(ctx context.Context, callRequestID, rcCallRequestID int64, status models.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.crmErr != nil {
		return f.crmErr
	}
	f.crmCalls = append(f.crmCalls, mirrorCall{callRequestID, rcCallRequestID, status})
	return nil
}

func (f *fakeMirrorRepo) UpdateRCCallRequestStatus(ctx context.Context, callRequestID, rcCallRequestID int64, status models.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rcErr != nil {
		return f.rcErr
	}
	f.rcCalls = append(f.rcCalls, mirrorCall{callRequestID, rcCallRequestID, status})
	return nil
}

// testNow - фиксированный момент "сейчас" для всех тестов конвейеров:
// 14:00 по IST 15 марта 2025
var testNow = time.Date(2025, time.March, 15, 14, 0, 0, 0, mustIST())

func mustIST() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		panic(err)
	}
	return loc
}

func newTestWorkflow(bookings *fakeBookingRepo, admins *fakeAdminRepo, mirrors *fakeMirrorRepo, transitions chan<- Transition) *Workflow {
	return New(
		bookings,
		admins,
		mirrors,
		timeutil.FixedClock(testNow),
		30*time.Minute,
		transitions,
		zap.NewNop(),
	)
}
