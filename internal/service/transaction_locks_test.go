package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"brokerdocs/mocks"
)

type nopResolver struct{}

func (nopResolver) Resolve(ctx context.Context, transactionID uuid.UUID) (*ResolveResult, error) {
	return &ResolveResult{}, nil
}

type nopReassignment struct{}

func (nopReassignment) ReassignPrincipal(ctx context.Context, transactionID uuid.UUID) error {
	return nil
}

func newLockTestService() *transactionService {
	svc := NewTransactionService(
		new(mocks.MockTransactionRepo), new(mocks.MockCoOwnerRepo),
		new(mocks.MockClientDirectory), nopResolver{}, nopReassignment{},
	)
	return svc.(*transactionService)
}

// The lock registry must not grow with every transaction ever touched;
// an entry lives only while someone holds or waits on it.
func TestTransactionService_LockRegistry_DropsIdleEntries(t *testing.T) {
	s := newLockTestService()

	for i := 0; i < 10; i++ {
		assert.NoError(t, s.runPipeline(context.Background(), uuid.New()))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Empty(t, s.locks)
}

// Concurrent pipelines on one transaction share a single entry and
// still leave the registry empty afterwards.
func TestTransactionService_LockRegistry_SerializesSameTransaction(t *testing.T) {
	s := newLockTestService()
	transactionID := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.runPipeline(context.Background(), transactionID)
		}()
	}
	wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Empty(t, s.locks)
}
