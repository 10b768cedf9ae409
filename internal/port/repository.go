package port

import (
	"context"

	"github.com/google/uuid"

	"brokerdocs/internal/domain"
)

// UserRepository defines the contract for staff user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// ClientAttrs identifies a client for find-or-create resolution.
type ClientAttrs struct {
	FullName string
	Email    string
	Phone    string
	CURP     string
	RFC      string
}

// ClientDirectory resolves client identities, creating them on first sight.
type ClientDirectory interface {
	FindOrCreate(ctx context.Context, attrs ClientAttrs) (*domain.Client, error)
	GetByID(ctx context.Context, clientID uuid.UUID) (*domain.Client, error)
}

// DocumentTypeRepository defines the contract for catalog persistence.
type DocumentTypeRepository interface {
	Create(ctx context.Context, dt *domain.DocumentType) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DocumentType, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.DocumentType, error)
	List(ctx context.Context) ([]domain.DocumentType, error)
	Update(ctx context.Context, dt *domain.DocumentType) error
}

// ScenarioRepository defines the contract for scenario rule-set persistence.
type ScenarioRepository interface {
	Create(ctx context.Context, sc *domain.Scenario) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Scenario, error)
	List(ctx context.Context) ([]domain.Scenario, error)
	AddRule(ctx context.Context, rule *domain.ScenarioRule) error
	ListRules(ctx context.Context, scenarioID uuid.UUID) ([]domain.ScenarioRule, error)
}

// TransactionRepository defines the contract for transaction persistence.
type TransactionRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	Update(ctx context.Context, txn *domain.Transaction) error
	List(ctx context.Context, offset, limit int) ([]domain.Transaction, int, error)
}

// CoOwnerRepository defines the contract for co-owner registry persistence.
type CoOwnerRepository interface {
	Create(ctx context.Context, co *domain.CoOwner) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CoOwner, error)
	ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]domain.CoOwner, error)
	ListActiveByTransaction(ctx context.Context, transactionID uuid.UUID) ([]domain.CoOwner, error)
	Update(ctx context.Context, co *domain.CoOwner) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// FileMetaRepository defines the contract for attachment metadata persistence.
type FileMetaRepository interface {
	Create(ctx context.Context, meta *domain.FileMeta) error
	GetByID(ctx context.Context, fileID uuid.UUID) (*domain.FileMeta, error)
	UpdateStatus(ctx context.Context, fileID uuid.UUID, status domain.FileStatus) error
}
