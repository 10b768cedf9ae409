package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"brokerdocs/internal/domain"
	"brokerdocs/internal/port"
)

// ResolveResult reports how many submissions a resolution pass created
// and how many targets were already covered.
type ResolveResult struct {
	Created  int `json:"created"`
	Existing int `json:"existing"`
}

// ResolverService expands a transaction's scenario rules and co-owner
// set into concrete document submissions, creating only what is missing.
type ResolverService interface {
	Resolve(ctx context.Context, transactionID uuid.UUID) (*ResolveResult, error)
}

type resolverService struct {
	txnRepo        port.TransactionRepository
	scenarioRepo   port.ScenarioRepository
	docTypeRepo    port.DocumentTypeRepository
	coOwnerRepo    port.CoOwnerRepository
	submissionRepo port.SubmissionRepository
}

// NewResolverService creates a new ResolverService implementation.
func NewResolverService(
	txnRepo port.TransactionRepository,
	scenarioRepo port.ScenarioRepository,
	docTypeRepo port.DocumentTypeRepository,
	coOwnerRepo port.CoOwnerRepository,
	submissionRepo port.SubmissionRepository,
) ResolverService {
	return &resolverService{
		txnRepo:        txnRepo,
		scenarioRepo:   scenarioRepo,
		docTypeRepo:    docTypeRepo,
		coOwnerRepo:    coOwnerRepo,
		submissionRepo: submissionRepo,
	}
}

// ruleKey dedupes rule rows within a single resolution pass.
type ruleKey struct {
	documentTypeID uuid.UUID
	partyType      domain.PartyType
}

// target is one concrete recipient of a rule: a bound co-owner, or the
// transaction itself when CoOwnerID is nil.
type target struct {
	coOwnerID *uuid.UUID
	partyType domain.PartyType
}

// Resolve expands the scenario's rules against the current co-owner set
// and creates every missing submission. A transaction without a scenario
// resolves to nothing. Duplicate rule rows and repeated calls are both
// safe: a per-call dedupe set skips repeats, and the storage uniqueness
// constraint absorbs races between concurrent resolvers.
func (s *resolverService) Resolve(ctx context.Context, transactionID uuid.UUID) (*ResolveResult, error) {
	txn, err := s.txnRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("resolver.Resolve: %w", err)
	}
	if txn.ScenarioID == nil {
		return &ResolveResult{}, nil
	}

	rules, err := s.scenarioRepo.ListRules(ctx, *txn.ScenarioID)
	if err != nil {
		return nil, fmt.Errorf("resolver.Resolve: %w", err)
	}
	if len(rules) == 0 {
		return &ResolveResult{}, nil
	}

	coOwners, err := s.coOwnerRepo.ListActiveByTransaction(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("resolver.Resolve: %w", err)
	}

	docTypeIDs := make([]uuid.UUID, 0, len(rules))
	for _, rule := range rules {
		docTypeIDs = append(docTypeIDs, rule.DocumentTypeID)
	}
	docTypes, err := s.docTypeRepo.GetByIDs(ctx, docTypeIDs)
	if err != nil {
		return nil, fmt.Errorf("resolver.Resolve: %w", err)
	}

	result := &ResolveResult{}
	processed := make(map[ruleKey]bool)

	for _, rule := range rules {
		key := ruleKey{documentTypeID: rule.DocumentTypeID, partyType: rule.PartyType}
		if processed[key] {
			continue
		}
		processed[key] = true

		docType, ok := docTypes[rule.DocumentTypeID]
		if !ok {
			// Rule references a missing catalog entry. Blocks this rule
			// only; the rest of the scenario still resolves.
			log.Printf("resolver.Resolve: transaction %s rule %s references unknown document type %s, skipping",
				transactionID, rule.ID, rule.DocumentTypeID)
			continue
		}

		for _, t := range ruleTargets(rule, coOwners) {
			created, err := s.createIfAbsent(ctx, txn, rule, docType, t)
			if err != nil {
				return nil, fmt.Errorf("resolver.Resolve: %w", err)
			}
			if created {
				result.Created++
			} else {
				result.Existing++
			}
		}
	}

	return result, nil
}

// ruleTargets maps one rule to its concrete recipients given the
// current active co-owner set. Principal-only rules bind exclusively to
// the co-owner flagged primary, overriding the rule's party fan-out.
// Offerer and acquirer rules are never co-owner-bound.
func ruleTargets(rule domain.ScenarioRule, coOwners []domain.CoOwner) []target {
	if rule.PrincipalOnly || rule.PartyType == domain.PartyPrincipalCoOwner {
		for i := range coOwners {
			if coOwners[i].IsPrimary {
				id := coOwners[i].ID
				return []target{{coOwnerID: &id, partyType: domain.PartyPrincipalCoOwner}}
			}
		}
		return nil
	}

	switch rule.PartyType {
	case domain.PartyOfferer, domain.PartyAcquirer:
		return []target{{partyType: rule.PartyType}}
	case domain.PartyCoOwner:
		var targets []target
		for i := range coOwners {
			if coOwners[i].IsOwner() {
				id := coOwners[i].ID
				targets = append(targets, target{coOwnerID: &id, partyType: domain.PartyCoOwner})
			}
		}
		return targets
	case domain.PartyBoth:
		var targets []target
		for i := range coOwners {
			id := coOwners[i].ID
			targets = append(targets, target{coOwnerID: &id, partyType: domain.PartyBoth})
		}
		return targets
	}
	return nil
}

// createIfAbsent inserts one submission, treating the uniqueness
// violation on the idempotency key as "already exists".
func (s *resolverService) createIfAbsent(
	ctx context.Context,
	txn *domain.Transaction,
	rule domain.ScenarioRule,
	docType *domain.DocumentType,
	t target,
) (bool, error) {
	sub := &domain.DocumentSubmission{
		ID:             uuid.New(),
		TransactionID:  txn.ID,
		DocumentTypeID: rule.DocumentTypeID,
		CoOwnerID:      t.coOwnerID,
		PartyType:      t.partyType,
		Required:       rule.Required,
		Status:         domain.SubmissionPendingRequest,
		AnalysisStatus: domain.AnalysisNone,
		ExpiryDate:     computeExpiry(docType, time.Now()),
	}

	if err := s.submissionRepo.Create(ctx, sub); err != nil {
		if errors.Is(err, domain.ErrSubmissionExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func computeExpiry(docType *domain.DocumentType, now time.Time) *time.Time {
	if docType.ValidityMonths == nil {
		return nil
	}
	expiry := now.AddDate(0, *docType.ValidityMonths, 0)
	return &expiry
}
