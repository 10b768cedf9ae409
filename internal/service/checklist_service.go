package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"brokerdocs/internal/domain"
	"brokerdocs/internal/port"
)

// ChecklistItem is one submission projected for the checklist view.
type ChecklistItem struct {
	SubmissionID uuid.UUID               `json:"submission_id"`
	DocumentName string                  `json:"document_name"`
	Category     domain.DocumentCategory `json:"category"`
	Required     bool                    `json:"required"`
	Status       domain.SubmissionStatus `json:"status"`
	ExpiryDate   *time.Time              `json:"expiry_date"`
	Expired      bool                    `json:"expired"`
	ExpiringSoon bool                    `json:"expiring_soon"`
}

// CategoryGroup aggregates one document category's items with counts.
type CategoryGroup struct {
	Category  domain.DocumentCategory `json:"category"`
	Total     int                     `json:"total"`
	Uploaded  int                     `json:"uploaded"`
	Validated int                     `json:"validated"`
	Items     []ChecklistItem         `json:"items"`
}

// PartyChecklist groups one party's (or co-owner's) submissions by
// category. CoOwnerID is nil for transaction-level parties.
type PartyChecklist struct {
	PartyType  domain.PartyType `json:"party_type"`
	CoOwnerID  *uuid.UUID       `json:"co_owner_id"`
	PersonName string           `json:"person_name,omitempty"`
	Categories []CategoryGroup  `json:"categories"`
}

// Checklist is the read model for one transaction's document state.
type Checklist struct {
	TransactionID uuid.UUID        `json:"transaction_id"`
	Total         int              `json:"total"`
	Uploaded      int              `json:"uploaded"`
	Validated     int              `json:"validated"`
	Parties       []PartyChecklist `json:"parties"`
}

// ChecklistService builds the per-party, per-category checklist view
// consumed by reporting.
type ChecklistService interface {
	Build(ctx context.Context, transactionID uuid.UUID) (*Checklist, error)
}

type checklistService struct {
	submissionRepo port.SubmissionRepository
	docTypeRepo    port.DocumentTypeRepository
	coOwnerRepo    port.CoOwnerRepository
}

// NewChecklistService creates a new ChecklistService implementation.
func NewChecklistService(
	submissionRepo port.SubmissionRepository,
	docTypeRepo port.DocumentTypeRepository,
	coOwnerRepo port.CoOwnerRepository,
) ChecklistService {
	return &checklistService{
		submissionRepo: submissionRepo,
		docTypeRepo:    docTypeRepo,
		coOwnerRepo:    coOwnerRepo,
	}
}

// uploadedStatuses are the states in which a file has been delivered.
var uploadedStatuses = map[domain.SubmissionStatus]bool{
	domain.SubmissionReceived:  true,
	domain.SubmissionValidated: true,
}

func (s *checklistService) Build(ctx context.Context, transactionID uuid.UUID) (*Checklist, error) {
	subs, err := s.submissionRepo.ListByTransaction(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("checklist.Build: %w", err)
	}

	docTypeIDs := make([]uuid.UUID, 0, len(subs))
	for _, sub := range subs {
		docTypeIDs = append(docTypeIDs, sub.DocumentTypeID)
	}
	docTypes, err := s.docTypeRepo.GetByIDs(ctx, docTypeIDs)
	if err != nil {
		return nil, fmt.Errorf("checklist.Build: %w", err)
	}

	coOwners, err := s.coOwnerRepo.ListByTransaction(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("checklist.Build: %w", err)
	}
	names := make(map[uuid.UUID]string, len(coOwners))
	for _, co := range coOwners {
		names[co.ID] = co.PersonName
	}

	// Group per (partyType, coOwnerID), preserving first-seen order.
	type partyKey struct {
		partyType domain.PartyType
		coOwnerID uuid.UUID
	}
	grouped := make(map[partyKey][]ChecklistItem)
	var order []partyKey

	now := time.Now()
	checklist := &Checklist{TransactionID: transactionID}

	for i := range subs {
		sub := &subs[i]
		item := ChecklistItem{
			SubmissionID: sub.ID,
			Category:     domain.CategoryOther,
			Required:     sub.Required,
			Status:       sub.Status,
			ExpiryDate:   sub.ExpiryDate,
			Expired:      sub.Expired(now),
			ExpiringSoon: sub.ExpiringSoon(now),
		}
		if docType, ok := docTypes[sub.DocumentTypeID]; ok {
			item.DocumentName = docType.Name
			item.Category = docType.Category
		}

		checklist.Total++
		if uploadedStatuses[sub.Status] {
			checklist.Uploaded++
		}
		if sub.Status == domain.SubmissionValidated {
			checklist.Validated++
		}

		key := partyKey{partyType: sub.PartyType}
		if sub.CoOwnerID != nil {
			key.coOwnerID = *sub.CoOwnerID
		}
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], item)
	}

	for _, key := range order {
		party := PartyChecklist{PartyType: key.partyType}
		if key.coOwnerID != uuid.Nil {
			id := key.coOwnerID
			party.CoOwnerID = &id
			party.PersonName = names[id]
		}
		party.Categories = groupByCategory(grouped[key])
		checklist.Parties = append(checklist.Parties, party)
	}

	return checklist, nil
}

func groupByCategory(items []ChecklistItem) []CategoryGroup {
	grouped := make(map[domain.DocumentCategory]*CategoryGroup)
	var order []domain.DocumentCategory

	for _, item := range items {
		group, ok := grouped[item.Category]
		if !ok {
			group = &CategoryGroup{Category: item.Category}
			grouped[item.Category] = group
			order = append(order, item.Category)
		}
		group.Total++
		if uploadedStatuses[item.Status] {
			group.Uploaded++
		}
		if item.Status == domain.SubmissionValidated {
			group.Validated++
		}
		group.Items = append(group.Items, item)
	}

	groups := make([]CategoryGroup, 0, len(order))
	for _, category := range order {
		groups = append(groups, *grouped[category])
	}
	return groups
}
