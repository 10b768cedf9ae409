package domain

// PartyType identifies which party a scenario rule or submission applies to.
type PartyType string

const (
	PartyOfferer          PartyType = "offerer"
	PartyAcquirer         PartyType = "acquirer"
	PartyCoOwner          PartyType = "co_owner"
	PartyPrincipalCoOwner PartyType = "principal_co_owner"
	PartyBoth             PartyType = "both"
)

// Valid reports whether p is one of the closed set of party types.
func (p PartyType) Valid() bool {
	switch p {
	case PartyOfferer, PartyAcquirer, PartyCoOwner, PartyPrincipalCoOwner, PartyBoth:
		return true
	}
	return false
}

// CoOwnerBound reports whether submissions for this party type are
// bound to a concrete co-owner. Offerer and acquirer submissions are
// transaction-level and carry no co-owner reference.
func (p PartyType) CoOwnerBound() bool {
	switch p {
	case PartyCoOwner, PartyPrincipalCoOwner, PartyBoth:
		return true
	}
	return false
}

// CoOwnerRoleOwner is the privileged co-owner role.
const CoOwnerRoleOwner = "propietario"

// SubmissionStatus is the lifecycle state of a document submission.
type SubmissionStatus string

const (
	SubmissionPendingRequest  SubmissionStatus = "pending_request"
	SubmissionRequested       SubmissionStatus = "requested"
	SubmissionReceived        SubmissionStatus = "received"
	SubmissionValidated       SubmissionStatus = "validated"
	SubmissionRejected        SubmissionStatus = "rejected"
	SubmissionNeedsCorrection SubmissionStatus = "needs_correction"
)

// AnalysisStatus tracks the asynchronous analysis of an attachment.
type AnalysisStatus string

const (
	AnalysisNone       AnalysisStatus = "none"
	AnalysisQueued     AnalysisStatus = "queued"
	AnalysisProcessing AnalysisStatus = "processing"
	AnalysisCompleted  AnalysisStatus = "completed"
	AnalysisFailed     AnalysisStatus = "failed"
)

// DocumentCategory groups catalog entries into families with shared
// extraction and keyword expectations.
type DocumentCategory string

const (
	CategoryIdentity  DocumentCategory = "identity"
	CategoryFinancial DocumentCategory = "financial"
	CategoryProperty  DocumentCategory = "property"
	CategoryLegal     DocumentCategory = "legal"
	CategoryOther     DocumentCategory = "other"
)

// ReviewAction is the kind of lifecycle action recorded in the audit trail.
type ReviewAction string

const (
	ReviewActionRequested     ReviewAction = "requested"
	ReviewActionReceived      ReviewAction = "received"
	ReviewActionValidated     ReviewAction = "validated"
	ReviewActionAutoValidated ReviewAction = "auto_validated"
	ReviewActionRejected      ReviewAction = "rejected"
	ReviewActionRenewed       ReviewAction = "renewed"
)

// UserRole defines the staff role hierarchy.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleAdvisor  UserRole = "advisor"
	RoleReviewer UserRole = "reviewer"
)

// FileType represents the allowed attachment types.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeJPG  FileType = "jpg"
	FileTypePNG  FileType = "png"
	FileTypeHEIC FileType = "heic"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF:  "application/pdf",
	FileTypeJPG:  "image/jpeg",
	FileTypePNG:  "image/png",
	FileTypeHEIC: "image/heic",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
	"image/heic":      FileTypeHEIC,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
	"heic": FileTypeHEIC,
}

// FileStatus represents the lifecycle of an uploaded file.
type FileStatus string

const (
	FileStatusPending  FileStatus = "pending"
	FileStatusUploaded FileStatus = "uploaded"
	FileStatusFailed   FileStatus = "failed"
	FileStatusDeleted  FileStatus = "deleted"
)
