package domain

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// FileStatus represents the lifecycle of an uploaded file.
type FileStatus string

const (
	FileStatusPending  FileStatus = "pending"
	FileStatusUploaded FileStatus = "uploaded"
	FileStatusFailed   FileStatus = "failed"
	FileStatusDeleted  FileStatus = "deleted"
)

// UserRole defines what a user may do inside a tenant.
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleApprover  UserRole = "approver"
	RolePurchaser UserRole = "purchaser"
	RoleStore     UserRole = "store"
	RoleAccounts  UserRole = "accounts"
	RoleViewer    UserRole = "viewer"
)

// ValidUserRoles is the set of assignable roles.
var ValidUserRoles = map[UserRole]bool{
	RoleAdmin:     true,
	RoleApprover:  true,
	RolePurchaser: true,
	RoleStore:     true,
	RoleAccounts:  true,
	RoleViewer:    true,
}

// FirmMatchAll grants access to every firm of the tenant.
const FirmMatchAll = "all"

// VendorType classifies an indent's sourcing path.
type VendorType string

const (
	VendorTypePending    VendorType = "Pending"
	VendorTypeRegular    VendorType = "Regular"
	VendorTypeNewVendor  VendorType = "New Vendor"
	VendorTypeReject     VendorType = "Reject"
	VendorTypeThreeParty VendorType = "Three Party"
)

// ValidApprovalVendorTypes are the vendor types an approver may choose.
var ValidApprovalVendorTypes = map[VendorType]bool{
	VendorTypeRegular:    true,
	VendorTypeNewVendor:  true,
	VendorTypeReject:     true,
	VendorTypeThreeParty: true,
}

// IndentType distinguishes purchases from issues out of existing stock.
type IndentType string

const (
	IndentTypePurchase IndentType = "Purchase"
	IndentTypeStoreOut IndentType = "Store Out"
)

// ReconcileStatus is the outcome of a lift's bill check.
type ReconcileStatus string

const (
	ReconcilePending  ReconcileStatus = "pending"
	ReconcileMatched  ReconcileStatus = "matched"
	ReconcileMismatch ReconcileStatus = "mismatch"
)

// TallyStatus is the outcome of entering a lift into the accounting system.
type TallyStatus string

const (
	TallyPending TallyStatus = "pending"
	TallyDone    TallyStatus = "done"
	TallyNotDone TallyStatus = "not_done"
)

// EntityType names the record kinds tracked in the audit log.
type EntityType string

const (
	EntityIndent        EntityType = "indent"
	EntityLift          EntityType = "lift"
	EntityPurchaseOrder EntityType = "purchase_order"
)

// AuditAction names a mutation recorded in the audit log.
type AuditAction string

const (
	AuditIndentCreated      AuditAction = "indent.created"
	AuditIndentImported     AuditAction = "indent.imported"
	AuditIndentApproved     AuditAction = "indent.approved"
	AuditIndentRated        AuditAction = "indent.rate_updated"
	AuditIndentThreeParty   AuditAction = "indent.three_party_approved"
	AuditIndentOrdered      AuditAction = "indent.po_created"
	AuditIndentReceived     AuditAction = "indent.received"
	AuditIndentStoreIssued  AuditAction = "indent.store_issued"
	AuditPOCreated          AuditAction = "purchase_order.created"
	AuditLiftCreated        AuditAction = "lift.created"
	AuditLiftStoredIn       AuditAction = "lift.stored_in"
	AuditLiftBillChecked    AuditAction = "lift.bill_checked"
	AuditLiftTallied        AuditAction = "lift.tally_entered"
	AuditLiftTallyCorrected AuditAction = "lift.tally_corrected"
)

// MasterKind groups dropdown values maintained by admins.
type MasterKind string

const (
	MasterDepartment  MasterKind = "department"
	MasterGroupHead   MasterKind = "group_head"
	MasterUOM         MasterKind = "uom"
	MasterFirm        MasterKind = "firm"
	MasterAreaOfUse   MasterKind = "area_of_use"
	MasterPaymentTerm MasterKind = "payment_term"
)

// ValidMasterKinds is the set of accepted master option kinds.
var ValidMasterKinds = map[MasterKind]bool{
	MasterDepartment:  true,
	MasterGroupHead:   true,
	MasterUOM:         true,
	MasterFirm:        true,
	MasterAreaOfUse:   true,
	MasterPaymentTerm: true,
}
