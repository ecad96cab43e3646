package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrTenantInactive      = errors.New("tenant is inactive")
	ErrUserInactive        = errors.New("user is inactive")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrDuplicateEmail      = errors.New("email already exists for this tenant")
	ErrDuplicateTenantSlug = errors.New("tenant slug already exists")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrInvalidRole         = errors.New("invalid user role")

	ErrIndentNotFound     = errors.New("indent not found")
	ErrLiftNotFound       = errors.New("lift not found")
	ErrPONotFound         = errors.New("purchase order not found")
	ErrVendorNotFound     = errors.New("vendor not found")
	ErrDuplicateVendor    = errors.New("vendor already exists")
	ErrDuplicateNumber    = errors.New("record number already exists")
	ErrDuplicateOption    = errors.New("master option already exists")
	ErrVersionConflict    = errors.New("record was modified by another request")
	ErrInvalidTransition  = errors.New("stage is not pending for this record")
	ErrStageForbidden     = errors.New("role may not act on this stage")
	ErrFirmForbidden      = errors.New("firm is outside the caller's access")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrInvalidVendorType  = errors.New("invalid vendor type")
	ErrInvalidQuotes      = errors.New("three party sourcing requires exactly three quotes")
	ErrInvalidQuoteIndex  = errors.New("quote index out of range")
	ErrMissingRate        = errors.New("indent has no vendor rate")
	ErrMixedPurchaseOrder = errors.New("indents differ in firm or vendor")
	ErrInvalidMasterKind  = errors.New("invalid master option kind")
	ErrInvalidImport      = errors.New("import file is not a valid indent sheet")
	ErrInvalidTallyStatus = errors.New("invalid tally status")
	ErrInvalidStage       = errors.New("unknown stage or view")
	ErrValidation         = errors.New("validation failed")
)
