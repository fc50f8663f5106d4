package errorutil

import "fmt"

// FaultKind is the closed set of persistence failures the mapper understands.
type FaultKind int

const (
	FaultUnknown FaultKind = iota
	FaultUniqueViolation
	FaultRecordNotFound
)

func (k FaultKind) String() string {
	switch k {
	case FaultUniqueViolation:
		return "unique_violation"
	case FaultRecordNotFound:
		return "record_not_found"
	default:
		return "unknown"
	}
}

// StoreFault is returned by repositories for every failure they observe.
type StoreFault struct {
	Kind FaultKind
	// Code is the driver's raw code (SQLSTATE for postgres), empty when uncoded.
	Code string
	Err  error
}

// NewStoreFault wraps err with a fault kind.
func NewStoreFault(kind FaultKind, code string, err error) *StoreFault {
	return &StoreFault{Kind: kind, Code: code, Err: err}
}

func (f *StoreFault) Error() string {
	if f.Code != "" {
		return fmt.Sprintf("store %s (%s): %v", f.Kind, f.Code, f.Err)
	}
	return fmt.Sprintf("store %s: %v", f.Kind, f.Err)
}

func (f *StoreFault) Unwrap() error {
	return f.Err
}

func (f *StoreFault) toDomainError() *DomainError {
	switch f.Kind {
	case FaultUniqueViolation:
		return &DomainError{Kind: KindConflict, Message: MsgConflict, StoreCode: f.Code, Err: f}
	case FaultRecordNotFound:
		return &DomainError{Kind: KindNotFound, Message: MsgResourceNotFound, StoreCode: f.Code, Err: f}
	default:
		return &DomainError{Kind: KindInternal, Message: MsgDatabaseError, StoreCode: f.Code, Err: f}
	}
}
