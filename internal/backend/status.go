package backend

import "strconv"

// Status is the outcome code of every backend call. Values match the
// cublasStatus_t codes so native libraries can return them unchanged.
type Status int

const (
	StatusSuccess         Status = 0
	StatusNotInitialized  Status = 1
	StatusAllocFailed     Status = 3
	StatusInvalidValue    Status = 7
	StatusArchMismatch    Status = 8
	StatusMappingError    Status = 11
	StatusExecutionFailed Status = 13
	StatusInternalError   Status = 14
	StatusNotSupported    Status = 15
)

// StatusFromCode converts a raw library code. Codes outside the known set
// become StatusInternalError.
func StatusFromCode(code int) Status {
	switch s := Status(code); s {
	case StatusSuccess, StatusNotInitialized, StatusAllocFailed, StatusInvalidValue,
		StatusArchMismatch, StatusMappingError, StatusExecutionFailed,
		StatusInternalError, StatusNotSupported:
		return s
	default:
		return StatusInternalError
	}
}

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusNotInitialized:
		return "not initialized"
	case StatusAllocFailed:
		return "alloc failed"
	case StatusInvalidValue:
		return "invalid value"
	case StatusArchMismatch:
		return "arch mismatch"
	case StatusMappingError:
		return "mapping error"
	case StatusExecutionFailed:
		return "execution failed"
	case StatusInternalError:
		return "internal error"
	case StatusNotSupported:
		return "not supported"
	default:
		return "status " + strconv.Itoa(int(s))
	}
}

// Error lets a Status act as a sentinel for errors.Is.
func (s Status) Error() string {
	return "blas: " + s.String()
}

// Kind groups statuses into the error taxonomy.
type Kind int

const (
	KindNone Kind = iota
	KindInit
	KindInvalidArgument
	KindResource
	KindExecution
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInit:
		return "initialization"
	case KindInvalidArgument:
		return "invalid argument"
	case KindResource:
		return "resource"
	case KindExecution:
		return "execution"
	default:
		return "unknown"
	}
}

// Kind reports the failure class of s.
func (s Status) Kind() Kind {
	switch s {
	case StatusSuccess:
		return KindNone
	case StatusNotInitialized:
		return KindInit
	case StatusInvalidValue:
		return KindInvalidArgument
	case StatusAllocFailed, StatusMappingError:
		return KindResource
	default:
		return KindExecution
	}
}
