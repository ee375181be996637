package errno

import "errors"

// Errno defines the error code logic
type Errno struct {
	Code    int
	Message string
	// Detail carries the upstream message verbatim, e.g. a contract revert reason.
	Detail string

	cause error
}

func (e Errno) Error() string {
	switch {
	case e.Detail != "":
		return e.Message + ": " + e.Detail
	case e.cause != nil:
		return e.Message + ": " + e.cause.Error()
	default:
		return e.Message
	}
}

// Unwrap exposes the wrapped cause to errors.Is / errors.As
func (e Errno) Unwrap() error {
	return e.cause
}

// Is matches any Errno carrying the same code, regardless of message or cause
func (e Errno) Is(target error) bool {
	switch t := target.(type) {
	case Errno:
		return t.Code == e.Code
	case *Errno:
		return t != nil && t.Code == e.Code
	}
	return false
}

// WithMessage returns a copy with a more specific message
func (e Errno) WithMessage(msg string) Errno {
	e.Message = msg
	return e
}

// WithDetail returns a copy carrying an upstream message
func (e Errno) WithDetail(detail string) Errno {
	e.Detail = detail
	return e
}

// Wrap returns a copy wrapping err as its cause
func (e Errno) Wrap(err error) Errno {
	e.cause = err
	return e
}

// Decode tries to convert an error to Errno
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}

	var typed Errno
	if errors.As(err, &typed) {
		return typed.Code, typed.Error()
	}
	var ptr *Errno
	if errors.As(err, &ptr) && ptr != nil {
		return ptr.Code, ptr.Error()
	}
	return InternalServerError.Code, err.Error()
}

// Common Errors
var (
	OK                  = Errno{Code: 0, Message: "Success"}
	InternalServerError = Errno{Code: 10001, Message: "Internal server error"}
	ErrBind             = Errno{Code: 10002, Message: "Error occurred while binding the request body to the struct"}
	ErrTokenInvalid     = Errno{Code: 10003, Message: "Token invalid"}
	ErrDatabase         = Errno{Code: 10004, Message: "Database error"}
	ErrUnsupportedKind  = Errno{Code: 10005, Message: "Unsupported request kind"}
	ErrDuplicateRequest = Errno{Code: 10006, Message: "Duplicate request"}
)

// Pipeline Errors (30000+)
var (
	ErrClientUnavailable = Errno{Code: 30001, Message: "Zetrix client not initialized"}
	ErrEndpoint          = Errno{Code: 30002, Message: "Unable to connect to Zetrix node"}

	// validation, raised before any ledger call
	ErrMissingField        = Errno{Code: 30101, Message: "Required field is missing"}
	ErrInvalidAmount       = Errno{Code: 30102, Message: "Invalid amount value"}
	ErrInvalidExpression   = Errno{Code: 30103, Message: "Invalid amount expression"}
	ErrInvalidParamsFormat = Errno{Code: 30104, Message: "Invalid input params JSON format"}

	// ledger stages
	ErrNonceFetch     = Errno{Code: 30201, Message: "Get nonce error"}
	ErrOperationBuild = Errno{Code: 30202, Message: "Create operation error"}
	ErrFeeEvaluation  = Errno{Code: 30203, Message: "Unable to get fee"}
	ErrBlobBuild      = Errno{Code: 30204, Message: "Build blob error"}
	ErrSign           = Errno{Code: 30205, Message: "Sign transaction error"}
	ErrSubmission     = Errno{Code: 30206, Message: "Error while submitting transaction"}

	// contract query
	ErrInvalidResponseFormat = Errno{Code: 30301, Message: "Invalid response format"}
	ErrQueryExecution        = Errno{Code: 30302, Message: "Query error"}

	// journal
	ErrSubmissionNotFound = Errno{Code: 30401, Message: "Submission not found"}
)
