package errors

import "net/http"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeTimeout            ErrorCode = "COMMON_005"
	ErrCodeValidation         ErrorCode = "COMMON_006"
	ErrCodeSerialization      ErrorCode = "COMMON_007"
	ErrCodeDatabaseError      ErrorCode = "COMMON_008"
	ErrCodeCacheError         ErrorCode = "COMMON_009"
	ErrCodeStorageError       ErrorCode = "COMMON_010"
	ErrCodeMessagingError     ErrorCode = "COMMON_011"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_012"
	ErrCodeUnknown            ErrorCode = "COMMON_999"
)

// Ship module error codes
const (
	ErrCodeShipNotFound      ErrorCode = "SHIP_001"
	ErrCodeShipInvalid       ErrorCode = "SHIP_002"
	ErrCodeShipLocked        ErrorCode = "SHIP_003"
	ErrCodeShipUpdateFailed  ErrorCode = "SHIP_004"
)

// Certificate module error codes
const (
	ErrCodeCertificateNotFound     ErrorCode = "CERT_001"
	ErrCodeCertificateInvalid      ErrorCode = "CERT_002"
	ErrCodeCertificateUpdateFailed ErrorCode = "CERT_003"
	ErrCodeDocumentNotFound        ErrorCode = "CERT_004"
	ErrCodeDocumentUploadFailed    ErrorCode = "CERT_005"
)

// Survey engine error codes. These classify hard failures around the
// scheduling engine; the engine's own "no result" outcomes are not errors
// and are carried as survey.FailureCode values instead.
const (
	ErrCodeRecalculationFailed ErrorCode = "SURVEY_001"
	ErrCodeScheduleUnavailable ErrorCode = "SURVEY_002"
)

// HTTPStatus maps an ErrorCode to the HTTP status code used by the API layer.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case ErrCodeBadRequest, ErrCodeValidation, ErrCodeShipInvalid, ErrCodeCertificateInvalid:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeShipNotFound, ErrCodeCertificateNotFound, ErrCodeDocumentNotFound:
		return http.StatusNotFound
	case ErrCodeConflict, ErrCodeShipLocked:
		return http.StatusConflict
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
