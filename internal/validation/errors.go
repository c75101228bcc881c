// Package validation checks the shape of inbound call events and bill
// queries before any business logic runs. Every check reports only the first
// violated rule, as a single field and message.
package validation

const (
	NonFieldErrors = "non_field_errors"

	msgRequired             = "This field is required."
	msgRequiredIfStart      = "This field is required if call type is start."
	msgExpectedObject       = "Invalid data. Expected a dictionary."
	msgTimestampNotString   = "timestamp must be a string."
	msgCallIDNotInteger     = "call_id must be an integer."
	msgTypeInvalid          = `type must be a string with value "start" or "end".`
	msgTimestampFormat      = `timestamp must be in the format: "YYYY-MM-DDThh:mm:ssZ"`
	msgPeriodFormat         = `period must be in the format: "MM/YYYY"`
	msgPeriodNotClosed      = "period must be of a closed (previous) month."
	msgTimestampBeforeStart = "timestamp must not be earlier than the call start."
	msgNotStringFormat      = "%s must be a string."
	msgPhoneNumberFormat    = "%s must be a string of 10 or 11 digits."
)

// FieldError is a single validation failure
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Map renders the failure as the {field: message} response body
func (e *FieldError) Map() map[string]string {
	return map[string]string{e.Field: e.Message}
}

func fieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

// EndBeforeStartError reports an end event that would precede the stored start
// of its call, or a start that would follow the stored end.
func EndBeforeStartError() *FieldError {
	return fieldError("timestamp", msgTimestampBeforeStart)
}

// ExpectedObjectError reports a body that is not a JSON object
func ExpectedObjectError() *FieldError {
	return fieldError(NonFieldErrors, msgExpectedObject)
}
