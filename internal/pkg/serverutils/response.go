package serverutils

// Response is the envelope every successful endpoint returns.
type Response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// ErrorBody is the envelope for failures. Errors lists individual rule
// violations for 400 responses and is omitted otherwise.
type ErrorBody struct {
	Success bool     `json:"success"`
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func ErrorResponse(code int, message string, errs ...string) ErrorBody {
	return ErrorBody{
		Success: false,
		Code:    code,
		Message: message,
		Errors:  errs,
	}
}
