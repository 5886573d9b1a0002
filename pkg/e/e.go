package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Внутренние ошибки с векторами
	ErrEmptyVector        = fmt.Errorf("empty embedding vector")
	ErrVectorSizeMismatch = fmt.Errorf("embedding vector size mismatch")

	// Ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect env variable")
	ErrAPIKeyRequired       = fmt.Errorf("provider api key is required")

	// 404 Not Found
	ErrProductNotFound = fmt.Errorf("product not found")

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrNoProducts           = fmt.Errorf("no products provided")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")
	ErrMissingFields        = fmt.Errorf("missing required fields")
	ErrInvalidPrice         = fmt.Errorf("invalid price")
	ErrPricePrecision       = fmt.Errorf("price must have at most 2 decimal places")
	ErrInvalidStock         = fmt.Errorf("stock must be non-negative")
	ErrInvalidProductID     = fmt.Errorf("invalid product id")
	ErrProductNameRequired  = fmt.Errorf("product name is required")
	ErrCategoryRequired     = fmt.Errorf("category is required")
	ErrTooManyImages        = fmt.Errorf("too many images")
	ErrNoImages             = fmt.Errorf("no images provided")
	ErrFileTooLarge         = fmt.Errorf("file too large")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
