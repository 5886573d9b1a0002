package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type ProductMetadata struct {
	Name         string
	Company      string
	CategoryName string
	Price        int64
	Stock        int32
	Description  string
	Features     string
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrExpectedMultipart):
		return http.StatusBadRequest, e.ErrExpectedMultipart.Error()
	case errors.Is(err, e.ErrMissingFields):
		return http.StatusBadRequest, e.ErrMissingFields.Error()
	case errors.Is(err, e.ErrInvalidPrice):
		return http.StatusBadRequest, e.ErrInvalidPrice.Error()
	case errors.Is(err, e.ErrPricePrecision):
		return http.StatusBadRequest, e.ErrPricePrecision.Error()
	case errors.Is(err, e.ErrInvalidStock):
		return http.StatusBadRequest, e.ErrInvalidStock.Error()
	case errors.Is(err, e.ErrInvalidProductID):
		return http.StatusBadRequest, e.ErrInvalidProductID.Error()
	case errors.Is(err, e.ErrProductNameRequired):
		return http.StatusBadRequest, e.ErrProductNameRequired.Error()
	case errors.Is(err, e.ErrCategoryRequired):
		return http.StatusBadRequest, e.ErrCategoryRequired.Error()
	case errors.Is(err, e.ErrNoProducts):
		return http.StatusBadRequest, e.ErrNoProducts.Error()
	case errors.Is(err, e.ErrTooManyImages):
		return http.StatusBadRequest, e.ErrTooManyImages.Error()
	case errors.Is(err, e.ErrNoImages):
		return http.StatusBadRequest, e.ErrNoImages.Error()
	case errors.Is(err, e.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, e.ErrFileTooLarge.Error()
	case errors.Is(err, e.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, e.ErrUnsupportedMediaType.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parsePriceToCents converts a string like "599.99" or "600" to int64 cents.
// Returns error if:
// - invalid format
// - more than 2 decimal places
// - negative value
// - exceeds reasonable limit (e.g. 10^9 rubles)
func parsePriceToCents(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, errors.New("price is empty")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, e.ErrInvalidPrice
	}

	// Reject negative
	if d.LessThan(decimal.Zero) {
		return 0, e.ErrInvalidPrice
	}

	// Enforce max value: d здесь в рублях, не в копейках
	maxPrice := decimal.NewFromInt(1_000_000_000)
	if d.GreaterThan(maxPrice) {
		return 0, e.ErrInvalidPrice
	}

	// Check decimal places
	if d.Exponent() < -2 {
		return 0, e.ErrPricePrecision // "price must have at most 2 decimal places"
	}

	// Convert to cents: multiply by 100 and round
	cents := d.Mul(decimal.NewFromInt(100)).Round(0)

	// Safely convert to int64
	centsInt := cents.IntPart()
	if centsInt < 0 || centsInt > 9223372036854775807 { // int64 max, but we have maxPrice
		return 0, e.ErrInvalidPrice
	}

	return centsInt, nil
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	return r.ParseMultipartForm(maxMemory)
}

func parseProductForm(r *http.Request) (*ProductMetadata, error) {
	name := r.FormValue("name")
	category := r.FormValue("category")
	priceStr := r.FormValue("price")

	if name == "" || category == "" || priceStr == "" {
		return nil, e.Wrap(fmt.Sprintf("name: %s, category: %s, price: %s\n", name, category, priceStr), e.ErrMissingFields)
	}

	priceCents, err := parsePriceToCents(priceStr)
	if err != nil {
		return nil, err
	}

	stock, err := parseStock(r.FormValue("stock"))
	if err != nil {
		return nil, err
	}

	return &ProductMetadata{
		Name:         name,
		Company:      r.FormValue("company"),
		CategoryName: category,
		Price:        priceCents,
		Stock:        stock,
		Description:  r.FormValue("description"),
		Features:     r.FormValue("features"),
	}, nil
}

// parseStock разбирает остаток на складе; пустое значение означает 0.
func parseStock(s string) (int32, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}

	stock, err := strconv.ParseInt(s, 10, 32)
	if err != nil || stock < 0 {
		return 0, e.ErrInvalidStock
	}

	return int32(stock), nil
}

// parsePathID разбирает числовой ID товара из path-параметра chi.
func parsePathID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, e.Wrap(raw, e.ErrInvalidProductID)
	}

	return id, nil
}

func parseImages(files []*multipart.FileHeader) ([]usecase.ProductImage, error) {
	const (
		maxImageCount = 10
		maxFileSize   = 15 << 20
	)

	if len(files) == 0 {
		return nil, e.ErrNoImages
	}
	if len(files) > maxImageCount {
		return nil, e.ErrTooManyImages
	}

	images := make([]usecase.ProductImage, 0, len(files))
	for _, fh := range files {
		data, mimeType, err := readFile(fh, maxFileSize)
		if err != nil {
			return nil, err
		}
		images = append(images, *usecase.NewProductImage(data, mimeType, int64(len(data)), fh.Filename))
	}
	return images, nil
}

func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	if int64(len(data)) > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	return data, mimeType, nil
}
