package http

import (
	"net/http"
	"testing"

	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriceToCents(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    int64
		wantErr error
	}{
		{"целая цена", "600", 60_000, nil},
		{"два знака", "599.99", 59_999, nil},
		{"один знак", "10.5", 1_050, nil},
		{"копейки", "0.01", 1, nil},
		{"три знака", "10.999", 0, e.ErrPricePrecision},
		{"отрицательная", "-5", 0, e.ErrInvalidPrice},
		{"не число", "abc", 0, e.ErrInvalidPrice},
		{"запредельная", "2000000000", 0, e.ErrInvalidPrice},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parsePriceToCents(tc.input)

			if tc.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("пустая строка", func(t *testing.T) {
		_, err := parsePriceToCents("   ")
		require.Error(t, err)
	})
}

func TestParseStock(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    int32
		wantErr bool
	}{
		{"пустое значение — ноль", "", 0, false},
		{"обычное значение", "15", 15, false},
		{"ноль", "0", 0, false},
		{"отрицательное", "-1", 0, true},
		{"не число", "many", 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseStock(tc.input)

			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, e.ErrInvalidStock)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestToHTTPResponse(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"не найден", e.ErrProductNotFound, http.StatusNotFound},
		{"обёрнутый не найден", e.Wrap("op", e.ErrProductNotFound), http.StatusNotFound},
		{"невалидная цена", e.ErrInvalidPrice, http.StatusBadRequest},
		{"невалидный остаток", e.ErrInvalidStock, http.StatusBadRequest},
		{"невалидный ID", e.ErrInvalidProductID, http.StatusBadRequest},
		{"имя обязательно", e.ErrProductNameRequired, http.StatusBadRequest},
		{"категория обязательна", e.ErrCategoryRequired, http.StatusBadRequest},
		{"пустой список ID", e.ErrNoProducts, http.StatusBadRequest},
		{"слишком большой файл", e.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"неподдерживаемый тип", e.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType},
		{"неизвестная ошибка", assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, msg := ToHTTPResponse(tc.err)

			assert.Equal(t, tc.want, code)
			assert.NotEmpty(t, msg)
		})
	}

	t.Run("внутренняя ошибка не утекает наружу", func(t *testing.T) {
		_, msg := ToHTTPResponse(e.Wrap("op", assert.AnError))
		assert.Equal(t, e.ErrInternalServerError.Error(), msg)
	})
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "599.99", formatCents(59_999))
	assert.Equal(t, "600.00", formatCents(60_000))
	assert.Equal(t, "0.01", formatCents(1))
}
