package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"без обрамления", `{"recommendations": []}`, `{"recommendations": []}`},
		{"json fence", "```json\n{\"recommendations\": []}\n```", `{"recommendations": []}`},
		{"обычный fence", "```\n{\"recommendations\": []}\n```", `{"recommendations": []}`},
		{"пробелы вокруг", "  \n```json\n{}\n```\n  ", "{}"},
		{"пустая строка", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stripCodeFences(tc.raw))
		})
	}
}

func TestParseInsights(t *testing.T) {
	t.Run("ID числом и строкой", func(t *testing.T) {
		raw := `{"recommendations": [
			{"productId": 7, "productName": "Laptop A", "reason": "r1"},
			{"productId": "12", "productName": "Laptop B", "reason": "r2"}
		]}`

		parsed := parseInsights(raw)
		require.Len(t, parsed, 2)
		assert.Equal(t, flexID(7), parsed[0].ProductID)
		assert.Equal(t, flexID(12), parsed[1].ProductID)
	})

	t.Run("нечисловой ID не валит разбор", func(t *testing.T) {
		raw := `{"recommendations": [{"productId": "Laptop A", "productName": "Laptop A", "reason": "r"}]}`

		parsed := parseInsights(raw)
		require.Len(t, parsed, 1)
		assert.Equal(t, flexID(0), parsed[0].ProductID)
		assert.Equal(t, "Laptop A", parsed[0].ProductName)
	})

	t.Run("обрамление code fence", func(t *testing.T) {
		raw := "```json\n{\"recommendations\": [{\"productId\": 3, \"reason\": \"r\"}]}\n```"

		parsed := parseInsights(raw)
		require.Len(t, parsed, 1)
		assert.Equal(t, flexID(3), parsed[0].ProductID)
	})

	t.Run("битый JSON", func(t *testing.T) {
		assert.Nil(t, parseInsights("not json at all"))
	})

	t.Run("пустой ответ", func(t *testing.T) {
		assert.Nil(t, parseInsights("   "))
	})
}

func TestMatchInsight(t *testing.T) {
	candidate := &ProductRecord{ID: 42, Name: "ThinkBook 15"}

	t.Run("приоритет у точного ID", func(t *testing.T) {
		parsed := []parsedInsight{
			{ProductID: 1, ProductName: "ThinkBook 15", Reason: "by name"},
			{ProductID: 42, ProductName: "что-то другое", Reason: "by id"},
		}

		match, ok := matchInsight(candidate, parsed)
		require.True(t, ok)
		assert.Equal(t, "by id", match.Reason)
	})

	t.Run("вхождение имени без учёта регистра", func(t *testing.T) {
		parsed := []parsedInsight{
			{ProductID: 0, ProductName: "thinkbook 15 gen 2", Reason: "superset"},
		}

		match, ok := matchInsight(candidate, parsed)
		require.True(t, ok)
		assert.Equal(t, "superset", match.Reason)
	})

	t.Run("вхождение в обратную сторону", func(t *testing.T) {
		parsed := []parsedInsight{
			{ProductID: 0, ProductName: "ThinkBook", Reason: "subset"},
		}

		match, ok := matchInsight(candidate, parsed)
		require.True(t, ok)
		assert.Equal(t, "subset", match.Reason)
	})

	t.Run("первое совпадение по имени выигрывает", func(t *testing.T) {
		parsed := []parsedInsight{
			{ProductID: 0, ProductName: "ThinkBook 15", Reason: "first"},
			{ProductID: 0, ProductName: "ThinkBook 15", Reason: "second"},
		}

		match, ok := matchInsight(candidate, parsed)
		require.True(t, ok)
		assert.Equal(t, "first", match.Reason)
	})

	t.Run("пустое имя пропускается", func(t *testing.T) {
		parsed := []parsedInsight{
			{ProductID: 0, ProductName: "   ", Reason: "blank"},
		}

		_, ok := matchInsight(candidate, parsed)
		assert.False(t, ok)
	})

	t.Run("нет совпадений", func(t *testing.T) {
		parsed := []parsedInsight{
			{ProductID: 7, ProductName: "MacBook Air", Reason: "other"},
		}

		_, ok := matchInsight(candidate, parsed)
		assert.False(t, ok)
	})
}

func TestDefaultInsight(t *testing.T) {
	current := int64(100_000)

	cases := []struct {
		name           string
		candidatePrice int64
		want           string
	}{
		{"дешевле", 80_000, priceLower},
		{"дороже", 120_000, priceHigher},
		{"та же цена", 100_000, priceSimilar},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			insight := defaultInsight(&ProductRecord{Price: tc.candidatePrice}, current)

			assert.Equal(t, tc.want, insight.PriceComparison)
			assert.Equal(t, defaultReason, insight.Reason)
			assert.Equal(t, defaultKeyDifferences, insight.KeyDifferences)
			assert.Equal(t, defaultBestFor, insight.BestFor)
		})
	}
}

func TestBuildInsightPrompt(t *testing.T) {
	current := &ProductRecord{
		ID: 1, Name: "Laptop X", Company: "Acme", CategoryName: "laptops",
		Price: 99_999, Features: "16GB RAM", Description: "thin and light",
	}
	candidates := []Recommendation{
		{Product: ProductRecord{ID: 5, Name: "Laptop Y", Price: 89_999}},
		{Product: ProductRecord{ID: 9, Name: "Laptop Z", Price: 119_999}},
	}

	prompt := buildInsightPrompt(current, candidates, 4)

	// ID всех товаров проговорены явно: сверка ответа идёт в первую очередь по ним.
	assert.Contains(t, prompt, "productId: 1")
	assert.Contains(t, prompt, "productId: 5")
	assert.Contains(t, prompt, "productId: 9")
	assert.Contains(t, prompt, "price: $999.99")
	assert.Contains(t, prompt, "at most 4 recommendations")
	assert.Contains(t, prompt, `"recommendations"`)

	// Текущий товар описан до списка кандидатов.
	assert.Less(t, strings.Index(prompt, "CURRENT PRODUCT"), strings.Index(prompt, "SIMILAR PRODUCTS FOUND"))
}
