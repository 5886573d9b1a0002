package usecase

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Значения priceComparison для детерминированного пояснения по умолчанию.
const (
	priceLower   = "lower"
	priceHigher  = "higher"
	priceSimilar = "similar"
)

const (
	defaultReason         = "Similar product in your category of interest"
	defaultKeyDifferences = "Check the specifications for details"
	defaultBestFor        = "An alternative worth considering"
)

// insightPayload — ожидаемая JSON-форма ответа генеративной модели.
type insightPayload struct {
	Recommendations []parsedInsight `json:"recommendations"`
}

type parsedInsight struct {
	ProductID       flexID `json:"productId"`
	ProductName     string `json:"productName"`
	Reason          string `json:"reason"`
	PriceComparison string `json:"priceComparison"`
	KeyDifferences  string `json:"keyDifferences"`
	BestFor         string `json:"bestFor"`
}

// flexID принимает ID и числом, и строкой: модель не всегда соблюдает тип.
type flexID int64

func (f *flexID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}

	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Нечисловой ID не валит разбор целиком — сверка пойдёт по имени.
		*f = 0
		return nil
	}

	*f = flexID(id)
	return nil
}

// buildInsightPrompt строит единый структурированный промпт: текущий товар,
// список кандидатов с их стабильными ID и требуемая JSON-форма ответа.
func buildInsightPrompt(current *ProductRecord, candidates []Recommendation, maxInsights int) string {
	var b strings.Builder

	b.WriteString("You are an expert in tech product recommendations. The user is currently viewing this product:\n\n")
	b.WriteString("CURRENT PRODUCT:\n")
	writeProductContext(&b, current)

	b.WriteString("\nSIMILAR PRODUCTS FOUND:\n")
	for i := range candidates {
		writeProductContext(&b, &candidates[i].Product)
		b.WriteString("\n")
	}

	b.WriteString("For each recommended product explain why it is a good alternative, compare prices, ")
	b.WriteString("name the key differences and say when it is the better choice.\n\n")
	b.WriteString("Respond with JSON only, in this exact structure:\n")
	b.WriteString(`{"recommendations": [{"productId": 1, "productName": "...", "reason": "...", "priceComparison": "...", "keyDifferences": "...", "bestFor": "..."}]}`)
	b.WriteString("\n\nEcho the productId of every product exactly as given above. ")
	b.WriteString("Limit the answer to at most " + strconv.Itoa(maxInsights) + " recommendations and be concise but informative.")

	return b.String()
}

func writeProductContext(b *strings.Builder, rec *ProductRecord) {
	b.WriteString("- productId: " + strconv.FormatInt(rec.ID, 10) + "\n")
	b.WriteString("  name: " + rec.Name + "\n")
	b.WriteString("  company: " + rec.Company + "\n")
	b.WriteString("  type: " + rec.CategoryName + "\n")
	b.WriteString("  price: $" + formatPrice(rec.Price) + "\n")
	b.WriteString("  features: " + rec.Features + "\n")
	b.WriteString("  description: " + rec.Description + "\n")
}

// parseInsights защитно разбирает текст модели: срезает обрамляющие code fence
// и при любой ошибке разбора возвращает пустой список.
func parseInsights(raw string) []parsedInsight {
	cleaned := stripCodeFences(raw)
	if cleaned == "" {
		return nil
	}

	var payload insightPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil
	}

	return payload.Recommendations
}

// stripCodeFences убирает обрамление ```json ... ``` вокруг ответа модели.
func stripCodeFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	return strings.TrimSpace(cleaned)
}

// matchInsight сверяет пояснения модели с кандидатом: сначала по точному ID,
// затем по вхождению имени без учёта регистра в обе стороны (первое совпадение).
func matchInsight(candidate *ProductRecord, parsed []parsedInsight) (*parsedInsight, bool) {
	for i := range parsed {
		if int64(parsed[i].ProductID) == candidate.ID {
			return &parsed[i], true
		}
	}

	candidateName := strings.ToLower(candidate.Name)
	for i := range parsed {
		statedName := strings.ToLower(strings.TrimSpace(parsed[i].ProductName))
		if statedName == "" {
			continue
		}
		if strings.Contains(statedName, candidateName) || strings.Contains(candidateName, statedName) {
			return &parsed[i], true
		}
	}

	return nil, false
}

// defaultInsight — детерминированное пояснение для кандидата без совпадения:
// сравнение цены считается точно, остальные поля — фиксированные строки.
func defaultInsight(candidate *ProductRecord, currentPrice int64) Insight {
	comparison := priceSimilar
	switch {
	case candidate.Price < currentPrice:
		comparison = priceLower
	case candidate.Price > currentPrice:
		comparison = priceHigher
	}

	return Insight{
		Reason:          defaultReason,
		PriceComparison: comparison,
		KeyDifferences:  defaultKeyDifferences,
		BestFor:         defaultBestFor,
	}
}

func toInsight(p *parsedInsight) Insight {
	return Insight{
		Reason:          p.Reason,
		PriceComparison: p.PriceComparison,
		KeyDifferences:  p.KeyDifferences,
		BestFor:         p.BestFor,
	}
}
