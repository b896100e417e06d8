package importer

import (
	"encoding/json"
	"fmt"
)

const normalizePrompt = `You are a senior data conversion specialist for global study-abroad data.
Convert the scraped content below into an accurate JSON array of universities with their departments and programs.

STRICT RULES:
1. Return ONLY a pure JSON array. No Markdown, no commentary. If a JSON object is required, wrap the array as {"universities": [...]}.
2. Extract as much as possible: university name in Chinese ("nameCN") and English ("nameEN"), QS ranking ("qsRanking", a number),
   country ("country"), location ("location"), departments ("departments", each with "name" and "programs"),
   program names in Chinese and English ("nameCN", "nameEN"), degree type ("degreeType": "Master" or "Bachelor"),
   duration ("duration"), tuition ("tuition"), and requirements ("requirements" with "ielts": {"total": ...} and "gpa").
3. Every university MUST include "nameCN" and a "departments" array.

Data to process:
%s`

// buildPrompt renders the fixed instruction followed by the serialized chunk
func buildPrompt(chunk []json.RawMessage) (string, error) {
	payload, err := json.Marshal(chunk)
	if err != nil {
		return "", fmt.Errorf("failed to serialize chunk: %w", err)
	}
	return fmt.Sprintf(normalizePrompt, payload), nil
}
