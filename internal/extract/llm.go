package extract

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/sells-group/specscout/internal/model"
	"github.com/sells-group/specscout/internal/specs"
)

// extractionSystem instructs LLM providers that don't enforce structured
// output to keep their answer machine-readable.
const extractionSystem = "You are an expert technical data extractor. Respond with valid JSON only, no prose and no code fences."

// productsPrompt asks for exactly the shape responseSchema validates. The
// filename placeholder nudges the model to echo it, but the caller's value is
// stamped regardless.
const productsPrompt = `You are an expert technical data extractor.
Analyze the following text from a product datasheet and extract ALL product specifications.

The text may contain multiple products. For EACH product found:
1. Identify the product name.
2. Extract every technical characteristic listed (Frequency, Gain, VSWR, Dimensions, Weight, Mass, Connector, etc.) as name/value pairs.
3. Ensure "Weight" or "Mass" is extracted if present.

Input text:
%s

Output JSON format:
{
    "products": [
        {
            "name": "Product Name",
            "file": %q,
            "characteristics": [
                {"name": "Frequency", "value": "2.4 GHz"},
                {"name": "Weight", "value": "50 g"}
            ]
        }
    ]
}`

// responseSchema rejects partially-shaped service responses at the boundary;
// nothing downstream ever sees unvalidated data.
const responseSchema = `{
    "type": "object",
    "required": ["products"],
    "properties": {
        "products": {
            "type": "array",
            "items": {
                "type": "object",
                "required": ["name", "characteristics"],
                "properties": {
                    "name": {"type": "string"},
                    "file": {"type": "string"},
                    "characteristics": {
                        "type": "array",
                        "items": {
                            "type": "object",
                            "required": ["name", "value"],
                            "properties": {
                                "name": {"type": "string"},
                                "value": {"type": "string"}
                            }
                        }
                    }
                }
            }
        }
    }
}`

var productListSchema = jsonschema.MustCompileString("products.json", responseSchema)

// Wire types for the service response. The persisted Characteristic shape is
// a single-pair object; the service speaks name/value fields instead.
type wireCharacteristic struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type wireProduct struct {
	Name            string               `json:"name"`
	File            string               `json:"file"`
	Characteristics []wireCharacteristic `json:"characteristics"`
}

type wireProductList struct {
	Products []wireProduct `json:"products"`
}

func buildPrompt(text, filename string, maxChars int) string {
	return fmt.Sprintf(productsPrompt, Truncate(text, maxChars), filename)
}

// parseProducts validates and decodes a service response. The filename given
// by the caller overrides whatever the service put in the file field. Weight
// resolution scans returned characteristics in order, first match wins; there
// is no raw-text fallback because the service already looked.
func parseProducts(raw, filename string) ([]Result, error) {
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, eris.Wrap(err, "extract: response is not valid JSON")
	}
	if err := productListSchema.Validate(value); err != nil {
		return nil, eris.Wrap(err, "extract: response does not match the expected shape")
	}

	var list wireProductList
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, eris.Wrap(err, "extract: decode response")
	}

	base := filepath.Base(filename)
	results := make([]Result, 0, len(list.Products))
	for _, p := range list.Products {
		chars := make([]model.Characteristic, 0, len(p.Characteristics))
		for _, c := range p.Characteristics {
			chars = append(chars, model.Characteristic{Name: c.Name, Value: c.Value})
		}

		res := Result{Product: model.Product{
			Name:            p.Name,
			File:            base,
			Characteristics: chars,
		}}
		if g, ok := specs.ResolveWeight(chars); ok {
			res.WeightGrams = &g
		}
		results = append(results, res)
	}
	return results, nil
}

// stripFences removes a markdown code fence when a model wrapped its JSON in
// one despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
