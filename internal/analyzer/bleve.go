package analyzer

import (
	"fmt"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/registry"

	"github.com/listenupapp/listenup-search/internal/analyzer/morphology"
	"github.com/listenupapp/listenup-search/internal/domain"
)

// AnalyzerType is the bleve analyzer type registered by this package. A
// custom analyzer of this type selects its chain with the "field" and
// "scheme" config keys.
const AnalyzerType = "listenup_field"

func init() {
	registry.RegisterAnalyzer(AnalyzerType, analyzerConstructor)
}

// MappingAnalyzerName is the name under which a field's analyzer is added to
// an index mapping.
func MappingAnalyzerName(field Field) string {
	return "field_" + field.Name()
}

// AnalyzerConfig is the custom analyzer definition for field.
func AnalyzerConfig(field Field, scheme domain.IndexScheme) map[string]interface{} {
	return map[string]interface{}{
		"type":   AnalyzerType,
		"field":  field.Name(),
		"scheme": string(scheme),
	}
}

func analyzerConstructor(config map[string]interface{}, cache *registry.Cache) (analysis.Analyzer, error) {
	code, _ := config["field"].(string)
	field, ok := FieldByName(code)
	if !ok {
		return nil, fmt.Errorf("analyzer %s: unknown field %q", AnalyzerType, code)
	}

	schemeName, _ := config["scheme"].(string)
	scheme, ok := domain.ParseIndexScheme(schemeName)
	if !ok {
		return nil, fmt.Errorf("analyzer %s: unknown index scheme %q", AnalyzerType, schemeName)
	}

	opts := Options{Scheme: scheme}
	if scheme != domain.SchemeWithoutJapanese && fieldTable[field].kind == kindPlain {
		k, err := morphology.Shared()
		if err != nil {
			return nil, fmt.Errorf("analyzer %s: load dictionary: %w", AnalyzerType, err)
		}
		opts.Morphology = k
	}
	return NewFactory(opts).Analyzer(field), nil
}
