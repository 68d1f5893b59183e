package screening

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	schemaCandidate      = "candidate"
	schemaJob            = "job"
	schemaInterview      = "interview"
	schemaDashboardStats = "dashboard_stats"
)

var (
	schemaMu    sync.Mutex
	schemaCache = map[string]*gojsonschema.Schema{}
)

func loadSchema(name string) (*gojsonschema.Schema, error) {
	schemaMu.Lock()
	defer schemaMu.Unlock()
	if s, ok := schemaCache[name]; ok {
		return s, nil
	}
	b, err := schemaFS.ReadFile("schemas/" + name + ".json")
	if err != nil {
		return nil, err
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(b))
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	schemaCache[name] = s
	return s, nil
}

// validateDoc checks a single JSON document against the named schema.
func validateDoc(name string, doc []byte) error {
	s, err := loadSchema(name)
	if err != nil {
		return err
	}
	res, err := s.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidPayload, strings.Join(msgs, "; "))
}

// validateItems splits a JSON array into the items that match the schema
// and a count of the ones that were dropped.
func validateItems(name string, body []byte) ([]json.RawMessage, int, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, 0, fmt.Errorf("%w: expected array: %v", ErrInvalidPayload, err)
	}
	valid := make([]json.RawMessage, 0, len(items))
	dropped := 0
	for _, it := range items {
		if err := validateDoc(name, it); err != nil {
			dropped++
			continue
		}
		valid = append(valid, it)
	}
	return valid, dropped, nil
}
