package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/runway/tender-boq/internal/model"
)

// LoadFile reads stored tenders from a JSON or YAML file. The document may be
// a single tender or a list of tenders. YAML is chosen by the .yaml or .yml
// extension; anything else is parsed as JSON.
func LoadFile(path string) ([]model.StoredTender, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "store: read %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, eris.Wrapf(err, "store: parse yaml %s", path)
		}
	}

	tenders, err := decodeTenders(data)
	if err != nil {
		return nil, eris.Wrapf(err, "store: parse %s", path)
	}
	for i := range tenders {
		if err := validateTender(&tenders[i]); err != nil {
			return nil, eris.Wrapf(err, "store: %s entry %d", path, i)
		}
	}
	return tenders, nil
}

func decodeTenders(data []byte) ([]model.StoredTender, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, eris.New("empty document")
	}
	if data[0] == '[' {
		var list []model.StoredTender
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, eris.Wrap(err, "unmarshal tender list")
		}
		return list, nil
	}
	var one model.StoredTender
	if err := json.Unmarshal(data, &one); err != nil {
		return nil, eris.Wrap(err, "unmarshal tender")
	}
	return []model.StoredTender{one}, nil
}

// yamlToJSON re-encodes a YAML document as JSON so the model's JSON decoding
// (including flexible scalar fields) applies to both formats.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}
