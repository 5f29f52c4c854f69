package model

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// ReportData is the structured payload of a scan.
//
// A nil field means the service did not send it; an empty, non-nil field
// means it sent an empty object. Renderers treat the two differently.
type ReportData struct {
	// ScanDetails holds findings grouped by vulnerability type, then by file.
	ScanDetails VulnerabilityDetails `json:"scanDetails,omitzero"`

	// Stats holds the percentage of the code base written in each language.
	Stats LanguageStats `json:"stats,omitzero"`
}

// FileFindings lists the instances of one vulnerability type in one file.
type FileFindings struct {
	Path      string
	Instances []string
}

// Vulnerability groups the affected files of one vulnerability type.
type Vulnerability struct {
	Type  string
	Files []FileFindings
}

// VulnerabilityDetails is the ordered form of
// {"<type>": {"<path>": ["<instance>", ...]}}.
type VulnerabilityDetails []Vulnerability

// LanguageStat is the share of one language in the scanned code base.
type LanguageStat struct {
	Language   string
	Percentage float64
}

// LanguageStats is the ordered form of {"<language>": <percentage>}.
type LanguageStats []LanguageStat

// UnmarshalJSONFrom decodes the nested object, keeping member order.
func (v *VulnerabilityDetails) UnmarshalJSONFrom(dec *jsontext.Decoder) error {
	if dec.PeekKind() == 'n' {
		if _, err := dec.ReadToken(); err != nil {
			return err
		}
		*v = nil
		return nil
	}

	out := VulnerabilityDetails{}
	err := readObject(dec, func(vulnType string) error {
		vuln := Vulnerability{Type: vulnType, Files: []FileFindings{}}
		err := readObject(dec, func(path string) error {
			instances, err := readInstances(dec)
			if err != nil {
				return fmt.Errorf("file %q: %w", path, err)
			}
			vuln.Files = append(vuln.Files, FileFindings{Path: path, Instances: instances})
			return nil
		})
		if err != nil {
			return fmt.Errorf("vulnerability %q: %w", vulnType, err)
		}
		out = append(out, vuln)
		return nil
	})
	if err != nil {
		return err
	}
	*v = out
	return nil
}

// MarshalJSONTo encodes the details back into nested objects in order.
func (v VulnerabilityDetails) MarshalJSONTo(enc *jsontext.Encoder) error {
	if v == nil {
		return enc.WriteToken(jsontext.Null)
	}
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	for _, vuln := range v {
		if err := enc.WriteToken(jsontext.String(vuln.Type)); err != nil {
			return err
		}
		if err := enc.WriteToken(jsontext.BeginObject); err != nil {
			return err
		}
		for _, f := range vuln.Files {
			if err := enc.WriteToken(jsontext.String(f.Path)); err != nil {
				return err
			}
			if err := json.MarshalEncode(enc, f.Instances); err != nil {
				return err
			}
		}
		if err := enc.WriteToken(jsontext.EndObject); err != nil {
			return err
		}
	}
	return enc.WriteToken(jsontext.EndObject)
}

// UnmarshalJSONFrom decodes the language object, keeping member order.
func (s *LanguageStats) UnmarshalJSONFrom(dec *jsontext.Decoder) error {
	if dec.PeekKind() == 'n' {
		if _, err := dec.ReadToken(); err != nil {
			return err
		}
		*s = nil
		return nil
	}

	out := LanguageStats{}
	err := readObject(dec, func(language string) error {
		var pct float64
		if err := json.UnmarshalDecode(dec, &pct); err != nil {
			return fmt.Errorf("language %q: %w", language, err)
		}
		out = append(out, LanguageStat{Language: language, Percentage: pct})
		return nil
	})
	if err != nil {
		return err
	}
	*s = out
	return nil
}

// MarshalJSONTo encodes the statistics back into an object in order.
func (s LanguageStats) MarshalJSONTo(enc *jsontext.Encoder) error {
	if s == nil {
		return enc.WriteToken(jsontext.Null)
	}
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	for _, stat := range s {
		if err := enc.WriteToken(jsontext.String(stat.Language)); err != nil {
			return err
		}
		if err := enc.WriteToken(jsontext.Float(stat.Percentage)); err != nil {
			return err
		}
	}
	return enc.WriteToken(jsontext.EndObject)
}

// readObject walks the members of a JSON object, calling member for each name.
// member must consume exactly one value from dec.
func readObject(dec *jsontext.Decoder, member func(name string) error) error {
	tok, err := dec.ReadToken()
	if err != nil {
		return err
	}
	if tok.Kind() != '{' {
		return fmt.Errorf("expected object, got %s", tok.Kind())
	}
	for dec.PeekKind() != '}' {
		nameTok, err := dec.ReadToken()
		if err != nil {
			return err
		}
		if err := member(nameTok.String()); err != nil {
			return err
		}
	}
	_, err = dec.ReadToken()
	return err
}

// readInstances decodes an array of instance descriptors.
// Non-string entries (line numbers, for example) keep their JSON text.
func readInstances(dec *jsontext.Decoder) ([]string, error) {
	if dec.PeekKind() == 'n' {
		_, err := dec.ReadToken()
		return nil, err
	}
	tok, err := dec.ReadToken()
	if err != nil {
		return nil, err
	}
	if tok.Kind() != '[' {
		return nil, fmt.Errorf("expected array of instances, got %s", tok.Kind())
	}

	instances := []string{}
	for dec.PeekKind() != ']' {
		val, err := dec.ReadValue()
		if err != nil {
			return nil, err
		}
		switch val.Kind() {
		case '"':
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				return nil, err
			}
			instances = append(instances, s)
		case 'n':
			instances = append(instances, "")
		default:
			instances = append(instances, string(val.Clone()))
		}
	}
	if _, err := dec.ReadToken(); err != nil {
		return nil, err
	}
	return instances, nil
}
