package profile

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Dataset is the content of a profile file. JSON files are valid YAML and are
// read by the same parser.
type Dataset struct {
	Startups  []StartupProfile
	Investors []InvestorProfile
}

type rawDataset struct {
	Startups  []map[string]any `yaml:"startups"`
	Investors []map[string]any `yaml:"investors"`
}

// LoadFile reads a YAML or JSON file with top-level "startups" and/or
// "investors" lists.
func LoadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles file %q: %w", path, err)
	}

	ds, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("profiles file %q: %w", path, err)
	}
	return ds, nil
}

// Parse decodes a dataset strictly: any field that cannot be coerced fails
// the whole dataset with the offending record index.
func Parse(data []byte) (*Dataset, error) {
	var raw rawDataset
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}
	if len(raw.Startups) == 0 && len(raw.Investors) == 0 {
		return nil, errors.New("no startups or investors found")
	}

	ds := &Dataset{
		Startups:  make([]StartupProfile, 0, len(raw.Startups)),
		Investors: make([]InvestorProfile, 0, len(raw.Investors)),
	}

	for i, record := range raw.Startups {
		p, err := DecodeStartup(record)
		if err != nil {
			return nil, fmt.Errorf("startup #%d: %w", i, err)
		}
		if p.ID == "" {
			p.ID = fmt.Sprintf("startup-%d", i+1)
		}
		ds.Startups = append(ds.Startups, p)
	}

	for i, record := range raw.Investors {
		p, err := DecodeInvestor(record)
		if err != nil {
			return nil, fmt.Errorf("investor #%d: %w", i, err)
		}
		if p.ID == "" {
			p.ID = fmt.Sprintf("investor-%d", i+1)
		}
		ds.Investors = append(ds.Investors, p)
	}

	return ds, nil
}
