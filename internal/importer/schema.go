// Package importer loads provisioning files describing the organisation tree
// and the operations plans are raised against.
package importer

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ProvisioningFile is the top-level YAML structure. JSON files parse too,
// being valid YAML.
type ProvisioningFile struct {
	OrgUnits   []OrgUnitImport   `yaml:"org_units"`
	Operations []OperationImport `yaml:"operations,omitempty"`
}

// OrgUnitImport defines one unit. Parent may name a unit from the same file
// or one already stored.
type OrgUnitImport struct {
	ID           string `yaml:"id"`
	Designation  string `yaml:"designation"`
	Abbreviation string `yaml:"abbreviation"`
	Kind         string `yaml:"kind"`
	Parent       string `yaml:"parent,omitempty"`
	BudgetCode   string `yaml:"budget_code,omitempty"`
}

// OperationImport defines an operation and its participating orgs.
type OperationImport struct {
	ID           string              `yaml:"id,omitempty"`
	Name         string              `yaml:"name"`
	Owner        string              `yaml:"owner"`
	StartDate    string              `yaml:"start_date"`
	EndDate      string              `yaml:"end_date"`
	Headcount    int                 `yaml:"headcount,omitempty"`
	Participants []ParticipantImport `yaml:"participants,omitempty"`
}

// ParticipantImport is kept as text so the ceiling keeps its exact decimal value.
type ParticipantImport struct {
	Org     string `yaml:"org"`
	Ceiling string `yaml:"ceiling"`
}

// LoadProvisioning reads and parses a provisioning file.
func LoadProvisioning(path string) (*ProvisioningFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseProvisioning(data)
}

// ParseProvisioning parses provisioning YAML, rejecting unknown keys.
func ParseProvisioning(data []byte) (*ProvisioningFile, error) {
	var file ProvisioningFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing provisioning file: %w", err)
	}
	return &file, nil
}
