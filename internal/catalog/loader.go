package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/studentgear/internal/models"
)

//go:embed data/catalog.yaml
var defaultCatalogYAML []byte

type catalogFile struct {
	Branches []branchSection `yaml:"branches"`
}

type branchSection struct {
	Code     string            `yaml:"code"`
	Name     string            `yaml:"name"`
	Products []*models.Product `yaml:"products,omitempty"`
}

// Default returns the built-in catalog.
func Default() (*Snapshot, error) {
	snap, err := ParseYAML(defaultCatalogYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse built-in catalog: %w", err)
	}
	return snap, nil
}

// LoadFile reads a catalog from a YAML (.yaml, .yml) or Excel (.xlsx) file.
func LoadFile(path string) (*Snapshot, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog: %w", err)
		}
		snap, err := ParseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return snap, nil
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported catalog format: %s (supported: .yaml, .yml, .xlsx)", path)
	}
}

// ParseYAML builds a snapshot from branch-partitioned YAML. Products inherit the
// code of the branch they are listed under unless they name one themselves.
func ParseYAML(data []byte) (*Snapshot, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	branches := make([]Branch, 0, len(f.Branches))
	var products []*models.Product
	for _, sec := range f.Branches {
		b := Branch{Code: sec.Code, Name: sec.Name}
		if b.Name == "" {
			b.Name = defaultBranchName(b.Code)
		}
		branches = append(branches, b)
		for _, p := range sec.Products {
			if p == nil {
				continue
			}
			if p.Branch == "" {
				p.Branch = sec.Code
			}
			products = append(products, p)
		}
	}
	if len(branches) == 0 {
		branches = DefaultBranches
	}
	return Build(branches, products)
}

// MarshalYAML renders the snapshot in the format ParseYAML reads.
func MarshalYAML(snap *Snapshot) ([]byte, error) {
	var f catalogFile
	for _, b := range snap.Branches() {
		sec := branchSection{Code: b.Code, Name: b.Name}
		for _, p := range snap.BranchProducts(b.Code) {
			c := p.Clone()
			c.Branch = ""
			sec.Products = append(sec.Products, c)
		}
		f.Branches = append(f.Branches, sec)
	}
	for _, p := range snap.Products() {
		if p.Branch == "" {
			if len(f.Branches) == 0 || f.Branches[len(f.Branches)-1].Code != "" {
				f.Branches = append(f.Branches, branchSection{})
			}
			last := &f.Branches[len(f.Branches)-1]
			last.Products = append(last.Products, p.Clone())
		}
	}
	return yaml.Marshal(&f)
}

// SaveYAML writes the snapshot to path, creating parent directories.
func SaveYAML(path string, snap *Snapshot) error {
	data, err := MarshalYAML(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func defaultBranchName(code string) string {
	for _, b := range DefaultBranches {
		if strings.EqualFold(b.Code, code) {
			return b.Name
		}
	}
	return strings.ToUpper(code)
}
