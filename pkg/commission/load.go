package commission

import (
	"io"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/revenueops/crosscheck/pkg/errors"
)

// bookFile is the YAML document shape for a plan book.
type bookFile struct {
	Plans []Plan `json:"plans" yaml:"plans"`
}

// Load reads a plan book from YAML. The document carries a top-level plans
// list; each plan follows the Plan shape with absent fields left at zero.
func Load(r io.Reader) (*Book, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO("read", "plan book", err)
	}

	var file bookFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.WrapParse("yaml", "plan book", err)
	}
	if len(file.Plans) == 0 {
		return nil, &errors.ConfigError{
			Component: "commission",
			Message:   "plan book has no plans",
		}
	}

	book, err := NewBook(file.Plans...)
	if err != nil {
		return nil, errors.WrapConfig("commission", err)
	}
	return book, nil
}

// LoadFile reads a plan book from a YAML file on disk.
func LoadFile(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer f.Close()
	return Load(f)
}
