package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v2"
)

// File is the document form of a template file. TOML and YAML files hold a
// "templates" array; HCL files hold one labelled "template" block per
// template:
//
//	template "poster" {
//	  code        = "aab/aac"
//	  description = "Poster layout"
//	  category    = "complex"
//	}
type File struct {
	Templates []Template `toml:"templates" yaml:"templates"`
}

type hclFile struct {
	Templates []hclTemplate `hcl:"template,block"`
}

type hclTemplate struct {
	Name        string `hcl:"name,label"`
	Code        string `hcl:"code"`
	Description string `hcl:"description,optional"`
	Panels      int    `hcl:"panels,optional"`
	Size        string `hcl:"recommended_size,optional"`
	Category    string `hcl:"category,optional"`
	Use         string `hcl:"recommended_use,optional"`
}

// Extensions lists the file extensions LoadFile understands.
var Extensions = []string{".toml", ".yaml", ".yml", ".hcl"}

// ReadFile decodes the templates in path, chosen by extension.
func ReadFile(path string) ([]Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(path, data)
}

// Decode decodes templates from data. The format is chosen by the
// extension of filename.
func Decode(filename string, data []byte) ([]Template, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".toml":
		var f File
		if _, err := toml.Decode(string(data), &f); err != nil {
			return nil, fmt.Errorf("decode %s: %w", filename, err)
		}
		return f.Templates, nil
	case ".yaml", ".yml":
		var f File
		if err := yaml.UnmarshalStrict(data, &f); err != nil {
			return nil, fmt.Errorf("decode %s: %w", filename, err)
		}
		return f.Templates, nil
	case ".hcl":
		return decodeHCL(filename, data)
	default:
		return nil, fmt.Errorf("unsupported template file extension %q (want one of %s)", ext, strings.Join(Extensions, ", "))
	}
}

func decodeHCL(filename string, data []byte) ([]Template, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %s", filename, diags.Error())
	}

	var f hclFile
	diags = gohcl.DecodeBody(file.Body, nil, &f)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %s", filename, diags.Error())
	}

	out := make([]Template, 0, len(f.Templates))
	for _, t := range f.Templates {
		out = append(out, Template{
			Name:        t.Name,
			Code:        t.Code,
			Description: t.Description,
			Panels:      t.Panels,
			Size:        t.Size,
			Category:    t.Category,
			Use:         t.Use,
		})
	}
	return out, nil
}

// LoadFile adds every template in path to r and returns how many were
// added. The first invalid template aborts the load; templates before it
// stay added.
func (r *Registry) LoadFile(path string) (int, error) {
	ts, err := ReadFile(path)
	if err != nil {
		return 0, err
	}
	for i, t := range ts {
		if err := r.Add(t); err != nil {
			return i, fmt.Errorf("%s: %w", path, err)
		}
	}
	return len(ts), nil
}

// LoadDir loads every template file directly inside dir. Files with other
// extensions are ignored.
func (r *Registry) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, e := range entries {
		if e.IsDir() || !isTemplateFile(e.Name()) {
			continue
		}
		n, err := r.LoadFile(filepath.Join(dir, e.Name()))
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func isTemplateFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}
